package user

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"slices"
)

// IDSet لیست شناسه‌ها با معنای مجموعه (بدون تکرار، با حفظ ترتیب درج)
// که در MySQL و SQLite به صورت JSON ذخیره می‌شود
type IDSet []string

// Contains آیا id در مجموعه هست
func (s IDSet) Contains(id string) bool {
	return slices.Contains(s, id)
}

// Add اضافه کردن id؛ اگر از قبل بوده false برمی‌گرداند
func (s *IDSet) Add(id string) bool {
	if s.Contains(id) {
		return false
	}
	*s = append(*s, id)
	return true
}

// Remove حذف id؛ اگر نبوده false برمی‌گرداند
func (s *IDSet) Remove(id string) bool {
	i := slices.Index(*s, id)
	if i < 0 {
		return false
	}
	*s = slices.Delete(*s, i, i+1)
	return true
}

func (s IDSet) Len() int64 {
	return int64(len(s))
}

// Intersect تعداد اعضای مشترک دو مجموعه
func (s IDSet) Intersect(other IDSet) int64 {
	var n int64
	for _, id := range s {
		if other.Contains(id) {
			n++
		}
	}
	return n
}

// Scan پیاده‌سازی sql.Scanner
func (s *IDSet) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*s = IDSet{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("IDSet: unsupported scan type")
	}

	if len(data) == 0 {
		*s = IDSet{}
		return nil
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}

	// داده‌ی قدیمی ممکن است تکراری داشته باشد
	set := make(IDSet, 0, len(ids))
	for _, id := range ids {
		set.Add(id)
	}
	*s = set
	return nil
}

// Value پیاده‌سازی driver.Valuer
func (s IDSet) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// GormDataType نوع ستون برای GORM
func (IDSet) GormDataType() string {
	return "text"
}
