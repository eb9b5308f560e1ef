package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLMap(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	m := NewTTLMap[string, int](time.Minute).WithClock(clock)

	t.Run("basic set and get", func(t *testing.T) {
		m.Set("test1", 123)
		value, exists := m.Get("test1")
		assert.True(t, exists)
		assert.Equal(t, 123, value)
	})

	t.Run("expiration", func(t *testing.T) {
		m.Set("test2", 456)
		now = now.Add(2 * time.Minute)
		_, exists := m.Get("test2")
		assert.False(t, exists)
	})

	t.Run("delete", func(t *testing.T) {
		m.Set("test3", 789)
		m.Delete("test3")
		_, exists := m.Get("test3")
		assert.False(t, exists)
	})

	t.Run("non-existent key", func(t *testing.T) {
		_, exists := m.Get("nonexistent")
		assert.False(t, exists)
	})

	t.Run("update existing key", func(t *testing.T) {
		m.Set("test4", 111)
		m.Set("test4", 222)
		value, exists := m.Get("test4")
		assert.True(t, exists)
		assert.Equal(t, 222, value)
	})

	t.Run("clear", func(t *testing.T) {
		m.Set("test5", 1)
		m.Clear()
		assert.Equal(t, 0, m.Len())
	})
}
