package httpapi

import (
	"net/http"

	userPort "unifollow/internal/ports/user"

	"github.com/gin-gonic/gin"
)

type UserController struct{ uc UserUseCase }

func NewUserController(uc UserUseCase) *UserController { return &UserController{uc: uc} }

func (ctl *UserController) CreateUser(c *gin.Context) {
	var req userPort.CreateUserDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	// هر کاربر فقط پروفایل خودش را می‌سازد؛ admin محدودیتی ندارد
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	if req.ID != userID && c.GetString("userRole") != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot create a profile for another user"})
		return
	}

	u, err := ctl.uc.CreateProfile(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "could not create user")
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (ctl *UserController) GetUser(c *gin.Context) {
	u, err := ctl.uc.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "could not get user")
		return
	}
	c.JSON(http.StatusOK, u)
}
