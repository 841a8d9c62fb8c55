package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"Gin_postgres_redis_club_tool/app"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserController is the admin-facing membership management surface.
type UserController struct{ *Srv }

func GetUserController(s *Srv) *UserController { return &UserController{Srv: s} }

// GET /api/users?q=alice&page=1&size=20
func (uc *UserController) ListUsers(c *gin.Context) {
	q := c.Query("q")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := uc.Repo.ListUsers(c.Request.Context(), q, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{
		"total": res.Total,
		"users": res.Users,
	})
}

// GET /api/users/:id
func (uc *UserController) GetUser(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid uuid"})
		return
	}
	user, err := uc.Repo.FindUserByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, app.H{"user": user})
}

// PUT /api/users/:id/admin
func (uc *UserController) SetAdmin(c *gin.Context) {
	id := c.Param("id")
	var in struct {
		IsAdmin *bool `json:"isAdmin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	// an admin cannot demote themself; avoids locking everyone out
	if v, ok := c.Get(app.CtxUserID); ok {
		if uid, _ := v.(string); uid == id && !*in.IsAdmin {
			c.JSON(http.StatusBadRequest, app.H{"error": "cannot remove your own admin flag"})
			return
		}
	}
	if err := uc.Repo.SetAdmin(c.Request.Context(), id, *in.IsAdmin); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// DELETE /api/users/:id
func (uc *UserController) DeleteUser(c *gin.Context) {
	id := c.Param("id")

	if v, ok := c.Get(app.CtxUserID); ok {
		if uid, _ := v.(string); uid == id {
			c.JSON(http.StatusBadRequest, app.H{"error": "cannot delete yourself"})
			return
		}
	}

	target, err := uc.Repo.FindUserByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "user not found"})
		return
	}
	email := strings.ToLower(target.Email)
	for _, admin := range uc.Cfg.AdminEmails {
		if email == admin {
			c.JSON(http.StatusForbidden, app.H{"error": "cannot delete an admin"})
			return
		}
	}
	if target.IsAdmin {
		c.JSON(http.StatusForbidden, app.H{"error": "cannot delete an admin"})
		return
	}

	if err := uc.Repo.DeleteUserByID(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	// revoke every live session of the deleted account
	_ = uc.AppSess.RevokeAllForUser(c.Request.Context(), id)
	c.JSON(http.StatusOK, app.H{"ok": true})
}
