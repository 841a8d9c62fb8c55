// controllers/equipment_controller.go
package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"Gin_postgres_redis_club_tool/app"
	"Gin_postgres_redis_club_tool/db"
	"Gin_postgres_redis_club_tool/lending"
	"Gin_postgres_redis_club_tool/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EquipmentController struct{ *Srv }

func GetEquipmentController(s *Srv) *EquipmentController { return &EquipmentController{Srv: s} }

// GET /api/equipment
func (ec *EquipmentController) List(c *gin.Context) {
	items, err := ec.Repo.ListEquipment(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

// POST /api/equipment  (admin)
// Without an explicit code the next one for the category prefix is computed
// by scanning existing codes.
func (ec *EquipmentController) Create(c *gin.Context) {
	var in struct {
		Code        string   `json:"code"`
		CodePrefix  string   `json:"codePrefix"`
		Name        string   `json:"name" binding:"required"`
		Category    string   `json:"category" binding:"required"`
		Location    string   `json:"location"`
		Description string   `json:"description"`
		LabelType   string   `json:"labelType"`
		Condition   string   `json:"condition"`
		Value       *float64 `json:"value"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" {
		prefix := strings.TrimSpace(in.CodePrefix)
		if prefix == "" {
			c.JSON(http.StatusBadRequest, app.H{"error": "either code or codePrefix is required"})
			return
		}
		codes, err := ec.Repo.EquipmentCodes(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
			return
		}
		code = lending.NextCode(prefix, codes)
	}

	cond := in.Condition
	if cond == "" {
		cond = models.ConditionGood
	}
	if !models.ValidCondition(cond) {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid condition"})
		return
	}

	e := &models.Equipment{
		ID:          uuid.NewString(),
		Code:        code,
		Name:        in.Name,
		Category:    in.Category,
		Location:    in.Location,
		Description: in.Description,
		LabelType:   in.LabelType,
		Condition:   cond,
		Value:       in.Value,
		Status:      lending.StatusAvailable,
	}
	if err := ec.Repo.CreateEquipment(c.Request.Context(), e); err != nil {
		// unique index on code: a concurrent add may have taken the same one
		c.JSON(http.StatusConflict, app.H{"error": "code already in use, try again"})
		return
	}
	c.JSON(http.StatusCreated, e)
}

// PUT /api/equipment/:id  (admin)
// Metadata edits only; status may be set to Available or Missing here, never
// Checked Out — that transition belongs to the checkout flow.
func (ec *EquipmentController) Update(c *gin.Context) {
	id := c.Param("id")
	var in struct {
		Name        *string  `json:"name"`
		Category    *string  `json:"category"`
		Location    *string  `json:"location"`
		Description *string  `json:"description"`
		LabelType   *string  `json:"labelType"`
		Condition   *string  `json:"condition"`
		Value       *float64 `json:"value"`
		Status      *string  `json:"status"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Category != nil {
		updates["category"] = *in.Category
	}
	if in.Location != nil {
		updates["location"] = *in.Location
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.LabelType != nil {
		updates["label_type"] = *in.LabelType
	}
	if in.Condition != nil {
		if !models.ValidCondition(*in.Condition) {
			c.JSON(http.StatusBadRequest, app.H{"error": "invalid condition"})
			return
		}
		updates["condition"] = *in.Condition
	}
	if in.Value != nil {
		updates["value"] = *in.Value
	}
	if in.Status != nil {
		if *in.Status != lending.StatusAvailable && *in.Status != lending.StatusMissing {
			c.JSON(http.StatusBadRequest, app.H{"error": "status can only be set to Available or Missing here"})
			return
		}
		updates["status"] = *in.Status
	}

	if err := ec.Repo.UpdateEquipmentMeta(c.Request.Context(), id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	item, err := ec.Repo.FindEquipmentByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

// DELETE /api/equipment/:id  (admin)
// Permanent. No soft delete, no undo, no log entry.
func (ec *EquipmentController) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := ec.Repo.DeleteEquipment(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// POST /api/equipment/checkout
func (ec *EquipmentController) Checkout(c *gin.Context) {
	u, ok := app.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	var in struct {
		ItemIDs  []string `json:"itemIds" binding:"required"`
		Purpose  string   `json:"purpose"`
		DueDate  string   `json:"dueDate"`
		LongTerm bool     `json:"longTerm"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	err := ec.Engine.Checkout(c.Request.Context(), lendingSession(u), lending.CheckoutRequest{
		ItemIDs:        in.ItemIDs,
		Purpose:        in.Purpose,
		DueDate:        in.DueDate,
		RequireDueDate: in.LongTerm,
	})
	if err != nil {
		c.JSON(lendingStatus(err), app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// POST /api/equipment/return
func (ec *EquipmentController) Return(c *gin.Context) {
	u, ok := app.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	var in struct {
		ItemIDs []string `json:"itemIds" binding:"required"`
		Issues  string   `json:"issues"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	err := ec.Engine.Return(c.Request.Context(), lendingSession(u), lending.ReturnRequest{
		ItemIDs: in.ItemIDs,
		Issues:  in.Issues,
	})
	if err != nil {
		c.JSON(lendingStatus(err), app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/equipment/logs  (admin; ?equipmentId=&userEmail=&action=&page=&size=)
func (ec *EquipmentController) ListLogs(c *gin.Context) {
	q := db.LogQuery{
		EquipmentID: c.Query("equipmentId"),
		UserEmail:   c.Query("userEmail"),
		Action:      c.Query("action"),
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Size, _ = strconv.Atoi(c.DefaultQuery("size", "50"))

	res, err := ec.Repo.ListEquipmentLogs(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/equipment/logs/mine
func (ec *EquipmentController) MyLogs(c *gin.Context) {
	u, ok := app.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))

	res, err := ec.Repo.ListEquipmentLogs(c.Request.Context(), db.LogQuery{
		UserEmail: u.Email, Page: page, Size: size,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/equipment/:id/logs
func (ec *EquipmentController) ItemLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))

	res, err := ec.Repo.ListEquipmentLogs(c.Request.Context(), db.LogQuery{
		EquipmentID: c.Param("id"), Page: page, Size: size,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/equipment/stream
// SSE relay of the Redis change channel; clients re-fetch the list on any
// event so every open page tracks remote changes.
func (ec *EquipmentController) Stream(c *gin.Context) {
	sub := ec.RDB.Subscribe(c.Request.Context(), app.EquipmentChannel)
	defer sub.Close()
	ch := sub.Channel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("change", msg.Payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// lendingStatus maps engine errors onto HTTP statuses: precondition failures
// are 4xx with the engine's user-facing message, store failures are 500.
func lendingStatus(err error) int {
	switch {
	case errors.Is(err, lending.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, lending.ErrQuizRequired):
		return http.StatusForbidden
	case errors.Is(err, lending.ErrUnavailableSelected),
		errors.Is(err, lending.ErrNotYourCheckout):
		return http.StatusConflict
	case errors.Is(err, lending.ErrWriteFailed):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
