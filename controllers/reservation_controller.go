package controllers

import (
	"errors"
	"net/http"
	"time"

	"Gin_postgres_redis_club_tool/app"
	"Gin_postgres_redis_club_tool/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservationController struct{ *Srv }

func GetReservationController(s *Srv) *ReservationController {
	return &ReservationController{Srv: s}
}

// POST /api/reservations
func (rc *ReservationController) Create(c *gin.Context) {
	u, ok := app.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	var in struct {
		Date      string `json:"date" binding:"required"`
		StartTime string `json:"startTime" binding:"required"`
		EndTime   string `json:"endTime" binding:"required"`
		Purpose   string `json:"purpose" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	for _, t := range []string{in.StartTime, in.EndTime} {
		if _, err := time.Parse("15:04", t); err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": "times must be HH:MM"})
			return
		}
	}
	if in.EndTime <= in.StartTime {
		c.JSON(http.StatusBadRequest, app.H{"error": "end time must be after start time"})
		return
	}

	res := &models.Reservation{
		ID:              uuid.NewString(),
		UserID:          u.ID,
		RequestedBy:     u.Email,
		RequestedByName: u.DisplayName(),
		Date:            in.Date,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		Purpose:         in.Purpose,
		Status:          models.ReservationPending,
	}
	if err := rc.Repo.CreateReservation(c.Request.Context(), res); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GET /api/reservations/mine
func (rc *ReservationController) ListMine(c *gin.Context) {
	u, ok := app.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	rs, err := rc.Repo.ListReservations(c.Request.Context(), u.ID, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"reservations": rs})
}

// GET /api/reservations  (admin; ?status=pending|approved|denied)
func (rc *ReservationController) ListAll(c *gin.Context) {
	rs, err := rc.Repo.ListReservations(c.Request.Context(), "", c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"reservations": rs})
}

// POST /api/reservations/:id/decide  (admin)
func (rc *ReservationController) Decide(c *gin.Context) {
	u, ok := app.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	var in struct {
		Approve *bool `json:"approve" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	status := models.ReservationDenied
	if *in.Approve {
		status = models.ReservationApproved
	}
	if err := rc.Repo.DecideReservation(c.Request.Context(), c.Param("id"), status, u.Email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "no pending reservation with that id"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "status": status})
}

// DELETE /api/reservations/:id — requester or admin
func (rc *ReservationController) Cancel(c *gin.Context) {
	u, ok := app.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	res, err := rc.Repo.FindReservationByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "reservation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if res.UserID != u.ID && !u.IsAdmin {
		c.JSON(http.StatusForbidden, app.H{"error": "only the requester can cancel this reservation"})
		return
	}
	if err := rc.Repo.DeleteReservation(c.Request.Context(), res.ID); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
