package db

import (
	"Gin_postgres_redis_club_tool/models"
	"context"
	"time"

	"gorm.io/gorm"
)

// Room reservations

func (r *Repo) CreateReservation(ctx context.Context, res *models.Reservation) error {
	return r.DB.WithContext(ctx).Create(res).Error
}

func (r *Repo) FindReservationByID(ctx context.Context, id string) (*models.Reservation, error) {
	var res models.Reservation
	if err := r.DB.WithContext(ctx).First(&res, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

// ListReservations filters by requester and/or status; empty filters list
// everything, upcoming first.
func (r *Repo) ListReservations(ctx context.Context, userID, status string) ([]models.Reservation, error) {
	tx := r.DB.WithContext(ctx).Model(&models.Reservation{})
	if userID != "" {
		tx = tx.Where("user_id = ?", userID)
	}
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	var rs []models.Reservation
	err := tx.Order("date ASC, start_time ASC").Find(&rs).Error
	return rs, err
}

// DecideReservation approves or denies a pending request. Decisions on an
// already-decided request are rejected by the WHERE guard.
func (r *Repo) DecideReservation(ctx context.Context, id, status, decidedBy string) error {
	now := time.Now().UTC()
	res := r.DB.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ? AND status = ?", id, models.ReservationPending).
		Updates(map[string]any{
			"status":     status,
			"decided_by": decidedBy,
			"decided_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repo) DeleteReservation(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Delete(&models.Reservation{}, "id = ?", id).Error
}
