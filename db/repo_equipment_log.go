package db

import (
	"Gin_postgres_redis_club_tool/models"
	"context"
	"fmt"
)

func (r *Repo) AppendEquipmentLog(ctx context.Context, e *models.EquipmentLog) error {
	if err := r.DB.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("insert equipment log: %w", err)
	}
	return nil
}

type LogQuery struct {
	EquipmentID string
	UserEmail   string
	Action      string // "", "checkout", "return"
	Page        int
	Size        int
}

type PagedLogs struct {
	Total   int64                 `json:"total"`
	Entries []models.EquipmentLog `json:"entries"`
}

func (r *Repo) ListEquipmentLogs(ctx context.Context, q LogQuery) (*PagedLogs, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 200 {
		q.Size = 50
	}

	tx := r.DB.WithContext(ctx).Model(&models.EquipmentLog{})
	if q.EquipmentID != "" {
		tx = tx.Where("equipment_id = ?", q.EquipmentID)
	}
	if q.UserEmail != "" {
		tx = tx.Where("user_email = ?", q.UserEmail)
	}
	if q.Action != "" {
		tx = tx.Where("action = ?", q.Action)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var entries []models.EquipmentLog
	if err := tx.
		Order("timestamp DESC").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return &PagedLogs{Total: total, Entries: entries}, nil
}
