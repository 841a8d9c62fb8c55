package db

import (
	"Gin_postgres_redis_club_tool/lending"
	"Gin_postgres_redis_club_tool/models"
	"context"
	"time"

	"gorm.io/gorm"
)

// ItemStore adapts the equipment table to the lending engine's view.
type ItemStore struct{ *Repo }

func (s ItemStore) List(ctx context.Context) ([]lending.Item, error) {
	rows, err := s.ListEquipment(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]lending.Item, 0, len(rows))
	for _, e := range rows {
		it := lending.Item{ID: e.ID, Code: e.Code, Name: e.Name, Status: e.Status}
		if e.CheckedOutBy != nil {
			it.CheckedOutBy = *e.CheckedOutBy
		}
		items = append(items, it)
	}
	return items, nil
}

// Update applies one field-level partial write. The lending.RemoveField
// sentinel becomes SQL NULL, which is distinct from the empty string. There
// is deliberately no status guard and no row lock here: concurrent checkouts
// race last-write-wins, exactly as the checkout flow documents.
func (s ItemStore) Update(ctx context.Context, id string, changes lending.Changes) error {
	updates := make(map[string]any, len(changes)+1)
	for col, v := range changes {
		if v == lending.RemoveField {
			updates[col] = gorm.Expr("NULL")
			continue
		}
		updates[col] = v
	}
	updates["updated_at"] = time.Now().UTC()

	res := s.DB.WithContext(ctx).Model(&models.Equipment{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	s.notify(ctx)
	return nil
}

// LogStore adapts the audit table to the engine's append-only contract.
type LogStore struct{ *Repo }

func (s LogStore) Append(ctx context.Context, e lending.Entry) error {
	return s.AppendEquipmentLog(ctx, &models.EquipmentLog{
		EquipmentID:   e.EquipmentID,
		EquipmentName: e.EquipmentName,
		Action:        e.Action,
		UserID:        e.UserID,
		UserName:      e.UserName,
		UserEmail:     e.UserEmail,
		Description:   e.Description,
		Issues:        e.Issues,
		Timestamp:     e.Timestamp,
	})
}
