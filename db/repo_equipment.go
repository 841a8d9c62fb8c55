package db

import (
	"Gin_postgres_redis_club_tool/models"
	"context"
	"time"

	"gorm.io/gorm"
)

// Equipment directory

func (r *Repo) CreateEquipment(ctx context.Context, e *models.Equipment) error {
	if err := r.DB.WithContext(ctx).Create(e).Error; err != nil {
		return err
	}
	r.notify(ctx)
	return nil
}

func (r *Repo) FindEquipmentByID(ctx context.Context, id string) (*models.Equipment, error) {
	var e models.Equipment
	if err := r.DB.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repo) ListEquipment(ctx context.Context) ([]models.Equipment, error) {
	var items []models.Equipment
	err := r.DB.WithContext(ctx).Order("code ASC").Find(&items).Error
	return items, err
}

// EquipmentCodes returns every code in the directory, for next-code
// generation.
func (r *Repo) EquipmentCodes(ctx context.Context) ([]string, error) {
	var codes []string
	err := r.DB.WithContext(ctx).Model(&models.Equipment{}).Pluck("code", &codes).Error
	return codes, err
}

// UpdateEquipmentMeta applies an admin metadata edit (name, location,
// condition, marking Missing, ...). Checkout transitions go through the
// lending engine instead.
func (r *Repo) UpdateEquipmentMeta(ctx context.Context, id string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now().UTC()
	res := r.DB.WithContext(ctx).Model(&models.Equipment{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.notify(ctx)
	return nil
}

// DeleteEquipment permanently removes an item. Destructive and irreversible:
// no soft delete, no log entry.
func (r *Repo) DeleteEquipment(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&models.Equipment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.notify(ctx)
	return nil
}
