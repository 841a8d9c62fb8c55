package db

import (
	"Gin_postgres_redis_club_tool/models"
	"context"

	"gorm.io/gorm"
)

// Artist roster

func (r *Repo) CreateArtist(ctx context.Context, a *models.Artist) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *Repo) FindArtistByID(ctx context.Context, id string) (*models.Artist, error) {
	var a models.Artist
	if err := r.DB.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repo) ListArtists(ctx context.Context) ([]models.Artist, error) {
	var as []models.Artist
	err := r.DB.WithContext(ctx).Order("name ASC").Find(&as).Error
	return as, err
}

func (r *Repo) UpdateArtist(ctx context.Context, id string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.DB.WithContext(ctx).Model(&models.Artist{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repo) DeleteArtist(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Delete(&models.Artist{}, "id = ?", id).Error
}
