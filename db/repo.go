package db

import (
	"Gin_postgres_redis_club_tool/models"
	"context"

	"gorm.io/gorm"
)

type Repo struct {
	DB *gorm.DB
	// Notify, when set, is called after every equipment write so subscribed
	// clients can re-fetch. Best-effort; must not block.
	Notify func(ctx context.Context)
}

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

func (r *Repo) notify(ctx context.Context) {
	if r.Notify != nil {
		r.Notify(ctx)
	}
}

// Users

func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *Repo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) FindUserBySchoolID(ctx context.Context, schoolID string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("school_id = ?", schoolID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) TouchUserLogin(ctx context.Context, userID, ip, ua string) error {
	// database time, concurrency-safe counter bump
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login_at": gorm.Expr("NOW()"),
			"last_seen_at":  gorm.Expr("NOW()"),
			"login_count":   gorm.Expr("COALESCE(login_count, 0) + 1"),
			"last_login_ip": ip,
			"last_login_ua": ua,
		}).Error
}

func (r *Repo) TouchUserSeen(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_seen_at", gorm.Expr("NOW()")).Error
}

func (r *Repo) SetQuizPassed(ctx context.Context, userID string, passed bool) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("quiz_passed", passed).Error
}

func (r *Repo) SetEmailVerified(ctx context.Context, email string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Update("email_verified", true).Error
}

func (r *Repo) SetAdmin(ctx context.Context, userID string, isAdmin bool) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_admin", isAdmin).Error
}
