// controllers/srv.go
package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"Gin_postgres_redis_club_tool/app"
	"Gin_postgres_redis_club_tool/db"
	"Gin_postgres_redis_club_tool/lending"
	"Gin_postgres_redis_club_tool/mail"
	"Gin_postgres_redis_club_tool/models"
	"Gin_postgres_redis_club_tool/session"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Srv struct {
	Repo      *db.Repo
	AppSess   *session.AppSessionStore
	Tokens    *session.TokenStore
	Mailer    *mail.Mailer
	Engine    *lending.Engine
	RDB       *redis.Client
	WebOrigin string
	Cfg       app.Config
}

func GetSrv(a *app.App) *Srv {
	repo := db.NewRepo(a.DB)
	repo.Notify = func(ctx context.Context) {
		// fan out to the SSE stream; payload content is irrelevant, clients
		// re-fetch on any message
		_ = a.RDB.Publish(ctx, app.EquipmentChannel, "changed").Err()
	}
	engine := lending.NewEngine(db.ItemStore{Repo: repo}, db.LogStore{Repo: repo})
	return &Srv{
		Repo:      repo,
		AppSess:   a.AppSessions(),
		Tokens:    session.NewTokenStore(a.RDB, a.Config.VerifyTTL),
		Mailer:    mail.New(a.Config.SMTPHost, a.Config.SMTPPort, a.Config.SMTPFrom, a.Config.SMTPPassword),
		Engine:    engine,
		RDB:       a.RDB,
		WebOrigin: a.Config.WebOrigin,
		Cfg:       a.Config,
	}
}

// --- helpers ---

func (s *Srv) setAppCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration) {
	secure := strings.HasPrefix(s.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   int(maxAge / time.Second),
	})
}

// issueSession creates the Redis session, sets the cookie and records the
// login snapshot.
func (s *Srv) issueSession(ctx context.Context, w http.ResponseWriter, userID, ip, ua string) error {
	_ = s.Repo.TouchUserLogin(ctx, userID, ip, ua) // non-blocking bookkeeping
	id := uuid.NewString()
	if err := s.AppSess.Create(ctx, id, userID); err != nil {
		return err
	}
	s.setAppCookie(w, id, s.Cfg.SessionTTL)
	return nil
}

// lendingSession is the explicit identity handed to the engine; the engine
// never reads gin context or any other ambient state.
func lendingSession(u *models.User) lending.Session {
	return lending.Session{
		UserID:        u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		IsAdmin:       u.IsAdmin,
		QuizPassed:    u.QuizPassed,
		EmailVerified: u.EmailVerified,
	}
}
