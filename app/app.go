package app

import (
	"Gin_postgres_redis_club_tool/db"
	"Gin_postgres_redis_club_tool/session"
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// aliases for handlers
type Ctx = gin.Context
type H = gin.H

// EquipmentChannel is the Redis pub/sub channel every equipment write is
// announced on; the SSE stream relays it to subscribed clients.
const EquipmentChannel = "club:equipment:changed"

// App aggregates the shared dependencies.
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Config Config

	appSess *session.AppSessionStore
}

// Config is read from the environment.
type Config struct {
	RedisAddr    string
	RedisPwd     string
	WebOrigin    string
	SessionTTL   time.Duration
	AdminEmails  []string
	EmailDomains []string // approved institutional domains; first is the default for schoolId -> email mapping
	VerifySecret []byte
	VerifyTTL    time.Duration
	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPPassword string
}

func (a *App) AppSessions() *session.AppSessionStore { return a.appSess }

func MustNew() *App {
	cfg := loadConfig()

	dbConn := db.ConnectDB()

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}

	// --- Gin ---
	r := gin.Default()
	useCORS(r, cfg.WebOrigin)
	a := &App{
		Router: r, DB: dbConn, RDB: rdb, Config: cfg,
		appSess: session.NewAppSessionStore(rdb, cfg.SessionTTL),
	}
	return a
}

func (a *App) Close() { _ = a.RDB.Close() }

func loadConfig() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}
	splitCSV := func(csv string) []string {
		var out []string
		for _, s := range strings.Split(csv, ",") {
			if t := strings.TrimSpace(s); t != "" {
				out = append(out, strings.ToLower(t))
			}
		}
		return out
	}

	ttl := 24 * time.Hour
	if d, err := time.ParseDuration(get("SESSION_TTL_SECONDS", "86400") + "s"); err == nil {
		ttl = d
	}
	verifyTTL := 24 * time.Hour
	if d, err := time.ParseDuration(get("VERIFY_TTL_SECONDS", "86400") + "s"); err == nil {
		verifyTTL = d
	}

	domains := splitCSV(get("EMAIL_DOMAINS", "example.edu"))

	return Config{
		RedisAddr:    get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:     os.Getenv("REDIS_PASSWORD"),
		WebOrigin:    get("WEB_ORIGIN", "http://localhost:3000"),
		SessionTTL:   ttl,
		AdminEmails:  splitCSV(os.Getenv("ADMIN_EMAILS")),
		EmailDomains: domains,
		VerifySecret: []byte(get("VERIFY_SECRET", "dev-only-secret")),
		VerifyTTL:    verifyTTL,
		SMTPHost:     get("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     get("SMTP_PORT", "587"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
	}
}
