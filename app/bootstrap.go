package app

import (
	"context"
	"log"

	"Gin_postgres_redis_club_tool/db"
)

// PromoteAdmins flips the admin flag on any already-registered account whose
// email is listed in ADMIN_EMAILS. Accounts that register later still get
// admin at request time via the middleware check.
func PromoteAdmins(ctx context.Context, cfg Config, repo *db.Repo) {
	for _, email := range cfg.AdminEmails {
		u, err := repo.FindUserByEmail(ctx, email)
		if err != nil {
			continue
		}
		if u.IsAdmin {
			continue
		}
		if err := repo.SetAdmin(ctx, u.ID, true); err != nil {
			log.Printf("bootstrap: promote %s: %v", email, err)
			continue
		}
		log.Printf("[BOOTSTRAP] promoted %s to admin", email)
	}
}
