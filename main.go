package main

import (
	"Gin_postgres_redis_club_tool/app"
	"Gin_postgres_redis_club_tool/config"
	"Gin_postgres_redis_club_tool/db"
	"Gin_postgres_redis_club_tool/routes"
	"context"
	"log"
	"os"
)

func main() {
	config.LoadEnv()

	application := app.MustNew()
	defer application.Close()

	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	app.PromoteAdmins(context.Background(), application.Config, db.NewRepo(application.DB))

	routes.RegisterRoutes(r, application)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	log.Printf("listening on :%s", port)
	_ = r.Run(":" + port)
}
