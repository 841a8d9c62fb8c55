package routes

import (
	"Gin_postgres_redis_club_tool/app"
	"Gin_postgres_redis_club_tool/controllers"
	"time"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	authCtl := controllers.GetAuthController(s)
	quizCtl := controllers.GetQuizController(s)
	equipCtl := controllers.GetEquipmentController(s)
	artistCtl := controllers.GetArtistController(s)
	resCtl := controllers.GetReservationController(s)
	userCtl := controllers.GetUserController(s)

	authMW := app.AuthRequired(s.AppSess, s.Repo, a.Config)
	adminMW := app.AdminOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// Identity (public + protected)
	// ------------------------------
	authGrp := r.Group("/api/auth")
	{
		authGrp.POST("/register", authCtl.Register)
		authGrp.GET("/verify", authCtl.Verify)
		authGrp.POST("/resend", authCtl.ResendVerification)
		authGrp.POST("/login", authCtl.Login)
	}
	authed := r.Group("/api/auth", authMW, seenMW)
	{
		authed.GET("/whoami", authCtl.Whoami)
		authed.POST("/logout", authCtl.Logout)
	}

	// ------------------------------
	// Membership quiz
	// ------------------------------
	quizGrp := r.Group("/api/quiz", authMW, seenMW)
	{
		quizGrp.GET("", quizCtl.Questions)
		quizGrp.POST("/submit", quizCtl.Submit)
	}

	// ------------------------------
	// Equipment: directory, checkout/return, audit log, live feed
	// ------------------------------
	equip := r.Group("/api/equipment", authMW, seenMW)
	{
		equip.GET("", equipCtl.List)
		equip.GET("/stream", equipCtl.Stream)
		equip.POST("/checkout", equipCtl.Checkout)
		equip.POST("/return", equipCtl.Return)
		equip.GET("/logs/mine", equipCtl.MyLogs)
		equip.GET("/:id/logs", equipCtl.ItemLogs)
	}
	equipAdmin := r.Group("/api/equipment", authMW, adminMW)
	{
		equipAdmin.POST("", equipCtl.Create)
		equipAdmin.PUT("/:id", equipCtl.Update)
		equipAdmin.DELETE("/:id", equipCtl.Delete)
		equipAdmin.GET("/logs", equipCtl.ListLogs)
	}

	// ------------------------------
	// Artist roster
	// ------------------------------
	artists := r.Group("/api/artists", authMW, seenMW)
	{
		artists.GET("", artistCtl.List)
		artists.POST("", artistCtl.Create)
		artists.PUT("/:id", artistCtl.Update)
		artists.DELETE("/:id", artistCtl.Delete)
	}

	// ------------------------------
	// Room reservations
	// ------------------------------
	reservations := r.Group("/api/reservations", authMW, seenMW)
	{
		reservations.POST("", resCtl.Create)
		reservations.GET("/mine", resCtl.ListMine)
		reservations.DELETE("/:id", resCtl.Cancel)
	}
	reservationsAdmin := r.Group("/api/reservations", authMW, adminMW)
	{
		reservationsAdmin.GET("", resCtl.ListAll)
		reservationsAdmin.POST("/:id/decide", resCtl.Decide)
	}

	// ------------------------------
	// Membership management (admin)
	// ------------------------------
	users := r.Group("/api/users", authMW, adminMW)
	{
		users.GET("", userCtl.ListUsers)
		users.GET("/:id", userCtl.GetUser)
		users.PUT("/:id/admin", userCtl.SetAdmin)
		users.DELETE("/:id", userCtl.DeleteUser)
	}
}
