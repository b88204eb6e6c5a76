package main

import (
	"Gin_postgres_redis_club_equipment/app"
	"Gin_postgres_redis_club_equipment/config"
	"Gin_postgres_redis_club_equipment/db"
	"Gin_postgres_redis_club_equipment/routes"
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

	routes.RegisterRoutes(r, application)

	// 首次部署：没有管理员就发一张引导邀请
	app.BootstrapFirstAdmin(context.Background(), application.Config, db.NewRepo(application.DB))

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	log.Printf("listening on :%s", port)
	_ = r.Run(":" + port)
}
