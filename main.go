package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/warbler/web-go/config"
	"github.com/warbler/web-go/controllers"
	"github.com/warbler/web-go/routes"
	"github.com/warbler/web-go/utils"
)

func main() {
	cfg := config.Load()
	utils.ConfigureLogger(cfg.LogLevel, os.Stdout)

	gin.SetMode(cfg.GinMode)
	gin.DefaultWriter = utils.GinWriter()

	// Initialize database
	db := config.InitDB(cfg)

	var images controllers.ImageStore
	if cfg.Storage != nil {
		images = controllers.NewS3ImageStore(cfg.Storage)
		utils.LogInfo("Profile image uploads enabled for bucket " + cfg.Storage.BucketName)
	}

	r, err := routes.NewRouter(routes.Options{
		DB:        db,
		Sessions:  utils.NewSessionStore(cfg.SecretKey, cfg.SecureCookies),
		Metrics:   utils.NewMetrics(),
		Images:    images,
		StaticDir: "./static",
	})
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to build router")
	}

	utils.LogInfo("Starting server on port " + cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.Logger.WithError(err).Fatal("Server stopped")
	}
}
