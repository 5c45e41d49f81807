package main

import (
	"context"
	"log"

	"gocompare/internal/api"
	"gocompare/internal/config"
	"gocompare/internal/container"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(cfg.API.GinMode)

	c, err := container.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer c.Close()

	if err := c.InitWithDatabase(context.Background()); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	handler := api.NewCompareHandler(c.Service, c.Repository, cfg.API.MaxConcurrentGroups, cfg.API.MaxUploadBytes)
	router := api.NewRouter(handler)

	log.Printf("Starting gocompare API on :%s", cfg.API.Port)
	if err := router.Run(":" + cfg.API.Port); err != nil {
		log.Fatal("Server failed:", err)
	}
}
