package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/GurugubelliAjay/E-Commerce/internal/app"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := app.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	srv, cleanup, err := app.NewServer(cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer cleanup()

	log.Printf("listening on :%s", cfg.Port)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
