package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/Lanszs/QuickDART/internal/auth"
	"github.com/Lanszs/QuickDART/internal/memdb"
	"github.com/Lanszs/QuickDART/internal/router"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	if err := auth.InitJWTSecret(); err != nil {
		// The stub holds no real data, so a baked-in dev secret is fine.
		log.Println("JWT_SECRET not set, using development secret")
		auth.SetJWTSecret("quickdart-dev-secret")
	}

	memdb.Init()

	r := router.NewRouter()

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "5000"
		log.Println("PORT not set, defaulting to 5000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
