package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/openlance/openlance/db"
	"github.com/openlance/openlance/internal/auth"
	"github.com/openlance/openlance/internal/engagement"
	"github.com/openlance/openlance/internal/handlers"
	"github.com/openlance/openlance/internal/router"
	"github.com/openlance/openlance/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	gdb, err := db.Connect(dsn)

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	resources := store.New(gdb)
	engagements := engagement.NewService(gdb)
	h := handlers.New(gdb, resources, engagements)

	r := router.NewRouter(h, resources)

	port := os.Getenv("PORT")

	if port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
