package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"newsdesk/backend/internal/auth"
	"newsdesk/backend/internal/config"
	"newsdesk/backend/internal/models"
	"newsdesk/backend/internal/storage"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Ops CLI: local stand-ins for the platform's profile and auth-issuance
// collaborators, used when running the messaging core on its own.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands: seed-user, mint-token")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "seed-user":
		if len(os.Args) < 4 {
			fmt.Println("Usage: admin seed-user <first_name> <last_name> [role]")
			os.Exit(1)
		}
		role := "editor"
		if len(os.Args) > 4 {
			role = os.Args[4]
		}

		db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to connect database: %v", err)
		}
		storageSvc := storage.NewStorageService(db, nil) // No redis needed for seeding

		user := &models.User{
			FirstName: os.Args[2],
			LastName:  os.Args[3],
			Role:      role,
		}
		if err := storageSvc.SaveUser(user); err != nil {
			log.Fatalf("Error seeding user: %v", err)
		}
		fmt.Printf("User %d (%s %s) created.\n", user.ID, user.FirstName, user.LastName)

	case "mint-token":
		if len(os.Args) < 3 {
			fmt.Println("Usage: admin mint-token <user_id> [ttl_hours]")
			os.Exit(1)
		}
		userID, err := strconv.Atoi(os.Args[2])
		if err != nil || userID <= 0 {
			fmt.Println("Invalid user id. Please provide a positive integer.")
			os.Exit(1)
		}
		ttl := 72 * time.Hour
		if len(os.Args) > 3 {
			hours, err := strconv.Atoi(os.Args[3])
			if err != nil {
				fmt.Println("Invalid TTL. Please provide an integer number of hours.")
				os.Exit(1)
			}
			ttl = time.Duration(hours) * time.Hour
		}

		token, err := auth.NewVerifier(cfg.JWTSecret).Sign(uint(userID), "editor", ttl)
		if err != nil {
			log.Fatalf("Error minting token: %v", err)
		}
		fmt.Println(token)

	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}
