// The admin CLI manages profiles directly: premium grants, gender fixes,
// bans and a quick stats readout.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"anonchatik/backend/internal/config"
	"anonchatik/backend/internal/models"
	"anonchatik/backend/internal/storage"
)

func usage() {
	fmt.Println(`Usage: admin <command> [args]

Commands:
  grant-premium <user_id>
  revoke-premium <user_id>
  set-gender <user_id> <male|female>
  ban <user_id>
  unban <user_id>
  stats`)
	os.Exit(1)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file loaded")
	}
	dsn, err := config.LoadDSN()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	store := storage.NewService(db, rdb)

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "grant-premium":
		userID := mustUserID(2)
		if err := store.SetPremium(userID, true); err != nil {
			log.Fatalf("Error granting premium: %v", err)
		}
		fmt.Printf("User %d now has premium.\n", userID)
	case "revoke-premium":
		userID := mustUserID(2)
		if err := store.SetPremium(userID, false); err != nil {
			log.Fatalf("Error revoking premium: %v", err)
		}
		fmt.Printf("User %d no longer has premium.\n", userID)
	case "set-gender":
		userID := mustUserID(2)
		if len(os.Args) < 4 {
			usage()
		}
		gender := models.Gender(os.Args[3])
		if gender != models.GenderMale && gender != models.GenderFemale {
			fmt.Println("Gender must be male or female.")
			os.Exit(1)
		}
		if err := store.SetGender(userID, gender); err != nil {
			log.Fatalf("Error setting gender: %v", err)
		}
		fmt.Printf("User %d gender set to %s.\n", userID, gender)
	case "ban":
		userID := mustUserID(2)
		if err := store.SetBanned(userID, true); err != nil {
			log.Fatalf("Error banning user: %v", err)
		}
		fmt.Printf("User %d has been banned.\n", userID)
	case "unban":
		userID := mustUserID(2)
		if err := store.SetBanned(userID, false); err != nil {
			log.Fatalf("Error unbanning user: %v", err)
		}
		fmt.Printf("User %d has been unbanned.\n", userID)
	case "stats":
		total, err := store.CountProfiles()
		if err != nil {
			log.Fatalf("Error counting users: %v", err)
		}
		premium, err := store.CountPremium()
		if err != nil {
			log.Fatalf("Error counting premium users: %v", err)
		}
		searching, err := store.SearchSetSize()
		if err != nil {
			log.Printf("WARN: failed to read search queue mirror: %v", err)
		}
		fmt.Printf("Users: %d\nPremium: %d\nSearching now: %d\n", total, premium, searching)
	default:
		usage()
	}
}

func mustUserID(arg int) int64 {
	if len(os.Args) <= arg {
		usage()
	}
	id, err := strconv.ParseInt(os.Args[arg], 10, 64)
	if err != nil {
		fmt.Println("Invalid user id. Please provide an integer.")
		os.Exit(1)
	}
	return id
}
