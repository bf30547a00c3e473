package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"budgettracker/models"
	"budgettracker/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Println("usage: go run ./cmd/create_user <username> <email> <password>")
		os.Exit(2)
	}
	username := strings.TrimSpace(os.Args[1])
	email := strings.TrimSpace(os.Args[2])
	password := os.Args[3]
	if len(password) < 8 {
		log.Fatal("password too short (min 8)")
	}
	if len(password) > 72 {
		log.Fatal("password too long (max 72 bytes)")
	}

	_ = godotenv.Load()
	opts, err := database.OptionsFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	db, err := database.Open(opts)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer database.Close(db)
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// check existing
	var existing models.User
	if err := db.Where("username = ? OR email = ?", username, email).First(&existing).Error; err == nil {
		fmt.Printf("user %s already exists (id=%d)\n", existing.Username, existing.ID)
		return
	}

	hpw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt failed: %v", err)
	}
	user := models.User{Username: username, Email: email, HashedPassword: hpw, IsActive: true}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("failed to create user: %v", err)
	}
	fmt.Printf("created user %s id=%d\n", username, user.ID)
}
