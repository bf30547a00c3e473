package main

import (
	"flag"
	"fmt"
	"log"

	"budgettracker/models"
	"budgettracker/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	username := flag.String("username", "", "username to reset")
	password := flag.String("password", "", "new plaintext password (8 chars to 72 bytes)")
	activate := flag.Bool("activate", false, "also re-enable a disabled account")
	flag.Parse()
	if *username == "" || *password == "" {
		log.Fatal("--username and --password are required")
	}
	if len(*password) < 8 {
		log.Fatal("password too short (min 8)")
	}
	if len(*password) > 72 {
		log.Fatal("password too long (max 72 bytes)")
	}
	_ = godotenv.Load()
	opts, err := database.OptionsFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	db, err := database.Open(opts)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer database.Close(db)

	var user models.User
	if err := db.Where("username = ?", *username).First(&user).Error; err != nil {
		log.Fatalf("user not found: %v", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt: %v", err)
	}
	updates := map[string]any{"hashed_password": hash}
	if *activate {
		updates["is_active"] = true
	}
	if err := db.Model(&user).Updates(updates).Error; err != nil {
		log.Fatalf("update failed: %v", err)
	}
	fmt.Printf("Password reset for user %s\n", user.Username)
}
