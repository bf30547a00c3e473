package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"budgettracker/models"
	"budgettracker/pkg/database"
	"budgettracker/pkg/money"

	"github.com/joho/godotenv"
)

// seeds one budget per month, walking back from the current month, so a
// fresh account has something to page through.
func main() {
	username := flag.String("username", "", "username to assign budgets to")
	months := flag.Int("months", 12, "number of monthly budgets to create")
	amount := flag.String("amount", "2500.00", "initial amount of each budget")
	dry := flag.Bool("dry-run", true, "dry-run: don't write to DB")
	flag.Parse()
	if *username == "" {
		log.Fatal("--username is required")
	}
	amt, err := money.Parse(*amount)
	if err != nil || amt <= 0 || amt > money.Max {
		log.Fatalf("invalid --amount %q", *amount)
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

	now := time.Now().UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < *months; i++ {
		day := first.AddDate(0, -i, 0)
		title := fmt.Sprintf("Budget %s", day.Format("January 2006"))

		var existing models.Budget
		err := db.Where("user_id = ? AND title = ?", user.ID, title).First(&existing).Error
		if err == nil {
			fmt.Printf("EXISTS: budget id=%d title=%s\n", existing.ID, title)
			continue
		}
		if *dry {
			fmt.Printf("DRY: would create Budget user=%d title=%s date=%s amount=%s\n", user.ID, title, day.Format(time.DateOnly), amt)
			continue
		}
		b := models.Budget{UserID: user.ID, Title: title, Description: "Seeded budget", Date: day, InitialAmount: amt}
		if err := db.Create(&b).Error; err != nil {
			log.Printf("create budget failed for %s: %v", title, err)
			continue
		}
		fmt.Printf("created budget id=%d title=%s\n", b.ID, title)
	}
}
