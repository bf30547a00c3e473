package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"budgettracker/models"
	"budgettracker/pkg/database"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	user := flag.String("user", "", "Username to clean (optional). If empty, cleans all users.")
	before := flag.String("before", "", "Only budgets dated before this day (YYYY-MM-DD, optional)")
	dry := flag.Bool("dry-run", true, "Preview actions without modifying the DB")
	yes := flag.Bool("yes", false, "Confirm destructive action when dry-run=false")
	flag.Parse()

	_ = godotenv.Load()
	opts, err := database.OptionsFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	db, err := database.Open(opts)
	if err != nil {
		log.Fatalf("failed to connect db: %v", err)
	}
	defer database.Close(db)

	var conds []func(*gorm.DB) *gorm.DB
	target := "ALL users"
	if *user != "" {
		var u models.User
		if err := db.Where("username = ?", *user).First(&u).Error; err != nil {
			log.Fatalf("user lookup failed for %s: %v", *user, err)
		}
		conds = append(conds, func(tx *gorm.DB) *gorm.DB { return tx.Where("user_id = ?", u.ID) })
		target = fmt.Sprintf("user %s (id=%d)", u.Username, u.ID)
	}
	if *before != "" {
		day, err := time.Parse(time.DateOnly, *before)
		if err != nil {
			log.Fatalf("invalid --before: %v", err)
		}
		conds = append(conds, func(tx *gorm.DB) *gorm.DB { return tx.Where("date < ?", day) })
	}
	scope := func() *gorm.DB {
		return db.Model(&models.Budget{}).Scopes(conds...)
	}

	var n int64
	if err := scope().Count(&n).Error; err != nil {
		log.Fatalf("count budgets failed: %v", err)
	}
	fmt.Printf("Planned actions for %s:\n", target)
	fmt.Printf(" - DELETE %d budget rows\n", n)
	if *dry {
		fmt.Println("dry-run: no changes made. Use --dry-run=false --yes to execute.")
		return
	}
	if !*yes {
		fmt.Println("Destructive! Pass --yes to proceed.")
		return
	}
	res := scope().Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Budget{})
	if res.Error != nil {
		log.Fatalf("delete budgets failed: %v", res.Error)
	}
	fmt.Printf("cleanup done: budgets deleted=%d\n", res.RowsAffected)
}
