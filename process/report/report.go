// Package report summarizes a user's budgets for one calendar month.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"budgettracker/models"
	"budgettracker/pkg/money"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

// Summary is the month-bounded view of one user's budgets.
type Summary struct {
	Username string
	Month    time.Time
	Count    int64
	Total    money.Amount
	Budgets  []models.Budget
}

// MonthBounds parses a YYYY-MM month into the half-open UTC range [start, end).
func MonthBounds(month string) (start, end time.Time, err error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month format, expected YYYY-MM: %w", err)
	}
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0), nil
}

// Monthly counts and totals the budgets dated inside month. With list set
// the rows themselves are loaded too, oldest date first.
func Monthly(ctx context.Context, db *gorm.DB, username, month string, list bool) (Summary, error) {
	start, end, err := MonthBounds(month)
	if err != nil {
		return Summary{}, err
	}
	db = db.WithContext(ctx)

	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Summary{}, fmt.Errorf("%w: %s", ErrUserNotFound, username)
		}
		return Summary{}, fmt.Errorf("load user: %w", err)
	}

	s := Summary{Username: user.Username, Month: start}
	scope := func() *gorm.DB {
		return db.Model(&models.Budget{}).Where("user_id = ? AND date >= ? AND date < ?", user.ID, start, end)
	}
	row := scope().Select("COUNT(*), COALESCE(SUM(initial_amount), 0)").Row()
	if err := row.Scan(&s.Count, &s.Total); err != nil {
		return Summary{}, fmt.Errorf("query failed: %w", err)
	}
	if list {
		if err := scope().Order("date").Order("id").Find(&s.Budgets).Error; err != nil {
			return Summary{}, fmt.Errorf("fetch rows failed: %w", err)
		}
	}
	return s, nil
}

// Print writes the summary in the pipe-separated layout the ops scripts grep.
func Print(w io.Writer, s Summary) {
	fmt.Fprintf(w, "Report for user=%s month=%s (UTC):\n", s.Username, s.Month.Format("2006-01"))
	fmt.Fprintf(w, "  budgets=%d total_initial_amount=%s\n", s.Count, s.Total)
	for _, b := range s.Budgets {
		fmt.Fprintf(w, "%d|%s|%s|%s|%s\n", b.ID, b.Date.Format(time.DateOnly), b.Title, b.InitialAmount, b.CreatedAt.Format(time.RFC3339))
	}
}
