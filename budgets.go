package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"budgettracker/models"
	"budgettracker/pkg/money"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const maxTitleLength = 255

type budgetResponse struct {
	ID            uint         `json:"id"`
	User          uint         `json:"user"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Date          string       `json:"date"`
	InitialAmount money.Amount `json:"initial_amount"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func toBudgetResponse(b *models.Budget) budgetResponse {
	return budgetResponse{
		ID:            b.ID,
		User:          b.UserID,
		Title:         b.Title,
		Description:   b.Description,
		Date:          b.Date.UTC().Format(time.DateOnly),
		InitialAmount: b.InitialAmount,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// budgetPayload is the writable part of a budget. Fields are raw so that a
// missing field, a null and a bad value can each be reported per field.
// Anything else in the body (id, user, timestamps) is ignored.
type budgetPayload struct {
	Title         json.RawMessage `json:"title"`
	Description   json.RawMessage `json:"description"`
	Date          json.RawMessage `json:"date"`
	InitialAmount json.RawMessage `json:"initial_amount"`
}

// apply validates the payload and copies it onto b. With partial set, absent
// fields keep their current value; otherwise required fields must be present.
// description is optional either way and is left alone when absent.
func (p budgetPayload) apply(b *models.Budget, partial bool) fieldErrors {
	fe := fieldErrors{}

	if present(p.Title) {
		if title, msg := parseTitle(p.Title); msg != "" {
			fe.add("title", msg)
		} else {
			b.Title = title
		}
	} else if !partial {
		fe.add("title", "Title is required.")
	}

	if present(p.Description) {
		if isNull(p.Description) {
			fe.add("description", "This field may not be null.")
		} else if s, ok := jsonString(p.Description); ok {
			b.Description = strings.TrimSpace(s)
		} else {
			fe.add("description", "Not a valid string.")
		}
	}

	if present(p.Date) {
		if d, msg := parseDate(p.Date); msg != "" {
			fe.add("date", msg)
		} else {
			b.Date = d
		}
	} else if !partial {
		fe.add("date", "Date is required.")
	}

	if present(p.InitialAmount) {
		if amt, msg := parseInitialAmount(p.InitialAmount); msg != "" {
			fe.add("initial_amount", msg)
		} else {
			b.InitialAmount = amt
		}
	} else if !partial {
		fe.add("initial_amount", "Initial amount is required.")
	}

	if len(fe) == 0 {
		return nil
	}
	return fe
}

func present(raw json.RawMessage) bool { return len(raw) > 0 }

func isNull(raw json.RawMessage) bool { return bytes.Equal(bytes.TrimSpace(raw), []byte("null")) }

func jsonString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func parseTitle(raw json.RawMessage) (string, string) {
	if isNull(raw) {
		return "", "This field may not be null."
	}
	s, ok := jsonString(raw)
	if !ok {
		return "", "Not a valid string."
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "Title cannot be blank."
	}
	if utf8.RuneCountInString(s) > maxTitleLength {
		return "", "Title must be at most 255 characters."
	}
	return s, ""
}

func parseDate(raw json.RawMessage) (time.Time, string) {
	if isNull(raw) {
		return time.Time{}, "This field may not be null."
	}
	s, ok := jsonString(raw)
	if !ok || strings.TrimSpace(s) == "" {
		return time.Time{}, "Enter a valid date (YYYY-MM-DD)."
	}
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, "Enter a valid date (YYYY-MM-DD)."
	}
	return d, ""
}

func parseInitialAmount(raw json.RawMessage) (money.Amount, string) {
	if isNull(raw) {
		return 0, "This field may not be null."
	}
	var amt money.Amount
	err := json.Unmarshal(raw, &amt)
	switch {
	case errors.Is(err, money.ErrTooManyDecimals):
		return 0, "Ensure that there are no more than 2 decimal places."
	case errors.Is(err, money.ErrOutOfRange):
		return 0, "Initial amount is too large."
	case err != nil:
		return 0, "Enter a valid decimal number."
	case amt <= 0:
		return 0, "Initial amount must be greater than 0."
	case amt > money.Max:
		return 0, "Initial amount is too large."
	}
	return amt, ""
}

// bindBudgetPayload decodes the body; an empty body counts as {}.
func bindBudgetPayload(c *gin.Context) (budgetPayload, bool) {
	var p budgetPayload
	if err := shouldBindJSON(c, &p); err != nil {
		respondDetail(c, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return p, false
	}
	return p, true
}

// ownedBudgets scopes every budget query to the authenticated user.
func (s *server) ownedBudgets(c *gin.Context) *gorm.DB {
	return s.db.WithContext(c.Request.Context()).Where("user_id = ?", currentUser(c).ID)
}

// findOwnedBudget loads the budget named by :id. A malformed id, a missing
// row and another user's row all produce the same 404.
func (s *server) findOwnedBudget(c *gin.Context) (*models.Budget, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondNotFound(c)
		return nil, false
	}
	var b models.Budget
	err = s.ownedBudgets(c).First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c)
		return nil, false
	}
	if err != nil {
		s.respondInternal(c, "load budget", err)
		return nil, false
	}
	return &b, true
}

func (s *server) listBudgetsHandler(c *gin.Context) {
	page, ok := parsePageNumber(c.Query("page"))
	if !ok {
		respondDetail(c, http.StatusNotFound, "Invalid page.")
		return
	}
	var count int64
	if err := s.ownedBudgets(c).Model(&models.Budget{}).Count(&count).Error; err != nil {
		s.respondInternal(c, "count budgets", err)
		return
	}
	if page > pageCount(count, s.pageSize) {
		respondDetail(c, http.StatusNotFound, "Invalid page.")
		return
	}
	var items []models.Budget
	err := s.ownedBudgets(c).
		Order("date desc").Order("created_at desc").Order("id desc").
		Offset((page - 1) * s.pageSize).Limit(s.pageSize).
		Find(&items).Error
	if err != nil {
		s.respondInternal(c, "list budgets", err)
		return
	}
	results := make([]budgetResponse, 0, len(items))
	for i := range items {
		results = append(results, toBudgetResponse(&items[i]))
	}
	c.JSON(http.StatusOK, newPage(c, count, page, s.pageSize, results))
}

func (s *server) createBudgetHandler(c *gin.Context) {
	p, ok := bindBudgetPayload(c)
	if !ok {
		return
	}
	b := models.Budget{UserID: currentUser(c).ID}
	if fe := p.apply(&b, false); fe != nil {
		respondValidation(c, fe)
		return
	}
	if err := s.db.WithContext(c.Request.Context()).Create(&b).Error; err != nil {
		s.respondInternal(c, "create budget", err)
		return
	}
	c.JSON(http.StatusCreated, toBudgetResponse(&b))
}

func (s *server) getBudgetHandler(c *gin.Context) {
	b, ok := s.findOwnedBudget(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toBudgetResponse(b))
}

func (s *server) updateBudgetHandler(c *gin.Context) {
	s.updateBudget(c, false)
}

func (s *server) partialUpdateBudgetHandler(c *gin.Context) {
	s.updateBudget(c, true)
}

// updateBudget never changes the owner: the row was loaded through the
// owner scope and user_id is not writable.
func (s *server) updateBudget(c *gin.Context, partial bool) {
	b, ok := s.findOwnedBudget(c)
	if !ok {
		return
	}
	p, ok := bindBudgetPayload(c)
	if !ok {
		return
	}
	if fe := p.apply(b, partial); fe != nil {
		respondValidation(c, fe)
		return
	}
	if err := s.db.WithContext(c.Request.Context()).Save(b).Error; err != nil {
		s.respondInternal(c, "update budget", err)
		return
	}
	c.JSON(http.StatusOK, toBudgetResponse(b))
}

func (s *server) deleteBudgetHandler(c *gin.Context) {
	b, ok := s.findOwnedBudget(c)
	if !ok {
		return
	}
	if err := s.db.WithContext(c.Request.Context()).Delete(b).Error; err != nil {
		s.respondInternal(c, "delete budget", err)
		return
	}
	c.Status(http.StatusNoContent)
}
