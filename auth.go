package main

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"budgettracker/models"
	"budgettracker/pkg/database"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	errInvalidCredentials = errors.New("invalid credentials")
	errTokenBlacklisted   = errors.New("token is blacklisted")
	errInactiveAccount    = errors.New("no active account for token")
)

var usernameRE = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

type registerInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

// authService owns the credential store, the token blacklist and token issue.
type authService struct {
	db               *gorm.DB
	tokens           *tokenIssuer
	bcryptCost       int
	enforceBlacklist bool
}

// Register creates an account. Input problems come back as fieldErrors.
func (a *authService) Register(ctx context.Context, in registerInput) (models.User, error) {
	fe, err := a.checkRegistration(ctx, in, nil)
	if err != nil {
		return models.User{}, err
	}
	if len(fe) > 0 {
		return models.User{}, fe
	}
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	if in.Password != in.PasswordConfirm {
		return models.User{}, fieldErrors{"password_confirm": {"Passwords do not match."}}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), a.bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{Username: username, Email: email, HashedPassword: hashedPassword, IsActive: true}
	if err := a.db.WithContext(ctx).Create(&user).Error; err != nil {
		if database.IsUniqueViolation(err) { // race with a concurrent registration
			return models.User{}, fieldErrors{nonFieldErrors: {"A user with that username or email already exists."}}
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// checkRegistration runs the per-field checks. Fields listed in skip already
// failed earlier validation and are not checked again.
func (a *authService) checkRegistration(ctx context.Context, in registerInput, skip fieldErrors) (fieldErrors, error) {
	db := a.db.WithContext(ctx)
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)

	fe := fieldErrors{}
	if _, ok := skip["username"]; !ok {
		if !usernameRE.MatchString(username) {
			fe.add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
		} else if taken, err := exists(db, &models.User{}, "username = ?", username); err != nil {
			return nil, err
		} else if taken {
			fe.add("username", "This username is already taken.")
		}
	}
	if _, ok := skip["email"]; !ok {
		if taken, err := exists(db, &models.User{}, "email = ?", email); err != nil {
			return nil, err
		} else if taken {
			fe.add("email", "This email is already registered.")
		}
	}
	if _, ok := skip["password"]; !ok {
		for _, msg := range passwordProblems(in.Password, username, email) {
			fe.add("password", msg)
		}
	}
	return fe, nil
}

// Authenticate checks a username/password pair against the store.
func (a *authService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	var user models.User
	err := a.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, errInvalidCredentials
	}
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		return models.User{}, errInvalidCredentials
	}
	if !user.IsActive {
		return models.User{}, errInvalidCredentials
	}
	return user, nil
}

// Login authenticates and issues an access/refresh pair.
func (a *authService) Login(ctx context.Context, username, password string) (access, refresh string, err error) {
	user, err := a.Authenticate(ctx, username, password)
	if err != nil {
		return "", "", err
	}
	return a.tokens.issuePair(user.ID)
}

// Refresh mints a new access token from a refresh token. The refresh token
// itself is not rotated. The blacklist is only consulted when enforcement is
// switched on.
func (a *authService) Refresh(ctx context.Context, raw string) (string, error) {
	claims, err := a.tokens.parse(raw, tokenTypeRefresh)
	if err != nil {
		return "", err
	}
	if a.enforceBlacklist {
		revoked, err := a.IsBlacklisted(ctx, raw)
		if err != nil {
			return "", err
		}
		if revoked {
			return "", errTokenBlacklisted
		}
	}
	user, err := a.UserByID(ctx, claims.UserID)
	if err != nil {
		return "", err
	}
	if user == nil || !user.IsActive {
		return "", errInactiveAccount
	}
	return a.tokens.issueAccess(user.ID)
}

// Logout records the refresh token in the blacklist. Token failures are
// returned as errTokenInvalid / errTokenWrongType.
func (a *authService) Logout(ctx context.Context, raw string) error {
	if _, err := a.tokens.parse(raw, tokenTypeRefresh); err != nil {
		return err
	}
	entry := models.TokenBlacklist{Token: raw}
	if err := a.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

func (a *authService) IsBlacklisted(ctx context.Context, raw string) (bool, error) {
	return exists(a.db.WithContext(ctx), &models.TokenBlacklist{}, "token = ?", raw)
}

// UserByID returns nil without error when the user does not exist.
func (a *authService) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := a.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}
	return &user, nil
}

// UpdateProfile changes the editable profile fields; nil leaves a field as is.
func (a *authService) UpdateProfile(ctx context.Context, user *models.User, firstName, lastName *string) error {
	updates := map[string]any{}
	if firstName != nil {
		user.FirstName = strings.TrimSpace(*firstName)
		updates["first_name"] = user.FirstName
	}
	if lastName != nil {
		user.LastName = strings.TrimSpace(*lastName)
		updates["last_name"] = user.LastName
	}
	if len(updates) == 0 {
		return nil
	}
	if err := a.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func exists(db *gorm.DB, model any, query string, args ...any) (bool, error) {
	var n int64
	if err := db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count: %w", err)
	}
	return n > 0, nil
}

// normalizeEmail lowercases the domain part, leaving the local part as typed.
func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return email
	}
	return local + "@" + strings.ToLower(domain)
}
