package main

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"budgettracker/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const ctxUser = "user"

type server struct {
	db       *gorm.DB
	auth     *authService
	log      *slog.Logger
	pageSize int
	cors     []string
}

func newServer(cfg Config, db *gorm.DB, logger *slog.Logger) *server {
	return &server{
		db: db,
		auth: &authService{
			db:               db,
			tokens:           newTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
			bcryptCost:       cfg.BcryptCost,
			enforceBlacklist: cfg.EnforceBlacklist,
		},
		log:      logger,
		pageSize: cfg.PageSize,
		cors:     cfg.CORSAllowedOrigins,
	}
}

// router builds the gin engine with middleware and routes.
func (s *server) router() *gin.Engine {
	useJSONFieldNames()
	r := gin.New()
	r.Use(requestLogging(s.log), gin.Recovery())
	if len(s.cors) > 0 {
		r.Use(corsMiddleware(s.cors))
	}
	s.setupRoutes(r)
	return r
}

func (s *server) setupRoutes(r *gin.Engine) {
	r.GET("/up", s.healthHandler)

	api := r.Group("/api")
	api.POST("/token/", s.loginHandler)
	api.POST("/token/refresh/", s.refreshHandler)
	api.POST("/users/register/", s.registerHandler)

	authGroup := api.Group("")
	authGroup.Use(s.jwtAuthMiddleware())
	authGroup.GET("/users/me/", s.meHandler)
	authGroup.PATCH("/users/me/", s.updateMeHandler)
	authGroup.POST("/users/logout/", s.logoutHandler)
	authGroup.GET("/budgets/", s.listBudgetsHandler)
	authGroup.POST("/budgets/", s.createBudgetHandler)
	authGroup.GET("/budgets/:id/", s.getBudgetHandler)
	authGroup.PUT("/budgets/:id/", s.updateBudgetHandler)
	authGroup.PATCH("/budgets/:id/", s.partialUpdateBudgetHandler)
	authGroup.DELETE("/budgets/:id/", s.deleteBudgetHandler)
}

func (s *server) requestLogger(c *gin.Context) *slog.Logger {
	return s.log.With("request_id", c.GetString(ctxRequestID))
}

func (s *server) healthHandler(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		s.requestLogger(c).WarnContext(c.Request.Context(), "health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// jwtAuthMiddleware requires a valid access token and loads the active user
// into the context.
func (s *server) jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer") {
			respondUnauthorized(c, "Authentication credentials were not provided.", "")
			return
		}
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondUnauthorized(c, "Authorization header must contain two space-delimited values", "bad_authorization_header")
			return
		}
		claims, err := s.auth.tokens.parse(parts[1], tokenTypeAccess)
		if err != nil {
			respondUnauthorized(c, "Given token not valid for any token type", "token_not_valid")
			return
		}
		user, err := s.auth.UserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			s.respondInternal(c, "load authenticated user", err)
			return
		}
		if user == nil {
			respondUnauthorized(c, "User not found", "user_not_found")
			return
		}
		if !user.IsActive {
			respondUnauthorized(c, "User is inactive", "user_inactive")
			return
		}
		c.Set(ctxUser, user)
		c.Next()
	}
}

// currentUser returns the user set by jwtAuthMiddleware.
func currentUser(c *gin.Context) *models.User {
	v, _ := c.Get(ctxUser)
	user, _ := v.(*models.User)
	return user
}

type userProfile struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func toUserProfile(u *models.User) userProfile {
	return userProfile{ID: u.ID, Username: u.Username, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
}

var registerMessages = map[string]string{
	"username.required":         "Username is required.",
	"username.max":              "Ensure this field has no more than 150 characters.",
	"email.required":            "Email is required.",
	"email.email":               "Enter a valid email address.",
	"password.required":         "Password is required.",
	"password.min":              "Password must be at least 8 characters long.",
	"password_confirm.required": "Password confirmation is required.",
	"password_confirm.min":      "Password must be at least 8 characters long.",
}

func (s *server) registerHandler(c *gin.Context) {
	var req struct {
		Username        string `json:"username" binding:"required,max=150"`
		Email           string `json:"email" binding:"required,email,max=254"`
		Password        string `json:"password" binding:"required,min=8"`
		PasswordConfirm string `json:"password_confirm" binding:"required,min=8"`
	}
	bindErrs, err := bindFieldErrors(c, &req, registerMessages)
	if err != nil {
		respondDetail(c, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return
	}
	in := registerInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	}
	// Report every field problem in one response: the store checks still
	// run for the fields that passed binding.
	if bindErrs != nil {
		more, err := s.auth.checkRegistration(c.Request.Context(), in, bindErrs)
		if err != nil {
			s.respondInternal(c, "check registration", err)
			return
		}
		for field, msgs := range more {
			bindErrs[field] = append(bindErrs[field], msgs...)
		}
		respondValidation(c, bindErrs)
		return
	}
	user, err := s.auth.Register(c.Request.Context(), in)
	var fe fieldErrors
	if errors.As(err, &fe) {
		respondValidation(c, fe)
		return
	}
	if err != nil {
		s.respondInternal(c, "register user", err)
		return
	}
	s.requestLogger(c).InfoContext(c.Request.Context(), "user registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, toUserProfile(&user))
}

func (s *server) loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &req, nil) {
		return
	}
	access, refresh, err := s.auth.Login(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, errInvalidCredentials) {
		respondUnauthorized(c, "No active account found with the given credentials", "")
		return
	}
	if err != nil {
		s.respondInternal(c, "login", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access, "refresh": refresh})
}

func (s *server) refreshHandler(c *gin.Context) {
	var req struct {
		Refresh string `json:"refresh" binding:"required"`
	}
	if !bindJSON(c, &req, nil) {
		return
	}
	access, err := s.auth.Refresh(c.Request.Context(), req.Refresh)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"access": access})
	case errors.Is(err, errTokenInvalid), errors.Is(err, errTokenWrongType):
		respondUnauthorized(c, tokenErrorDetail(err), "token_not_valid")
	case errors.Is(err, errTokenBlacklisted):
		respondUnauthorized(c, "Token is blacklisted", "token_not_valid")
	case errors.Is(err, errInactiveAccount):
		respondUnauthorized(c, "No active account found for the given token.", "no_active_account")
	default:
		s.respondInternal(c, "refresh token", err)
	}
}

func (s *server) meHandler(c *gin.Context) {
	c.JSON(http.StatusOK, toUserProfile(currentUser(c)))
}

// updateMeHandler edits profile fields only; identity fields in the body are ignored.
func (s *server) updateMeHandler(c *gin.Context) {
	var req struct {
		FirstName *string `json:"first_name" binding:"omitempty,max=150"`
		LastName  *string `json:"last_name" binding:"omitempty,max=150"`
	}
	if !bindJSON(c, &req, nil) {
		return
	}
	user := currentUser(c)
	if err := s.auth.UpdateProfile(c.Request.Context(), user, req.FirstName, req.LastName); err != nil {
		s.respondInternal(c, "update profile", err)
		return
	}
	c.JSON(http.StatusOK, toUserProfile(user))
}

func (s *server) logoutHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := shouldBindJSON(c, &req); err != nil {
		respondDetail(c, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		respondDetail(c, http.StatusBadRequest, "Refresh token is required.")
		return
	}
	err := s.auth.Logout(c.Request.Context(), req.RefreshToken)
	switch {
	case err == nil:
		s.requestLogger(c).InfoContext(c.Request.Context(), "refresh token blacklisted", "user_id", currentUser(c).ID)
		c.JSON(http.StatusOK, gin.H{"detail": "Successfully logged out."})
	case errors.Is(err, errTokenInvalid), errors.Is(err, errTokenWrongType):
		respondDetail(c, http.StatusBadRequest, "Invalid token: "+tokenErrorDetail(err))
	default:
		s.respondInternal(c, "logout", err)
	}
}
