package handler

import (
	"net/http"
	"time"

	"shopapi/internal/middleware"
	"shopapi/internal/service"
	"shopapi/pkg/logger"
	"shopapi/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Register handles user registration
func Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAuthOperation("register")

	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	user, pair, err := authService.Register(req)
	if err != nil {
		log.Error("Registration failed", zap.String("username", req.Username), zap.Error(err))
		prometheus.RecordAuthError("registration_failed")
		return c.JSON(statusForError(err), echo.Map{"error": err.Error()})
	}

	prometheus.ActiveTokensGauge.Inc()
	log.Info("User registered", zap.String("username", user.Username), zap.String("email", user.Email))
	return c.JSON(http.StatusCreated, echo.Map{
		"user":          user,
		"token":         pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_at":    pair.ExpiresAt,
	})
}

// Login authenticates a user by username or email
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAuthOperation("login")

	var req struct {
		UsernameOrEmail string `json:"username_or_email"`
		Password        string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	user, pair, err := authService.Login(req.UsernameOrEmail, req.Password)
	if err != nil {
		log.Warn("Login failed", zap.String("username_or_email", req.UsernameOrEmail))
		prometheus.RecordAuthError("login_failed")
		return c.JSON(statusForError(err), echo.Map{"error": err.Error()})
	}

	prometheus.ActiveTokensGauge.Inc()
	log.Info("User logged in", zap.String("username", user.Username))
	return c.JSON(http.StatusOK, echo.Map{
		"user":          user,
		"token":         pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_at":    pair.ExpiresAt,
	})
}

// RefreshToken rotates a refresh token and issues a new token pair
func RefreshToken(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAuthOperation("refresh")

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		log.Error("Failed to parse refresh request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token is required"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	user, pair, err := authService.Refresh(req.RefreshToken)
	if err != nil {
		log.Warn("Refresh token rejected", zap.Error(err))
		prometheus.RecordAuthError("refresh_failed")
		return c.JSON(statusForError(err), echo.Map{"error": err.Error()})
	}

	log.Info("Token pair refreshed", zap.String("username", user.Username))
	return c.JSON(http.StatusOK, echo.Map{
		"user":          user,
		"token":         pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_at":    pair.ExpiresAt,
	})
}

// Logout deactivates the presented refresh token. Logging out with an
// unknown or already revoked token still succeeds.
func Logout(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAuthOperation("logout")

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse logout request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	revoked, err := authService.Logout(req.RefreshToken)
	if err != nil {
		log.Error("Logout failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}

	if revoked {
		prometheus.ActiveTokensGauge.Dec()
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me returns the authenticated user's profile
func Me(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	user, err := authService.GetUserByID(userID)
	if err != nil {
		log.Warn("Authenticated user not found", zap.Uint("user_id", userID))
		return c.JSON(statusForError(err), echo.Map{"error": "user not found"})
	}

	return c.JSON(http.StatusOK, user)
}
