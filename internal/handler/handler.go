package handler

import (
	"errors"
	"net/http"

	"shopapi/internal/service"
)

var (
	orderService *service.OrderService
	authService  *service.AuthService
)

// InitServices wires the orchestrators used by the order and auth handlers
func InitServices(orders *service.OrderService, auth *service.AuthService) {
	orderService = orders
	authService = auth
}

// statusForError maps tagged service failures to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrInsufficientStock):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateUser),
		errors.Is(err, service.ErrAlreadyTerminal):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidOrExpiredToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
