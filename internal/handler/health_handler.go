package handler

import (
	"net/http"

	"shopapi/pkg/database"

	"github.com/labstack/echo/v4"
)

// HealthCheck returns service health, including store connectivity
func HealthCheck(c echo.Context) error {
	status := "ok"
	dbStatus := "ok"

	if db := database.GetDB(); db != nil {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			status = "degraded"
			dbStatus = "unreachable"
		}
	} else {
		status = "degraded"
		dbStatus = "not initialized"
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, echo.Map{
		"status":   status,
		"database": dbStatus,
	})
}
