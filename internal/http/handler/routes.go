package handler

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"userfeed/internal/service"
)

// Deps are the collaborators the routes read from. DB and History are optional.
type Deps struct {
	Feed    service.Feed
	History service.FetchHistory
	DB      *sql.DB
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	app.Get("/users", GetUsers(d.Feed))
	app.Post("/users/fetch", FetchUsers(d.Feed))
	app.Get("/fetches", ListFetchRuns(d.History))
}

// HealthCheck godoc
// @Summary Readiness check
// @Description Pings the fetch history database when one is configured.
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe godoc
// @Summary Liveness probe
// @Success 200
// @Router /healthz [get]
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// GetUsers godoc
// @Summary Current users state
// @Description Returns the loading flag and the most recently fetched users.
// @Produce json
// @Success 200 {object} service.State
// @Router /users [get]
func GetUsers(feed service.Feed) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(feed.State())
	}
}

// FetchUsers godoc
// @Summary Fetch users from upstream
// @Description Triggers one fetch and returns the state once it settles.
// @Produce json
// @Success 200 {object} service.State
// @Router /users/fetch [post]
func FetchUsers(feed service.Feed) fiber.Handler {
	return func(c *fiber.Ctx) error {
		feed.FetchUsers(c.UserContext())
		return c.JSON(feed.State())
	}
}

// ListFetchRuns godoc
// @Summary Fetch history
// @Produce json
// @Param limit query int false "page size" default(10)
// @Param offset query int false "offset" default(0)
// @Success 200 {object} service.FetchRunListResult
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /fetches [get]
func ListFetchRuns(history service.FetchHistory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if history == nil {
			return writeError(c, fiber.StatusNotFound, "HISTORY_DISABLED", "fetch history is not configured")
		}

		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := history.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}
