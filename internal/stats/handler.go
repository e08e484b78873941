package stats

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Azar1697/Financial-monitoring-and-reporting/internal/transactions"
)

type Handler struct {
	Repo Repo
}

func (h Handler) GetStatistics(c *fiber.Ctx) error {
	userID, err := extractUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	filter, err := transactions.ParseFilter(c)
	if err != nil {
		return err
	}

	ov, err := h.Repo.GetOverview(userContext(c), userID, filter)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to compute statistics: "+err.Error())
	}
	return c.JSON(ov)
}

func extractUserID(c *fiber.Ctx) (string, error) {
	val := c.Locals("user_id")
	if val == nil {
		val = c.Locals("userID")
	}
	if val == nil {
		return "", errors.New("user id missing")
	}
	if uid, ok := val.(string); ok && strings.TrimSpace(uid) != "" {
		return uid, nil
	}
	return "", errors.New("user id missing")
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
