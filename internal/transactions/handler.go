package transactions

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/Azar1697/Financial-monitoring-and-reporting/internal/audit"
)

type Handler struct {
	Repo  *Repo
	Audit *audit.Logger
}

func NewHandler(repo *Repo, auditLog *audit.Logger) *Handler {
	return &Handler{Repo: repo, Audit: auditLog}
}

// ParseFilter reads the optional list criteria from the query string.
// It is shared by the list, statistics and report endpoints so all three
// see the identical filtered set.
func ParseFilter(c *fiber.Ctx) (Filter, error) {
	var f Filter

	if v := strings.TrimSpace(c.Query("start")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, "start must be YYYY-MM-DD")
		}
		f.Start = &t
	}
	if v := strings.TrimSpace(c.Query("end")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, "end must be YYYY-MM-DD")
		}
		f.End = &t
	}
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		s := Status(v)
		if !s.Valid() {
			return f, fiber.NewError(fiber.StatusBadRequest, "unknown status")
		}
		f.Status = &s
	}
	if v := strings.TrimSpace(c.Query("transaction_type")); v != "" {
		t := TxType(v)
		if !t.Valid() {
			return f, fiber.NewError(fiber.StatusBadRequest, "transaction_type must be income or expense")
		}
		f.Type = &t
	}
	if v := strings.TrimSpace(c.Query("min_amount")); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil || d.IsNegative() {
			return f, fiber.NewError(fiber.StatusBadRequest, "min_amount must be a number >= 0")
		}
		f.MinAmount = &d
	}
	if v := strings.TrimSpace(c.Query("max_amount")); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil || d.IsNegative() {
			return f, fiber.NewError(fiber.StatusBadRequest, "max_amount must be a number >= 0")
		}
		f.MaxAmount = &d
	}
	if v := strings.TrimSpace(c.Query("category")); v != "" {
		f.Category = &v
	}
	if v := strings.TrimSpace(c.Query("sender_bank")); v != "" {
		f.SenderBank = &v
	}
	if v := strings.TrimSpace(c.Query("recipient_bank")); v != "" {
		f.RecipientBank = &v
	}
	if v := strings.TrimSpace(c.Query("recipient_inn")); v != "" {
		f.RecipientINN = &v
	}

	return f, nil
}

type createRequest struct {
	PersonType       PersonType      `json:"person_type"`
	DateTime         *time.Time      `json:"date_time"`
	TransactionType  TxType          `json:"transaction_type"`
	Comment          *string         `json:"comment"`
	Amount           decimal.Decimal `json:"amount"`
	Status           Status          `json:"status"`
	SenderBank       *string         `json:"sender_bank"`
	SenderAccount    *string         `json:"sender_account"`
	RecipientBank    *string         `json:"recipient_bank"`
	RecipientINN     string          `json:"recipient_inn"`
	RecipientAccount *string         `json:"recipient_account"`
	Category         *string         `json:"category"`
	RecipientPhone   *string         `json:"recipient_phone"`
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := extractUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	filter, err := ParseFilter(c)
	if err != nil {
		return err
	}

	items, err := h.Repo.List(userContext(c), userID, filter)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list transactions: "+err.Error())
	}
	return c.JSON(items)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	userID, err := extractUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	t, err := h.Repo.Get(userContext(c), id, userID)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "transaction not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch transaction: "+err.Error())
	}
	return c.JSON(t)
}

func (h *Handler) Create(c *fiber.Ctx) error {
	userID, err := extractUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	dateTime := time.Now()
	if req.DateTime != nil {
		dateTime = *req.DateTime
	}

	t, err := h.Repo.Create(userContext(c), userID, Transaction{
		PersonType:       req.PersonType,
		DateTime:         dateTime,
		Type:             req.TransactionType,
		Comment:          req.Comment,
		Amount:           req.Amount,
		Status:           req.Status,
		SenderBank:       req.SenderBank,
		SenderAccount:    req.SenderAccount,
		RecipientBank:    req.RecipientBank,
		RecipientINN:     req.RecipientINN,
		RecipientAccount: req.RecipientAccount,
		Category:         req.Category,
		RecipientPhone:   req.RecipientPhone,
	})
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return fiber.NewError(fiber.StatusBadRequest, vErr.Error())
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create transaction: "+err.Error())
	}

	h.Audit.Record(userContext(c), auditEntry(c, userID, "create", t.ID))
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	userID, err := extractUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var patch Patch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	t, err := h.Repo.Update(userContext(c), id, userID, patch)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "transaction not found")
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return fiber.NewError(fiber.StatusBadRequest, vErr.Error())
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update transaction: "+err.Error())
	}

	h.Audit.Record(userContext(c), auditEntry(c, userID, "update", t.ID))
	return c.JSON(t)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, err := extractUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Repo.Delete(userContext(c), id, userID); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete transaction: "+err.Error())
	}

	h.Audit.Record(userContext(c), auditEntry(c, userID, "delete", id))
	return c.SendStatus(fiber.StatusNoContent)
}

func auditEntry(c *fiber.Ctx, userID, action string, entityID int64) audit.Entry {
	return audit.Entry{
		UserID:    userID,
		Action:    action,
		EntityID:  entityID,
		IP:        c.IP(),
		UserAgent: string(c.Request().Header.UserAgent()),
	}
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid transaction id")
	}
	return id, nil
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
