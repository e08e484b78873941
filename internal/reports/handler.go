package reports

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Azar1697/Financial-monitoring-and-reporting/internal/transactions"
)

type Handler struct {
	Tx    *transactions.Repo
	Store *Store
}

func NewHandler(tx *transactions.Repo, store *Store) *Handler {
	return &Handler{Tx: tx, Store: store}
}

func (h *Handler) render(c *fiber.Ctx) ([]byte, Format, string, error) {
	userID, err := extractUserID(c)
	if err != nil {
		return nil, "", "", fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	filter, err := transactions.ParseFilter(c)
	if err != nil {
		return nil, "", "", err
	}

	format := Format(strings.TrimSpace(c.Query("format", string(FormatPDF))))
	if !format.Valid() {
		return nil, "", "", fiber.NewError(fiber.StatusBadRequest, "format must be pdf or xlsx")
	}

	items, err := h.Tx.List(userContext(c), userID, filter)
	if err != nil {
		return nil, "", "", fiber.NewError(fiber.StatusInternalServerError, "failed to load transactions: "+err.Error())
	}

	data, err := Render(items, format)
	if errors.Is(err, ErrNoData) {
		return nil, "", "", fiber.NewError(fiber.StatusNotFound, ErrNoData.Error())
	}
	if err != nil {
		log.Printf("reports: render %s: %v", format, err)
		return nil, "", "", fiber.NewError(fiber.StatusInternalServerError, "report generation is not available")
	}
	return data, format, userID, nil
}

// Download streams the generated report as an attachment.
func (h *Handler) Download(c *fiber.Ctx) error {
	data, format, _, err := h.render(c)
	if err != nil {
		return err
	}

	name := Filename(format, time.Now())
	c.Set("Content-Type", format.MediaType())
	c.Set("Content-Disposition", `attachment; filename="`+name+`"`)
	return c.Send(data)
}

// Share generates the report, stores it on disk and returns a public
// download token with a 24h TTL.
func (h *Handler) Share(c *fiber.Ctx) error {
	data, format, userID, err := h.render(c)
	if err != nil {
		return err
	}

	dir := strings.TrimSpace(os.Getenv("REPORTS_DIR"))
	if dir == "" {
		dir = "reports"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to store report: "+err.Error())
	}

	path := filepath.Join(dir, uuid.NewString()+"."+string(format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to store report: "+err.Error())
	}

	token, expires, err := h.Store.Create(userContext(c), userID, path, format.MediaType(), 24*time.Hour)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to register report: "+err.Error())
	}

	return c.JSON(fiber.Map{
		"token":      token,
		"url":        "/r/" + token,
		"expires_at": expires,
	})
}

// DownloadShared serves a previously shared report by its token.
func DownloadShared(store *Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimSpace(c.Params("token"))
		if token == "" {
			return fiber.ErrNotFound
		}

		path, mediaType, exp, err := store.GetByToken(c.Context(), token)
		if err != nil || time.Now().After(exp) {
			return fiber.ErrNotFound
		}

		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return fiber.ErrNotFound
		}
		defer f.Close()

		stat, _ := f.Stat()

		c.Set("Content-Type", mediaType)
		c.Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
		if stat != nil {
			return c.SendStream(f, int(stat.Size()))
		}
		return c.SendStream(f)
	}
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
