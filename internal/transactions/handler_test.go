package transactions

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func filterApp(got *Filter) *fiber.App {
	app := fiber.New()
	app.Get("/t", func(c *fiber.Ctx) error {
		f, err := ParseFilter(c)
		if err != nil {
			return err
		}
		*got = f
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestParseFilterFromQuery(t *testing.T) {
	var got Filter
	app := filterApp(&got)

	req := httptest.NewRequest("GET",
		"/t?start=2024-03-01&end=2024-03-31&transaction_type=income&status=new&min_amount=10.5&recipient_bank=Sber", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	if got.Start == nil || got.Start.Format("2006-01-02") != "2024-03-01" {
		t.Errorf("start = %v", got.Start)
	}
	if got.End == nil || got.End.Format("2006-01-02") != "2024-03-31" {
		t.Errorf("end = %v", got.End)
	}
	if got.Type == nil || *got.Type != TypeIncome {
		t.Errorf("type = %v", got.Type)
	}
	if got.Status == nil || *got.Status != StatusNew {
		t.Errorf("status = %v", got.Status)
	}
	if got.MinAmount == nil || got.MinAmount.String() != "10.5" {
		t.Errorf("min_amount = %v", got.MinAmount)
	}
	if got.RecipientBank == nil || *got.RecipientBank != "Sber" {
		t.Errorf("recipient_bank = %v", got.RecipientBank)
	}
	if got.MaxAmount != nil || got.Category != nil || got.SenderBank != nil || got.RecipientINN != nil {
		t.Error("unset criteria must stay nil")
	}
}

func TestParseFilterEmptyQuery(t *testing.T) {
	var got Filter
	app := filterApp(&got)

	resp, err := app.Test(httptest.NewRequest("GET", "/t", nil))
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got != (Filter{}) {
		t.Errorf("empty query must produce an empty filter: %+v", got)
	}
}

func TestParseFilterRejectsBadInput(t *testing.T) {
	tests := []string{
		"/t?start=03-01-2024",
		"/t?end=yesterday",
		"/t?status=paused",
		"/t?transaction_type=transfer",
		"/t?min_amount=-5",
		"/t?max_amount=abc",
	}
	for _, url := range tests {
		var got Filter
		app := filterApp(&got)
		resp, err := app.Test(httptest.NewRequest("GET", url, nil))
		if err != nil {
			t.Fatalf("%s: %v", url, err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", url, resp.StatusCode)
		}
	}
}
