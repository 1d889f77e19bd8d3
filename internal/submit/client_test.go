package submit

import (
	"context"
	"net/http"
	"testing"

	"github.com/rms-collector/backend/internal/config"
	"github.com/rms-collector/backend/internal/models"
	"github.com/rms-collector/backend/internal/testutil"
)

func clientFor(t *testing.T, status int, body string) (*Client, func()) {
	t.Helper()
	srv := testutil.JSONServer(status, body)
	c := NewClient(config.RemoteConfig{Endpoint: srv.URL, TimeoutSeconds: 5})
	return c, srv.Close
}

func TestSubmitSuccess(t *testing.T) {
	c, done := clientFor(t, http.StatusOK, `{"status":"success","message":"all good"}`)
	defer done()

	result := c.Submit(context.Background(), map[string]any{"Link": []models.Record{{"id": 1}}})

	if result.Kind != models.OutcomeSuccess {
		t.Fatalf("Kind = %s, want success", result.Kind)
	}
	if result.Failed() {
		t.Error("success result reported as failed")
	}
	if result.Message != "all good" {
		t.Errorf("Message = %q", result.Message)
	}
}

func TestSubmitPartialSuccess(t *testing.T) {
	body := `{
		"status": "partial_success",
		"successful_models": ["Link"],
		"errors": {
			"Alignment": {
				"Alignment_record_2": {"errors": {"geometry": ["invalid"]}}
			}
		}
	}`
	c, done := clientFor(t, http.StatusOK, body)
	defer done()

	result := c.Submit(context.Background(), map[string]any{})

	if result.Kind != models.OutcomePartialSuccess {
		t.Fatalf("Kind = %s, want partial_success", result.Kind)
	}
	if len(result.SuccessfulSlots) != 1 || result.SuccessfulSlots[0] != "Link" {
		t.Errorf("SuccessfulSlots = %v", result.SuccessfulSlots)
	}

	recErrs := result.SlotErrors["Alignment"]
	if len(recErrs) != 1 {
		t.Fatalf("Alignment errors = %v, want one entry", recErrs)
	}
	if recErrs[0].Record != 2 || recErrs[0].Field != "geometry" || recErrs[0].Message != "invalid" {
		t.Errorf("record error = %+v", recErrs[0])
	}
}

func TestSubmitContactErrors(t *testing.T) {
	body := `{
		"status": "validation_error",
		"errors": {
			"ContactDetails_record_1": {"errors": {"email": ["Enter a valid email address."], "admin_code": ["bad", "code"]}}
		}
	}`
	c, done := clientFor(t, http.StatusBadRequest, body)
	defer done()

	result := c.Submit(context.Background(), map[string]any{})

	if result.Kind != models.OutcomeValidationError {
		t.Fatalf("Kind = %s, want validation_error", result.Kind)
	}
	if got := result.ContactErrors["email"]; got != "Enter a valid email address." {
		t.Errorf("email error = %q", got)
	}
	if got := result.ContactErrors["admin_code"]; got != "bad, code" {
		t.Errorf("admin_code error = %q, want joined messages", got)
	}
	if len(result.SlotErrors) != 0 {
		t.Errorf("contact errors leaked into SlotErrors: %v", result.SlotErrors)
	}
}

func TestSubmitFlatSlotMessage(t *testing.T) {
	body := `{
		"status": "error",
		"errors": {
			"CODE_AN_Parameters": {"message": "No serializer found for model CODE_AN_Parameters"}
		}
	}`
	c, done := clientFor(t, http.StatusBadRequest, body)
	defer done()

	result := c.Submit(context.Background(), map[string]any{})

	recErrs := result.SlotErrors["CODE_AN_Parameters"]
	if len(recErrs) != 1 {
		t.Fatalf("SlotErrors = %v, want one flat message", result.SlotErrors)
	}
	if recErrs[0].Record != -1 {
		t.Errorf("flat message should carry record index -1, got %d", recErrs[0].Record)
	}
	if recErrs[0].Message != "No serializer found for model CODE_AN_Parameters" {
		t.Errorf("Message = %q", recErrs[0].Message)
	}
}

func TestSubmitUnrecognizedBody(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"html error page", http.StatusBadGateway, "<html>bad gateway</html>"},
		{"unknown status value", http.StatusOK, `{"status":"weird"}`},
		{"empty body", http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, done := clientFor(t, tt.status, tt.body)
			defer done()

			result := c.Submit(context.Background(), map[string]any{})
			if result.Kind != models.OutcomeTransportError {
				t.Errorf("Kind = %s, want transport_error", result.Kind)
			}
			if !result.Failed() {
				t.Error("transport error should count as failure")
			}
		})
	}
}

func TestSubmitConnectionRefused(t *testing.T) {
	c := NewClient(config.RemoteConfig{Endpoint: "http://127.0.0.1:1/upload", TimeoutSeconds: 1})

	result := c.Submit(context.Background(), map[string]any{})
	if result.Kind != models.OutcomeTransportError {
		t.Fatalf("Kind = %s, want transport_error", result.Kind)
	}
	if result.Message == "" {
		t.Error("transport error should carry a message")
	}
}

func TestParseRecordIndex(t *testing.T) {
	tests := []struct {
		key   string
		model string
		want  int
	}{
		{"Link_record_0", "Link", 0},
		{"Link_record_12", "Link", 12},
		{"Link_record_", "Link", -1},
		{"Link_record_x", "Link", -1},
		{"Other_record_3", "Link", -1},
		{"message", "Link", -1},
	}
	for _, tt := range tests {
		if got := parseRecordIndex(tt.key, tt.model); got != tt.want {
			t.Errorf("parseRecordIndex(%q, %q) = %d, want %d", tt.key, tt.model, got, tt.want)
		}
	}
}
