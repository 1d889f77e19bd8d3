package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rms-collector/backend/internal/config"
	"github.com/rms-collector/backend/internal/models"
)

// Client talks to the remote validation/persistence service. Raw response
// JSON is normalized into models.SubmissionResult here, at the boundary;
// nothing downstream branches on wire shapes.
type Client struct {
	endpoint string
	httpc    *http.Client
}

// NewClient creates a submission client for the configured remote service.
func NewClient(cfg config.RemoteConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		endpoint: cfg.Endpoint,
		httpc:    &http.Client{Timeout: timeout},
	}
}

// Submit posts one section payload and classifies the response. Transport
// failures (network errors, unparsable bodies, unrecognized statuses) are
// folded into a transport-error result rather than returned as Go errors:
// every outcome is recoverable by user action.
func (c *Client) Submit(ctx context.Context, payload map[string]any) *models.SubmissionResult {
	body, err := json.Marshal(payload)
	if err != nil {
		return transportResult(fmt.Sprintf("encode payload: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return transportResult(fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return transportResult(fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportResult(fmt.Sprintf("read response: %v", err))
	}

	result, ok := normalizeResponse(raw)
	if !ok {
		return transportResult(fmt.Sprintf("server returned status %d without a structured body", resp.StatusCode))
	}
	return result
}

func transportResult(message string) *models.SubmissionResult {
	return &models.SubmissionResult{
		Kind:    models.OutcomeTransportError,
		Message: message,
	}
}

// envelope is the remote service's response shape.
type envelope struct {
	Status           string                     `json:"status"`
	Message          string                     `json:"message"`
	SuccessfulModels []string                   `json:"successful_models"`
	Errors           map[string]json.RawMessage `json:"errors"`
}

// recordFailure is one rejected record: the echoed record plus field errors.
type recordFailure struct {
	Errors map[string][]string `json:"errors"`
}

// normalizeResponse converts the raw server body into the fixed submission
// record shape. It reports false when the body carries no recognizable
// status, which the caller treats as a transport error.
func normalizeResponse(raw []byte) (*models.SubmissionResult, bool) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, false
	}

	result := &models.SubmissionResult{Message: env.Message}

	switch env.Status {
	case "success":
		result.Kind = models.OutcomeSuccess
		return result, true
	case "partial_success":
		result.Kind = models.OutcomePartialSuccess
	case "validation_error", "error":
		result.Kind = models.OutcomeValidationError
	default:
		return nil, false
	}

	result.SuccessfulSlots = env.SuccessfulModels
	result.SlotErrors = make(map[string][]models.RecordError)
	result.ContactErrors = make(map[string]string)

	for key, value := range env.Errors {
		if isContactKey(key) {
			mergeContactErrors(result.ContactErrors, value)
			continue
		}
		if recErrs := decodeSlotErrors(key, value); len(recErrs) > 0 {
			result.SlotErrors[key] = recErrs
		}
	}

	if len(result.SlotErrors) == 0 {
		result.SlotErrors = nil
	}
	if len(result.ContactErrors) == 0 {
		result.ContactErrors = nil
	}
	return result, true
}

// isContactKey matches the contact-detail error keys the server emits,
// either bare or suffixed with a record index.
func isContactKey(key string) bool {
	return key == "ContactDetails" || hasRecordPrefix(key, "ContactDetails")
}

func hasRecordPrefix(key, model string) bool {
	prefix := model + "_record_"
	return strings.HasPrefix(key, prefix) && len(key) > len(prefix)
}

func mergeContactErrors(dst map[string]string, value json.RawMessage) {
	var failure recordFailure
	if err := json.Unmarshal(value, &failure); err != nil {
		return
	}
	for field, messages := range failure.Errors {
		dst[field] = joinMessages(messages)
	}
}

// decodeSlotErrors handles both server shapes for a failing slot: a map of
// "<Model>_record_<n>" keys to field errors, or a flat object with a single
// message (e.g. the no-matching-model rejection).
func decodeSlotErrors(slot string, value json.RawMessage) []models.RecordError {
	var perRecord map[string]json.RawMessage
	if err := json.Unmarshal(value, &perRecord); err != nil {
		return nil
	}

	if msg, ok := perRecord["message"]; ok && len(perRecord) <= 2 {
		var text string
		if json.Unmarshal(msg, &text) == nil && text != "" {
			return []models.RecordError{{Record: -1, Message: text}}
		}
	}

	var out []models.RecordError
	for key, rawFailure := range perRecord {
		record := parseRecordIndex(key, slot)

		var failure recordFailure
		if err := json.Unmarshal(rawFailure, &failure); err == nil && len(failure.Errors) > 0 {
			for field, messages := range failure.Errors {
				out = append(out, models.RecordError{
					Record:  record,
					Field:   field,
					Message: joinMessages(messages),
				})
			}
			continue
		}

		// Some rejections arrive as a bare string.
		var text string
		if json.Unmarshal(rawFailure, &text) == nil && text != "" {
			out = append(out, models.RecordError{Record: record, Message: text})
		}
	}
	return out
}

// parseRecordIndex extracts n from "<Model>_record_<n>"; -1 when the key
// does not follow that pattern.
func parseRecordIndex(key, model string) int {
	if !hasRecordPrefix(key, model) {
		return -1
	}
	suffix := key[len(model)+len("_record_"):]
	n := 0
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	if suffix == "" {
		return -1
	}
	return n
}

func joinMessages(messages []string) string {
	switch len(messages) {
	case 0:
		return ""
	case 1:
		return messages[0]
	}
	joined := messages[0]
	for _, m := range messages[1:] {
		joined += ", " + m
	}
	return joined
}
