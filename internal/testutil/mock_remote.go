// mock_remote.go - Scripted remote service and decoder for testing
package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	"github.com/rms-collector/backend/internal/models"
)

// ScriptedRemote implements submit.Remote with canned results, recording
// how often it was called.
type ScriptedRemote struct {
	Results  []*models.SubmissionResult
	Payloads []map[string]any
	calls    int32
}

// Submit returns the next scripted result, repeating the last one when the
// script runs out.
func (r *ScriptedRemote) Submit(_ context.Context, payload map[string]any) *models.SubmissionResult {
	n := int(atomic.AddInt32(&r.calls, 1)) - 1
	r.Payloads = append(r.Payloads, payload)
	if len(r.Results) == 0 {
		return &models.SubmissionResult{Kind: models.OutcomeSuccess}
	}
	if n >= len(r.Results) {
		n = len(r.Results) - 1
	}
	return r.Results[n]
}

// Calls returns how many submissions reached the remote.
func (r *ScriptedRemote) Calls() int {
	return int(atomic.LoadInt32(&r.calls))
}

// StaticDecoder implements ingest.Decoder with fixed sheets.
type StaticDecoder struct {
	Sheets []models.Sheet
	Err    error
}

// Decode returns the configured sheets or error, ignoring the input bytes.
func (d *StaticDecoder) Decode([]byte) ([]models.Sheet, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	return d.Sheets, nil
}

// RecordsOf builds a decoder producing one sheet with n trivial records.
func RecordsOf(sheet string, n int) *StaticDecoder {
	records := make([]models.Record, n)
	for i := range records {
		records[i] = models.Record{"row": i + 1}
	}
	return &StaticDecoder{Sheets: []models.Sheet{{Name: sheet, Records: records}}}
}

// JSONServer starts an httptest server that always answers with the given
// status code and body. The caller must Close it.
func JSONServer(status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}
