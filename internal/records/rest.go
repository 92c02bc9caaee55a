package records

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"booth-go/internal/booth"
	"booth-go/internal/config"
)

// RESTRecorder inserts upload records into a PostgREST-style table
// (Supabase in production).
type RESTRecorder struct {
	endpoint string
	key      string
	client   *http.Client
}

// NewRESTRecorder creates a recorder posting to {baseURL}/rest/v1/{table}.
func NewRESTRecorder(baseURL, key, table string, client *http.Client) *RESTRecorder {
	if table == "" {
		table = config.DefaultRecordsTable
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &RESTRecorder{
		endpoint: strings.TrimRight(baseURL, "/") + "/rest/v1/" + table,
		key:      key,
		client:   client,
	}
}

// Record inserts rec and returns the row the server echoes back.
func (r *RESTRecorder) Record(ctx context.Context, rec booth.UploadRecord) (*booth.UploadRecord, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.key)
	req.Header.Set("apikey", r.key)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to post record: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("record insert failed: %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	var rows []booth.UploadRecord
	if len(bytes.TrimSpace(respBody)) == 0 {
		return &rec, nil
	}
	if err := json.Unmarshal(respBody, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(rows) == 0 {
		return &rec, nil
	}
	return &rows[0], nil
}

// Compile-time check that RESTRecorder implements booth.Recorder interface
var _ booth.Recorder = (*RESTRecorder)(nil)
