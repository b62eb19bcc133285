// Package integrations talks to the court's scheduling, notes and
// summarization services.
package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	DefaultCauseListURL     = "https://cause-list-api.onrender.com/api/cause-list"
	DefaultSmartScheduleURL = "https://nyayamitra-smart-scheduling.onrender.com/smart-schedule"
	DefaultNotesURL         = "https://nyayamitra-notes-ppdm.onrender.com"
	DefaultSummarizerURL    = "https://pratm-ai-case-summary-api.hf.space/summarize"

	defaultTimeout = 8 * time.Second

	// NextHearingLayout matches the date string the scheduling UI expects.
	NextHearingLayout = "Mon Jan 02 2006"
)

var ErrUpstream = errors.New("upstream service failed")

// RejectedError is returned when the summarizer refuses a document.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return "summarizer rejected document: " + e.Reason
}

// Config holds the service endpoints.
type Config struct {
	CauseListURL     string
	SmartScheduleURL string
	NotesURL         string
	SummarizerURL    string
	Timeout          time.Duration
}

// Client calls the external services. Failures are not retried.
type Client struct {
	cfg  Config
	http *http.Client
}

// ClientOption is a functional option for Client
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.http = c
	}
}

// NewClient creates a client, filling unset endpoints with defaults.
func NewClient(cfg Config, opts ...ClientOption) *Client {
	if cfg.CauseListURL == "" {
		cfg.CauseListURL = DefaultCauseListURL
	}
	if cfg.SmartScheduleURL == "" {
		cfg.SmartScheduleURL = DefaultSmartScheduleURL
	}
	if cfg.NotesURL == "" {
		cfg.NotesURL = DefaultNotesURL
	}
	if cfg.SummarizerURL == "" {
		cfg.SummarizerURL = DefaultSummarizerURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	c := &Client{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: cfg.Timeout}
	}
	return c
}

// CauseList fetches the cause list for date. The payload is passed through.
func (c *Client) CauseList(ctx context.Context, date string) (map[string]any, error) {
	u, err := url.Parse(c.cfg.CauseListURL)
	if err != nil {
		return nil, fmt.Errorf("invalid cause list url: %w", err)
	}
	q := u.Query()
	q.Set("date", date)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var out map[string]any
	if err := c.doJSON(req, &out); err != nil {
		return nil, fmt.Errorf("cause list: %w", err)
	}
	return out, nil
}

// PrioritizeByBench moves cases whose bench mentions lawyer to the front,
// keeping relative order otherwise. Payloads without a cases list are left
// untouched.
func PrioritizeByBench(data map[string]any, lawyer string) {
	cases, ok := data["cases"].([]any)
	if !ok {
		return
	}
	needle := strings.ToLower(strings.TrimSpace(lawyer))
	matches := func(v any) bool {
		m, ok := v.(map[string]any)
		if !ok {
			return false
		}
		bench, _ := m["bench"].(string)
		return strings.Contains(strings.ToLower(bench), needle)
	}
	sort.SliceStable(cases, func(i, j int) bool {
		return matches(cases[i]) && !matches(cases[j])
	})
}

// SmartSchedule asks the scheduler about cnr. When selectedDate is set and
// the scheduler suggests a gap, nextHearingDate is added to the payload.
func (c *Client) SmartSchedule(ctx context.Context, cnr string, selectedDate string) (map[string]any, error) {
	body, err := json.Marshal(map[string]string{"cnr_number": cnr})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.SmartScheduleURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var out map[string]any
	if err := c.doJSON(req, &out); err != nil {
		return nil, fmt.Errorf("smart schedule: %w", err)
	}

	if selectedDate != "" {
		if days, ok := out["suggested_next_hearing_days"].(float64); ok {
			if next, ok := NextHearingDate(selectedDate, int(days)); ok {
				out["nextHearingDate"] = next
			}
		}
	}
	return out, nil
}

// NextHearingDate adds days to a YYYY-MM-DD date.
func NextHearingDate(selected string, days int) (string, bool) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(selected))
	if err != nil {
		return "", false
	}
	return t.AddDate(0, 0, days).Format(NextHearingLayout), true
}

// SaveNote stores a note for cnr with the notes service.
func (c *Client) SaveNote(ctx context.Context, cnr, note string) (map[string]any, error) {
	body, err := json.Marshal(map[string]string{"cnr": cnr, "note": note})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.cfg.NotesURL, "/")+"/add_note", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out map[string]any
	if err := c.doJSON(req, &out); err != nil {
		return nil, fmt.Errorf("save note: %w", err)
	}
	return out, nil
}

// GetNotes fetches the notes stored for cnr.
func (c *Client) GetNotes(ctx context.Context, cnr string) (any, error) {
	u := strings.TrimRight(c.cfg.NotesURL, "/") + "/get_notes?cnr=" + url.QueryEscape(cnr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var out any
	if err := c.doJSON(req, &out); err != nil {
		return nil, fmt.Errorf("get notes: %w", err)
	}
	return out, nil
}

// Summarize uploads a document to the summarizer. A refusal that carries an
// error message comes back as *RejectedError.
func (c *Client) Summarize(ctx context.Context, filename, contentType string, r io.Reader) (map[string]any, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create form part: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to write form part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.SummarizerURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		var rejection struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &rejection) == nil && rejection.Error != "" {
			return nil, &RejectedError{Reason: rejection.Error}
		}
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return out, nil
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d - %s", ErrUpstream, resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrUpstream, err)
	}
	return nil
}
