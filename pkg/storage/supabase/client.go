// Package supabase provides a storage.SubmissionStorage backed by a hosted
// Supabase project. It speaks the project's PostgREST interface directly:
// rows are written with POST /rest/v1/<table> and read with filtered GETs,
// authenticated with the project's API key.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"ipms/pkg/domain"
	"ipms/pkg/storage"
)

// DefaultTable is the table contact submissions are written to.
const DefaultTable = "contact_submissions"

// ErrMissingCredentials is returned by New when the project URL or API key is empty.
var ErrMissingCredentials = errors.New("supabase project URL and API key are required")

// Options configures a Client.
type Options struct {
	// URL is the project URL, e.g. https://xyzcompany.supabase.co.
	URL string
	// APIKey is the project's public (anon) or service key.
	APIKey string
	// Table defaults to DefaultTable.
	Table string
	// Schema selects a non-default Postgres schema through the
	// Content-Profile and Accept-Profile headers.
	Schema string
	// ReturnRepresentation asks PostgREST to echo inserted rows. The anon role
	// usually lacks SELECT on the table, so it is off by default.
	ReturnRepresentation bool
}

// Client talks to the PostgREST endpoint of a Supabase project. It is safe for
// concurrent use.
type Client struct {
	httpClient *http.Client // httpClient performs HTTP requests to the project
	restURL    *url.URL     // restURL points at <project>/rest/v1/<table>
	apiKey     string       // apiKey is sent as both apikey and bearer token
	schema     string
	returnRows bool
}

// row is the JSON shape of a contact_submissions row.
type row struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Message   string     `json:"message"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func (r row) toDomain() domain.Submission {
	s := domain.Submission{
		Name:    r.Name,
		Email:   r.Email,
		Message: r.Message,
	}
	if r.ID != nil {
		s.ID = domain.SubmissionID(*r.ID)
	}
	if r.CreatedAt != nil {
		s.CreatedAt = *r.CreatedAt
	}

	return s
}

// apiError is the PostgREST error body.
type apiError struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Details *string `json:"details"`
	Hint    *string `json:"hint"`
}

// ParseError converts a non-2xx PostgREST response body into a
// storage.RemoteError. Bodies that are not PostgREST errors are kept verbatim
// as the message.
func ParseError(status int, body []byte) *storage.RemoteError {
	out := &storage.RemoteError{Status: status}

	var ae apiError
	if err := json.Unmarshal(body, &ae); err != nil || (ae.Code == "" && ae.Message == "") {
		out.Message = strings.TrimSpace(string(body))

		return out
	}

	out.Code = ae.Code
	out.Message = ae.Message
	if ae.Details != nil {
		out.Details = *ae.Details
	}
	if ae.Hint != nil {
		out.Hint = *ae.Hint
	}

	return out
}

func (c *Client) newRequest(ctx context.Context, method string, u *url.URL, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.schema != "" {
		req.Header.Set("Accept-Profile", c.schema)
		req.Header.Set("Content-Profile", c.schema)
	}

	return req, nil
}

// do sends req and returns the response body of a 2xx answer, or a
// *storage.RemoteError for any other status.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ParseError(resp.StatusCode, b)
	}

	return b, nil
}

// StoreSubmission inserts one row into the submissions table. Without
// ReturnRepresentation the submission is returned as sent, with no ID or
// CreatedAt.
func (c *Client) StoreSubmission(ctx context.Context, submission domain.Submission) (*domain.Submission, error) {
	bodyBytes, err := json.Marshal([]row{{
		Name:    submission.Name,
		Email:   submission.Email,
		Message: submission.Message,
	}})
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.restURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	if c.returnRows {
		req.Header.Set("Prefer", "return=representation")
	} else {
		req.Header.Set("Prefer", "return=minimal")
	}

	b, err := c.do(req)
	if err != nil {
		return nil, err
	}

	if !c.returnRows || len(bytes.TrimSpace(b)) == 0 {
		out := submission
		out.ID = domain.SubmissionID{}
		out.CreatedAt = time.Time{}

		return &out, nil
	}

	var rows []row
	if err := json.Unmarshal(b, &rows); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}
	if len(rows) == 0 {
		return nil, &storage.RemoteError{Message: "insert returned no row"}
	}
	out := rows[0].toDomain()

	return &out, nil
}

// Submissions lists rows newest first. It needs a key whose role may SELECT
// from the table.
func (c *Client) Submissions(ctx context.Context, cursor storage.Cursor, limit uint) (storage.SubmissionPage, error) {
	u := *c.restURL
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc,id.desc")
	// fetch one extra to determine if there is a next page
	q.Set("limit", strconv.FormatUint(uint64(limit)+1, 10))
	if !cursor.IsZero() {
		// (created_at, id) < cursor; a zero id sorts first and drops out
		ts := strconv.Quote(cursor.CreatedAt.UTC().Format(time.RFC3339Nano))
		q.Set("or", fmt.Sprintf("(created_at.lt.%s,and(created_at.eq.%s,id.lt.%s))", ts, ts, cursor.ID))
	}
	u.RawQuery = q.Encode()

	req, err := c.newRequest(ctx, http.MethodGet, &u, nil)
	if err != nil {
		return storage.SubmissionPage{}, err
	}

	b, err := c.do(req)
	if err != nil {
		return storage.SubmissionPage{}, err
	}

	var rows []row
	if err := json.Unmarshal(b, &rows); err != nil {
		return storage.SubmissionPage{}, fmt.Errorf("could not decode response: %w", err)
	}

	var more bool
	if uint(len(rows)) > limit {
		rows = rows[:limit]
		more = limit > 0
	}

	out := make([]domain.Submission, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}

	var nextCursor *storage.Cursor
	if more && !out[len(out)-1].CreatedAt.IsZero() {
		next := storage.CursorOf(out[len(out)-1])
		nextCursor = &next
	}

	return storage.SubmissionPage{Submissions: out, NextCursor: nextCursor}, nil
}

// Ensure Client conforms to the storage.SubmissionStorage interface at compile time.
var _ storage.SubmissionStorage = (*Client)(nil)

// New constructs a Client from the project URL and API key. The http.Client
// is used as is, so callers control timeouts and transport.
func New(httpClient *http.Client, options Options) (*Client, error) {
	if options.URL == "" || options.APIKey == "" {
		return nil, ErrMissingCredentials
	}

	base, err := url.Parse(strings.TrimRight(options.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("could not parse project URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("project URL %q must be absolute", options.URL)
	}

	table := options.Table
	if table == "" {
		table = DefaultTable
	}

	return &Client{
		httpClient: httpClient,
		restURL:    base.JoinPath("rest", "v1", table),
		apiKey:     options.APIKey,
		schema:     options.Schema,
		returnRows: options.ReturnRepresentation,
	}, nil
}
