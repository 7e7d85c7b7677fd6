// Package airtable is a read-only client for the Jobs table of an Airtable
// base.
package airtable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "https://api.airtable.com/v0"
	pageSize       = 100
	maxPages       = 100 // 10k records
	httpTimeout    = 15 * time.Second

	activeFormula = "{status} = 'active'"
	sortField     = "posted_date"
)

// ErrNotFound is returned when the base, table or record does not exist.
var ErrNotFound = errors.New("airtable: not found")

// Record is one row as returned by the API.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client reads one table. BaseURL may be pointed at a test server.
type Client struct {
	BaseURL string
	Token   string
	BaseID  string
	Table   string
	client  *http.Client
}

// NewClient constructs a client with a shared HTTP client.
func NewClient(token, baseID, table string) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		Token:   token,
		BaseID:  baseID,
		Table:   table,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

// ListActive returns every active record, newest posted_date first,
// following the offset cursor until the table is exhausted.
func (c *Client) ListActive(ctx context.Context) ([]Record, error) {
	var records []Record
	offset := ""

	for page := 1; page <= maxPages; page++ {
		params := url.Values{}
		params.Set("filterByFormula", activeFormula)
		params.Set("sort[0][field]", sortField)
		params.Set("sort[0][direction]", "desc")
		params.Set("pageSize", strconv.Itoa(pageSize))
		if offset != "" {
			params.Set("offset", offset)
		}

		var resp listResponse
		if err := c.get(ctx, c.tableURL()+"?"+params.Encode(), &resp); err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		records = append(records, resp.Records...)

		if resp.Offset == "" {
			return records, nil
		}
		offset = resp.Offset
	}

	log.Warn().Int("pages", maxPages).Msg("airtable: page limit reached, listing truncated")
	return records, nil
}

// Find fetches a single record by id.
func (c *Client) Find(ctx context.Context, id string) (Record, error) {
	var rec Record
	if err := c.get(ctx, c.tableURL()+"/"+url.PathEscape(id), &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Ping lists at most one record to verify the token, base and table.
func (c *Client) Ping(ctx context.Context) error {
	var resp listResponse
	if err := c.get(ctx, c.tableURL()+"?maxRecords=1", &resp); err != nil {
		return fmt.Errorf("airtable ping: %w", err)
	}
	log.Info().Int("records", len(resp.Records)).Str("table", c.Table).Msg("connected to airtable")
	return nil
}

func (c *Client) tableURL() string {
	return fmt.Sprintf("%s/%s/%s", c.BaseURL, url.PathEscape(c.BaseID), url.PathEscape(c.Table))
}

func (c *Client) get(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Type != "" {
			return fmt.Errorf("airtable returned %d: %s: %s", resp.StatusCode, apiErr.Error.Type, apiErr.Error.Message)
		}
		return fmt.Errorf("airtable returned %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("json unmarshal: %w", err)
	}
	return nil
}
