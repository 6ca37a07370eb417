// Package parser defines the contract with the external natural-language
// collaborator that turns free-text reminder requests into structured
// candidates. The engine never interprets text itself; it only validates
// what the collaborator returns.
package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/backpackerjohn/MM16/internal/errors"
)

// Candidate is the structured reminder request a collaborator returns.
// AnchorTitle must exactly match a known anchor title; the engine rejects
// unknown titles as a validation error rather than ignoring them.
type Candidate struct {
	AnchorTitle   string `json:"anchor_title"`
	OffsetMinutes int    `json:"offset_minutes"`
	Message       string `json:"message"`
	Why           string `json:"why"`
}

// Validate checks the candidate against the currently known anchor titles.
func (c *Candidate) Validate(anchorTitles []string) error {
	if c.Message == "" {
		return apperrors.Validationf("parsed reminder has no message")
	}
	for _, title := range anchorTitles {
		if title == c.AnchorTitle {
			return nil
		}
	}
	return apperrors.Validationf("no anchor named %q", c.AnchorTitle)
}

// ReminderParser is implemented by natural-language collaborators.
type ReminderParser interface {
	ParseReminder(ctx context.Context, text string, anchorTitles []string) (Candidate, error)
}

// HTTPParser talks to a collaborator service over HTTP. Parse failures are
// always recoverable: the engine keeps operating on its own state and only
// the requested reminder fails to materialize.
type HTTPParser struct {
	url    string
	client *http.Client
}

func NewHTTPParser(url string) *HTTPParser {
	return &HTTPParser{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type parseRequest struct {
	Text         string   `json:"text"`
	AnchorTitles []string `json:"anchor_titles"`
}

type parseResponse struct {
	OK     bool       `json:"ok"`
	Data   *Candidate `json:"data,omitempty"`
	Reason string     `json:"reason,omitempty"`
}

func (p *HTTPParser) ParseReminder(ctx context.Context, text string, anchorTitles []string) (Candidate, error) {
	body, err := json.Marshal(parseRequest{Text: text, AnchorTitles: anchorTitles})
	if err != nil {
		return Candidate{}, fmt.Errorf("failed to serialize parse request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return Candidate{}, fmt.Errorf("failed to build parse request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Candidate{}, fmt.Errorf("reminder parse request failed: %w", apperrors.ErrCollaborator)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Candidate{}, fmt.Errorf("reminder parser returned status %d: %w", resp.StatusCode, apperrors.ErrCollaborator)
	}

	var parsed parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Candidate{}, fmt.Errorf("malformed parser response: %w", apperrors.ErrCollaborator)
	}
	if !parsed.OK || parsed.Data == nil {
		reason := parsed.Reason
		if reason == "" {
			reason = "parser could not understand the request"
		}
		return Candidate{}, fmt.Errorf("%s: %w", reason, apperrors.ErrCollaborator)
	}

	return *parsed.Data, nil
}
