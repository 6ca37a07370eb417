package parser

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/backpackerjohn/MM16/internal/errors"
)

func TestCandidateValidate(t *testing.T) {
	titles := []string{"Work", "Morning Run"}

	ok := Candidate{AnchorTitle: "Work", Message: "Pack bag"}
	if err := ok.Validate(titles); err != nil {
		t.Errorf("valid candidate rejected: %v", err)
	}

	unknown := Candidate{AnchorTitle: "Lunch", Message: "Pack bag"}
	err := unknown.Validate(titles)
	if err == nil {
		t.Fatal("unknown anchor title must be rejected, not ignored")
	}
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("error should be a validation error, got %v", err)
	}

	empty := Candidate{AnchorTitle: "Work"}
	if err := empty.Validate(titles); err == nil {
		t.Error("candidate without message must be rejected")
	}
}

func TestHTTPParserSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req parseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("malformed request: %v", err)
		}
		if req.Text != "remind me to pack before work" {
			t.Errorf("unexpected text %q", req.Text)
		}
		if len(req.AnchorTitles) != 1 || req.AnchorTitles[0] != "Work" {
			t.Errorf("anchor titles not forwarded: %v", req.AnchorTitles)
		}

		json.NewEncoder(w).Encode(parseResponse{
			OK: true,
			Data: &Candidate{
				AnchorTitle:   "Work",
				OffsetMinutes: -10,
				Message:       "Pack your bag",
				Why:           "Leaves the morning calm",
			},
		})
	}))
	defer server.Close()

	p := NewHTTPParser(server.URL)
	candidate, err := p.ParseReminder(context.Background(), "remind me to pack before work", []string{"Work"})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if candidate.AnchorTitle != "Work" || candidate.OffsetMinutes != -10 {
		t.Errorf("unexpected candidate: %+v", candidate)
	}
}

func TestHTTPParserFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"refusal", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(parseResponse{OK: false, Reason: "could not find an anchor"})
		}},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}},
		{"ok without data", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(parseResponse{OK: true})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			p := NewHTTPParser(server.URL)
			_, err := p.ParseReminder(context.Background(), "anything", nil)
			if err == nil {
				t.Fatal("expected an error")
			}
			// Collaborator failures are recoverable and must be
			// classified as such.
			if !errors.Is(err, apperrors.ErrCollaborator) {
				t.Errorf("error not marked as collaborator failure: %v", err)
			}
		})
	}
}

func TestHTTPParserUnreachable(t *testing.T) {
	p := NewHTTPParser("http://127.0.0.1:1")
	_, err := p.ParseReminder(context.Background(), "anything", nil)
	if !errors.Is(err, apperrors.ErrCollaborator) {
		t.Errorf("connection failure not marked as collaborator failure: %v", err)
	}
}
