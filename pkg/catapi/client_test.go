package catapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dskvich/catpic-telegram-bot/pkg/domain"
)

func TestFetchRandom(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantErr     error
		wantImageID string
	}{
		{
			name:        "parses the first image",
			status:      http.StatusOK,
			body:        `[{"id":"abc","url":"https://cdn2.thecatapi.com/images/abc.jpg"}]`,
			wantImageID: "abc",
		},
		{
			name:    "server error is unavailable",
			status:  http.StatusInternalServerError,
			body:    `oops`,
			wantErr: domain.ErrUnavailable,
		},
		{
			name:    "429 is rate limited",
			status:  http.StatusTooManyRequests,
			body:    `slow down`,
			wantErr: domain.ErrRateLimited,
		},
		{
			name:    "non-json body is malformed",
			status:  http.StatusOK,
			body:    `<html>not json</html>`,
			wantErr: domain.ErrMalformedResponse,
		},
		{
			name:    "empty array is malformed",
			status:  http.StatusOK,
			body:    `[]`,
			wantErr: domain.ErrMalformedResponse,
		},
		{
			name:    "missing url is malformed",
			status:  http.StatusOK,
			body:    `[{"id":"abc"}]`,
			wantErr: domain.ErrMalformedResponse,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(test.status)
				w.Write([]byte(test.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "")
			ref, err := c.FetchRandom(context.Background())

			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("expected %v, got %v", test.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("fetch failed: %v", err)
			}
			if ref.SourceID != "thecatapi" || ref.ImageID != test.wantImageID {
				t.Fatalf("unexpected ref %+v", ref)
			}
		})
	}
}

func TestFetchRandomSendsAPIKey(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		w.Write([]byte(`[{"id":"abc","url":"https://cdn2.thecatapi.com/images/abc.jpg"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	if _, err := c.FetchRandom(context.Background()); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if gotKey != "secret" {
		t.Fatalf("expected api key header, got %q", gotKey)
	}
}

func TestFetchRandomUnreachableHost(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "")
	if _, err := c.FetchRandom(context.Background()); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
