package catalogservice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/user/brand-ingest/internal/entity"
	"github.com/user/brand-ingest/internal/repository"
)

var payload = entity.DeferredCreatePayload{
	RecordID:     "rec-1",
	Name:         "Acme",
	CompanyName:  "Acme Inc",
	ProductType:  []string{"Chairs"},
	CountryCode:  "DE",
	CountryName:  "Germany",
	Website:      "https://acme.example",
	ContactEmail: "info@acme.example",
}

func TestCreateCatalog(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"flat", `{"id":"cat-9"}`},
		{"wrapped", `{"catalog":{"id":"cat-9"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/catalogs" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer secret" {
					t.Errorf("authorization = %q", got)
				}
				var req createRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("decode: %v", err)
				}
				if req.ExternalID != "rec-1" || req.CountryName != "Germany" {
					t.Errorf("unexpected request body %+v", req)
				}
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, err := New(Options{BaseURL: srv.URL, Token: "secret"})
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			id, err := c.CreateCatalog(context.Background(), payload)
			if err != nil || id != "cat-9" {
				t.Fatalf("got %q, %v", id, err)
			}
		})
	}
}

func TestCreateCatalog_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"website is invalid"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c, _ := New(Options{BaseURL: srv.URL})
	_, err := c.CreateCatalog(context.Background(), payload)
	if !errors.Is(err, repository.ErrCatalogServiceRejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
}

func TestCreateCatalog_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, _ := New(Options{BaseURL: srv.URL})
	_, err := c.CreateCatalog(context.Background(), payload)
	if err == nil || errors.Is(err, repository.ErrCatalogServiceRejected) {
		t.Fatalf("expected a plain error, got %v", err)
	}
}

func TestNew_RequiresBaseURL(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected an error")
	}
}
