package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spec-kit/subscriber-service/pkg/util"
)

func TestCatalog_Success(t *testing.T) {
	body := `[{"name":"mea"},{"name":"suisei"}]`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/vtubers" {
			t.Errorf("upstream path = %q; want /api/vtubers", r.URL.Path)
		}
		w.Write([]byte(body))
	}))
	defer server.Close()

	raw, entries, err := NewClient(server.URL, time.Second).Catalog(context.Background())
	if err != nil {
		t.Fatalf("Catalog returned error: %v", err)
	}
	if string(raw) != body {
		t.Errorf("raw = %q; want verbatim upstream body", raw)
	}
	if entries != 2 {
		t.Errorf("entries = %d; want 2", entries)
	}
}

func TestCatalog_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"non-2xx status",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			"non-json body",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>maintenance</html>"))
			},
		},
		{
			"json but not an array",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"vtubers":[]}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, _, err := NewClient(server.URL, time.Second).Catalog(context.Background())
			assertUpstreamUnavailable(t, err)
		})
	}
}

func TestCatalog_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, _, err := NewClient(server.URL, time.Second).Catalog(context.Background())
	assertUpstreamUnavailable(t, err)
}

func assertUpstreamUnavailable(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected upstream error, got nil")
	}
	var domainErr *util.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("error type = %T; want *util.DomainError", err)
	}
	if domainErr.Code != "UPSTREAM_UNAVAILABLE" {
		t.Errorf("code = %q; want UPSTREAM_UNAVAILABLE", domainErr.Code)
	}
	if domainErr.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("status = %d; want 500", domainErr.HTTPStatus)
	}
}
