package daily

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPEnricher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("word") {
		case "lolly":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"word":"lolly","phonetic":"/ˈlɒli/","meaning":"a <b>sweet</b> on a stick<script>x()</script>","sentence":"She  bought a lolly."}`))
		case "empty":
			_, _ = w.Write([]byte(`{"word":"empty"}`))
		default:
			http.Error(w, "unknown", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	enr := NewHTTPEnricher(EnricherConfig{Endpoint: srv.URL, Timeout: time.Second})
	d, err := enr.Enrich(context.Background(), "lolly")
	if err != nil {
		t.Fatal(err)
	}
	if d.Meaning != "a sweet on a stick" || d.Example != "She bought a lolly." || d.Phonetic != "/ˈlɒli/" {
		t.Fatalf("details = %+v", d)
	}
	for _, w := range []string{"empty", "crane"} {
		if _, err := enr.Enrich(context.Background(), w); !errors.Is(err, ErrEnrichmentUnavailable) {
			t.Fatalf("%s: %v", w, err)
		}
	}
}

func TestHTTPEnricherHonoursContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewHTTPEnricher(EnricherConfig{Endpoint: srv.URL}).Enrich(ctx, "lolly")
	if !errors.Is(err, ErrEnrichmentUnavailable) {
		t.Fatalf("expected unavailable on timeout, got %v", err)
	}
}
