package linkedin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const profilePage = `<!DOCTYPE html>
<html>
<head>
  <meta property="og:title" content="Jane Doe - CEO"/>
  <meta property="og:description" content="Founder &amp; CEO at Acme. 15 years in fintech."/>
  <meta name="description" content="Short fallback description"/>
</head>
<body><p>lots of markup</p></body>
</html>`

func TestFetchBio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "Mozilla") {
			t.Errorf("expected a browser-like user agent, got %q", ua)
		}
		w.Write([]byte(profilePage))
	}))
	defer srv.Close()

	bio, err := NewFetcherWithClient(srv.Client()).FetchBio(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchBio failed: %v", err)
	}

	want := "Founder & CEO at Acme. 15 years in fintech."
	if bio != want {
		t.Errorf("got %q, want %q", bio, want)
	}
}

func TestFetchBioFallsBackToDescription(t *testing.T) {
	page := `<html><head><meta name="description" content="fallback bio"/></head><body/></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	bio, err := NewFetcherWithClient(srv.Client()).FetchBio(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchBio failed: %v", err)
	}
	if bio != "fallback bio" {
		t.Errorf("got %q, want %q", bio, "fallback bio")
	}
}

func TestFetchBioNoDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>nothing here</title></head><body/></html>`))
	}))
	defer srv.Close()

	bio, err := NewFetcherWithClient(srv.Client()).FetchBio(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchBio failed: %v", err)
	}
	if bio != "" {
		t.Errorf("expected empty bio, got %q", bio)
	}
}

func TestFetchBioErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewFetcherWithClient(srv.Client()).FetchBio(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected an error for a 403 response")
	}
}

func TestFetchBioEmptyURL(t *testing.T) {
	bio, err := NewFetcher().FetchBio(context.Background(), "")
	if err != nil || bio != "" {
		t.Errorf("empty URL should be a no-op, got %q, %v", bio, err)
	}
}

func TestMetaDescriptionStopsAtBody(t *testing.T) {
	// A description tag after the body must not rescue a page whose head
	// carried nothing.
	page := `<html><head></head><body><meta name="description" content="too late"/></body></html>`
	if got := metaDescription(strings.NewReader(page)); got != "" {
		t.Errorf("expected body meta tags to be ignored, got %q", got)
	}
}
