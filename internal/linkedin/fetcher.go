// Package linkedin fetches public profile pages and extracts the bio text
// that LinkedIn publishes in the page's description meta tags. Only the
// HTML head is of interest; the page body is never interpreted.
package linkedin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	// Profile pages serve a consent wall to obvious bots; a browser-like
	// user agent keeps the meta tags in the response.
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/123.0 Safari/537.36"

	defaultTimeout = 15 * time.Second
)

// Fetcher retrieves profile bios over HTTP.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher creates a fetcher with the default browser-like client.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
	}
}

// NewFetcherWithClient creates a fetcher around a caller-supplied client.
func NewFetcherWithClient(client *http.Client) *Fetcher {
	return &Fetcher{client: client, userAgent: defaultUserAgent}
}

// FetchBio requests the profile page at url and returns the first non-empty
// og:description or description meta content. Returns "" when the page has
// no usable description. Transport and status failures are returned as
// errors; callers decide whether a row-level failure should stop a run
// (they generally record it in the cell and continue).
func (f *Fetcher) FetchBio(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("could not build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", "en")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("profile page returned status %d", resp.StatusCode)
	}

	return metaDescription(resp.Body), nil
}

// metaKeys are checked in priority order; og:description is the tag
// LinkedIn fills with the profile bio.
var metaKeys = []string{"og:description", "description"}

// metaDescription tokenizes the page and collects meta tag content by
// property/name. Parsing stops at the end of the head — profile bodies are
// large and carry nothing of interest.
func metaDescription(r io.Reader) string {
	found := make(map[string]string, len(metaKeys))

	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return pickDescription(found)
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if tag == "body" {
				return pickDescription(found)
			}
			if tag != "meta" || !hasAttr {
				continue
			}

			var key, content string
			for {
				k, v, more := z.TagAttr()
				switch string(k) {
				case "property", "name":
					if key == "" {
						key = strings.ToLower(string(v))
					}
				case "content":
					content = string(v)
				}
				if !more {
					break
				}
			}
			if key != "" {
				if _, dup := found[key]; !dup {
					found[key] = content
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "head" {
				return pickDescription(found)
			}
		}
	}
}

func pickDescription(found map[string]string) string {
	for _, key := range metaKeys {
		if v := strings.TrimSpace(found[key]); v != "" {
			return v
		}
	}
	return ""
}
