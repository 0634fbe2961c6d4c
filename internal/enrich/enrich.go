// Package enrich implements the AI research lookups that populate workbook
// columns: investor research, company info fetches, description analysis,
// and the free-text profile checks. Each lookup builds a prompt, calls the
// configured provider, and parses the response into fixed result columns.
// Lookup failures land in the result's Err field rather than aborting a
// batch; callers write the error column and keep going.
package enrich

import "strings"

// stripFences removes a markdown code fence wrapper from a model response.
// Providers without a JSON output mode tend to wrap JSON in ```json fences.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		// Drop the language tag on the opening fence line.
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// truncate shortens a raw response for inclusion in an error column.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
