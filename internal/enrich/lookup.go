package enrich

import (
	"context"
	"fmt"

	"github.com/klytics/prospectkit/internal/ai"
)

// BackgroundCheck asks the provider for the main achievements of the person
// behind a LinkedIn profile URL. The answer is free text and goes into the
// workbook as-is; errors are returned as a readable cell value so a batch
// run keeps going.
func BackgroundCheck(ctx context.Context, provider ai.Provider, url string) string {
	if url == "" {
		return "Background check skipped: Missing URL"
	}

	res, err := provider.Infer(ctx, "What are the main achievements of this entrepreneur:", url, ai.Options{WebSearch: true})
	if err != nil {
		return fmt.Sprintf("ERROR during background check: %v", err)
	}
	if res.Content == "" {
		return "Background check completed but no content returned"
	}
	return res.Content
}

// CompanyLookup asks the provider for the current employer details of the
// person behind a LinkedIn profile URL.
func CompanyLookup(ctx context.Context, provider ai.Provider, url string) string {
	if url == "" {
		return "Company lookup skipped: Missing URL"
	}

	system := "Find the current company information for this person. Provide the following details " +
		"in English: Email, Phone number, Company type, Industry, Latest revenue. If information is " +
		"not available, write 'Not available' for that field."

	res, err := provider.Infer(ctx, system, url, ai.Options{WebSearch: true})
	if err != nil {
		return fmt.Sprintf("ERROR during company lookup: %v", err)
	}
	if res.Content == "" {
		return "Company lookup completed but no content returned"
	}
	return res.Content
}
