package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/klytics/prospectkit/internal/ai"
)

// CompanyInfoColumns are the workbook columns the company info fetch fills,
// in write order.
var CompanyInfoColumns = []string{
	"AI_Revenue",
	"AI_CEO_Name",
	"AI_CEO_Bio",
	"AI_LinkedIn_URL",
	"AI_Error",
}

// CompanyInfoResult holds one company info lookup.
type CompanyInfoResult struct {
	Revenue     string `json:"revenue"`
	CEOName     string `json:"ceoName"`
	CEOBio      string `json:"ceoBio"`
	LinkedInURL string `json:"linkedInUrl"`
	Err         string `json:"error,omitempty"`
}

// Values returns the result in CompanyInfoColumns order.
func (r CompanyInfoResult) Values() []string {
	return []string{r.Revenue, r.CEOName, r.CEOBio, r.LinkedInURL, r.Err}
}

const companyInfoSystemPrompt = "You are a financial analyst. User gives you companies one by one " +
	"and your task is to find information: revenue, CEO name, CEO bio, and LinkedIn profile URL.\n" +
	"Look on finder.fi with company name, LinkedIn for CEO bio and profile URL.\n" +
	"Response only JSON, no references, background data, nothing else."

type companyInfoResponse struct {
	CompanyName        string `json:"companyName"`
	Revenue            string `json:"revenue"`
	CEOName            string `json:"ceoName"`
	CEOBioInLinkedin   string `json:"ceoBioInLinkedin"`
	LinkedInProfileURL string `json:"linkedInProfileUrl"`
}

// FetchCompanyInfo looks up revenue, CEO name, CEO bio and LinkedIn URL for
// one company via the provider's web search.
func FetchCompanyInfo(ctx context.Context, provider ai.Provider, company string) CompanyInfoResult {
	if company == "" {
		return CompanyInfoResult{Err: "Missing company name"}
	}

	prompt := fmt.Sprintf(`Find information defined in response JSON below.
{
  "companyName": %q,
  "revenue": "X€",
  "ceoName": "N.N.",
  "ceoBioInLinkedin": "He is .....",
  "linkedInProfileUrl": "https://www.linkedin.com/in/ceo-name"
}`, company)

	res, err := provider.Infer(ctx, companyInfoSystemPrompt, prompt, ai.Options{WebSearch: true})
	if err != nil {
		return CompanyInfoResult{Err: fmt.Sprintf("API call failed: %v", err)}
	}
	if res.Content == "" {
		return CompanyInfoResult{Err: "Empty response"}
	}

	var resp companyInfoResponse
	if err := json.Unmarshal([]byte(stripFences(res.Content)), &resp); err != nil {
		return companyInfoFromText(res.Content)
	}

	return CompanyInfoResult{
		Revenue:     cleanPlaceholder(resp.Revenue, "x€", "n.n.", "unknown", "not available"),
		CEOName:     cleanPlaceholder(resp.CEOName, "n.n.", "unknown", "not available"),
		CEOBio:      cleanPlaceholder(resp.CEOBioInLinkedin, "he is .....", "not available", "unknown"),
		LinkedInURL: cleanPlaceholder(resp.LinkedInProfileURL, "https://www.linkedin.com/in/ceo-name", "not available", "unknown"),
	}
}

// cleanPlaceholder blanks a value that only echoes a schema placeholder.
func cleanPlaceholder(v string, placeholders ...string) string {
	lower := strings.ToLower(v)
	for _, p := range placeholders {
		if lower == p {
			return ""
		}
	}
	return v
}

// companyInfoFromText salvages what it can from a non-JSON response: a line
// mentioning revenue with an amount, and a short line naming the CEO.
func companyInfoFromText(raw string) CompanyInfoResult {
	var revenue, ceoName string

	lower := strings.ToLower(raw)
	if strings.Contains(lower, "revenue") || strings.Contains(raw, "€") {
		for _, line := range strings.Split(raw, "\n") {
			ll := strings.ToLower(line)
			if strings.Contains(ll, "revenue") && (strings.Contains(line, "€") || strings.Contains(ll, "million")) {
				revenue = strings.TrimSpace(line)
				break
			}
		}
	}
	if strings.Contains(lower, "ceo") {
		for _, line := range strings.Split(raw, "\n") {
			if strings.Contains(strings.ToLower(line), "ceo") && len(strings.Fields(line)) < 10 {
				ceoName = strings.TrimSpace(line)
				break
			}
		}
	}

	return CompanyInfoResult{
		Revenue: revenue,
		CEOName: ceoName,
		Err:     "JSON parsing failed, extracted from text: " + truncate(raw, 100),
	}
}
