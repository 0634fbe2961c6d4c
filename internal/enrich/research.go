package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/klytics/prospectkit/internal/ai"
)

// ResearchColumns are the workbook columns the investor research fills, in
// write order.
var ResearchColumns = []string{
	"Website",
	"Investment_Stage",
	"Ticket_Size",
	"Sector_Focus",
	"Investment_Strategy",
}

// ResearchResult holds one investor research lookup.
type ResearchResult struct {
	Website    string `json:"website"`
	Stage      string `json:"investmentStage"`
	TicketSize string `json:"ticketSize"`
	Sector     string `json:"sectorFocus"`
	Strategy   string `json:"investmentStrategy"`
	Err        string `json:"error,omitempty"`
}

// Values returns the result in ResearchColumns order.
func (r ResearchResult) Values() []string {
	return []string{r.Website, r.Stage, r.TicketSize, r.Sector, r.Strategy}
}

const researchSystemPrompt = "You are a financial analyst. User gives you companies one by one " +
	"and your task is to find investment information. Answer only JSON. No sources, explanation, " +
	"summary, nothing but just JSON."

const researchSchema = `{
  "Investor": "[Company Name]",
  "www": "[website.com]",
  "InvestmentProfile": {
    "Stage": ["Seed", "Series A", "etc"],
    "TicketSize": {
      "Currency": "EUR/USD",
      "Range": "€X - €Y",
      "Typical": "Around €X"
    },
    "SectorFocus": [
      "Technology",
      "B2B SaaS",
      "etc"
    ],
    "InvestmentStrategy": "Brief strategy description"
  }
}`

type researchResponse struct {
	Investor          string `json:"Investor"`
	WWW               string `json:"www"`
	InvestmentProfile struct {
		Stage              flexList   `json:"Stage"`
		TicketSize         flexTicket `json:"TicketSize"`
		SectorFocus        flexList   `json:"SectorFocus"`
		InvestmentStrategy string     `json:"InvestmentStrategy"`
	} `json:"InvestmentProfile"`
}

// Researcher runs investor research lookups against an AI provider. When a
// plain lookup comes back with only schema placeholders it retries with the
// provider's web search tool enabled.
type Researcher struct {
	Provider ai.Provider
}

// Research looks up investment details for one company. The returned
// result always has all fields set; failures are reported in Err with
// whatever partial data was recovered.
func (r *Researcher) Research(ctx context.Context, company, city string) ResearchResult {
	if company == "" {
		return ResearchResult{Website: "ERROR: Missing company name", Err: "Missing data"}
	}

	res, err := r.Provider.Infer(ctx, researchSystemPrompt, researchQuery(company, city), ai.Options{JSONOnly: true})
	if err != nil {
		return ResearchResult{Website: fmt.Sprintf("API Error: %v", err), Err: fmt.Sprintf("API call failed: %v", err)}
	}

	result, parseErr := parseResearch(res.Content)
	if parseErr != nil {
		return result
	}

	if isPlaceholderResearch(result) {
		webRes, webErr := r.Provider.Infer(ctx, researchSystemPrompt, researchQuery(company, city), ai.Options{WebSearch: true})
		if webErr == nil {
			webResult, webParseErr := parseResearch(webRes.Content)
			if webParseErr == nil && webResult.Website != "" && webResult.Err == "" {
				return webResult
			}
		}
		// Web search fallback did not improve the answer.
	}

	return result
}

func researchQuery(company, city string) string {
	q := "Find information defined in response JSON below. Make InvestmentStrategy very short. Company: " + company
	if city != "" {
		q += ", City: " + city
	}
	return q + "\n" + researchSchema
}

func parseResearch(raw string) (ResearchResult, error) {
	var resp researchResponse
	if err := json.Unmarshal([]byte(stripFences(raw)), &resp); err != nil {
		return ResearchResult{
			Website:  "JSON Parse Error",
			Strategy: truncate(raw, 200),
			Err:      fmt.Sprintf("JSON parsing failed: %v", err),
		}, err
	}

	p := resp.InvestmentProfile
	return ResearchResult{
		Website:    resp.WWW,
		Stage:      p.Stage.String(),
		TicketSize: p.TicketSize.String(),
		Sector:     p.SectorFocus.String(),
		Strategy:   p.InvestmentStrategy,
	}, nil
}

// isPlaceholderResearch reports whether a parsed response only echoes the
// schema placeholders back instead of real data.
func isPlaceholderResearch(r ResearchResult) bool {
	return r.Website == "" || r.Website == "[website.com]" ||
		r.Stage == "" || r.Stage == "etc" ||
		r.TicketSize == "" || r.TicketSize == "€X - €Y" || r.TicketSize == "Around €X" ||
		strings.Contains(r.TicketSize, "€X - €Y") ||
		r.Sector == "" || r.Sector == "etc" ||
		r.Strategy == "" || r.Strategy == "Brief strategy description"
}
