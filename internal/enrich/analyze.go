package enrich

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/klytics/prospectkit/internal/ai"
)

// AnalysisColumns are the workbook columns the description analysis fills,
// in write order.
var AnalysisColumns = []string{
	"AI_SectorFocus",
	"AI_Stage",
	"AI_TicketSize_Min",
	"AI_TicketSize_Max",
	"AI_Website",
	"AI_Error",
}

// minDescriptionLength is the shortest description worth sending to the
// model; anything shorter has no extractable detail.
const minDescriptionLength = 50

// AnalysisResult holds one description analysis.
type AnalysisResult struct {
	Sector    string `json:"sectorFocus"`
	Stage     string `json:"stage"`
	TicketMin string `json:"ticketSizeMin"`
	TicketMax string `json:"ticketSizeMax"`
	Website   string `json:"website"`
	Err       string `json:"error,omitempty"`
}

// Values returns the result in AnalysisColumns order.
func (r AnalysisResult) Values() []string {
	return []string{r.Sector, r.Stage, r.TicketMin, r.TicketMax, r.Website, r.Err}
}

const analyzeSystemPrompt = `Analyze this investor description and extract structured investment information.

Please return ONLY a JSON object with the following structure:
{
  "SectorFocus": ["Technology", "FinTech", "Healthcare", "etc"],
  "Stage": ["Pre-Seed", "Seed", "Series A", "Series B", "Growth", "etc"],
  "TicketSize": {
    "Min": "€100K",
    "Max": "€5M"
  },
  "Website": "www.example.com"
}

Important:
- SectorFocus: List of investment sectors/industries
- Stage: List of investment stages they focus on
- TicketSize: Extract or estimate investment amounts with currency
- Website: Only include if explicitly mentioned or well-known
- Use empty strings for unknown fields
- Return ONLY the JSON object, no other text`

type analysisResponse struct {
	SectorFocus flexList `json:"SectorFocus"`
	Stage       flexList `json:"Stage"`
	TicketSize  struct {
		Min string `json:"Min"`
		Max string `json:"Max"`
	} `json:"TicketSize"`
	Website string `json:"Website"`
}

// AnalyzeDescription extracts structured investment data from a free-text
// investor description. Existing ticket size data, when present, is handed
// to the model so it can reconcile rather than re-estimate.
func AnalyzeDescription(ctx context.Context, provider ai.Provider, description, existingTicketSize string) AnalysisResult {
	if len(description) <= minDescriptionLength {
		return AnalysisResult{Err: "Description too short"}
	}

	ticket := existingTicketSize
	if ticket == "" {
		ticket = "Not provided"
	}
	prompt := fmt.Sprintf("Description: %s\nExisting Ticket Size Info: %s", description, ticket)

	res, err := provider.Infer(ctx, analyzeSystemPrompt, prompt, ai.Options{JSONOnly: true})
	if err != nil {
		return AnalysisResult{Err: fmt.Sprintf("API call failed: %v", err)}
	}
	if res.Content == "" {
		return AnalysisResult{Err: "Empty response"}
	}

	var resp analysisResponse
	if err := json.Unmarshal([]byte(stripFences(res.Content)), &resp); err != nil {
		return AnalysisResult{Err: fmt.Sprintf("JSON parsing failed: %v — raw: %s", err, truncate(res.Content, 200))}
	}

	return AnalysisResult{
		Sector:    resp.SectorFocus.String(),
		Stage:     resp.Stage.String(),
		TicketMin: resp.TicketSize.Min,
		TicketMax: resp.TicketSize.Max,
		Website:   resp.Website,
	}
}
