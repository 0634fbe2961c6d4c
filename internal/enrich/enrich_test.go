package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/klytics/prospectkit/internal/ai"
)

// fakeProvider returns scripted responses in order and records the options
// of every call.
type fakeProvider struct {
	responses []string
	err       error
	calls     []ai.Options
	prompts   []string
}

func (f *fakeProvider) Infer(ctx context.Context, system, user string, opts ai.Options) (*ai.Result, error) {
	f.calls = append(f.calls, opts)
	f.prompts = append(f.prompts, user)
	if f.err != nil {
		return nil, f.err
	}
	idx := len(f.calls) - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return &ai.Result{Content: f.responses[idx], Model: "fake"}, nil
}

func (f *fakeProvider) Name() string { return "fake" }

const goodResearchJSON = `{
  "Investor": "Acme Ventures",
  "www": "acme.vc",
  "InvestmentProfile": {
    "Stage": ["Seed", "Series A"],
    "TicketSize": {"Currency": "EUR", "Range": "€250K - €2M", "Typical": "Around €1M"},
    "SectorFocus": ["B2B SaaS", "FinTech"],
    "InvestmentStrategy": "Early-stage European software."
  }
}`

func TestResearch(t *testing.T) {
	p := &fakeProvider{responses: []string{goodResearchJSON}}
	r := &Researcher{Provider: p}

	got := r.Research(context.Background(), "Acme Ventures", "Helsinki")
	if got.Err != "" {
		t.Fatalf("unexpected error: %s", got.Err)
	}
	if got.Website != "acme.vc" {
		t.Errorf("Website = %q", got.Website)
	}
	if got.Stage != "Seed, Series A" {
		t.Errorf("Stage = %q", got.Stage)
	}
	if got.TicketSize != "€250K - €2M (Around €1M)" {
		t.Errorf("TicketSize = %q", got.TicketSize)
	}
	if got.Sector != "B2B SaaS, FinTech" {
		t.Errorf("Sector = %q", got.Sector)
	}
	if len(p.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(p.calls))
	}
	if !p.calls[0].JSONOnly || p.calls[0].WebSearch {
		t.Errorf("first attempt should be JSON-only without web search: %+v", p.calls[0])
	}
	if !strings.Contains(p.prompts[0], "Company: Acme Ventures, City: Helsinki") {
		t.Errorf("prompt missing company and city: %s", p.prompts[0])
	}
}

func TestResearchPlaceholderFallsBackToWebSearch(t *testing.T) {
	placeholder := `{
  "www": "[website.com]",
  "InvestmentProfile": {
    "Stage": ["etc"],
    "TicketSize": {"Range": "€X - €Y"},
    "SectorFocus": ["etc"],
    "InvestmentStrategy": "Brief strategy description"
  }
}`
	p := &fakeProvider{responses: []string{placeholder, goodResearchJSON}}
	r := &Researcher{Provider: p}

	got := r.Research(context.Background(), "Acme Ventures", "")
	if len(p.calls) != 2 {
		t.Fatalf("expected web search retry, got %d calls", len(p.calls))
	}
	if !p.calls[1].WebSearch {
		t.Error("second attempt should enable web search")
	}
	if got.Website != "acme.vc" {
		t.Errorf("should return the web search result, got Website = %q", got.Website)
	}
}

func TestResearchParseFailure(t *testing.T) {
	raw := "I could not find structured data for this company, sorry about that."
	p := &fakeProvider{responses: []string{raw}}
	r := &Researcher{Provider: p}

	got := r.Research(context.Background(), "Acme Ventures", "")
	if got.Website != "JSON Parse Error" {
		t.Errorf("Website = %q", got.Website)
	}
	if got.Strategy != raw {
		t.Errorf("short raw response should be carried whole, got %q", got.Strategy)
	}
	if got.Err == "" {
		t.Error("Err should be set")
	}
}

func TestResearchProviderError(t *testing.T) {
	p := &fakeProvider{err: errors.New("boom")}
	r := &Researcher{Provider: p}

	got := r.Research(context.Background(), "Acme Ventures", "")
	if !strings.Contains(got.Err, "boom") {
		t.Errorf("Err = %q", got.Err)
	}
}

func TestResearchMissingCompany(t *testing.T) {
	r := &Researcher{Provider: &fakeProvider{}}
	got := r.Research(context.Background(), "", "Helsinki")
	if got.Err != "Missing data" {
		t.Errorf("Err = %q", got.Err)
	}
}

func TestFetchCompanyInfo(t *testing.T) {
	p := &fakeProvider{responses: []string{`{
  "companyName": "Acme Oy",
  "revenue": "12M€",
  "ceoName": "Maija Meikäläinen",
  "ceoBioInLinkedin": "He is .....",
  "linkedInProfileUrl": "https://www.linkedin.com/in/maija"
}`}}

	got := FetchCompanyInfo(context.Background(), p, "Acme Oy")
	if got.Err != "" {
		t.Fatalf("unexpected error: %s", got.Err)
	}
	if got.Revenue != "12M€" || got.CEOName != "Maija Meikäläinen" {
		t.Errorf("got %+v", got)
	}
	if got.CEOBio != "" {
		t.Errorf("placeholder bio should be blanked, got %q", got.CEOBio)
	}
	if got.LinkedInURL != "https://www.linkedin.com/in/maija" {
		t.Errorf("LinkedInURL = %q", got.LinkedInURL)
	}
	if !p.calls[0].WebSearch {
		t.Error("company info fetch should enable web search")
	}
}

func TestFetchCompanyInfoTextFallback(t *testing.T) {
	p := &fakeProvider{responses: []string{
		"Acme Oy is a Finnish company.\nRevenue: about €12 million in 2024.\nThe CEO is Maija Meikäläinen.\n",
	}}

	got := FetchCompanyInfo(context.Background(), p, "Acme Oy")
	if !strings.Contains(got.Err, "JSON parsing failed") {
		t.Fatalf("Err = %q", got.Err)
	}
	if !strings.Contains(got.Revenue, "12 million") {
		t.Errorf("Revenue = %q", got.Revenue)
	}
	if !strings.Contains(got.CEOName, "Maija") {
		t.Errorf("CEOName = %q", got.CEOName)
	}
}

func TestAnalyzeDescription(t *testing.T) {
	p := &fakeProvider{responses: []string{"```json\n" + `{
  "SectorFocus": ["Technology", "HealthTech"],
  "Stage": ["Seed"],
  "TicketSize": {"Min": "€100K", "Max": "€1M"},
  "Website": "www.acme.vc"
}` + "\n```"}}

	desc := strings.Repeat("An early stage fund investing in Nordic startups. ", 3)
	got := AnalyzeDescription(context.Background(), p, desc, "€100K-€1M")
	if got.Err != "" {
		t.Fatalf("unexpected error: %s", got.Err)
	}
	if got.Sector != "Technology, HealthTech" || got.Stage != "Seed" {
		t.Errorf("got %+v", got)
	}
	if got.TicketMin != "€100K" || got.TicketMax != "€1M" {
		t.Errorf("ticket = %q / %q", got.TicketMin, got.TicketMax)
	}
	if !strings.Contains(p.prompts[0], "Existing Ticket Size Info: €100K-€1M") {
		t.Errorf("prompt should carry existing ticket size: %s", p.prompts[0])
	}
}

func TestAnalyzeDescriptionTooShort(t *testing.T) {
	p := &fakeProvider{}
	got := AnalyzeDescription(context.Background(), p, "Tiny fund.", "")
	if got.Err != "Description too short" {
		t.Errorf("Err = %q", got.Err)
	}
	if len(p.calls) != 0 {
		t.Error("short descriptions should not reach the provider")
	}
}

func TestBackgroundCheck(t *testing.T) {
	p := &fakeProvider{responses: []string{"Founded two exits."}}
	if got := BackgroundCheck(context.Background(), p, "https://www.linkedin.com/in/x"); got != "Founded two exits." {
		t.Errorf("got %q", got)
	}
	if !p.calls[0].WebSearch {
		t.Error("background check should enable web search")
	}
	if got := BackgroundCheck(context.Background(), p, ""); !strings.Contains(got, "skipped") {
		t.Errorf("got %q", got)
	}
}

func TestCompanyLookupError(t *testing.T) {
	p := &fakeProvider{err: errors.New("down")}
	got := CompanyLookup(context.Background(), p, "https://www.linkedin.com/in/x")
	if !strings.Contains(got, "ERROR during company lookup") {
		t.Errorf("got %q", got)
	}
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"{\"a\":1}":                      `{"a":1}`,
		"```json\n{\"a\":1}\n```":        `{"a":1}`,
		"```\n{\"a\":1}\n```":            `{"a":1}`,
		"  ```json\n{\"a\":1}\n```\n\n":  `{"a":1}`,
	}
	for in, want := range cases {
		if got := stripFences(in); got != want {
			t.Errorf("stripFences(%q) = %q, want %q", in, got, want)
		}
	}
}
