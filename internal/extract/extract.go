// Package extract pulls structured investor records out of free-text dumps
// pasted from investor directory pages. Each record block ends with a
// "View company" link in the source text; fields inside a block are located
// by pattern, so partially filled blocks still yield a record with the
// missing fields empty.
package extract

import (
	"regexp"
	"strings"
)

// Record is one extracted investor entry.
type Record struct {
	CompanyName        string `json:"companyName"`
	Location           string `json:"location"`
	Founded            string `json:"founded"`
	FocusAreas         string `json:"focusAreas"`
	Description        string `json:"description"`
	TeamSize           string `json:"teamSize"`
	TeamMembers        string `json:"teamMembers"`
	NotableInvestments string `json:"notableInvestments"`
	TicketSize         string `json:"ticketSize"`
	SourceFile         string `json:"sourceFile"`
}

// Columns is the header row for workbooks built from records. Row output
// follows this order.
var Columns = []string{
	"Company Name", "Location", "Founded", "Focus Areas", "Description",
	"Team Size", "Team Members", "Notable Investments", "Ticket Size",
	"Source File",
}

// Row returns the record's cells in Columns order.
func (r Record) Row() []string {
	return []string{
		r.CompanyName, r.Location, r.Founded, r.FocusAreas, r.Description,
		r.TeamSize, r.TeamMembers, r.NotableInvestments, r.TicketSize,
		r.SourceFile,
	}
}

var (
	blockSep   = regexp.MustCompile(`\n\s*View company\s*\n`)
	namePat    = regexp.MustCompile(`([A-Za-z0-9&.,\-\s]+?)\s+(?:logo|B2B|B2C|B2G)`)
	locPat     = regexp.MustCompile(`([A-Za-z\s,]+)\s•\s(\d{4})`)
	descPat    = regexp.MustCompile(`(?:B2[BGC]\s*)+(.*?)Team of`)
	teamPat    = regexp.MustCompile(`Team of\s+(\d+)\s+•\s+([A-Za-z\s,]+)`)
	investPat  = regexp.MustCompile(`Notable Investments\s*(.*?)\s*(?:Ticket Size|$)`)
	ticketPat  = regexp.MustCompile(`Ticket Size\s*([0-9kM\-–]+)`)
	investorRe = regexp.MustCompile(`(?i)^investor\s+`)
)

// Records parses one text dump into investor records. Blocks with no
// recognizable content are dropped; unmatched fields stay empty.
func Records(text, sourceFile string) []Record {
	var records []Record

	for _, block := range blockSep.Split(text, -1) {
		if strings.TrimSpace(block) == "" {
			continue
		}

		// Collapse the block to a single line so field patterns can span
		// the original line breaks.
		var lines []string
		for _, l := range strings.Split(block, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				lines = append(lines, l)
			}
		}
		flat := strings.Join(lines, " ")

		rec := Record{SourceFile: sourceFile}

		if m := namePat.FindStringSubmatch(flat); m != nil {
			rec.CompanyName = stripInvestorPrefix(strings.TrimSpace(m[1]))
		}
		if m := locPat.FindStringSubmatch(flat); m != nil {
			rec.Location = stripInvestorPrefix(strings.TrimSpace(m[1]))
			rec.Founded = m[2]
		}
		rec.FocusAreas = strings.Join(focusAreas(flat), ", ")
		if m := descPat.FindStringSubmatch(flat); m != nil {
			rec.Description = strings.TrimSpace(m[1])
		}
		if m := teamPat.FindStringSubmatch(flat); m != nil {
			rec.TeamSize = m[1]
			rec.TeamMembers = strings.TrimSpace(m[2])
		}
		if m := investPat.FindStringSubmatch(flat); m != nil {
			rec.NotableInvestments = strings.TrimSpace(m[1])
		}
		if m := ticketPat.FindStringSubmatch(flat); m != nil {
			rec.TicketSize = strings.TrimSpace(m[1])
		}

		if rec == (Record{SourceFile: sourceFile}) {
			continue
		}
		records = append(records, rec)
	}

	return records
}

// Table builds the workbook rows for a set of records: header first, then
// one row per record.
func Table(records []Record) [][]string {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, Columns)
	for _, rec := range records {
		rows = append(rows, rec.Row())
	}
	return rows
}

var focusPat = regexp.MustCompile(`\bB2[BGC]\b`)

func focusAreas(text string) []string {
	seenAll := focusPat.FindAllString(text, -1)
	// Directory pages repeat the badges; keep first occurrence order.
	var out []string
	seen := make(map[string]bool, 3)
	for _, f := range seenAll {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// Directory pages prefix names and locations with the word "investor";
// strip it so the workbook carries the bare values.
func stripInvestorPrefix(s string) string {
	return strings.TrimSpace(investorRe.ReplaceAllString(s, ""))
}
