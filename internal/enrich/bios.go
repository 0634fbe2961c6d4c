package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/klytics/prospectkit/internal/ai"
	"github.com/klytics/prospectkit/internal/linkedin"
)

// linkedInColumn is the input column bios runs read profile URLs from.
const linkedInColumn = "LinkedIn Page"

// BiosOptions configure a bios run over a workbook table.
type BiosOptions struct {
	BackgroundCheck bool
	CompanyLookup   bool
	BatchOptions
}

// BiosRunner fetches LinkedIn bios for every profile URL in a table and,
// when enabled, runs the AI background check and company lookup per row.
type BiosRunner struct {
	Fetcher  *linkedin.Fetcher
	Provider ai.Provider // required for background checks and company lookups
}

// Run processes a table whose header contains a "LinkedIn Page" column.
// A Bio column is appended when missing, plus Background Check and Company
// Info columns for the enabled lookups. Returns the updated table and the
// number of profiles fetched.
func (b *BiosRunner) Run(ctx context.Context, rows [][]string, opts BiosOptions) ([][]string, int, error) {
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("workbook has no rows")
	}

	urlCol := -1
	for j, h := range rows[0] {
		if strings.TrimSpace(h) == linkedInColumn {
			urlCol = j
			break
		}
	}
	if urlCol < 0 {
		return nil, 0, fmt.Errorf("could not find %q column in the input workbook", linkedInColumn)
	}

	extra := []string{"Bio"}
	if opts.BackgroundCheck {
		extra = append(extra, "Background Check")
	}
	if opts.CompanyLookup {
		extra = append(extra, "Company Info")
	}
	header, idx := ensureColumns(rows[0], extra)
	rows[0] = header

	processed := 0
	for i := 1; i < len(rows); i++ {
		if err := ctx.Err(); err != nil {
			return rows, processed, err
		}

		url := cell(rows[i], urlCol)
		if url == "" {
			rows[i] = setCells(rows[i], idx, make([]string, len(idx)))
			if opts.OnSkip != nil {
				opts.OnSkip(i+1, "no URL provided")
			}
			continue
		}

		values := make([]string, 0, len(idx))
		bio, err := b.Fetcher.FetchBio(ctx, url)
		if err != nil {
			bio = fmt.Sprintf("ERROR: %v", err)
		} else if bio == "" {
			bio = "Bio not found"
		}
		values = append(values, bio)

		if opts.BackgroundCheck {
			values = append(values, BackgroundCheck(ctx, b.Provider, url))
		}
		if opts.CompanyLookup {
			values = append(values, CompanyLookup(ctx, b.Provider, url))
		}

		rows[i] = setCells(rows[i], idx, values)
		processed++
		if opts.OnRow != nil {
			opts.OnRow(i+1, url, values)
		}

		if i < len(rows)-1 {
			if err := wait(ctx, opts.Delay); err != nil {
				return rows, processed, err
			}
		}
	}

	return rows, processed, nil
}
