package enrich

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/klytics/prospectkit/internal/ai"
)

// BatchOptions control a row-batch run over a workbook table. Row numbers
// are 1-based and include the header row, matching what a spreadsheet shows.
type BatchOptions struct {
	StartRow int           // first data row to process; 0 means row 2
	MaxRows  int           // 0 means all remaining rows
	Delay    time.Duration // pause between lookups
	// OnRow is called after each processed row with the row number, the
	// company (or other key) the lookup ran for, and the values written.
	OnRow func(rowNum int, key string, values []string)
	// OnSkip is called for rows passed over without a lookup.
	OnSkip func(rowNum int, reason string)
}

func (o BatchOptions) startRow() int {
	if o.StartRow <= 0 {
		return 2
	}
	return o.StartRow
}

// rowRange resolves the 0-based data index range [start, end) for a table
// of n rows including the header.
func (o BatchOptions) rowRange(n int) (int, int) {
	start := o.startRow() - 1
	end := n
	if o.MaxRows > 0 && start+o.MaxRows < end {
		end = start + o.MaxRows
	}
	if start > end {
		start = end
	}
	return start, end
}

// cell returns row[i] or "" when the row is too short.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ensureColumns appends any of the named columns missing from the header
// and returns the index of the first one. Rows are widened to the new
// header length as they are written, not here.
func ensureColumns(header []string, names []string) ([]string, []int) {
	idx := make([]int, len(names))
	for i, name := range names {
		found := -1
		for j, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				found = j
				break
			}
		}
		if found < 0 {
			header = append(header, name)
			found = len(header) - 1
		}
		idx[i] = found
	}
	return header, idx
}

// setCells widens row as needed and writes values at the given indexes.
func setCells(row []string, idx []int, values []string) []string {
	for i, v := range values {
		for len(row) <= idx[i] {
			row = append(row, "")
		}
		row[idx[i]] = v
	}
	return row
}

// findColumn returns the index of the first header containing all keywords,
// case-insensitively, or -1.
func findColumn(header []string, keywords ...string) int {
	for i, h := range header {
		lower := strings.ToLower(h)
		all := true
		for _, kw := range keywords {
			if !strings.Contains(lower, kw) {
				all = false
				break
			}
		}
		if all && len(keywords) > 0 {
			return i
		}
	}
	return -1
}

// wait sleeps for the configured delay unless the context ends first.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// ResearchRows runs investor research over a table whose first column holds
// company names and whose fourth column holds cities. The result columns
// are appended to the header when missing and filled per processed row. It
// returns the updated table and the number of companies researched.
func (r *Researcher) ResearchRows(ctx context.Context, rows [][]string, opts BatchOptions) ([][]string, int, error) {
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("workbook has no rows")
	}

	header, idx := ensureColumns(rows[0], ResearchColumns)
	rows[0] = header

	start, end := opts.rowRange(len(rows))
	processed := 0
	for i := start; i < end; i++ {
		if err := ctx.Err(); err != nil {
			return rows, processed, err
		}

		company := cell(rows[i], 0)
		city := cell(rows[i], 3)
		if company == "" {
			if opts.OnSkip != nil {
				opts.OnSkip(i+1, "no company name")
			}
			continue
		}

		result := r.Research(ctx, company, city)
		rows[i] = setCells(rows[i], idx, result.Values())
		processed++
		if opts.OnRow != nil {
			opts.OnRow(i+1, company, result.Values())
		}

		if i < end-1 {
			if err := wait(ctx, opts.Delay); err != nil {
				return rows, processed, err
			}
		}
	}

	return rows, processed, nil
}

// CompanyInfoRows runs company info lookups over a table. The company name
// column is the one named company_name when present, otherwise the first
// column. Returns the updated table and the number of companies fetched.
func CompanyInfoRows(ctx context.Context, provider ai.Provider, rows [][]string, opts BatchOptions) ([][]string, int, error) {
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("workbook has no rows")
	}

	companyCol := 0
	for j, h := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(h), "company_name") {
			companyCol = j
			break
		}
	}

	header, idx := ensureColumns(rows[0], CompanyInfoColumns)
	rows[0] = header

	start, end := opts.rowRange(len(rows))
	fetched := 0
	for i := start; i < end; i++ {
		if err := ctx.Err(); err != nil {
			return rows, fetched, err
		}

		company := cell(rows[i], companyCol)
		if company == "" {
			if opts.OnSkip != nil {
				opts.OnSkip(i+1, "no company name")
			}
			continue
		}

		result := FetchCompanyInfo(ctx, provider, company)
		rows[i] = setCells(rows[i], idx, result.Values())
		fetched++
		if opts.OnRow != nil {
			opts.OnRow(i+1, company, result.Values())
		}

		if i < end-1 {
			if err := wait(ctx, opts.Delay); err != nil {
				return rows, fetched, err
			}
		}
	}

	return rows, fetched, nil
}

// AnalyzeRows runs description analysis over a table. The description
// column is required; ticket size and company name columns are located by
// header keywords, falling back to the first column for the company name.
func AnalyzeRows(ctx context.Context, provider ai.Provider, rows [][]string, opts BatchOptions) ([][]string, int, error) {
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("workbook has no rows")
	}

	descCol := findColumn(rows[0], "description")
	if descCol < 0 {
		return nil, 0, fmt.Errorf("no Description column found — available columns: %s", strings.Join(rows[0], ", "))
	}
	ticketCol := findColumn(rows[0], "ticket", "size")
	companyCol := findColumn(rows[0], "company", "name")
	if companyCol < 0 {
		companyCol = 0
	}

	header, idx := ensureColumns(rows[0], AnalysisColumns)
	rows[0] = header

	start, end := opts.rowRange(len(rows))
	analyzed := 0
	for i := start; i < end; i++ {
		if err := ctx.Err(); err != nil {
			return rows, analyzed, err
		}

		desc := cell(rows[i], descCol)
		company := cell(rows[i], companyCol)
		if len(desc) <= minDescriptionLength {
			if opts.OnSkip != nil {
				opts.OnSkip(i+1, "description too short")
			}
			continue
		}

		ticket := ""
		if ticketCol >= 0 {
			ticket = cell(rows[i], ticketCol)
		}

		result := AnalyzeDescription(ctx, provider, desc, ticket)
		rows[i] = setCells(rows[i], idx, result.Values())
		analyzed++
		if opts.OnRow != nil {
			opts.OnRow(i+1, company, result.Values())
		}

		if i < end-1 {
			if err := wait(ctx, opts.Delay); err != nil {
				return rows, analyzed, err
			}
		}
	}

	return rows, analyzed, nil
}
