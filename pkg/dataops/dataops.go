package dataops

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/goliatone/go-crudkit/pkg/dotpath"
)

// FilterBySearchTerm keeps rows where any of the accessor paths resolves to
// a value whose string form contains the term, case-insensitively. An empty
// or whitespace term keeps every row.
func FilterBySearchTerm(rows []map[string]any, term string, accessors []string) []map[string]any {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return rows
	}

	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		for _, accessor := range accessors {
			value, ok := dotpath.Get(row, accessor)
			if !ok || value == nil {
				continue
			}
			if strings.Contains(strings.ToLower(stringify(value)), needle) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// SortData returns a new slice ordered by the accessor path. Values compare
// numerically when both sides parse as numbers and as case-insensitive
// strings otherwise; missing values sort last regardless of direction. The
// sort is stable, so equal rows keep their input order.
func SortData(rows []map[string]any, accessor, direction string) []map[string]any {
	out := make([]map[string]any, len(rows))
	copy(out, rows)
	if accessor == "" {
		return out
	}

	descending := strings.EqualFold(strings.TrimSpace(direction), "desc")

	sort.SliceStable(out, func(i, j int) bool {
		a, aok := dotpath.Get(out[i], accessor)
		b, bok := dotpath.Get(out[j], accessor)

		// Missing values always sink to the tail.
		if !aok || a == nil {
			return false
		}
		if !bok || b == nil {
			return true
		}

		less := compareValues(a, b)
		if descending {
			return less > 0
		}
		return less < 0
	})
	return out
}

// PaginateData slices one 1-indexed page out of the rows. Pages past the end
// come back empty; a non-positive page or page size yields no rows.
func PaginateData(rows []map[string]any, page, pageSize int) []map[string]any {
	if page < 1 || pageSize < 1 {
		return nil
	}
	start := (page - 1) * pageSize
	if start >= len(rows) {
		return nil
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// PageState summarizes pagination math for a result set.
type PageState struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
	// From and To are the 1-indexed display range ("Showing 11-20 of 54");
	// both are 0 for an empty result set.
	From int `json:"from"`
	To   int `json:"to"`

	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// CalculatePagination derives the page metadata for a total row count. The
// page clamps into [1, TotalPages]; TotalPages is never below 1 so an empty
// set still reports page 1 of 1.
func CalculatePagination(total, page, pageSize int) PageState {
	if pageSize < 1 {
		pageSize = 1
	}
	if total < 0 {
		total = 0
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	state := PageState{
		Page:            page,
		PageSize:        pageSize,
		Total:           total,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
	if total > 0 {
		state.From = (page-1)*pageSize + 1
		state.To = page * pageSize
		if state.To > total {
			state.To = total
		}
	}
	return state
}

// Collators keep mutable iteration state, so comparisons share one instance
// behind a mutex rather than rebuilding the weight tables per call.
var (
	collatorMu sync.Mutex
	collator   = collate.New(language.Und, collate.IgnoreCase)
)

// compareValues returns -1, 0, or 1. Numbers compare numerically when both
// sides parse; everything else falls back to case-insensitive collation.
func compareValues(a, b any) int {
	if na, ok := toNumber(a); ok {
		if nb, ok := toNumber(b); ok {
			switch {
			case na < nb:
				return -1
			case na > nb:
				return 1
			default:
				return 0
			}
		}
	}
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return collator.CompareString(stringify(a), stringify(b))
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
