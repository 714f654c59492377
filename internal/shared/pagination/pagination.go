// Package pagination normalises page/limit/sort query parameters.
package pagination

import (
	"math"
	"strings"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
	// MaxPage bounds the page so offsets stay far from integer overflow.
	MaxPage = 1_000_000
)

// Request carries raw, caller supplied paging values.
type Request struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Params are the normalised values adapters should use.
type Params struct {
	Page      int
	Limit     int
	SortField string
	Desc      bool
}

// Offset returns the number of records to skip. It saturates instead of overflowing.
func (p Params) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Window returns slice bounds of the page within n items. Pages past the end are empty,
// and a non-positive limit selects everything.
func (p Params) Window(n int) (start, end int) {
	if p.Limit <= 0 {
		return 0, n
	}
	start = min(p.Offset(), n)
	end = start + min(p.Limit, n-start)
	return start, end
}

// Meta describes a returned page.
type Meta struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// SortSpec lists the sortable fields. Keys are the public names, values the storage columns.
type SortSpec struct {
	Allowed      map[string]string
	DefaultField string
	DefaultDesc  bool
}

// Normalize clamps page and limit and resolves the sort pair against the allow-list.
// Unknown sort fields fall back to the default.
func Normalize(req Request, spec SortSpec) Params {
	params := Params{Page: req.Page, Limit: req.Limit}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Page > MaxPage {
		params.Page = MaxPage
	}
	if params.Limit <= 0 {
		params.Limit = DefaultLimit
	}
	if params.Limit > MaxLimit {
		params.Limit = MaxLimit
	}
	field, ok := spec.Allowed[strings.TrimSpace(req.SortBy)]
	if !ok {
		params.SortField = spec.Allowed[spec.DefaultField]
		params.Desc = spec.DefaultDesc
		if req.SortBy == "" && req.SortOrder != "" {
			params.Desc = isDesc(req.SortOrder, spec.DefaultDesc)
		}
		return params
	}
	params.SortField = field
	params.Desc = isDesc(req.SortOrder, spec.DefaultDesc)
	return params
}

// NewMeta computes page metadata for total matching items.
func NewMeta(params Params, total int64) Meta {
	pages := 0
	if params.Limit > 0 {
		pages = int((total + int64(params.Limit) - 1) / int64(params.Limit))
	}
	return Meta{
		CurrentPage:  params.Page,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: params.Limit,
	}
}

func isDesc(order string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "desc", "-1", "descending":
		return true
	case "asc", "1", "ascending":
		return false
	default:
		return fallback
	}
}
