// Package listing derives the visible page of suppliers from the full list
// and the current filter and page state.
package listing

import (
	"math"
	"sort"
	"strings"

	"github.com/mawrid/mawrid/internal/suppliers"
)

// Filter is the predicate applied before pagination. Address is a
// case-insensitive substring match; City must match exactly.
type Filter struct {
	Query   string
	Address string
	City    string
}

// Normalized returns f with surrounding whitespace removed.
func (f Filter) Normalized() Filter {
	return Filter{
		Query:   strings.TrimSpace(f.Query),
		Address: strings.TrimSpace(f.Address),
		City:    strings.TrimSpace(f.City),
	}
}

// IsZero reports whether the filter lets every record through.
func (f Filter) IsZero() bool {
	return f.Normalized() == Filter{}
}

// Matches reports whether s passes the filter.
func (f Filter) Matches(s suppliers.Supplier) bool {
	f = f.Normalized()
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !containsFold(s.CompanyName, q) &&
			!containsFold(s.ResponsiblePersonName, q) &&
			!containsFold(s.Mobile1, q) &&
			!containsFold(s.Mobile2Value(), q) &&
			!containsFold(s.EmailValue(), q) {
			return false
		}
	}
	if f.Address != "" && !containsFold(s.Address, strings.ToLower(f.Address)) {
		return false
	}
	if f.City != "" && s.CityValue() != f.City {
		return false
	}
	return true
}

func containsFold(value, lowerNeedle string) bool {
	return value != "" && strings.Contains(strings.ToLower(value), lowerNeedle)
}

// Apply keeps the records passing f, preserving their order.
func Apply(all []suppliers.Supplier, f Filter) []suppliers.Supplier {
	out := make([]suppliers.Supplier, 0, len(all))
	for _, s := range all {
		if f.Matches(s) {
			out = append(out, s)
		}
	}
	return out
}

// Page is one slice of the filtered list.
type Page struct {
	Items      []suppliers.Supplier
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

// Empty reports whether the filter matched nothing.
func (p Page) Empty() bool { return p.Total == 0 }

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool { return p.Page < p.TotalPages }

// ShowControls reports whether a page control is worth rendering.
func (p Page) ShowControls() bool { return p.TotalPages > 1 }

// Numbers lists page numbers 1..TotalPages.
func (p Page) Numbers() []int {
	nums := make([]int, p.TotalPages)
	for i := range nums {
		nums[i] = i + 1
	}
	return nums
}

// TotalPages is ceil(count/size), at least 1.
func TotalPages(count, size int) int {
	if size <= 0 || count <= 0 {
		return 1
	}
	return int(math.Ceil(float64(count) / float64(size)))
}

// View filters all and returns page number page of size items. Out of range
// page numbers are clamped.
func View(all []suppliers.Supplier, f Filter, page, size int) Page {
	if size <= 0 {
		size = 10
	}
	filtered := Apply(all, f)
	total := len(filtered)
	pages := TotalPages(total, size)
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return Page{
		Items:      filtered[start:end],
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: pages,
	}
}

// Addresses returns the distinct non-empty addresses, sorted.
func Addresses(all []suppliers.Supplier) []string {
	return distinct(all, func(s suppliers.Supplier) string { return s.Address })
}

// Cities returns the distinct non-empty cities, sorted.
func Cities(all []suppliers.Supplier) []string {
	return distinct(all, suppliers.Supplier.CityValue)
}

func distinct(all []suppliers.Supplier, get func(suppliers.Supplier) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, s := range all {
		v := get(s)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
