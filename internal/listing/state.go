package listing

import (
	"net/url"
	"strconv"
	"strings"
)

// Query parameter names shared by the listing pages.
const (
	ParamQuery   = "q"
	ParamAddress = "address"
	ParamCity    = "city"
	ParamPage    = "page"
)

// State is the filter and page a listing page currently shows. Each page
// controller owns its own State per request.
type State struct {
	Filter Filter
	Page   int
}

// ParseState reads state from query parameters. A missing or invalid page
// is page 1.
func ParseState(v url.Values) State {
	page, err := strconv.Atoi(v.Get(ParamPage))
	if err != nil || page < 1 {
		page = 1
	}
	return State{
		Filter: Filter{
			Query:   v.Get(ParamQuery),
			Address: v.Get(ParamAddress),
			City:    v.Get(ParamCity),
		}.Normalized(),
		Page: page,
	}
}

// WithQuery replaces the text query and goes back to page 1.
func (s State) WithQuery(q string) State {
	s.Filter.Query = strings.TrimSpace(q)
	s.Page = 1
	return s
}

// WithAddress replaces the address filter and goes back to page 1.
func (s State) WithAddress(a string) State {
	s.Filter.Address = strings.TrimSpace(a)
	s.Page = 1
	return s
}

// WithCity replaces the city filter and goes back to page 1.
func (s State) WithCity(c string) State {
	s.Filter.City = strings.TrimSpace(c)
	s.Page = 1
	return s
}

// WithPage moves to page n and keeps the filter.
func (s State) WithPage(n int) State {
	if n < 1 {
		n = 1
	}
	s.Page = n
	return s
}

// Values encodes the state as query parameters, omitting defaults.
func (s State) Values() url.Values {
	v := url.Values{}
	if s.Filter.Query != "" {
		v.Set(ParamQuery, s.Filter.Query)
	}
	if s.Filter.Address != "" {
		v.Set(ParamAddress, s.Filter.Address)
	}
	if s.Filter.City != "" {
		v.Set(ParamCity, s.Filter.City)
	}
	if s.Page > 1 {
		v.Set(ParamPage, strconv.Itoa(s.Page))
	}
	return v
}

// PageLink returns the query string for page n under the same filter.
func (s State) PageLink(n int) string {
	enc := s.WithPage(n).Values().Encode()
	if enc == "" {
		return "?"
	}
	return "?" + enc
}
