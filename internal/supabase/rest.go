package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Query builds one PostgREST request against a table.
type Query struct {
	client  *Client
	table   string
	params  url.Values
	headers map[string]string
}

// From starts a query on table.
func (c *Client) From(table string) *Query {
	return &Query{client: c, table: table, params: url.Values{}, headers: map[string]string{}}
}

// Select chooses the returned columns.
func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

// Eq filters on column equality.
func (q *Query) Eq(column, value string) *Query {
	q.params.Add(column, "eq."+value)
	return q
}

// Or combines filters built with ILike and friends.
func (q *Query) Or(filters ...string) *Query {
	q.params.Set("or", "("+strings.Join(filters, ",")+")")
	return q
}

// Order sorts by column.
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.params.Set("order", column+"."+dir)
	return q
}

// Range limits the reply to rows [offset, offset+limit).
func (q *Query) Range(offset, limit int) *Query {
	q.params.Set("offset", strconv.Itoa(offset))
	q.params.Set("limit", strconv.Itoa(limit))
	return q
}

// CountExact asks the backend for the total row count.
func (q *Query) CountExact() *Query {
	q.headers["Prefer"] = "count=exact"
	return q
}

// ILike builds a case-insensitive substring predicate for Or.
func ILike(column, value string) string {
	return column + ".ilike." + quoteValue("*"+value+"*")
}

func quoteValue(v string) string {
	if !strings.ContainsAny(v, `,.:()" \`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return `"` + v + `"`
}

func (q *Query) path() string {
	return "/rest/v1/" + url.PathEscape(q.table)
}

// Execute runs a select and decodes rows into dest. The returned count is
// only meaningful after CountExact.
func (q *Query) Execute(ctx context.Context, dest any) (int, error) {
	resp, err := q.client.do(ctx, request{
		service: "rest",
		op:      "select " + q.table,
		method:  http.MethodGet,
		path:    q.path(),
		query:   q.params.Encode(),
		bearer:  AccessTokenFrom(ctx),
		headers: q.headers,
	}, dest)
	if err != nil {
		return 0, err
	}
	return parseContentRange(resp.Header.Get("Content-Range")), nil
}

// Insert writes rows and decodes the stored representation into dest.
func (q *Query) Insert(ctx context.Context, rows any, dest any) error {
	q.headers["Prefer"] = "return=representation"
	_, err := q.client.do(ctx, request{
		service: "rest",
		op:      "insert " + q.table,
		method:  http.MethodPost,
		path:    q.path(),
		query:   q.params.Encode(),
		body:    rows,
		bearer:  AccessTokenFrom(ctx),
		headers: q.headers,
	}, dest)
	return err
}

// Update patches the filtered rows and decodes the result into dest.
func (q *Query) Update(ctx context.Context, patch any, dest any) error {
	q.headers["Prefer"] = "return=representation"
	_, err := q.client.do(ctx, request{
		service: "rest",
		op:      "update " + q.table,
		method:  http.MethodPatch,
		path:    q.path(),
		query:   q.params.Encode(),
		body:    patch,
		bearer:  AccessTokenFrom(ctx),
		headers: q.headers,
	}, dest)
	return err
}

// Delete removes the filtered rows.
func (q *Query) Delete(ctx context.Context) error {
	if len(q.params) == 0 {
		return fmt.Errorf("supabase: refusing unfiltered delete on %s", q.table)
	}
	_, err := q.client.do(ctx, request{
		service: "rest",
		op:      "delete " + q.table,
		method:  http.MethodDelete,
		path:    q.path(),
		query:   q.params.Encode(),
		bearer:  AccessTokenFrom(ctx),
		headers: q.headers,
	}, nil)
	return err
}

// parseContentRange reads the total from "0-9/25" or "*/0".
func parseContentRange(v string) int {
	idx := strings.LastIndex(v, "/")
	if idx < 0 {
		return 0
	}
	total, err := strconv.Atoi(v[idx+1:])
	if err != nil {
		return 0
	}
	return total
}
