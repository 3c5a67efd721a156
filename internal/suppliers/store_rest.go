package suppliers

import (
	"context"

	"github.com/mawrid/mawrid/internal/supabase"
)

var searchColumns = []string{FieldCompanyName, FieldResponsiblePersonName, FieldMobile1, FieldMobile2}

// RESTStore reads and writes suppliers through the hosted PostgREST API.
type RESTStore struct {
	client *supabase.Client
	table  string
}

// NewRESTStore constructs a RESTStore. An empty table uses TableName.
func NewRESTStore(client *supabase.Client, table string) *RESTStore {
	if table == "" {
		table = TableName
	}
	return &RESTStore{client: client, table: table}
}

func (s *RESTStore) List(ctx context.Context) ([]Supplier, error) {
	var rows []Supplier
	if _, err := s.client.From(s.table).Select("*").Order("created_at", false).Execute(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *RESTStore) Search(ctx context.Context, query string) ([]Supplier, error) {
	filters := make([]string, 0, len(searchColumns))
	for _, col := range searchColumns {
		filters = append(filters, supabase.ILike(col, query))
	}
	var rows []Supplier
	if _, err := s.client.From(s.table).Select("*").Or(filters...).Order("created_at", false).Execute(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *RESTStore) ListPage(ctx context.Context, offset, limit int) ([]Supplier, int, error) {
	var rows []Supplier
	total, err := s.client.From(s.table).Select("*").CountExact().Order("created_at", false).Range(offset, limit).Execute(ctx, &rows)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *RESTStore) Get(ctx context.Context, id string) (Supplier, error) {
	var rows []Supplier
	if _, err := s.client.From(s.table).Select("*").Eq("id", id).Execute(ctx, &rows); err != nil {
		return Supplier{}, err
	}
	if len(rows) == 0 {
		return Supplier{}, ErrNoRows
	}
	return rows[0], nil
}

func (s *RESTStore) Insert(ctx context.Context, rec Record) (Supplier, error) {
	var rows []Supplier
	if err := s.client.From(s.table).Select("*").Insert(ctx, []Record{rec}, &rows); err != nil {
		return Supplier{}, err
	}
	if len(rows) == 0 {
		return Supplier{}, ErrNoRows
	}
	return rows[0], nil
}

func (s *RESTStore) Update(ctx context.Context, id string, rec Record) (Supplier, error) {
	var rows []Supplier
	if err := s.client.From(s.table).Select("*").Eq("id", id).Update(ctx, rec, &rows); err != nil {
		return Supplier{}, err
	}
	if len(rows) == 0 {
		return Supplier{}, ErrNoRows
	}
	return rows[0], nil
}

func (s *RESTStore) Delete(ctx context.Context, id string) error {
	return s.client.From(s.table).Eq("id", id).Delete(ctx)
}

var _ Store = (*RESTStore)(nil)
