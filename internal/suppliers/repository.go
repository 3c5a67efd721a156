package suppliers

import "context"

// TableName is the default hosted table holding suppliers.
const TableName = "suppliers"

// Store is the record access port onto the hosted supplier table. List and
// Search return rows ordered by created_at descending.
type Store interface {
	List(ctx context.Context) ([]Supplier, error)
	Search(ctx context.Context, query string) ([]Supplier, error)
	ListPage(ctx context.Context, offset, limit int) ([]Supplier, int, error)
	Get(ctx context.Context, id string) (Supplier, error)
	Insert(ctx context.Context, rec Record) (Supplier, error)
	Update(ctx context.Context, id string, rec Record) (Supplier, error)
	Delete(ctx context.Context, id string) error
}
