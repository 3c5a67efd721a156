package suppliers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgColumns = `id::text, company_name, responsible_person_name, address, mobile_1, mobile_2, email, category, city, created_at`

// PGStore talks to the hosted Postgres directly, bypassing the REST layer.
type PGStore struct {
	db    *pgxpool.Pool
	table string
}

// NewPGStore constructs a PGStore. An empty table uses TableName.
func NewPGStore(db *pgxpool.Pool, table string) *PGStore {
	if table == "" {
		table = TableName
	}
	return &PGStore{db: db, table: pgx.Identifier{table}.Sanitize()}
}

func (s *PGStore) List(ctx context.Context) ([]Supplier, error) {
	rows, err := s.db.Query(ctx, `SELECT `+pgColumns+` FROM `+s.table+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, mapPGError(err)
	}
	return collectSuppliers(rows)
}

func (s *PGStore) Search(ctx context.Context, query string) ([]Supplier, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.Query(ctx, `SELECT `+pgColumns+` FROM `+s.table+`
		WHERE company_name ILIKE $1 OR responsible_person_name ILIKE $1 OR mobile_1 ILIKE $1 OR mobile_2 ILIKE $1
		ORDER BY created_at DESC`, pattern)
	if err != nil {
		return nil, mapPGError(err)
	}
	return collectSuppliers(rows)
}

func (s *PGStore) ListPage(ctx context.Context, offset, limit int) ([]Supplier, int, error) {
	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM `+s.table).Scan(&total); err != nil {
		return nil, 0, mapPGError(err)
	}
	rows, err := s.db.Query(ctx, `SELECT `+pgColumns+` FROM `+s.table+` ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, mapPGError(err)
	}
	items, err := collectSuppliers(rows)
	return items, total, err
}

func (s *PGStore) Get(ctx context.Context, id string) (Supplier, error) {
	rows, err := s.db.Query(ctx, `SELECT `+pgColumns+` FROM `+s.table+` WHERE id::text = $1`, id)
	if err != nil {
		return Supplier{}, mapPGError(err)
	}
	return oneSupplier(rows)
}

func (s *PGStore) Insert(ctx context.Context, rec Record) (Supplier, error) {
	rows, err := s.db.Query(ctx, `INSERT INTO `+s.table+`
		(company_name, responsible_person_name, address, mobile_1, mobile_2, email, category, city)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+pgColumns,
		rec.CompanyName, rec.ResponsiblePersonName, rec.Address, rec.Mobile1, rec.Mobile2, rec.Email, rec.Category, rec.City)
	if err != nil {
		return Supplier{}, mapPGError(err)
	}
	return oneSupplier(rows)
}

func (s *PGStore) Update(ctx context.Context, id string, rec Record) (Supplier, error) {
	rows, err := s.db.Query(ctx, `UPDATE `+s.table+` SET
		company_name = $1, responsible_person_name = $2, address = $3, mobile_1 = $4,
		mobile_2 = $5, email = $6, category = $7, city = $8
		WHERE id::text = $9
		RETURNING `+pgColumns,
		rec.CompanyName, rec.ResponsiblePersonName, rec.Address, rec.Mobile1, rec.Mobile2, rec.Email, rec.Category, rec.City, id)
	if err != nil {
		return Supplier{}, mapPGError(err)
	}
	return oneSupplier(rows)
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM `+s.table+` WHERE id::text = $1`, id); err != nil {
		return mapPGError(err)
	}
	return nil
}

func scanSupplier(row pgx.CollectableRow) (Supplier, error) {
	var sup Supplier
	err := row.Scan(&sup.ID, &sup.CompanyName, &sup.ResponsiblePersonName, &sup.Address, &sup.Mobile1,
		&sup.Mobile2, &sup.Email, &sup.Category, &sup.City, &sup.CreatedAt)
	return sup, err
}

func collectSuppliers(rows pgx.Rows) ([]Supplier, error) {
	items, err := pgx.CollectRows(rows, scanSupplier)
	if err != nil {
		return nil, mapPGError(err)
	}
	return items, nil
}

func oneSupplier(rows pgx.Rows) (Supplier, error) {
	sup, err := pgx.CollectExactlyOneRow(rows, scanSupplier)
	if err != nil {
		return Supplier{}, mapPGError(err)
	}
	return sup, nil
}

func mapPGError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoRows
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42501" {
		return fmt.Errorf("%s: %w", pgErr.Message, ErrUnauthorized)
	}
	return err
}

var _ Store = (*PGStore)(nil)
