package repository

import (
	"context"

	"loyalty_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogRepository serves the products and items tables, which share one schema.
type CatalogRepository struct {
	db    *pgxpool.Pool
	table string
	kind  domain.CatalogKind
}

func NewProductRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db, table: "products", kind: domain.KindProduct}
}

func NewItemRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db, table: "items", kind: domain.KindItem}
}

func (r *CatalogRepository) Kind() domain.CatalogKind {
	return r.kind
}

const catalogColumns = `id, name, slug, description, category, price::text, sale_price::text, discount,
	stock, status, image_url, gallery, created_at, updated_at`

func (r *CatalogRepository) scan(row pgx.Row) (*domain.CatalogEntry, error) {
	var (
		e           domain.CatalogEntry
		price, sale string
	)
	if err := row.Scan(&e.ID, &e.Name, &e.Slug, &e.Description, &e.Category, &price, &sale, &e.Discount,
		&e.Stock, &e.Status, &e.ImageURL, &e.Gallery, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	e.Kind = r.kind
	e.Price = parseNumeric(price)
	e.SalePrice = parseNumeric(sale)
	return &e, nil
}

func (r *CatalogRepository) Create(ctx context.Context, e *domain.CatalogEntry) error {
	if e.Gallery == nil {
		e.Gallery = []string{}
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO `+r.table+` (name, slug, description, category, price, sale_price, discount, stock, status, image_url, gallery)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at, updated_at`,
		e.Name, e.Slug, e.Description, e.Category, numeric(e.Price), numeric(e.SalePrice), e.Discount,
		e.Stock, e.Status, e.ImageURL, e.Gallery,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	e.Kind = r.kind
	return translate(err)
}

func (r *CatalogRepository) Update(ctx context.Context, e *domain.CatalogEntry) error {
	if e.Gallery == nil {
		e.Gallery = []string{}
	}
	err := r.db.QueryRow(ctx,
		`UPDATE `+r.table+`
		 SET name = $2, slug = $3, description = $4, category = $5, price = $6, sale_price = $7,
		     discount = $8, stock = $9, status = $10, image_url = $11, gallery = $12, updated_at = NOW()
		 WHERE id = $1
		 RETURNING updated_at`,
		e.ID, e.Name, e.Slug, e.Description, e.Category, numeric(e.Price), numeric(e.SalePrice),
		e.Discount, e.Stock, e.Status, e.ImageURL, e.Gallery,
	).Scan(&e.UpdatedAt)
	return translate(err)
}

func (r *CatalogRepository) GetByID(ctx context.Context, id int64) (*domain.CatalogEntry, error) {
	return r.scan(r.db.QueryRow(ctx, `SELECT `+catalogColumns+` FROM `+r.table+` WHERE id = $1`, id))
}

func (r *CatalogRepository) GetBySlug(ctx context.Context, slug string) (*domain.CatalogEntry, error) {
	return r.scan(r.db.QueryRow(ctx, `SELECT `+catalogColumns+` FROM `+r.table+` WHERE slug = $1`, slug))
}

func (r *CatalogRepository) SetStatus(ctx context.Context, id int64, status domain.CatalogStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE `+r.table+` SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func catalogConditions(f domain.CatalogFilter) *conditions {
	c := &conditions{}
	if f.Category != "" {
		c.eq("category", f.Category)
	}
	if f.Status != "" {
		c.eq("status", f.Status)
	}
	return c
}

func (r *CatalogRepository) Count(ctx context.Context, f domain.CatalogFilter) (int, error) {
	c := catalogConditions(f)
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM `+r.table+c.where(), c.args...).Scan(&total)
	return total, translate(err)
}

// Find returns newest entries first
func (r *CatalogRepository) Find(ctx context.Context, f domain.CatalogFilter, offset, limit int) ([]domain.CatalogEntry, error) {
	c := catalogConditions(f)
	sql := `SELECT ` + catalogColumns + ` FROM ` + r.table + c.where() + ` ORDER BY created_at DESC, id DESC` + c.page(limit, offset)

	rows, err := r.db.Query(ctx, sql, c.args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var res []domain.CatalogEntry
	for rows.Next() {
		e, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *e)
	}
	return res, translate(rows.Err())
}
