package repo

import (
	"context"
	stdsql "database/sql"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

const tableProducts = "products"

var productColumns = []string{"id", "name", "description", "price_cents", "active", "created_at", "updated_at"}

type ProductRepo struct {
	drv dialect.ExecQuerier
}

func scanProduct(rows *sql.Rows) (*Product, error) {
	var (
		p    Product
		desc stdsql.NullString
	)
	if err := rows.Scan(&p.ID, &p.Name, &desc, &p.PriceCents, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Description = nullString(desc)
	return &p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *Product) error {
	_, err := execAffected(ctx, r.drv, builder().Insert(tableProducts).
		Columns(productColumns...).
		Values(p.ID, p.Name, nullable(p.Description), p.PriceCents, p.Active, p.CreatedAt, p.UpdatedAt))
	return err
}

func (r *ProductRepo) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	sel := builder().Select(productColumns...).
		From(builder().Table(tableProducts)).
		Where(sql.EQ("id", id))
	var out *Product
	err := queryOne(ctx, r.drv, sel, func(rows *sql.Rows) (err error) {
		out, err = scanProduct(rows)
		return err
	})
	return out, err
}

func (r *ProductRepo) List(ctx context.Context, activeOnly bool) ([]*Product, error) {
	sel := builder().Select(productColumns...).
		From(builder().Table(tableProducts)).
		OrderBy("name")
	if activeOnly {
		sel.Where(sql.EQ("active", true))
	}
	var out []*Product
	err := queryRows(ctx, r.drv, sel, func(rows *sql.Rows) error {
		p, err := scanProduct(rows)
		if err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(ctx context.Context, p *Product) error {
	n, err := execAffected(ctx, r.drv, builder().Update(tableProducts).
		Set("name", p.Name).
		Set("description", nullable(p.Description)).
		Set("price_cents", p.PriceCents).
		Set("active", p.Active).
		Set("updated_at", p.UpdatedAt).
		Where(sql.EQ("id", p.ID)))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := execAffected(ctx, r.drv, builder().Delete(tableProducts).Where(sql.EQ("id", id)))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
