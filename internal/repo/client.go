// Package repo persists the telecare entities through ent's SQL runtime.
// Statements are built with entgo.io/ent/dialect/sql and executed on a
// dialect.Driver, so the same repositories run on a plain driver or a
// debug-wrapped one.
package repo

import (
	"context"
	stdsql "database/sql"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"

	"github.com/Alijeyrad/telecare_backend/internal/repo/migrate"
)

// Client groups the repositories sharing one driver.
type Client struct {
	drv dialect.Driver

	Users          *UserRepo
	Questionnaires *QuestionnaireRepo
	Questions      *QuestionRepo
	QuizResponses  *QuizResponseRepo
	Evaluations    *EvaluationRepo
	Coupons        *CouponRepo
	Products       *ProductRepo
}

func NewClient(drv dialect.Driver) *Client {
	return &Client{
		drv:            drv,
		Users:          &UserRepo{drv: drv},
		Questionnaires: &QuestionnaireRepo{drv: drv},
		Questions:      &QuestionRepo{drv: drv},
		QuizResponses:  &QuizResponseRepo{drv: drv},
		Evaluations:    &EvaluationRepo{drv: drv},
		Coupons:        &CouponRepo{drv: drv},
		Products:       &ProductRepo{drv: drv},
	}
}

func (c *Client) Close() error { return c.drv.Close() }

// Migrate creates or upgrades every table the repositories use.
func (c *Client) Migrate(ctx context.Context) error {
	return migrate.Create(ctx, c.drv)
}

func builder() *sql.DialectBuilder { return sql.Dialect(dialect.Postgres) }

func queryRows(ctx context.Context, drv dialect.ExecQuerier, q sql.Querier, each func(*sql.Rows) error) error {
	query, args := q.Query()
	rows := &sql.Rows{}
	if err := drv.Query(ctx, query, args, rows); err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := each(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// queryOne runs q and scans the first row, returning ErrNotFound when empty.
func queryOne(ctx context.Context, drv dialect.ExecQuerier, q sql.Querier, scan func(*sql.Rows) error) error {
	found := false
	err := queryRows(ctx, drv, q, func(rows *sql.Rows) error {
		if found {
			return nil
		}
		found = true
		return scan(rows)
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func execAffected(ctx context.Context, drv dialect.ExecQuerier, q sql.Querier) (int64, error) {
	query, args := q.Query()
	var res stdsql.Result
	if err := drv.Exec(ctx, query, args, &res); err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullString(ns stdsql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullTime(nt stdsql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// nullable converts an optional value to something the driver stores as NULL.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
