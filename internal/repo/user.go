package repo

import (
	"context"
	stdsql "database/sql"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

const tableUsers = "users"

// UserRepo reads profiles written by the identity provider.
type UserRepo struct {
	drv dialect.ExecQuerier
}

func (r *UserRepo) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	q := builder().
		Select("id", "full_name", "email", "phone", "created_at").
		From(builder().Table(tableUsers)).
		Where(sql.EQ("id", id))

	var u User
	err := queryOne(ctx, r.drv, q, func(rows *sql.Rows) error {
		var phone stdsql.NullString
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email, &phone, &u.CreatedAt); err != nil {
			return err
		}
		u.Phone = nullString(phone)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}
