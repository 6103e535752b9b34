package repo

import (
	"context"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

const tableQuizResponses = "quiz_responses"

var quizResponseColumns = []string{
	"id", "user_id", "quiz_type", "responses", "completed_at", "created_at", "updated_at",
}

type QuizResponseRepo struct {
	drv dialect.ExecQuerier
}

func scanQuizResponse(rows *sql.Rows) (*QuizResponse, error) {
	var (
		r   QuizResponse
		raw []byte
	)
	if err := rows.Scan(&r.ID, &r.UserID, &r.QuizType, &raw, &r.CompletedAt, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	if err := decodeJSON(raw, &r.Responses); err != nil {
		return nil, err
	}
	return &r, nil
}

// upsertQuizResponse inserts the bundle or, when (user_id, quiz_type)
// already exists, replaces its answers and completion time in the same
// statement. The surviving row's id and created_at are returned.
func upsertQuizResponse(r *QuizResponse, responses string) *sql.InsertBuilder {
	return builder().Insert(tableQuizResponses).
		Columns(quizResponseColumns...).
		Values(r.ID, r.UserID, r.QuizType, responses, r.CompletedAt, r.CreatedAt, r.UpdatedAt).
		OnConflict(
			sql.ConflictColumns("user_id", "quiz_type"),
			sql.ResolveWith(func(u *sql.UpdateSet) {
				u.SetExcluded("responses")
				u.SetExcluded("completed_at")
				u.SetExcluded("updated_at")
			}),
		).
		Returning("id", "created_at")
}

// Upsert stores r atomically. On return r.ID and r.CreatedAt reflect the
// persisted row, which differ from the input when a bundle was replaced.
func (repo *QuizResponseRepo) Upsert(ctx context.Context, r *QuizResponse) error {
	payload, err := jsonColumn(r.Responses)
	if err != nil {
		return err
	}
	return queryOne(ctx, repo.drv, upsertQuizResponse(r, payload), func(rows *sql.Rows) error {
		return rows.Scan(&r.ID, &r.CreatedAt)
	})
}

// ListByUser returns the user's bundles, newest completion first.
func (repo *QuizResponseRepo) ListByUser(ctx context.Context, userID uuid.UUID, quizType *string) ([]*QuizResponse, error) {
	var out []*QuizResponse
	err := queryRows(ctx, repo.drv, listQuizResponses(userID, quizType), func(rows *sql.Rows) error {
		r, err := scanQuizResponse(rows)
		if err != nil {
			return err
		}
		out = append(out, r)
		return nil
	})
	return out, err
}

func listQuizResponses(userID uuid.UUID, quizType *string) *sql.Selector {
	sel := builder().Select(quizResponseColumns...).
		From(builder().Table(tableQuizResponses)).
		Where(sql.EQ("user_id", userID)).
		OrderBy(sql.Desc("completed_at"))
	if quizType != nil {
		sel.Where(sql.EQ("quiz_type", *quizType))
	}
	return sel
}

func (repo *QuizResponseRepo) ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	sel := builder().Select("id").
		From(builder().Table(tableQuizResponses)).
		Where(sql.EQ("user_id", userID)).
		Limit(1)
	found := false
	err := queryRows(ctx, repo.drv, sel, func(*sql.Rows) error {
		found = true
		return nil
	})
	return found, err
}
