package repo

import (
	"context"
	stdsql "database/sql"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/telecare_backend/internal/quiz"
)

const tableQuestionnaires = "questionnaires"

var questionnaireColumns = []string{
	"id", "title", "description", "type", "active", "display_order",
	"created_at", "updated_at", "deleted_at",
}

type QuestionnaireRepo struct {
	drv dialect.ExecQuerier
}

func scanQuestionnaire(rows *sql.Rows) (*Questionnaire, error) {
	var (
		q       Questionnaire
		desc    stdsql.NullString
		typ     string
		deleted stdsql.NullTime
	)
	if err := rows.Scan(&q.ID, &q.Title, &desc, &typ, &q.Active, &q.DisplayOrder,
		&q.CreatedAt, &q.UpdatedAt, &deleted); err != nil {
		return nil, err
	}
	q.Description = nullString(desc)
	q.Type = quiz.QuestionnaireType(typ)
	q.DeletedAt = nullTime(deleted)
	return &q, nil
}

func selectQuestionnaires() *sql.Selector {
	return builder().
		Select(questionnaireColumns...).
		From(builder().Table(tableQuestionnaires)).
		Where(sql.IsNull("deleted_at"))
}

func insertQuestionnaire(q *Questionnaire) *sql.InsertBuilder {
	return builder().Insert(tableQuestionnaires).
		Columns(questionnaireColumns[:8]...).
		Values(q.ID, q.Title, nullable(q.Description), string(q.Type), q.Active, q.DisplayOrder, q.CreatedAt, q.UpdatedAt)
}

func (r *QuestionnaireRepo) Create(ctx context.Context, q *Questionnaire) error {
	_, err := execAffected(ctx, r.drv, insertQuestionnaire(q))
	return err
}

func (r *QuestionnaireRepo) Get(ctx context.Context, id uuid.UUID) (*Questionnaire, error) {
	var out *Questionnaire
	err := queryOne(ctx, r.drv, selectQuestionnaires().Where(sql.EQ("id", id)), func(rows *sql.Rows) (err error) {
		out, err = scanQuestionnaire(rows)
		return err
	})
	return out, err
}

func (r *QuestionnaireRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := r.Get(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case IsNotFound(err):
		return false, nil
	default:
		return false, err
	}
}

func (r *QuestionnaireRepo) List(ctx context.Context, includeInactive bool) ([]*Questionnaire, error) {
	sel := selectQuestionnaires().OrderBy("display_order", "created_at")
	if !includeInactive {
		sel.Where(sql.EQ("active", true))
	}
	var out []*Questionnaire
	err := queryRows(ctx, r.drv, sel, func(rows *sql.Rows) error {
		q, err := scanQuestionnaire(rows)
		if err != nil {
			return err
		}
		out = append(out, q)
		return nil
	})
	return out, err
}

// FirstActive returns the lowest-ordered active questionnaire, optionally
// restricted to one type.
func (r *QuestionnaireRepo) FirstActive(ctx context.Context, typ *quiz.QuestionnaireType) (*Questionnaire, error) {
	sel := firstActiveQuestionnaire(typ)
	var out *Questionnaire
	err := queryOne(ctx, r.drv, sel, func(rows *sql.Rows) (err error) {
		out, err = scanQuestionnaire(rows)
		return err
	})
	return out, err
}

func firstActiveQuestionnaire(typ *quiz.QuestionnaireType) *sql.Selector {
	sel := selectQuestionnaires().
		Where(sql.EQ("active", true)).
		OrderBy("display_order", "created_at").
		Limit(1)
	if typ != nil {
		sel.Where(sql.EQ("type", string(*typ)))
	}
	return sel
}

func (r *QuestionnaireRepo) Update(ctx context.Context, q *Questionnaire) error {
	n, err := execAffected(ctx, r.drv, builder().Update(tableQuestionnaires).
		Set("title", q.Title).
		Set("description", nullable(q.Description)).
		Set("type", string(q.Type)).
		Set("active", q.Active).
		Set("display_order", q.DisplayOrder).
		Set("updated_at", q.UpdatedAt).
		Where(sql.And(sql.EQ("id", q.ID), sql.IsNull("deleted_at"))))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete hides the questionnaire; its questions and any answer bundles
// stay in place.
func (r *QuestionnaireRepo) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	n, err := execAffected(ctx, r.drv, builder().Update(tableQuestionnaires).
		Set("deleted_at", at).
		Set("active", false).
		Set("updated_at", at).
		Where(sql.And(sql.EQ("id", id), sql.IsNull("deleted_at"))))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
