package repo

import (
	"context"
	stdsql "database/sql"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/telecare_backend/internal/quiz"
)

const tableQuestions = "questions"

var questionColumns = []string{
	"id", "questionnaire_id", "title", "description", "answer_type", "options",
	"required", "display_order", "active", "created_at", "updated_at",
}

type QuestionRepo struct {
	drv dialect.ExecQuerier
}

func scanQuestion(rows *sql.Rows) (*Question, error) {
	var (
		q       Question
		desc    stdsql.NullString
		typ     string
		options []byte
	)
	if err := rows.Scan(&q.ID, &q.QuestionnaireID, &q.Title, &desc, &typ, &options,
		&q.Required, &q.DisplayOrder, &q.Active, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return nil, err
	}
	q.Description = nullString(desc)
	q.AnswerType = quiz.AnswerType(typ)
	if err := decodeJSON(options, &q.Options); err != nil {
		return nil, err
	}
	return &q, nil
}

func optionsColumn(options []string) (any, error) {
	if len(options) == 0 {
		return nil, nil
	}
	return jsonColumn(options)
}

func (r *QuestionRepo) Create(ctx context.Context, q *Question) error {
	opts, err := optionsColumn(q.Options)
	if err != nil {
		return err
	}
	_, err = execAffected(ctx, r.drv, builder().Insert(tableQuestions).
		Columns(questionColumns...).
		Values(q.ID, q.QuestionnaireID, q.Title, nullable(q.Description), string(q.AnswerType), opts,
			q.Required, q.DisplayOrder, q.Active, q.CreatedAt, q.UpdatedAt))
	if IsForeignKeyViolation(err) {
		return ErrNotFound
	}
	return err
}

func (r *QuestionRepo) Get(ctx context.Context, id uuid.UUID) (*Question, error) {
	sel := builder().Select(questionColumns...).
		From(builder().Table(tableQuestions)).
		Where(sql.EQ("id", id))
	var out *Question
	err := queryOne(ctx, r.drv, sel, func(rows *sql.Rows) (err error) {
		out, err = scanQuestion(rows)
		return err
	})
	return out, err
}

// ListByQuestionnaire returns questions ascending by display order.
func (r *QuestionRepo) ListByQuestionnaire(ctx context.Context, questionnaireID uuid.UUID, activeOnly bool) ([]*Question, error) {
	var out []*Question
	err := queryRows(ctx, r.drv, listQuestions(questionnaireID, activeOnly), func(rows *sql.Rows) error {
		q, err := scanQuestion(rows)
		if err != nil {
			return err
		}
		out = append(out, q)
		return nil
	})
	return out, err
}

func listQuestions(questionnaireID uuid.UUID, activeOnly bool) *sql.Selector {
	sel := builder().Select(questionColumns...).
		From(builder().Table(tableQuestions)).
		Where(sql.EQ("questionnaire_id", questionnaireID)).
		OrderBy("display_order", "created_at")
	if activeOnly {
		sel.Where(sql.EQ("active", true))
	}
	return sel
}

func (r *QuestionRepo) Update(ctx context.Context, q *Question) error {
	opts, err := optionsColumn(q.Options)
	if err != nil {
		return err
	}
	n, err := execAffected(ctx, r.drv, builder().Update(tableQuestions).
		Set("title", q.Title).
		Set("description", nullable(q.Description)).
		Set("answer_type", string(q.AnswerType)).
		Set("options", opts).
		Set("required", q.Required).
		Set("display_order", q.DisplayOrder).
		Set("active", q.Active).
		Set("updated_at", q.UpdatedAt).
		Where(sql.EQ("id", q.ID)))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the question. Bundles keep answers keyed by its id.
func (r *QuestionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := execAffected(ctx, r.drv, builder().Delete(tableQuestions).Where(sql.EQ("id", id)))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
