package repo

import (
	"context"
	stdsql "database/sql"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

const tableEvaluations = "clinical_evaluations"

var evaluationColumns = []string{
	"id", "user_id", "questionnaire_answers", "medication_requested", "status",
	"reviewer_id", "medical_notes", "denial_reason", "submitted_at", "reviewed_at",
	"created_at", "updated_at",
}

type EvaluationRepo struct {
	drv dialect.ExecQuerier
}

// EvaluationFilter narrows List. Empty Statuses means any status.
type EvaluationFilter struct {
	Statuses []EvaluationStatus
	UserID   *uuid.UUID
	Limit    int
	Offset   int
}

// ReviewUpdate is a clinician decision. Nil notes or reason leave the
// stored value untouched.
type ReviewUpdate struct {
	Status       EvaluationStatus
	ReviewerID   *uuid.UUID
	ReviewedAt   time.Time
	MedicalNotes *string
	DenialReason *string
}

func (r *EvaluationRepo) Create(ctx context.Context, e *ClinicalEvaluation) error {
	answers, err := jsonColumn(e.QuestionnaireAnswers)
	if err != nil {
		return err
	}
	_, err = execAffected(ctx, r.drv, builder().Insert(tableEvaluations).
		Columns(evaluationColumns...).
		Values(e.ID, e.UserID, answers, e.MedicationRequested, string(e.Status),
			nullable(e.ReviewerID), nullable(e.MedicalNotes), nullable(e.DenialReason),
			e.SubmittedAt, nullable(e.ReviewedAt), e.CreatedAt, e.UpdatedAt))
	return err
}

func (r *EvaluationRepo) Get(ctx context.Context, id uuid.UUID) (*EvaluationView, error) {
	sel, e := selectEvaluationViews()
	sel.Where(sql.EQ(e.C("id"), id))

	var out *EvaluationView
	err := queryOne(ctx, r.drv, sel, func(rows *sql.Rows) (err error) {
		out, err = scanEvaluationView(rows)
		return err
	})
	return out, err
}

// List returns evaluations joined with patient profile and reviewer name,
// newest submission first.
func (r *EvaluationRepo) List(ctx context.Context, f EvaluationFilter) ([]*EvaluationView, error) {
	var out []*EvaluationView
	err := queryRows(ctx, r.drv, listEvaluations(f), func(rows *sql.Rows) error {
		v, err := scanEvaluationView(rows)
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

func listEvaluations(f EvaluationFilter) *sql.Selector {
	sel, e := selectEvaluationViews()
	if len(f.Statuses) > 0 {
		args := make([]any, len(f.Statuses))
		for i, s := range f.Statuses {
			args[i] = string(s)
		}
		sel.Where(sql.In(e.C("status"), args...))
	}
	if f.UserID != nil {
		sel.Where(sql.EQ(e.C("user_id"), *f.UserID))
	}
	sel.OrderBy(sql.Desc(e.C("submitted_at")))
	if f.Limit > 0 {
		sel.Limit(f.Limit)
	}
	if f.Offset > 0 {
		sel.Offset(f.Offset)
	}
	return sel
}

func selectEvaluationViews() (*sql.Selector, *sql.SelectTable) {
	e := builder().Table(tableEvaluations).As("e")
	p := builder().Table(tableUsers).As("p")
	rv := builder().Table(tableUsers).As("rv")

	cols := make([]string, 0, len(evaluationColumns)+6)
	for _, c := range evaluationColumns {
		cols = append(cols, e.C(c))
	}
	cols = append(cols,
		p.C("id"), p.C("full_name"), p.C("email"), p.C("phone"), p.C("created_at"),
		rv.C("full_name"),
	)

	sel := builder().Select(cols...).
		From(e).
		LeftJoin(p).On(e.C("user_id"), p.C("id")).
		LeftJoin(rv).On(e.C("reviewer_id"), rv.C("id"))
	return sel, e
}

func scanEvaluationView(rows *sql.Rows) (*EvaluationView, error) {
	var (
		v            EvaluationView
		answers      []byte
		status       string
		reviewerID   uuid.NullUUID
		notes        stdsql.NullString
		denial       stdsql.NullString
		reviewedAt   stdsql.NullTime
		patientID    uuid.NullUUID
		patientName  stdsql.NullString
		patientEmail stdsql.NullString
		patientPhone stdsql.NullString
		patientSince stdsql.NullTime
		reviewerName stdsql.NullString
	)
	if err := rows.Scan(
		&v.ID, &v.UserID, &answers, &v.MedicationRequested, &status,
		&reviewerID, &notes, &denial, &v.SubmittedAt, &reviewedAt,
		&v.CreatedAt, &v.UpdatedAt,
		&patientID, &patientName, &patientEmail, &patientPhone, &patientSince,
		&reviewerName,
	); err != nil {
		return nil, err
	}
	if err := decodeJSON(answers, &v.QuestionnaireAnswers); err != nil {
		return nil, err
	}
	v.Status = EvaluationStatus(status)
	if reviewerID.Valid {
		id := reviewerID.UUID
		v.ReviewerID = &id
	}
	v.MedicalNotes = nullString(notes)
	v.DenialReason = nullString(denial)
	v.ReviewedAt = nullTime(reviewedAt)
	if patientID.Valid {
		v.Patient = &User{
			ID:        patientID.UUID,
			FullName:  patientName.String,
			Email:     patientEmail.String,
			Phone:     nullString(patientPhone),
			CreatedAt: patientSince.Time,
		}
	}
	v.ReviewerName = nullString(reviewerName)
	return &v, nil
}

func reviewEvaluation(id uuid.UUID, u ReviewUpdate) *sql.UpdateBuilder {
	upd := builder().Update(tableEvaluations).
		Set("status", string(u.Status)).
		Set("reviewed_at", u.ReviewedAt).
		Set("updated_at", u.ReviewedAt).
		Where(sql.EQ("id", id))
	if u.ReviewerID != nil {
		upd.Set("reviewer_id", *u.ReviewerID)
	}
	if u.MedicalNotes != nil {
		upd.Set("medical_notes", *u.MedicalNotes)
	}
	if u.DenialReason != nil {
		upd.Set("denial_reason", *u.DenialReason)
	}
	return upd
}

// Review writes a decision. Concurrent reviews are last-write-wins.
func (r *EvaluationRepo) Review(ctx context.Context, id uuid.UUID, u ReviewUpdate) error {
	n, err := execAffected(ctx, r.drv, reviewEvaluation(id, u))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
