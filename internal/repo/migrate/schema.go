package migrate

import (
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var textType = map[string]string{dialect.Postgres: "text"}

var (
	// UsersColumns holds the columns for the "users" table.
	UsersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "full_name", Type: field.TypeString, Size: 200},
		{Name: "email", Type: field.TypeString, Size: 320},
		{Name: "phone", Type: field.TypeString, Nullable: true, Size: 32},
		{Name: "created_at", Type: field.TypeTime},
	}
	// UsersTable holds the schema information for the "users" table.
	UsersTable = &schema.Table{
		Name:       "users",
		Columns:    UsersColumns,
		PrimaryKey: []*schema.Column{UsersColumns[0]},
	}
	// QuestionnairesColumns holds the columns for the "questionnaires" table.
	QuestionnairesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "title", Type: field.TypeString, Size: 200},
		{Name: "description", Type: field.TypeString, Nullable: true, SchemaType: textType},
		{Name: "type", Type: field.TypeEnum, Enums: []string{"initial_assessment", "follow_up", "satisfaction", "custom"}},
		{Name: "active", Type: field.TypeBool, Default: true},
		{Name: "display_order", Type: field.TypeInt, Default: 0},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "deleted_at", Type: field.TypeTime, Nullable: true},
	}
	// QuestionnairesTable holds the schema information for the "questionnaires" table.
	QuestionnairesTable = &schema.Table{
		Name:       "questionnaires",
		Columns:    QuestionnairesColumns,
		PrimaryKey: []*schema.Column{QuestionnairesColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "questionnaire_active_display_order",
				Unique:  false,
				Columns: []*schema.Column{QuestionnairesColumns[4], QuestionnairesColumns[5]},
			},
		},
	}
	// QuestionsColumns holds the columns for the "questions" table.
	QuestionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "questionnaire_id", Type: field.TypeUUID},
		{Name: "title", Type: field.TypeString, SchemaType: textType},
		{Name: "description", Type: field.TypeString, Nullable: true, SchemaType: textType},
		{Name: "answer_type", Type: field.TypeEnum, Enums: []string{"single_choice", "text", "number", "scale", "yes_no", "email", "phone", "date"}},
		{Name: "options", Type: field.TypeJSON, Nullable: true},
		{Name: "required", Type: field.TypeBool, Default: false},
		{Name: "display_order", Type: field.TypeInt, Default: 0},
		{Name: "active", Type: field.TypeBool, Default: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// QuestionsTable holds the schema information for the "questions" table.
	QuestionsTable = &schema.Table{
		Name:       "questions",
		Columns:    QuestionsColumns,
		PrimaryKey: []*schema.Column{QuestionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "questions_questionnaires_questions",
				Columns:    []*schema.Column{QuestionsColumns[1]},
				RefColumns: []*schema.Column{QuestionnairesColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "question_questionnaire_id_display_order",
				Unique:  false,
				Columns: []*schema.Column{QuestionsColumns[1], QuestionsColumns[7]},
			},
		},
	}
	// QuizResponsesColumns holds the columns for the "quiz_responses" table.
	QuizResponsesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "user_id", Type: field.TypeUUID},
		{Name: "quiz_type", Type: field.TypeString, Size: 100},
		{Name: "responses", Type: field.TypeJSON},
		{Name: "completed_at", Type: field.TypeTime},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// QuizResponsesTable holds the schema information for the "quiz_responses" table.
	QuizResponsesTable = &schema.Table{
		Name:       "quiz_responses",
		Columns:    QuizResponsesColumns,
		PrimaryKey: []*schema.Column{QuizResponsesColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "quizresponse_user_id_quiz_type",
				Unique:  true,
				Columns: []*schema.Column{QuizResponsesColumns[1], QuizResponsesColumns[2]},
			},
		},
	}
	// ClinicalEvaluationsColumns holds the columns for the "clinical_evaluations" table.
	ClinicalEvaluationsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "user_id", Type: field.TypeUUID},
		{Name: "questionnaire_answers", Type: field.TypeJSON},
		{Name: "medication_requested", Type: field.TypeString, Size: 200},
		{Name: "status", Type: field.TypeEnum, Enums: []string{"aguardando_revisao", "em_analise", "necessita_esclarecimento", "aprovado", "negado"}, Default: "aguardando_revisao"},
		{Name: "reviewer_id", Type: field.TypeUUID, Nullable: true},
		{Name: "medical_notes", Type: field.TypeString, Nullable: true, SchemaType: textType},
		{Name: "denial_reason", Type: field.TypeString, Nullable: true, SchemaType: textType},
		{Name: "submitted_at", Type: field.TypeTime},
		{Name: "reviewed_at", Type: field.TypeTime, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// ClinicalEvaluationsTable holds the schema information for the "clinical_evaluations" table.
	ClinicalEvaluationsTable = &schema.Table{
		Name:       "clinical_evaluations",
		Columns:    ClinicalEvaluationsColumns,
		PrimaryKey: []*schema.Column{ClinicalEvaluationsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "clinicalevaluation_status_submitted_at",
				Unique:  false,
				Columns: []*schema.Column{ClinicalEvaluationsColumns[4], ClinicalEvaluationsColumns[8]},
			},
			{
				Name:    "clinicalevaluation_user_id",
				Unique:  false,
				Columns: []*schema.Column{ClinicalEvaluationsColumns[1]},
			},
		},
	}
	// CouponsColumns holds the columns for the "coupons" table.
	CouponsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "code", Type: field.TypeString, Unique: true, Size: 64},
		{Name: "discount_amount", Type: field.TypeInt64},
		{Name: "discount_kind", Type: field.TypeEnum, Enums: []string{"percentage", "fixed"}},
		{Name: "expires_at", Type: field.TypeTime},
		{Name: "active", Type: field.TypeBool, Default: true},
		{Name: "usage_cap", Type: field.TypeInt, Default: 0},
		{Name: "usage_count", Type: field.TypeInt, Default: 0},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// CouponsTable holds the schema information for the "coupons" table.
	CouponsTable = &schema.Table{
		Name:       "coupons",
		Columns:    CouponsColumns,
		PrimaryKey: []*schema.Column{CouponsColumns[0]},
	}
	// ProductsColumns holds the columns for the "products" table.
	ProductsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "name", Type: field.TypeString, Size: 200},
		{Name: "description", Type: field.TypeString, Nullable: true, SchemaType: textType},
		{Name: "price_cents", Type: field.TypeInt64},
		{Name: "active", Type: field.TypeBool, Default: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// ProductsTable holds the schema information for the "products" table.
	ProductsTable = &schema.Table{
		Name:       "products",
		Columns:    ProductsColumns,
		PrimaryKey: []*schema.Column{ProductsColumns[0]},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		UsersTable,
		QuestionnairesTable,
		QuestionsTable,
		QuizResponsesTable,
		ClinicalEvaluationsTable,
		CouponsTable,
		ProductsTable,
	}
)

func init() {
	QuestionsTable.ForeignKeys[0].RefTable = QuestionnairesTable
}
