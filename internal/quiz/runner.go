package quiz

import "errors"

type Phase string

const (
	PhaseLoading    Phase = "loading"
	PhaseEmpty      Phase = "empty"
	PhasePresenting Phase = "presenting"
	PhaseSubmitting Phase = "submitting"
	PhaseCompleted  Phase = "completed"
	PhaseError      Phase = "error"
)

var (
	ErrNotPresenting   = errors.New("quiz is not presenting a question")
	ErrAtFirstQuestion = errors.New("already at the first question")
	ErrNotSubmitting   = errors.New("quiz is not submitting")
	ErrNotLoading      = errors.New("quiz is already loaded")
)

// Runner walks a user through an ordered question list. It is a plain value
// so callers can persist it between requests.
type Runner struct {
	Phase     Phase             `json:"phase"`
	Questions []Question        `json:"questions"`
	Index     int               `json:"index"`
	Values    map[string]string `json:"values"`
	Failure   string            `json:"failure,omitempty"`
}

func NewRunner() *Runner {
	return &Runner{Phase: PhaseLoading, Values: map[string]string{}}
}

// Load moves out of loading. Zero questions is a distinct empty state.
func (r *Runner) Load(questions []Question) error {
	if r.Phase != PhaseLoading {
		return ErrNotLoading
	}
	r.Questions = append([]Question(nil), questions...)
	r.Index = 0
	if len(r.Questions) == 0 {
		r.Phase = PhaseEmpty
		return nil
	}
	r.Phase = PhasePresenting
	return nil
}

func (r *Runner) Current() (Question, bool) {
	if r.Phase != PhasePresenting || r.Index < 0 || r.Index >= len(r.Questions) {
		return Question{}, false
	}
	return r.Questions[r.Index], true
}

// CurrentValue returns the answer already given for the current question,
// which is what a client pre-fills after navigating back.
func (r *Runner) CurrentValue() (string, bool) {
	q, ok := r.Current()
	if !ok {
		return "", false
	}
	v, ok := r.Values[q.ID]
	return v, ok
}

// Answer validates value against the current question. On success the
// runner advances, or enters submitting after the last question. On
// failure the state is unchanged.
func (r *Runner) Answer(value string) error {
	q, ok := r.Current()
	if !ok {
		return ErrNotPresenting
	}
	if err := ContractFor(q).Validate(value); err != nil {
		return err
	}
	if r.Values == nil {
		r.Values = map[string]string{}
	}
	r.Values[q.ID] = value

	if r.Index == len(r.Questions)-1 {
		r.Phase = PhaseSubmitting
		return nil
	}
	r.Index++
	return nil
}

// Back steps to the previous question keeping every answer.
func (r *Runner) Back() error {
	if r.Phase != PhasePresenting {
		return ErrNotPresenting
	}
	if r.Index == 0 {
		return ErrAtFirstQuestion
	}
	r.Index--
	return nil
}

func (r *Runner) Complete() error {
	if r.Phase != PhaseSubmitting {
		return ErrNotSubmitting
	}
	r.Phase = PhaseCompleted
	r.Failure = ""
	return nil
}

func (r *Runner) Fail(err error) {
	r.Phase = PhaseError
	if err != nil {
		r.Failure = err.Error()
	}
}

// Answers returns the collected values tagged by question type.
func (r *Runner) Answers() Answers {
	out := make(Answers, len(r.Values))
	for _, q := range r.Questions {
		if v, ok := r.Values[q.ID]; ok {
			out[q.ID] = NewAnswer(q.Type, v)
		}
	}
	return out
}

func (r *Runner) Progress() (answered, total int) {
	for _, q := range r.Questions {
		if _, ok := r.Values[q.ID]; ok {
			answered++
		}
	}
	return answered, len(r.Questions)
}

func (r *Runner) Done() bool {
	return r.Phase == PhaseCompleted || r.Phase == PhaseError || r.Phase == PhaseEmpty
}
