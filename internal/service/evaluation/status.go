package evaluation

import (
	"fmt"
	"strings"

	"github.com/Alijeyrad/telecare_backend/internal/repo"
)

// ExternalStatus is the three-valued status shown on the admin dashboard.
type ExternalStatus string

const (
	ExternalPending  ExternalStatus = "pendente"
	ExternalApproved ExternalStatus = "aprovado"
	ExternalDenied   ExternalStatus = "negado"
)

var externalAliases = map[string]ExternalStatus{
	"pendente": ExternalPending,
	"pending":  ExternalPending,
	"aprovado": ExternalApproved,
	"approved": ExternalApproved,
	"negado":   ExternalDenied,
	"denied":   ExternalDenied,
	"rejected": ExternalDenied,
}

// ParseExternal accepts the Portuguese values and their English spellings,
// case-insensitively.
func ParseExternal(s string) (ExternalStatus, error) {
	if st, ok := externalAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// MapInternalToExternal is total: every stored status, including ones this
// build does not know, maps to one of the three external values.
func MapInternalToExternal(s repo.EvaluationStatus) ExternalStatus {
	switch s {
	case repo.EvaluationApproved:
		return ExternalApproved
	case repo.EvaluationDenied:
		return ExternalDenied
	default:
		return ExternalPending
	}
}

// MapExternalToInternal picks the status written for an admin decision.
// Pending always becomes aguardando_revisao, so em_analise and
// necessita_esclarecimento do not survive a round trip.
func MapExternalToInternal(e ExternalStatus) (repo.EvaluationStatus, error) {
	switch e {
	case ExternalPending:
		return repo.EvaluationAwaitingReview, nil
	case ExternalApproved:
		return repo.EvaluationApproved, nil
	case ExternalDenied:
		return repo.EvaluationDenied, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, e)
}

// InternalStatusesFor lists the internal statuses shown as e.
func InternalStatusesFor(e ExternalStatus) []repo.EvaluationStatus {
	var out []repo.EvaluationStatus
	for _, s := range repo.EvaluationStatuses {
		if MapInternalToExternal(s) == e {
			out = append(out, s)
		}
	}
	return out
}

// statusFilter resolves a list filter given either as an external value
// (any spelling) or as an exact internal status.
func statusFilter(raw string) ([]repo.EvaluationStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if s := repo.EvaluationStatus(strings.ToLower(raw)); s.Valid() {
		return []repo.EvaluationStatus{s}, nil
	}
	e, err := ParseExternal(raw)
	if err != nil {
		return nil, err
	}
	return InternalStatusesFor(e), nil
}
