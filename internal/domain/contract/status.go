package contract

import (
	"strings"
	"time"

	"github.com/jhoicas/hospedagem-api/internal/domain"
	"github.com/jhoicas/hospedagem-api/internal/domain/entity"
)

// transitions tabla de transiciones permitidas. Los estados terminales no tienen salida.
var transitions = map[entity.ContractStatus][]entity.ContractStatus{
	entity.StatusPendingApproval: {entity.StatusApproved, entity.StatusDenied, entity.StatusCancelled},
	entity.StatusApproved:        {entity.StatusInProgress, entity.StatusCancelled},
	entity.StatusInProgress:      {entity.StatusCompleted, entity.StatusCancelled},
	entity.StatusCompleted:       {},
	entity.StatusDenied:          {},
	entity.StatusCancelled:       {},
}

// AllowedTransitions estados destino válidos desde from (copia).
func AllowedTransitions(from entity.ContractStatus) []entity.ContractStatus {
	out := make([]entity.ContractStatus, len(transitions[from]))
	copy(out, transitions[from])
	return out
}

// CanTransition indica si from → to está en la tabla.
func CanTransition(from, to entity.ContractStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal completed, denied y cancelled.
func IsTerminal(s entity.ContractStatus) bool {
	return len(transitions[s]) == 0
}

// IsActive estados que cuentan para detectar contratos duplicados.
func IsActive(s entity.ContractStatus) bool {
	switch s {
	case entity.StatusPendingApproval, entity.StatusApproved, entity.StatusInProgress:
		return true
	}
	return false
}

// ActiveStatuses estados activos, para consultas.
func ActiveStatuses() []entity.ContractStatus {
	return []entity.ContractStatus{entity.StatusPendingApproval, entity.StatusApproved, entity.StatusInProgress}
}

// IsEditable pets, servicios y fechas solo se editan fuera de completed/cancelled/denied.
func IsEditable(s entity.ContractStatus) bool {
	switch s {
	case entity.StatusCompleted, entity.StatusCancelled, entity.StatusDenied:
		return false
	}
	return true
}

// IsDeletable un contrato en curso o concluido no se elimina; denied/cancelled sí.
func IsDeletable(s entity.ContractStatus) bool {
	switch s {
	case entity.StatusInProgress, entity.StatusCompleted:
		return false
	}
	return true
}

// EnsureEditable devuelve IllegalEdit si el contrato no admite edición.
func EnsureEditable(c *entity.Contract) error {
	if IsEditable(c.Status) {
		return nil
	}
	return domain.NewError(domain.ErrIllegalEdit, domain.CodeIllegalEdit,
		"el contrato %s está en estado %s y no puede modificarse", c.ID, c.Status).
		With("contract_id", c.ID).
		With("status", string(c.Status))
}

// EnsureDeletable devuelve DeletionBlocked si el estado impide eliminar.
func EnsureDeletable(c *entity.Contract) error {
	if IsDeletable(c.Status) {
		return nil
	}
	return domain.NewError(domain.ErrIllegalEdit, domain.CodeDeletionBlocked,
		"el contrato %s está en estado %s y no puede eliminarse", c.ID, c.Status).
		With("contract_id", c.ID).
		With("status", string(c.Status))
}

// CheckTransition valida from → to con las guardas de fecha y motivo.
// Devuelve el motivo normalizado a registrar (nil si no corresponde).
func CheckTransition(c *entity.Contract, to entity.ContractStatus, reason string, today time.Time) (*string, error) {
	if !IsValidStatus(string(to)) {
		return nil, domain.Validation(domain.CodeInvalidStatus, "estado desconocido: %q", to).
			With("status", string(to))
	}
	if !CanTransition(c.Status, to) {
		allowed := AllowedTransitions(c.Status)
		names := make([]string, len(allowed))
		for i, s := range allowed {
			names[i] = string(s)
		}
		return nil, domain.NewError(domain.ErrIllegalTransition, domain.CodeIllegalTransition,
			"transición %s → %s no permitida", c.Status, to).
			With("from", string(c.Status)).
			With("to", string(to)).
			With("allowed", names)
	}

	today = entity.DateOf(today)
	trimmed := strings.TrimSpace(reason)
	switch to {
	case entity.StatusInProgress:
		if today.Before(entity.DateOf(c.StartDate)) {
			return nil, domain.NewError(domain.ErrIllegalTransition, domain.CodePrematureStart,
				"el contrato inicia el %s; no puede pasar a in_progress antes", c.StartDate.Format(entity.DateLayout)).
				With("start_date", c.StartDate.Format(entity.DateLayout))
		}
	case entity.StatusCompleted:
		if c.EndDate != nil && today.Before(entity.DateOf(*c.EndDate)) {
			return nil, domain.NewError(domain.ErrIllegalTransition, domain.CodePrematureCompletion,
				"el contrato termina el %s; no puede concluirse antes", c.EndDate.Format(entity.DateLayout)).
				With("end_date", c.EndDate.Format(entity.DateLayout))
		}
	case entity.StatusDenied:
		if trimmed == "" {
			return nil, domain.Validation(domain.CodeMissingReason, "la negación requiere un motivo")
		}
		return &trimmed, nil
	case entity.StatusCancelled:
		if trimmed != "" {
			return &trimmed, nil
		}
	}
	return nil, nil
}

// IsDuplicateOf indica si existing choca con un contrato nuevo de (facility, owner, start, end).
// end nil solo coincide con end nil.
func IsDuplicateOf(existing *entity.Contract, facilityID, ownerID string, start time.Time, end *time.Time) bool {
	if existing == nil || !IsActive(existing.Status) {
		return false
	}
	if existing.FacilityID != facilityID || existing.OwnerID != ownerID {
		return false
	}
	if !entity.DateOf(existing.StartDate).Equal(entity.DateOf(start)) {
		return false
	}
	if existing.EndDate == nil || end == nil {
		return existing.EndDate == nil && end == nil
	}
	return entity.DateOf(*existing.EndDate).Equal(entity.DateOf(*end))
}

// DuplicateActiveError error ConflictDuplicate apuntando al contrato existente.
func DuplicateActiveError(existing *entity.Contract) error {
	return domain.NewError(domain.ErrConflict, domain.CodeDuplicateActive,
		"ya existe un contrato activo para esta hospedagem, tutor y fechas (%s)", existing.ID).
		With("contract_id", existing.ID).
		With("status", string(existing.Status))
}
