package entity

import "time"

// ContractStatus estado del ciclo de vida de un contrato de hospedagem.
type ContractStatus string

// Vocabulario fijo de estados.
const (
	StatusPendingApproval ContractStatus = "pending_approval" // inicial
	StatusApproved        ContractStatus = "approved"
	StatusInProgress      ContractStatus = "in_progress"
	StatusCompleted       ContractStatus = "completed" // terminal
	StatusDenied          ContractStatus = "denied"    // terminal
	StatusCancelled       ContractStatus = "cancelled" // terminal
)

// AllStatuses en orden del ciclo de vida.
var AllStatuses = []ContractStatus{
	StatusPendingApproval,
	StatusApproved,
	StatusInProgress,
	StatusCompleted,
	StatusDenied,
	StatusCancelled,
}

// Contract acuerdo entre un tutor (owner) y una hospedagem para hospedar uno o más pets.
// StartDate y EndDate son fechas civiles (medianoche UTC); EndDate nil = sin fecha de salida.
type Contract struct {
	ID           string
	FacilityID   string
	OwnerID      string
	Status       ContractStatus
	StartDate    time.Time
	EndDate      *time.Time
	StatusReason *string // motivo de negación/cancelación
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ContractPatch campos editables de un contrato. Solo los campos presentes se aplican.
// ClearEndDate elimina la fecha de salida (EndDate debe ser nil en ese caso).
type ContractPatch struct {
	StartDate    *time.Time
	EndDate      *time.Time
	ClearEndDate bool
}

// IsEmpty indica si el patch no trae cambios.
func (p ContractPatch) IsEmpty() bool {
	return p.StartDate == nil && p.EndDate == nil && !p.ClearEndDate
}

// Apply devuelve una copia del contrato con el patch aplicado.
func (p ContractPatch) Apply(c Contract) Contract {
	if p.StartDate != nil {
		c.StartDate = DateOf(*p.StartDate)
	}
	if p.ClearEndDate {
		c.EndDate = nil
	} else if p.EndDate != nil {
		end := DateOf(*p.EndDate)
		c.EndDate = &end
	}
	return c
}
