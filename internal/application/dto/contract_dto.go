package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateContractRequest body para POST /api/contracts.
// Las fechas van como "2006-01-02"; end_date es opcional (estadía abierta).
type CreateContractRequest struct {
	FacilityID string                    `json:"facility_id" validate:"required"`
	OwnerID    string                    `json:"owner_id" validate:"required"`
	StartDate  string                    `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    *string                   `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PetIDs     []string                  `json:"pet_ids" validate:"required,min=1,dive,required"`
	Services   []ServiceSelectionRequest `json:"services,omitempty" validate:"omitempty,dive"`
}

// ServiceSelectionRequest servicios pedidos para un pet.
type ServiceSelectionRequest struct {
	PetID      string   `json:"pet_id" validate:"required"`
	ServiceIDs []string `json:"service_ids" validate:"required,min=1,dive,required"`
}

// UpdateContractRequest body para PATCH /api/contracts/:id. Solo se aplican los campos presentes.
type UpdateContractRequest struct {
	StartDate    *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate      *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ClearEndDate bool    `json:"clear_end_date,omitempty"`
}

// AttachPetsRequest body para POST /api/contracts/:id/pets.
type AttachPetsRequest struct {
	PetIDs []string `json:"pet_ids" validate:"required,min=1,dive,required"`
}

// AttachServicesRequest body para POST /api/contracts/:id/services.
type AttachServicesRequest struct {
	Services []ServiceSelectionRequest `json:"services" validate:"required,min=1,dive"`
}

// UpdateServiceQuantityRequest body para PATCH de una línea de servicio.
type UpdateServiceQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// TransitionStatusRequest body para POST /api/contracts/:id/status.
type TransitionStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason,omitempty"`
}

// ContractAggregate vista completa del contrato: cabecera, hospedagem, tutor, pets con sus
// servicios y el desglose de precio (ausente si la hospedagem no tiene diaria).
type ContractAggregate struct {
	ID             string                `json:"id"`
	Status         string                `json:"status"`
	StatusReason   *string               `json:"status_reason,omitempty"`
	StartDate      string                `json:"start_date"`
	EndDate        *string               `json:"end_date"`
	DurationNights int                   `json:"duration_nights"`
	Facility       FacilitySummary       `json:"facility"`
	Owner          OwnerSummary          `json:"owner"`
	Pets           []ContractPetResponse `json:"pets"`
	Pricing        *PricingBreakdown     `json:"pricing,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// FacilitySummary hospedagem del contrato.
type FacilitySummary struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	NightlyRate *decimal.Decimal `json:"nightly_rate"`
	Address     *AddressResponse `json:"address,omitempty"`
}

// AddressResponse dirección de la hospedagem.
type AddressResponse struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	ZipCode      string `json:"zip_code,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// OwnerSummary tutor del contrato.
type OwnerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ContractPetResponse pet vinculado con sus líneas de servicio.
type ContractPetResponse struct {
	ID               string                `json:"id"`
	Name             string                `json:"name"`
	Species          string                `json:"species,omitempty"`
	Breed            string                `json:"breed,omitempty"`
	Services         []ServiceLineResponse `json:"services"`
	ServicesSubtotal decimal.Decimal       `json:"services_subtotal"`
}

// ServiceLineResponse línea de servicio con precio congelado.
type ServiceLineResponse struct {
	PetID     string          `json:"pet_id"`
	ServiceID string          `json:"service_id"`
	Name      string          `json:"name,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// PricingBreakdown desglose de precio (montos a 2 decimales solo en la presentación).
type PricingBreakdown struct {
	NightlyRate     decimal.Decimal                 `json:"nightly_rate"`
	DurationNights  int                             `json:"duration_nights"`
	PetCount        int                             `json:"pet_count"`
	HousingSubtotal decimal.Decimal                 `json:"housing_subtotal"`
	ServiceSubtotal decimal.Decimal                 `json:"service_subtotal"`
	Total           decimal.Decimal                 `json:"total"`
	PerPet          map[string]PetServicesBreakdown `json:"per_pet"`
}

// PetServicesBreakdown servicios de un pet dentro del desglose.
type PetServicesBreakdown struct {
	Lines    []ServiceLineResponse `json:"lines"`
	Subtotal decimal.Decimal       `json:"subtotal"`
}

// CreateContractResponse contrato creado + conteos.
type CreateContractResponse struct {
	Contract         *ContractAggregate `json:"contract"`
	PetCount         int                `json:"pet_count"`
	ServiceLineCount int                `json:"service_line_count"`
}

// DeleteContractResponse snapshot del contrato eliminado + filas removidas en cascada.
type DeleteContractResponse struct {
	Deleted             *ContractAggregate `json:"deleted"`
	RemovedPets         int                `json:"removed_pets"`
	RemovedServiceLines int                `json:"removed_service_lines"`
}

// AttachPetsResponse contrato actualizado + costo incremental de hospedaje
// (nil si la hospedagem no tiene diaria).
type AttachPetsResponse struct {
	Contract        *ContractAggregate `json:"contract"`
	AttachedPetIDs  []string           `json:"attached_pet_ids"`
	IncrementalCost *decimal.Decimal   `json:"incremental_cost"`
}

// DetachPetResponse contrato actualizado + líneas removidas junto con el pet.
type DetachPetResponse struct {
	Contract     *ContractAggregate    `json:"contract"`
	PetID        string                `json:"pet_id"`
	RemovedLines []ServiceLineResponse `json:"removed_lines"`
	RemovedValue decimal.Decimal       `json:"removed_value"`
}

// AttachServicesResponse contrato actualizado + líneas agregadas.
type AttachServicesResponse struct {
	Contract        *ContractAggregate    `json:"contract"`
	AddedLines      []ServiceLineResponse `json:"added_lines"`
	IncrementalCost decimal.Decimal       `json:"incremental_cost"`
}

// DetachServiceResponse contrato actualizado + línea removida.
type DetachServiceResponse struct {
	Contract     *ContractAggregate  `json:"contract"`
	RemovedLine  ServiceLineResponse `json:"removed_line"`
	RemovedValue decimal.Decimal     `json:"removed_value"`
}

// UpdateServiceQuantityResponse contrato actualizado + variación de valor.
type UpdateServiceQuantityResponse struct {
	Contract    *ContractAggregate `json:"contract"`
	PetID       string             `json:"pet_id"`
	ServiceID   string             `json:"service_id"`
	OldQuantity int                `json:"old_quantity"`
	NewQuantity int                `json:"new_quantity"`
	Delta       decimal.Decimal    `json:"delta"`
}

// TransitionResponse contrato actualizado + descripción de la transición.
type TransitionResponse struct {
	Contract   *ContractAggregate    `json:"contract"`
	Transition TransitionDescription `json:"transition"`
}

// TransitionDescription cambio de estado aplicado.
type TransitionDescription struct {
	From   string    `json:"from"`
	To     string    `json:"to"`
	Reason *string   `json:"reason,omitempty"`
	At     time.Time `json:"at"`
}
