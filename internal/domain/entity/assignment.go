package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PetAssignment vincula un pet a un contrato (tabla contract_pet).
type PetAssignment struct {
	ContractID string
	PetID      string
	CreatedAt  time.Time
}

// ServiceAssignment línea de servicio (contrato, pet, servicio) con cantidad y precio congelado.
// UnitPrice se toma del catálogo al momento de adjuntar y no se vuelve a leer.
type ServiceAssignment struct {
	ContractID string
	PetID      string
	ServiceID  string
	Quantity   int
	UnitPrice  decimal.Decimal
	CreatedAt  time.Time
}

// Value cantidad × precio unitario, sin redondeo.
func (s ServiceAssignment) Value() decimal.Decimal {
	return decimal.NewFromInt(int64(s.Quantity)).Mul(s.UnitPrice)
}

// ServiceKey identifica una línea de servicio dentro de un contrato.
type ServiceKey struct {
	PetID     string
	ServiceID string
}

// Key devuelve la clave (pet, servicio) de la línea.
func (s ServiceAssignment) Key() ServiceKey {
	return ServiceKey{PetID: s.PetID, ServiceID: s.ServiceID}
}
