package repository

import (
	"context"
	"time"

	"github.com/jhoicas/hospedagem-api/internal/domain/entity"
)

// ContractRepository define el puerto de persistencia para la cabecera del contrato.
// Los métodos Get devuelven (nil, nil) cuando el registro no existe.
type ContractRepository interface {
	Create(ctx context.Context, c *entity.Contract) error
	GetByID(ctx context.Context, id string) (*entity.Contract, error)
	// GetForUpdate bloquea la fila del contrato hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Contract, error)
	ListByOwner(ctx context.Context, ownerID string, status *entity.ContractStatus) ([]*entity.Contract, error)
	// FindActiveDuplicate busca un contrato activo con la misma hospedagem, tutor y fechas
	// (end nil solo coincide con end nil), ignorando excludeID.
	FindActiveDuplicate(ctx context.Context, facilityID, ownerID string, start time.Time, end *time.Time, excludeID string) (*entity.Contract, error)
	UpdateFields(ctx context.Context, id string, patch entity.ContractPatch, updatedAt time.Time) error
	UpdateStatus(ctx context.Context, id string, status entity.ContractStatus, reason *string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// ContractPetRepository puerto de la tabla contract_pet.
type ContractPetRepository interface {
	Add(ctx context.Context, contractID string, petIDs []string, at time.Time) error
	Remove(ctx context.Context, contractID, petID string) error
	ListPetIDs(ctx context.Context, contractID string) ([]string, error)
	DeleteByContract(ctx context.Context, contractID string) (int, error)
}

// ContractServiceRepository puerto de la tabla contract_service (líneas con precio congelado).
type ContractServiceRepository interface {
	Add(ctx context.Context, lines []entity.ServiceAssignment) error
	Get(ctx context.Context, contractID, petID, serviceID string) (*entity.ServiceAssignment, error)
	ListByContract(ctx context.Context, contractID string) ([]entity.ServiceAssignment, error)
	UpdateQuantity(ctx context.Context, contractID, petID, serviceID string, quantity int) error
	Remove(ctx context.Context, contractID, petID, serviceID string) error
	// RemoveByPet elimina y devuelve las líneas del pet.
	RemoveByPet(ctx context.Context, contractID, petID string) ([]entity.ServiceAssignment, error)
	DeleteByContract(ctx context.Context, contractID string) (int, error)
}
