package repository

import (
	"context"

	"github.com/jhoicas/hospedagem-api/internal/domain/entity"
)

// Referencias de solo lectura administradas fuera de este servicio.

// FacilityRepository hospedagens con su diaria y cadena de dirección.
type FacilityRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Facility, error)
}

// OwnerRepository usuarios tutores.
type OwnerRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Owner, error)
}

// PetRepository pets registrados. GetByIDs omite los ids inexistentes.
type PetRepository interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Pet, error)
}

// ServiceRepository catálogo de servicios. GetByIDs omite los ids inexistentes.
type ServiceRepository interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Service, error)
}
