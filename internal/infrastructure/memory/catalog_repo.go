package memory

import (
	"context"

	"github.com/jhoicas/hospedagem-api/internal/domain/entity"
	"github.com/jhoicas/hospedagem-api/internal/domain/repository"
)

var (
	_ repository.FacilityRepository = (*facilityRepo)(nil)
	_ repository.OwnerRepository    = (*ownerRepo)(nil)
	_ repository.PetRepository      = (*petRepo)(nil)
	_ repository.ServiceRepository  = (*serviceRepo)(nil)
)

type facilityRepo struct{ d *data }

func (r *facilityRepo) GetByID(_ context.Context, id string) (*entity.Facility, error) {
	f, ok := r.d.facilities[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

type ownerRepo struct{ d *data }

func (r *ownerRepo) GetByID(_ context.Context, id string) (*entity.Owner, error) {
	o, ok := r.d.owners[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

type petRepo struct{ d *data }

func (r *petRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Pet, error) {
	out := make(map[string]*entity.Pet, len(ids))
	for _, id := range ids {
		if p, ok := r.d.pets[id]; ok {
			p := p
			out[id] = &p
		}
	}
	return out, nil
}

type serviceRepo struct{ d *data }

func (r *serviceRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Service, error) {
	out := make(map[string]*entity.Service, len(ids))
	for _, id := range ids {
		if s, ok := r.d.services[id]; ok {
			s := s
			out[id] = &s
		}
	}
	return out, nil
}
