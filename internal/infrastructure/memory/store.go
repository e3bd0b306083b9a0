// Package memory implementa los puertos de persistencia en memoria, con transacciones
// serializadas sobre una copia del estado: el trabajo de fn solo se publica si no falla.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/hospedagem-api/internal/domain/entity"
	"github.com/jhoicas/hospedagem-api/internal/domain/repository"
)

type data struct {
	contracts        map[string]entity.Contract
	contractPets     map[string][]entity.PetAssignment
	contractServices map[string][]entity.ServiceAssignment
	facilities       map[string]entity.Facility
	owners           map[string]entity.Owner
	pets             map[string]entity.Pet
	services         map[string]entity.Service
}

func newData() *data {
	return &data{
		contracts:        make(map[string]entity.Contract),
		contractPets:     make(map[string][]entity.PetAssignment),
		contractServices: make(map[string][]entity.ServiceAssignment),
		facilities:       make(map[string]entity.Facility),
		owners:           make(map[string]entity.Owner),
		pets:             make(map[string]entity.Pet),
		services:         make(map[string]entity.Service),
	}
}

func (d *data) clone() *data {
	out := newData()
	for k, v := range d.contracts {
		out.contracts[k] = v
	}
	for k, v := range d.contractPets {
		out.contractPets[k] = append([]entity.PetAssignment(nil), v...)
	}
	for k, v := range d.contractServices {
		out.contractServices[k] = append([]entity.ServiceAssignment(nil), v...)
	}
	for k, v := range d.facilities {
		out.facilities[k] = v
	}
	for k, v := range d.owners {
		out.owners[k] = v
	}
	for k, v := range d.pets {
		out.pets[k] = v
	}
	for k, v := range d.services {
		out.services[k] = v
	}
	return out
}

func (d *data) stores() repository.Stores {
	return repository.Stores{
		Contracts:        &contractRepo{d: d},
		ContractPets:     &contractPetRepo{d: d},
		ContractServices: &contractServiceRepo{d: d},
		Facilities:       &facilityRepo{d: d},
		Owners:           &ownerRepo{d: d},
		Pets:             &petRepo{d: d},
		Services:         &serviceRepo{d: d},
	}
}

// Store base en memoria. Implementa el TxRunner de los casos de uso.
type Store struct {
	mu sync.RWMutex
	d  *data
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{d: newData()}
}

// Run ejecuta fn sobre una copia; si fn termina sin error (y el contexto sigue vigente)
// la copia reemplaza al estado publicado.
func (s *Store) Run(ctx context.Context, fn func(repository.Stores) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.d.clone()
	if err := fn(work.stores()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.d = work
	return nil
}

// View ejecuta fn sobre una copia descartable del estado publicado.
func (s *Store) View(ctx context.Context, fn func(repository.Stores) error) error {
	s.mu.RLock()
	snapshot := s.d.clone()
	s.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(snapshot.stores())
}

// Datos de referencia (catálogo administrado fuera del motor).

func (s *Store) PutFacility(f entity.Facility) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.facilities[f.ID] = f
}

func (s *Store) PutOwner(o entity.Owner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.owners[o.ID] = o
}

func (s *Store) PutPet(p entity.Pet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.pets[p.ID] = p
}

func (s *Store) PutService(svc entity.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.services[svc.ID] = svc
}

// Counts filas de contract_pet y contract_service publicadas para un contrato.
func (s *Store) Counts(contractID string) (pets, lines int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.d.contractPets[contractID]), len(s.d.contractServices[contractID])
}
