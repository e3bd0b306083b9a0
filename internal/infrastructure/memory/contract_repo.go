package memory

import (
	"context"
	"sort"
	"time"

	appcontract "github.com/jhoicas/hospedagem-api/internal/application/contract"
	"github.com/jhoicas/hospedagem-api/internal/domain"
	rules "github.com/jhoicas/hospedagem-api/internal/domain/contract"
	"github.com/jhoicas/hospedagem-api/internal/domain/entity"
	"github.com/jhoicas/hospedagem-api/internal/domain/repository"
)

var (
	_ appcontract.TxRunner                 = (*Store)(nil)
	_ repository.ContractRepository        = (*contractRepo)(nil)
	_ repository.ContractPetRepository     = (*contractPetRepo)(nil)
	_ repository.ContractServiceRepository = (*contractServiceRepo)(nil)
)

type contractRepo struct{ d *data }

func (r *contractRepo) Create(_ context.Context, c *entity.Contract) error {
	if _, exists := r.d.contracts[c.ID]; exists {
		return domain.NewError(domain.ErrConflict, domain.CodeConflict, "contrato %s ya existe", c.ID)
	}
	r.d.contracts[c.ID] = *c
	return nil
}

func (r *contractRepo) GetByID(_ context.Context, id string) (*entity.Contract, error) {
	c, ok := r.d.contracts[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// GetForUpdate en memoria la transacción ya es exclusiva.
func (r *contractRepo) GetForUpdate(ctx context.Context, id string) (*entity.Contract, error) {
	return r.GetByID(ctx, id)
}

func (r *contractRepo) ListByOwner(_ context.Context, ownerID string, status *entity.ContractStatus) ([]*entity.Contract, error) {
	out := make([]*entity.Contract, 0)
	for _, c := range r.d.contracts {
		if c.OwnerID != ownerID {
			continue
		}
		if status != nil && c.Status != *status {
			continue
		}
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *contractRepo) FindActiveDuplicate(_ context.Context, facilityID, ownerID string, start time.Time, end *time.Time, excludeID string) (*entity.Contract, error) {
	ids := make([]string, 0, len(r.d.contracts))
	for id := range r.d.contracts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if id == excludeID {
			continue
		}
		c := r.d.contracts[id]
		if rules.IsDuplicateOf(&c, facilityID, ownerID, start, end) {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *contractRepo) UpdateFields(_ context.Context, id string, patch entity.ContractPatch, updatedAt time.Time) error {
	c, ok := r.d.contracts[id]
	if !ok {
		return domain.NotFound("contrato", id)
	}
	c = patch.Apply(c)
	c.UpdatedAt = updatedAt
	r.d.contracts[id] = c
	return nil
}

func (r *contractRepo) UpdateStatus(_ context.Context, id string, status entity.ContractStatus, reason *string, updatedAt time.Time) error {
	c, ok := r.d.contracts[id]
	if !ok {
		return domain.NotFound("contrato", id)
	}
	c.Status = status
	c.StatusReason = reason
	c.UpdatedAt = updatedAt
	r.d.contracts[id] = c
	return nil
}

func (r *contractRepo) Delete(_ context.Context, id string) error {
	if len(r.d.contractPets[id]) > 0 || len(r.d.contractServices[id]) > 0 {
		return domain.NewError(domain.ErrStore, domain.CodeStoreFailure, "el contrato %s aún tiene filas dependientes", id)
	}
	delete(r.d.contracts, id)
	return nil
}

type contractPetRepo struct{ d *data }

func (r *contractPetRepo) Add(_ context.Context, contractID string, petIDs []string, at time.Time) error {
	if _, ok := r.d.contracts[contractID]; !ok {
		return domain.NotFound("contrato", contractID)
	}
	current := r.d.contractPets[contractID]
	for _, pid := range petIDs {
		if _, ok := r.d.pets[pid]; !ok {
			return domain.NotFound("pet", pid)
		}
		for _, a := range current {
			if a.PetID == pid {
				return domain.Invariant(domain.CodePetAlreadyAttached, "pet %s ya vinculado al contrato", pid).
					With("pet_ids", []string{pid})
			}
		}
		current = append(current, entity.PetAssignment{ContractID: contractID, PetID: pid, CreatedAt: at})
	}
	r.d.contractPets[contractID] = current
	return nil
}

func (r *contractPetRepo) Remove(_ context.Context, contractID, petID string) error {
	current := r.d.contractPets[contractID]
	for i, a := range current {
		if a.PetID == petID {
			r.d.contractPets[contractID] = append(current[:i:i], current[i+1:]...)
			return nil
		}
	}
	return domain.NewError(domain.ErrNotFound, domain.CodePetNotAttached, "el pet %s no está vinculado al contrato", petID)
}

func (r *contractPetRepo) ListPetIDs(_ context.Context, contractID string) ([]string, error) {
	list := append([]entity.PetAssignment(nil), r.d.contractPets[contractID]...)
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].PetID < list[j].PetID
	})
	ids := make([]string, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.PetID)
	}
	return ids, nil
}

func (r *contractPetRepo) DeleteByContract(_ context.Context, contractID string) (int, error) {
	n := len(r.d.contractPets[contractID])
	delete(r.d.contractPets, contractID)
	return n, nil
}

type contractServiceRepo struct{ d *data }

func (r *contractServiceRepo) Add(_ context.Context, lines []entity.ServiceAssignment) error {
	for _, l := range lines {
		if _, ok := r.d.contracts[l.ContractID]; !ok {
			return domain.NotFound("contrato", l.ContractID)
		}
		if _, ok := r.d.services[l.ServiceID]; !ok {
			return domain.NotFound("servicio", l.ServiceID)
		}
		if err := rules.ValidateQuantity(l.Quantity); err != nil {
			return err
		}
		current := r.d.contractServices[l.ContractID]
		for _, e := range current {
			if e.Key() == l.Key() {
				return domain.Invariant(domain.CodeDuplicateServiceLine,
					"servicio %s ya contratado para el pet %s", l.ServiceID, l.PetID).
					With("pet_id", l.PetID).
					With("service_ids", []string{l.ServiceID})
			}
		}
		r.d.contractServices[l.ContractID] = append(current, l)
	}
	return nil
}

func (r *contractServiceRepo) Get(_ context.Context, contractID, petID, serviceID string) (*entity.ServiceAssignment, error) {
	for _, l := range r.d.contractServices[contractID] {
		if l.PetID == petID && l.ServiceID == serviceID {
			l := l
			return &l, nil
		}
	}
	return nil, nil
}

func (r *contractServiceRepo) ListByContract(_ context.Context, contractID string) ([]entity.ServiceAssignment, error) {
	out := append([]entity.ServiceAssignment{}, r.d.contractServices[contractID]...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].PetID != out[j].PetID {
			return out[i].PetID < out[j].PetID
		}
		return out[i].ServiceID < out[j].ServiceID
	})
	return out, nil
}

func (r *contractServiceRepo) UpdateQuantity(_ context.Context, contractID, petID, serviceID string, quantity int) error {
	if err := rules.ValidateQuantity(quantity); err != nil {
		return err
	}
	lines := r.d.contractServices[contractID]
	for i := range lines {
		if lines[i].PetID == petID && lines[i].ServiceID == serviceID {
			lines[i].Quantity = quantity
			return nil
		}
	}
	return domain.NewError(domain.ErrNotFound, domain.CodeNotFound, "línea de servicio no encontrada")
}

func (r *contractServiceRepo) Remove(_ context.Context, contractID, petID, serviceID string) error {
	lines := r.d.contractServices[contractID]
	for i, l := range lines {
		if l.PetID == petID && l.ServiceID == serviceID {
			r.d.contractServices[contractID] = append(lines[:i:i], lines[i+1:]...)
			return nil
		}
	}
	return domain.NewError(domain.ErrNotFound, domain.CodeNotFound, "línea de servicio no encontrada")
}

func (r *contractServiceRepo) RemoveByPet(_ context.Context, contractID, petID string) ([]entity.ServiceAssignment, error) {
	var kept, removed []entity.ServiceAssignment
	for _, l := range r.d.contractServices[contractID] {
		if l.PetID == petID {
			removed = append(removed, l)
			continue
		}
		kept = append(kept, l)
	}
	r.d.contractServices[contractID] = kept
	sort.Slice(removed, func(i, j int) bool { return removed[i].ServiceID < removed[j].ServiceID })
	return removed, nil
}

func (r *contractServiceRepo) DeleteByContract(_ context.Context, contractID string) (int, error) {
	n := len(r.d.contractServices[contractID])
	delete(r.d.contractServices, contractID)
	return n, nil
}
