package contract

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/hospedagem-api/internal/application/dto"
	"github.com/jhoicas/hospedagem-api/internal/domain"
	rules "github.com/jhoicas/hospedagem-api/internal/domain/contract"
	"github.com/jhoicas/hospedagem-api/internal/domain/entity"
	"github.com/jhoicas/hospedagem-api/internal/domain/repository"
)

// CompositionUseCase altas y bajas de pets y líneas de servicio de un contrato.
// Cada operación bloquea el contrato, verifica que sea editable, valida todo antes de
// escribir y responde con el agregado recargado dentro de la misma transacción.
type CompositionUseCase struct {
	engine
}

// NewCompositionUseCase construye el caso de uso.
func NewCompositionUseCase(tx TxRunner, opts Options) *CompositionUseCase {
	return &CompositionUseCase{engine: newEngine(tx, opts)}
}

// AttachPets vincula pets al contrato (todo o nada) e informa el costo incremental de hospedaje.
func (uc *CompositionUseCase) AttachPets(ctx context.Context, contractID string, petIDs []string) (*dto.AttachPetsResponse, error) {
	petIDs = entity.CanonicalIDs(petIDs)
	var out *dto.AttachPetsResponse
	err := uc.write(ctx, "attach_pets", func(s repository.Stores) error {
		c, err := lockEditable(ctx, s, contractID)
		if err != nil {
			return err
		}
		attached, err := s.ContractPets.ListPetIDs(ctx, c.ID)
		if err != nil {
			return err
		}
		pets, err := s.Pets.GetByIDs(ctx, petIDs)
		if err != nil {
			return err
		}
		if err := rules.CheckPetsToAttach(petIDs, attached, pets, c.OwnerID); err != nil {
			return err
		}

		now := uc.now()
		if err := s.ContractPets.Add(ctx, c.ID, petIDs, now); err != nil {
			return err
		}
		if err := touch(ctx, s, c.ID, now); err != nil {
			return err
		}

		facility, err := s.Facilities.GetByID(ctx, c.FacilityID)
		if err != nil {
			return err
		}
		var incremental *decimal.Decimal
		if facility != nil {
			if rate, err := rules.RequireNightlyRate(facility.NightlyRate); err == nil {
				cost := money(rules.HousingCost(rate, rules.DurationNights(c.StartDate, c.EndDate), len(petIDs)))
				incremental = &cost
			}
		}

		agg, err := uc.loader.Load(ctx, s, c.ID, false)
		if err != nil {
			return err
		}
		out = &dto.AttachPetsResponse{Contract: agg, AttachedPetIDs: petIDs, IncrementalCost: incremental}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DetachPet desvincula un pet (nunca el último) y elimina en cascada sus líneas de servicio.
func (uc *CompositionUseCase) DetachPet(ctx context.Context, contractID, petID string) (*dto.DetachPetResponse, error) {
	petID = entity.CanonicalID(petID)
	var out *dto.DetachPetResponse
	err := uc.write(ctx, "detach_pet", func(s repository.Stores) error {
		c, err := lockEditable(ctx, s, contractID)
		if err != nil {
			return err
		}
		attached, err := s.ContractPets.ListPetIDs(ctx, c.ID)
		if err != nil {
			return err
		}
		if err := rules.CheckPetDetach(attached, petID); err != nil {
			return err
		}

		removed, err := s.ContractServices.RemoveByPet(ctx, c.ID, petID)
		if err != nil {
			return err
		}
		if err := s.ContractPets.Remove(ctx, c.ID, petID); err != nil {
			return err
		}
		if err := touch(ctx, s, c.ID, uc.now()); err != nil {
			return err
		}

		names, err := serviceNames(ctx, s, removed)
		if err != nil {
			return err
		}
		agg, err := uc.loader.Load(ctx, s, c.ID, false)
		if err != nil {
			return err
		}
		out = &dto.DetachPetResponse{
			Contract:     agg,
			PetID:        petID,
			RemovedLines: toLineResponses(removed, names),
			RemovedValue: money(rules.SumLines(removed)),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AttachServices agrega líneas de servicio agrupadas por pet. El precio se congela al insertar;
// cualquier validación fallida aborta el lote entero.
func (uc *CompositionUseCase) AttachServices(ctx context.Context, contractID string, in []dto.ServiceSelectionRequest) (*dto.AttachServicesResponse, error) {
	selections := toSelections(in)

	var out *dto.AttachServicesResponse
	err := uc.write(ctx, "attach_services", func(s repository.Stores) error {
		c, err := lockEditable(ctx, s, contractID)
		if err != nil {
			return err
		}
		attached, err := s.ContractPets.ListPetIDs(ctx, c.ID)
		if err != nil {
			return err
		}
		existing, err := s.ContractServices.ListByContract(ctx, c.ID)
		if err != nil {
			return err
		}
		catalog, err := s.Services.GetByIDs(ctx, rules.SelectionServiceIDs(selections))
		if err != nil {
			return err
		}
		if err := rules.CheckServiceSelections(selections, attached, existing, catalog, c.FacilityID); err != nil {
			return err
		}

		now := uc.now()
		lines := rules.BuildServiceLines(c.ID, selections, catalog, now)
		if err := s.ContractServices.Add(ctx, lines); err != nil {
			return err
		}
		if err := touch(ctx, s, c.ID, now); err != nil {
			return err
		}

		names := make(map[string]string, len(catalog))
		for id, svc := range catalog {
			names[id] = svc.Name
		}
		agg, err := uc.loader.Load(ctx, s, c.ID, false)
		if err != nil {
			return err
		}
		out = &dto.AttachServicesResponse{
			Contract:        agg,
			AddedLines:      toLineResponses(lines, names),
			IncrementalCost: money(rules.SumLines(lines)),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DetachService elimina una línea (contrato, pet, servicio).
func (uc *CompositionUseCase) DetachService(ctx context.Context, contractID, petID, serviceID string) (*dto.DetachServiceResponse, error) {
	petID, serviceID = entity.CanonicalID(petID), entity.CanonicalID(serviceID)
	var out *dto.DetachServiceResponse
	err := uc.write(ctx, "detach_service", func(s repository.Stores) error {
		c, err := lockEditable(ctx, s, contractID)
		if err != nil {
			return err
		}
		line, err := findLine(ctx, s, c.ID, petID, serviceID)
		if err != nil {
			return err
		}
		if err := s.ContractServices.Remove(ctx, c.ID, petID, serviceID); err != nil {
			return err
		}
		if err := touch(ctx, s, c.ID, uc.now()); err != nil {
			return err
		}

		names, err := serviceNames(ctx, s, []entity.ServiceAssignment{*line})
		if err != nil {
			return err
		}
		agg, err := uc.loader.Load(ctx, s, c.ID, false)
		if err != nil {
			return err
		}
		out = &dto.DetachServiceResponse{
			Contract:     agg,
			RemovedLine:  toLineResponse(*line, names),
			RemovedValue: money(line.Value()),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateServiceQuantity cambia la cantidad de una línea e informa la variación
// (nueva - anterior) × precio congelado.
func (uc *CompositionUseCase) UpdateServiceQuantity(ctx context.Context, contractID, petID, serviceID string, quantity int) (*dto.UpdateServiceQuantityResponse, error) {
	petID, serviceID = entity.CanonicalID(petID), entity.CanonicalID(serviceID)
	if err := rules.ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	var out *dto.UpdateServiceQuantityResponse
	err := uc.write(ctx, "update_service_quantity", func(s repository.Stores) error {
		c, err := lockEditable(ctx, s, contractID)
		if err != nil {
			return err
		}
		line, err := findLine(ctx, s, c.ID, petID, serviceID)
		if err != nil {
			return err
		}
		if err := s.ContractServices.UpdateQuantity(ctx, c.ID, petID, serviceID, quantity); err != nil {
			return err
		}
		if err := touch(ctx, s, c.ID, uc.now()); err != nil {
			return err
		}

		delta := decimal.NewFromInt(int64(quantity - line.Quantity)).Mul(line.UnitPrice)
		agg, err := uc.loader.Load(ctx, s, c.ID, false)
		if err != nil {
			return err
		}
		out = &dto.UpdateServiceQuantityResponse{
			Contract:    agg,
			PetID:       petID,
			ServiceID:   serviceID,
			OldQuantity: line.Quantity,
			NewQuantity: quantity,
			Delta:       money(delta),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func findLine(ctx context.Context, s repository.Stores, contractID, petID, serviceID string) (*entity.ServiceAssignment, error) {
	line, err := s.ContractServices.Get(ctx, contractID, petID, serviceID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.NewError(domain.ErrNotFound, domain.CodeNotFound,
			"el servicio %s no está contratado para el pet %s", serviceID, petID).
			With("entity", "service_line").
			With("pet_id", petID).
			With("service_id", serviceID)
	}
	return line, nil
}

// touch actualiza updated_at del contrato tras cambiar su composición.
func touch(ctx context.Context, s repository.Stores, contractID string, now time.Time) error {
	return s.Contracts.UpdateFields(ctx, contractID, entity.ContractPatch{}, now)
}
