package contract

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/hospedagem-api/internal/application/dto"
	"github.com/jhoicas/hospedagem-api/internal/domain"
	rules "github.com/jhoicas/hospedagem-api/internal/domain/contract"
	"github.com/jhoicas/hospedagem-api/internal/domain/entity"
	"github.com/jhoicas/hospedagem-api/internal/domain/repository"
)

// ContractUseCase creación, lectura, edición de campos, eliminación y precio de contratos.
type ContractUseCase struct {
	engine
	renderer StatementRenderer
}

// NewContractUseCase construye el caso de uso. renderer puede ser nil si no se exponen extractos.
func NewContractUseCase(tx TxRunner, renderer StatementRenderer, opts Options) *ContractUseCase {
	return &ContractUseCase{engine: newEngine(tx, opts), renderer: renderer}
}

// Create crea el contrato en pending_approval con sus pets y servicios iniciales, todo o nada.
func (uc *ContractUseCase) Create(ctx context.Context, in dto.CreateContractRequest) (*dto.CreateContractResponse, error) {
	if in.FacilityID == "" || in.OwnerID == "" {
		return nil, domain.Validation(domain.CodeValidation, "facility_id y owner_id son requeridos")
	}
	in.FacilityID, in.OwnerID = entity.CanonicalID(in.FacilityID), entity.CanonicalID(in.OwnerID)
	in.PetIDs = entity.CanonicalIDs(in.PetIDs)
	start, err := parseDate("start_date", in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate("end_date", in.EndDate)
	if err != nil {
		return nil, err
	}
	if err := rules.ValidateDateRange(start, end, uc.today()); err != nil {
		return nil, err
	}
	selections := toSelections(in.Services)

	var out *dto.CreateContractResponse
	err = uc.write(ctx, "create", func(s repository.Stores) error {
		facility, err := s.Facilities.GetByID(ctx, in.FacilityID)
		if err != nil {
			return err
		}
		if facility == nil {
			return domain.NotFound("hospedagem", in.FacilityID)
		}
		owner, err := s.Owners.GetByID(ctx, in.OwnerID)
		if err != nil {
			return err
		}
		if owner == nil {
			return domain.NotFound("tutor", in.OwnerID)
		}

		pets, err := s.Pets.GetByIDs(ctx, in.PetIDs)
		if err != nil {
			return err
		}
		if err := rules.CheckPetsToAttach(in.PetIDs, nil, pets, owner.ID); err != nil {
			return err
		}

		dup, err := s.Contracts.FindActiveDuplicate(ctx, facility.ID, owner.ID, start, end, "")
		if err != nil {
			return err
		}
		if dup != nil {
			return rules.DuplicateActiveError(dup)
		}

		var catalog map[string]*entity.Service
		if len(selections) > 0 {
			catalog, err = s.Services.GetByIDs(ctx, rules.SelectionServiceIDs(selections))
			if err != nil {
				return err
			}
			if err := rules.CheckServiceSelections(selections, in.PetIDs, nil, catalog, facility.ID); err != nil {
				return err
			}
		}

		now := uc.now()
		c := &entity.Contract{
			ID:         uuid.New().String(),
			FacilityID: facility.ID,
			OwnerID:    owner.ID,
			Status:     entity.StatusPendingApproval,
			StartDate:  start,
			EndDate:    end,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.Contracts.Create(ctx, c); err != nil {
			return err
		}
		if err := s.ContractPets.Add(ctx, c.ID, in.PetIDs, now); err != nil {
			return err
		}
		lines := rules.BuildServiceLines(c.ID, selections, catalog, now)
		if len(lines) > 0 {
			if err := s.ContractServices.Add(ctx, lines); err != nil {
				return err
			}
		}

		agg, err := uc.loader.Load(ctx, s, c.ID, false)
		if err != nil {
			return err
		}
		out = &dto.CreateContractResponse{Contract: agg, PetCount: len(in.PetIDs), ServiceLineCount: len(lines)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get devuelve el agregado del contrato.
func (uc *ContractUseCase) Get(ctx context.Context, id string) (*dto.ContractAggregate, error) {
	var agg *dto.ContractAggregate
	err := uc.read(ctx, "get", func(s repository.Stores) error {
		var err error
		agg, err = uc.loader.Load(ctx, s, id, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return agg, nil
}

// ListByOwner contratos del tutor, opcionalmente filtrados por estado.
func (uc *ContractUseCase) ListByOwner(ctx context.Context, ownerID, status string) (*dto.ContractListResponse, error) {
	ownerID = entity.CanonicalID(ownerID)
	var filter *entity.ContractStatus
	if status != "" {
		if !rules.IsValidStatus(status) {
			return nil, domain.Validation(domain.CodeInvalidStatus, "estado desconocido: %q", status).
				With("status", status)
		}
		st := entity.ContractStatus(status)
		filter = &st
	}

	out := &dto.ContractListResponse{Contracts: []*dto.ContractAggregate{}}
	err := uc.read(ctx, "list_by_owner", func(s repository.Stores) error {
		owner, err := s.Owners.GetByID(ctx, ownerID)
		if err != nil {
			return err
		}
		if owner == nil {
			return domain.NotFound("tutor", ownerID)
		}
		list, err := s.Contracts.ListByOwner(ctx, ownerID, filter)
		if err != nil {
			return err
		}
		for _, c := range list {
			agg, err := uc.loader.assemble(ctx, s, c, false)
			if err != nil {
				return err
			}
			out.Contracts = append(out.Contracts, agg)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Total = len(out.Contracts)
	return out, nil
}

// Update aplica un patch de fechas. Rechaza contratos no editables y respeta las reglas
// de rango y de contrato activo duplicado.
func (uc *ContractUseCase) Update(ctx context.Context, id string, in dto.UpdateContractRequest) (*dto.ContractAggregate, error) {
	patch, err := toPatch(in)
	if err != nil {
		return nil, err
	}

	var agg *dto.ContractAggregate
	err = uc.write(ctx, "update", func(s repository.Stores) error {
		c, err := lockEditable(ctx, s, id)
		if err != nil {
			return err
		}
		next := patch.Apply(*c)
		if patch.StartDate != nil {
			err = rules.ValidateDateRange(next.StartDate, next.EndDate, uc.today())
		} else {
			err = rules.ValidateEndAfterStart(next.StartDate, next.EndDate)
		}
		if err != nil {
			return err
		}

		dup, err := s.Contracts.FindActiveDuplicate(ctx, c.FacilityID, c.OwnerID, next.StartDate, next.EndDate, c.ID)
		if err != nil {
			return err
		}
		if dup != nil {
			return rules.DuplicateActiveError(dup)
		}
		if err := s.Contracts.UpdateFields(ctx, c.ID, patch, uc.now()); err != nil {
			return err
		}
		agg, err = uc.loader.Load(ctx, s, c.ID, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return agg, nil
}

// Delete elimina el contrato y, en la misma transacción, sus pets y líneas de servicio.
func (uc *ContractUseCase) Delete(ctx context.Context, id string) (*dto.DeleteContractResponse, error) {
	var out *dto.DeleteContractResponse
	err := uc.write(ctx, "delete", func(s repository.Stores) error {
		c, err := lock(ctx, s, id)
		if err != nil {
			return err
		}
		if err := rules.EnsureDeletable(c); err != nil {
			return err
		}
		snapshot, err := uc.loader.assemble(ctx, s, c, false)
		if err != nil {
			return err
		}
		lines, err := s.ContractServices.DeleteByContract(ctx, c.ID)
		if err != nil {
			return err
		}
		pets, err := s.ContractPets.DeleteByContract(ctx, c.ID)
		if err != nil {
			return err
		}
		if err := s.Contracts.Delete(ctx, c.ID); err != nil {
			return err
		}
		out = &dto.DeleteContractResponse{Deleted: snapshot, RemovedPets: pets, RemovedServiceLines: lines}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ComputePrice desglose de precio; exige diaria configurada.
func (uc *ContractUseCase) ComputePrice(ctx context.Context, id string) (*dto.PricingBreakdown, error) {
	var pricing *dto.PricingBreakdown
	err := uc.read(ctx, "compute_price", func(s repository.Stores) error {
		agg, err := uc.loader.Load(ctx, s, id, true)
		if err != nil {
			return err
		}
		pricing = agg.Pricing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pricing, nil
}

// Statement extracto del contrato en PDF (agregado con precio).
func (uc *ContractUseCase) Statement(ctx context.Context, id string) ([]byte, error) {
	if uc.renderer == nil {
		return nil, domain.NewError(domain.ErrUnavailable, domain.CodeStatementDisabled, "generador de extractos no configurado")
	}
	var agg *dto.ContractAggregate
	err := uc.read(ctx, "statement", func(s repository.Stores) error {
		var err error
		agg, err = uc.loader.Load(ctx, s, id, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderStatement(ctx, agg)
}

func toSelections(in []dto.ServiceSelectionRequest) []rules.ServiceSelection {
	out := make([]rules.ServiceSelection, 0, len(in))
	for _, s := range in {
		out = append(out, rules.ServiceSelection{
			PetID:      entity.CanonicalID(s.PetID),
			ServiceIDs: entity.CanonicalIDs(s.ServiceIDs),
		})
	}
	return out
}

func toPatch(in dto.UpdateContractRequest) (entity.ContractPatch, error) {
	var patch entity.ContractPatch
	if in.ClearEndDate && in.EndDate != nil {
		return patch, domain.Validation(domain.CodeValidation, "end_date y clear_end_date son excluyentes")
	}
	start, err := parseOptionalDate("start_date", in.StartDate)
	if err != nil {
		return patch, err
	}
	end, err := parseOptionalDate("end_date", in.EndDate)
	if err != nil {
		return patch, err
	}
	patch = entity.ContractPatch{StartDate: start, EndDate: end, ClearEndDate: in.ClearEndDate}
	if patch.IsEmpty() {
		return patch, domain.Validation(domain.CodeValidation, "no hay campos para actualizar")
	}
	return patch, nil
}

func parseDate(field, s string) (time.Time, error) {
	t, err := entity.ParseDate(s)
	if err != nil {
		return time.Time{}, domain.Validation(domain.CodeValidation, "%s inválido: se espera AAAA-MM-DD", field).
			With("field", field)
	}
	return t, nil
}

func parseOptionalDate(field string, s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := parseDate(field, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
