package contract

import (
	"context"
	"sort"

	"github.com/jhoicas/hospedagem-api/internal/application/dto"
	"github.com/jhoicas/hospedagem-api/internal/domain"
	rules "github.com/jhoicas/hospedagem-api/internal/domain/contract"
	"github.com/jhoicas/hospedagem-api/internal/domain/entity"
	"github.com/jhoicas/hospedagem-api/internal/domain/repository"
)

// Loader arma la vista completa del contrato a partir de las relaciones persistidas.
// Solo lee; usa los repositorios que recibe, de modo que dentro de una transacción
// de escritura observa el estado aún no confirmado de esa misma transacción.
type Loader struct{}

// NewLoader construye el loader.
func NewLoader() *Loader { return &Loader{} }

// Load devuelve el agregado del contrato id. Con requirePricing=true falla con
// MissingNightlyRate si la hospedagem no tiene diaria; si no, omite el desglose.
func (l *Loader) Load(ctx context.Context, s repository.Stores, id string, requirePricing bool) (*dto.ContractAggregate, error) {
	c, err := s.Contracts.GetByID(ctx, entity.CanonicalID(id))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("contrato", id)
	}
	return l.assemble(ctx, s, c, requirePricing)
}

func (l *Loader) assemble(ctx context.Context, s repository.Stores, c *entity.Contract, requirePricing bool) (*dto.ContractAggregate, error) {
	facility, err := s.Facilities.GetByID(ctx, c.FacilityID)
	if err != nil {
		return nil, err
	}
	if facility == nil {
		return nil, domain.NotFound("hospedagem", c.FacilityID)
	}
	owner, err := s.Owners.GetByID(ctx, c.OwnerID)
	if err != nil {
		return nil, err
	}

	petIDs, err := s.ContractPets.ListPetIDs(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	pets, err := s.Pets.GetByIDs(ctx, petIDs)
	if err != nil {
		return nil, err
	}
	lines, err := s.ContractServices.ListByContract(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	names, err := serviceNames(ctx, s, lines)
	if err != nil {
		return nil, err
	}

	breakdown, err := rules.Calculate(rules.PricingInput{
		NightlyRate: facility.NightlyRate,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		PetIDs:      petIDs,
		Lines:       lines,
	})
	if err != nil && requirePricing {
		return nil, err
	}

	agg := &dto.ContractAggregate{
		ID:             c.ID,
		Status:         string(c.Status),
		StatusReason:   c.StatusReason,
		StartDate:      c.StartDate.Format(entity.DateLayout),
		EndDate:        formatDate(c.EndDate),
		DurationNights: rules.DurationNights(c.StartDate, c.EndDate),
		Facility:       toFacilitySummary(facility),
		Owner:          toOwnerSummary(c.OwnerID, owner),
		Pets:           make([]dto.ContractPetResponse, 0, len(petIDs)),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}

	byPet := make(map[string][]entity.ServiceAssignment, len(petIDs))
	for _, line := range lines {
		byPet[line.PetID] = append(byPet[line.PetID], line)
	}
	for _, pid := range petIDs {
		pr := dto.ContractPetResponse{ID: pid, Services: toLineResponses(byPet[pid], names)}
		if p := pets[pid]; p != nil {
			pr.Name, pr.Species, pr.Breed = p.Name, p.Species, p.Breed
		}
		pr.ServicesSubtotal = money(rules.SumLines(byPet[pid]))
		agg.Pets = append(agg.Pets, pr)
	}
	if breakdown != nil {
		agg.Pricing = toPricing(breakdown, names)
	}
	return agg, nil
}

// serviceNames nombres del catálogo para las líneas (incluye servicios ya inactivos).
func serviceNames(ctx context.Context, s repository.Stores, lines []entity.ServiceAssignment) (map[string]string, error) {
	if len(lines) == 0 {
		return map[string]string{}, nil
	}
	set := make(map[string]bool, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if !set[l.ServiceID] {
			set[l.ServiceID] = true
			ids = append(ids, l.ServiceID)
		}
	}
	sort.Strings(ids)
	catalog, err := s.Services.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(catalog))
	for id, svc := range catalog {
		names[id] = svc.Name
	}
	return names, nil
}
