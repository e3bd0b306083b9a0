package contract

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/hospedagem-api/internal/domain"
	"github.com/jhoicas/hospedagem-api/internal/domain/entity"
)

// PricingInput datos ya cargados para calcular el valor de un contrato.
type PricingInput struct {
	NightlyRate *decimal.Decimal
	StartDate   time.Time
	EndDate     *time.Time
	PetIDs      []string
	Lines       []entity.ServiceAssignment
}

// PetServices líneas de servicio de un pet y su subtotal.
type PetServices struct {
	Lines    []entity.ServiceAssignment
	Subtotal decimal.Decimal
}

// Breakdown desglose del valor del contrato. Todos los montos son exactos (sin redondeo).
type Breakdown struct {
	NightlyRate     decimal.Decimal
	DurationNights  int
	PetCount        int
	HousingSubtotal decimal.Decimal
	ServiceSubtotal decimal.Decimal
	Total           decimal.Decimal
	PerPet          map[string]*PetServices
}

// DurationNights noches de estadía: ceil((fin - inicio) / 1 día), mínimo 1; 1 si no hay fecha de salida.
func DurationNights(start time.Time, end *time.Time) int {
	if end == nil {
		return 1
	}
	d := entity.DateOf(*end).Sub(entity.DateOf(start))
	nights := int(math.Ceil(d.Hours() / 24))
	if nights < 1 {
		return 1
	}
	return nights
}

// RequireNightlyRate devuelve la diaria o MissingNightlyRate si falta o es <= 0.
func RequireNightlyRate(rate *decimal.Decimal) (decimal.Decimal, error) {
	if rate == nil || !rate.GreaterThan(decimal.Zero) {
		return decimal.Zero, domain.Validation(domain.CodeMissingNightlyRate,
			"la hospedagem no tiene una diaria válida configurada")
	}
	return *rate, nil
}

// HousingCost diaria × noches × cantidad de pets.
func HousingCost(rate decimal.Decimal, nights, pets int) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(int64(nights))).Mul(decimal.NewFromInt(int64(pets)))
}

// SumLines Σ cantidad × precio unitario.
func SumLines(lines []entity.ServiceAssignment) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Value())
	}
	return total
}

// Calculate deriva el desglose completo. La suma de servicios es plana; el agrupado por pet
// es solo informativo.
func Calculate(in PricingInput) (*Breakdown, error) {
	rate, err := RequireNightlyRate(in.NightlyRate)
	if err != nil {
		return nil, err
	}
	nights := DurationNights(in.StartDate, in.EndDate)
	petCount := len(in.PetIDs)

	perPet := make(map[string]*PetServices, petCount)
	for _, id := range in.PetIDs {
		perPet[id] = &PetServices{Lines: []entity.ServiceAssignment{}, Subtotal: decimal.Zero}
	}
	serviceSubtotal := decimal.Zero
	for _, l := range in.Lines {
		ps, ok := perPet[l.PetID]
		if !ok {
			ps = &PetServices{Subtotal: decimal.Zero}
			perPet[l.PetID] = ps
		}
		v := l.Value()
		ps.Lines = append(ps.Lines, l)
		ps.Subtotal = ps.Subtotal.Add(v)
		serviceSubtotal = serviceSubtotal.Add(v)
	}

	housing := HousingCost(rate, nights, petCount)
	return &Breakdown{
		NightlyRate:     rate,
		DurationNights:  nights,
		PetCount:        petCount,
		HousingSubtotal: housing,
		ServiceSubtotal: serviceSubtotal,
		Total:           housing.Add(serviceSubtotal),
		PerPet:          perPet,
	}, nil
}
