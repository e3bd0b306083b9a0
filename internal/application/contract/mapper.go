package contract

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/hospedagem-api/internal/application/dto"
	rules "github.com/jhoicas/hospedagem-api/internal/domain/contract"
	"github.com/jhoicas/hospedagem-api/internal/domain/entity"
)

// money redondeo a centavos; solo en la presentación, nunca antes de sumar.
func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(entity.DateLayout)
	return &s
}

func toFacilitySummary(f *entity.Facility) dto.FacilitySummary {
	out := dto.FacilitySummary{ID: f.ID, Name: f.Name}
	if f.NightlyRate != nil {
		r := money(*f.NightlyRate)
		out.NightlyRate = &r
	}
	if a := f.Address; a != nil {
		out.Address = &dto.AddressResponse{
			Street:       a.Street,
			Number:       a.Number,
			Complement:   a.Complement,
			ZipCode:      a.ZipCode,
			Neighborhood: a.Neighborhood,
			City:         a.City,
			State:        a.State,
		}
	}
	return out
}

func toOwnerSummary(id string, o *entity.Owner) dto.OwnerSummary {
	if o == nil {
		return dto.OwnerSummary{ID: id}
	}
	return dto.OwnerSummary{ID: o.ID, Name: o.Name, Email: o.Email, Phone: o.Phone}
}

func toLineResponse(l entity.ServiceAssignment, names map[string]string) dto.ServiceLineResponse {
	return dto.ServiceLineResponse{
		PetID:     l.PetID,
		ServiceID: l.ServiceID,
		Name:      names[l.ServiceID],
		Quantity:  l.Quantity,
		UnitPrice: money(l.UnitPrice),
		Total:     money(l.Value()),
	}
}

func toLineResponses(lines []entity.ServiceAssignment, names map[string]string) []dto.ServiceLineResponse {
	out := make([]dto.ServiceLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, toLineResponse(l, names))
	}
	return out
}

func toPricing(b *rules.Breakdown, names map[string]string) *dto.PricingBreakdown {
	perPet := make(map[string]dto.PetServicesBreakdown, len(b.PerPet))
	for petID, ps := range b.PerPet {
		perPet[petID] = dto.PetServicesBreakdown{
			Lines:    toLineResponses(ps.Lines, names),
			Subtotal: money(ps.Subtotal),
		}
	}
	return &dto.PricingBreakdown{
		NightlyRate:     money(b.NightlyRate),
		DurationNights:  b.DurationNights,
		PetCount:        b.PetCount,
		HousingSubtotal: money(b.HousingSubtotal),
		ServiceSubtotal: money(b.ServiceSubtotal),
		Total:           money(b.Total),
		PerPet:          perPet,
	}
}
