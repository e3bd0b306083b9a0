package contract

import (
	"sort"
	"time"

	"github.com/jhoicas/hospedagem-api/internal/domain"
	"github.com/jhoicas/hospedagem-api/internal/domain/entity"
)

// ServiceSelection servicios pedidos para un pet del contrato.
type ServiceSelection struct {
	PetID      string
	ServiceIDs []string
}

// CheckPetsToAttach valida la lista de pets a vincular: no vacía, sin repetidos, no vinculados aún,
// existentes y del mismo tutor del contrato.
func CheckPetsToAttach(requested, attached []string, pets map[string]*entity.Pet, ownerID string) error {
	if len(requested) == 0 {
		return domain.Validation(domain.CodeValidation, "debe informar al menos un pet")
	}
	if dups := DuplicateIDs(requested); len(dups) > 0 {
		return domain.Validation(domain.CodeDuplicateIDs, "pets repetidos en la solicitud").
			With("pet_ids", dups)
	}

	already := toSet(attached)
	var conflicting, missing, foreign []string
	for _, id := range requested {
		if already[id] {
			conflicting = append(conflicting, id)
			continue
		}
		p, ok := pets[id]
		if !ok || p == nil {
			missing = append(missing, id)
			continue
		}
		if p.OwnerID != ownerID {
			foreign = append(foreign, id)
		}
	}
	if len(conflicting) > 0 {
		return domain.Invariant(domain.CodePetAlreadyAttached, "pets ya vinculados al contrato").
			With("pet_ids", conflicting)
	}
	if len(missing) > 0 {
		return domain.NewError(domain.ErrNotFound, domain.CodeNotFound, "pets no encontrados").
			With("entity", "pet").
			With("pet_ids", missing)
	}
	if len(foreign) > 0 {
		return domain.Invariant(domain.CodePetNotOwned, "pets que no pertenecen al tutor del contrato").
			With("pet_ids", foreign).
			With("owner_id", ownerID)
	}
	return nil
}

// CheckPetDetach valida que el pet esté vinculado y no sea el último.
func CheckPetDetach(attached []string, petID string) error {
	if !toSet(attached)[petID] {
		return domain.NewError(domain.ErrNotFound, domain.CodePetNotAttached,
			"el pet %s no está vinculado al contrato", petID).
			With("pet_id", petID)
	}
	if len(attached) == 1 {
		return domain.Invariant(domain.CodeCannotRemoveLastPet,
			"el pet %s es el último del contrato y no puede removerse", petID).
			With("pet_id", petID)
	}
	return nil
}

// CheckServiceSelections valida un lote de servicios: por grupo, sin repetidos, pet vinculado,
// sin líneas ya existentes (ni repetidas entre grupos), servicios existentes, de la hospedagem
// del contrato y activos. Cualquier falla invalida el lote completo.
func CheckServiceSelections(
	selections []ServiceSelection,
	attachedPets []string,
	existing []entity.ServiceAssignment,
	catalog map[string]*entity.Service,
	facilityID string,
) error {
	if len(selections) == 0 {
		return domain.Validation(domain.CodeValidation, "debe informar al menos un servicio")
	}
	pets := toSet(attachedPets)
	taken := make(map[entity.ServiceKey]bool, len(existing))
	for _, l := range existing {
		taken[l.Key()] = true
	}

	for _, sel := range selections {
		if sel.PetID == "" || len(sel.ServiceIDs) == 0 {
			return domain.Validation(domain.CodeValidation, "cada grupo requiere pet_id y al menos un service_id")
		}
		if dups := DuplicateIDs(sel.ServiceIDs); len(dups) > 0 {
			return domain.Validation(domain.CodeDuplicateIDs, "servicios repetidos para el pet %s", sel.PetID).
				With("pet_id", sel.PetID).
				With("service_ids", dups)
		}
		if !pets[sel.PetID] {
			return domain.Invariant(domain.CodePetNotAttached, "el pet %s no está vinculado al contrato", sel.PetID).
				With("pet_id", sel.PetID)
		}

		var dupLines, missing, unavailable []string
		for _, sid := range sel.ServiceIDs {
			key := entity.ServiceKey{PetID: sel.PetID, ServiceID: sid}
			if taken[key] {
				dupLines = append(dupLines, sid)
				continue
			}
			svc, ok := catalog[sid]
			if !ok || svc == nil {
				missing = append(missing, sid)
				continue
			}
			if svc.FacilityID != facilityID || !svc.Active {
				unavailable = append(unavailable, sid)
			}
		}
		if len(dupLines) > 0 {
			return domain.Invariant(domain.CodeDuplicateServiceLine,
				"servicios ya contratados para el pet %s", sel.PetID).
				With("pet_id", sel.PetID).
				With("service_ids", dupLines)
		}
		if len(missing) > 0 {
			return domain.NewError(domain.ErrNotFound, domain.CodeNotFound, "servicios no encontrados").
				With("entity", "service").
				With("service_ids", missing)
		}
		if len(unavailable) > 0 {
			return domain.Invariant(domain.CodeServiceUnavailable,
				"servicios inactivos o de otra hospedagem").
				With("service_ids", unavailable).
				With("facility_id", facilityID)
		}
		for _, sid := range sel.ServiceIDs {
			taken[entity.ServiceKey{PetID: sel.PetID, ServiceID: sid}] = true
		}
	}
	return nil
}

// BuildServiceLines arma las líneas (cantidad 1) congelando el precio del catálogo.
func BuildServiceLines(contractID string, selections []ServiceSelection, catalog map[string]*entity.Service, now time.Time) []entity.ServiceAssignment {
	var lines []entity.ServiceAssignment
	for _, sel := range selections {
		for _, sid := range sel.ServiceIDs {
			lines = append(lines, entity.ServiceAssignment{
				ContractID: contractID,
				PetID:      sel.PetID,
				ServiceID:  sid,
				Quantity:   1,
				UnitPrice:  catalog[sid].Price,
				CreatedAt:  now,
			})
		}
	}
	return lines
}

// SelectionServiceIDs ids de servicio distintos de todas las selecciones, ordenados.
func SelectionServiceIDs(selections []ServiceSelection) []string {
	set := make(map[string]bool)
	for _, sel := range selections {
		for _, sid := range sel.ServiceIDs {
			set[sid] = true
		}
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
