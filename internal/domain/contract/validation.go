// Package contract reúne las reglas puras del contrato de hospedagem: validación de campos,
// cálculo de precio, máquina de estados y restricciones de composición (pets y servicios).
// Nada aquí hace I/O; los casos de uso cargan los datos y delegan las decisiones.
package contract

import (
	"time"

	"github.com/jhoicas/hospedagem-api/internal/domain"
	"github.com/jhoicas/hospedagem-api/internal/domain/entity"
)

// IsValidStatus indica si code pertenece al vocabulario de estados.
func IsValidStatus(code string) bool {
	for _, s := range entity.AllStatuses {
		if string(s) == code {
			return true
		}
	}
	return false
}

// ValidateDateRange valida las fechas de un contrato nuevo: el inicio no puede ser anterior a hoy
// y la salida, si existe, no puede ser anterior al inicio.
func ValidateDateRange(start time.Time, end *time.Time, today time.Time) error {
	start = entity.DateOf(start)
	if start.Before(entity.DateOf(today)) {
		return domain.Validation(domain.CodeInvalidDateRange,
			"la fecha de inicio %s es anterior a hoy (%s)",
			start.Format(entity.DateLayout), entity.DateOf(today).Format(entity.DateLayout)).
			With("start_date", start.Format(entity.DateLayout))
	}
	return ValidateEndAfterStart(start, end)
}

// ValidateEndAfterStart valida solo que la salida no preceda al inicio.
func ValidateEndAfterStart(start time.Time, end *time.Time) error {
	if end == nil {
		return nil
	}
	s, e := entity.DateOf(start), entity.DateOf(*end)
	if e.Before(s) {
		return domain.Validation(domain.CodeInvalidDateRange,
			"la fecha de salida %s es anterior a la fecha de inicio %s",
			e.Format(entity.DateLayout), s.Format(entity.DateLayout)).
			With("start_date", s.Format(entity.DateLayout)).
			With("end_date", e.Format(entity.DateLayout))
	}
	return nil
}

// ValidateQuantity exige cantidad >= 1.
func ValidateQuantity(q int) error {
	if q < 1 {
		return domain.Validation(domain.CodeInvalidQuantity, "la cantidad debe ser mayor o igual a 1 (recibido %d)", q).
			With("quantity", q)
	}
	return nil
}

// DuplicateIDs devuelve los ids repetidos en ids, una vez cada uno, en orden de primera repetición.
func DuplicateIDs(ids []string) []string {
	seen := make(map[string]int, len(ids))
	var dups []string
	for _, id := range ids {
		seen[id]++
		if seen[id] == 2 {
			dups = append(dups, id)
		}
	}
	return dups
}
