package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/hospedagem-api/internal/domain"
)

// Códigos SQLSTATE relevantes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgQueryCanceled       = "57014"
	pgInvalidText         = "22P02"
)

// classify traduce errores del driver a la taxonomía de dominio. op describe la operación
// para el mensaje de las fallas no clasificadas.
func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	if _, ok := domain.AsError(err); ok {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewError(domain.ErrTimeout, domain.CodeTimeout, "%s: tiempo de espera agotado", op)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return domain.NewError(domain.ErrStore, domain.CodeStoreFailure, "%s: %v", op, err)
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		switch pgErr.ConstraintName {
		case "contract_pet_pkey":
			return domain.Invariant(domain.CodePetAlreadyAttached, "pet ya vinculado al contrato").
				With("constraint", pgErr.ConstraintName)
		case "contract_service_pkey":
			return domain.Invariant(domain.CodeDuplicateServiceLine, "línea de servicio duplicada").
				With("constraint", pgErr.ConstraintName)
		case "contract_active_unique":
			return domain.NewError(domain.ErrConflict, domain.CodeDuplicateActive,
				"ya existe un contrato activo para esta hospedagem, tutor y fechas")
		}
		return domain.NewError(domain.ErrConflict, domain.CodeConflict, "%s: registro duplicado", op).
			With("constraint", pgErr.ConstraintName)
	case pgForeignKeyViolation:
		return domain.NewError(domain.ErrNotFound, domain.CodeNotFound, "%s: referencia inexistente", op).
			With("constraint", pgErr.ConstraintName)
	case pgCheckViolation:
		code := domain.CodeValidation
		switch pgErr.ConstraintName {
		case "contract_service_quantity_check":
			code = domain.CodeInvalidQuantity
		case "contract_dates_check":
			code = domain.CodeInvalidDateRange
		case "contract_status_check":
			code = domain.CodeInvalidStatus
		}
		return domain.Validation(code, "%s: restricción %s violada", op, pgErr.ConstraintName)
	case pgInvalidText:
		return domain.Validation(domain.CodeValidation, "%s: identificador con formato inválido", op)
	case pgQueryCanceled:
		return domain.NewError(domain.ErrTimeout, domain.CodeTimeout, "%s: sentencia cancelada por tiempo", op)
	}
	return domain.NewError(domain.ErrStore, domain.CodeStoreFailure, "%s: %s (%s)", op, pgErr.Message, pgErr.Code)
}

// isUUID los ids que no son UUID no pueden existir en la base; se tratan como ausentes.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// uuidsOnly descarta lo que no es UUID y devuelve el resto en forma canónica, deduplicado.
func uuidsOnly(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		u, err := uuid.Parse(id)
		if err != nil || seen[u.String()] {
			continue
		}
		seen[u.String()] = true
		out = append(out, u.String())
	}
	return out
}
