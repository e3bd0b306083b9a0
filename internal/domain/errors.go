package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). Cada uno es una "clase" de la taxonomía;
// los errores concretos se construyen con *Error y se comparan con errors.Is contra estas clases.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrValidation        = errors.New("entrada inválida")
	ErrInvariant         = errors.New("violación de invariante del contrato")
	ErrIllegalTransition = errors.New("transición de estado no permitida")
	ErrIllegalEdit       = errors.New("el contrato no admite esta modificación")
	ErrConflict          = errors.New("conflicto con un recurso existente")
	ErrTimeout           = errors.New("tiempo de espera agotado")
	ErrStore             = errors.New("falla de persistencia")
	ErrUnavailable       = errors.New("funcionalidad no disponible")
)

// Códigos estables expuestos a los clientes.
const (
	CodeNotFound             = "NOT_FOUND"
	CodeValidation           = "VALIDATION"
	CodeInvalidDateRange     = "INVALID_DATE_RANGE"
	CodeMissingNightlyRate   = "MISSING_NIGHTLY_RATE"
	CodeInvalidQuantity      = "INVALID_QUANTITY"
	CodeInvalidStatus        = "INVALID_STATUS"
	CodeMissingReason        = "MISSING_REASON"
	CodeDuplicateIDs         = "DUPLICATE_IDS"
	CodePetAlreadyAttached   = "PET_ALREADY_ATTACHED"
	CodePetNotOwned          = "PET_NOT_OWNED"
	CodePetNotAttached       = "PET_NOT_ATTACHED"
	CodeCannotRemoveLastPet  = "CANNOT_REMOVE_LAST_PET"
	CodeDuplicateServiceLine = "DUPLICATE_SERVICE_LINE"
	CodeServiceUnavailable   = "SERVICE_UNAVAILABLE"
	CodeIllegalTransition    = "ILLEGAL_TRANSITION"
	CodePrematureStart       = "PREMATURE_START"
	CodePrematureCompletion  = "PREMATURE_COMPLETION"
	CodeIllegalEdit          = "ILLEGAL_EDIT"
	CodeDeletionBlocked      = "DELETION_BLOCKED"
	CodeDuplicateActive      = "DUPLICATE_ACTIVE_CONTRACT"
	CodeConflict             = "CONFLICT"
	CodeTimeout              = "TIMEOUT"
	CodeStoreFailure         = "STORE_FAILURE"
	CodeStatementDisabled    = "STATEMENT_DISABLED"
)

// Error es un error estructurado: clase + código + mensaje legible + identificadores implicados.
type Error struct {
	Kind    error
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

// Unwrap permite errors.Is(err, domain.ErrNotFound) y similares.
func (e *Error) Unwrap() error { return e.Kind }

// With agrega un detalle y devuelve el mismo error (encadenable).
func (e *Error) With(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// NewError construye un error de la clase kind.
func NewError(kind error, code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NotFound(entity, id string) *Error {
	return NewError(ErrNotFound, CodeNotFound, "%s no encontrado: %s", entity, id).With("entity", entity).With("id", id)
}

func Validation(code, format string, args ...any) *Error {
	return NewError(ErrValidation, code, format, args...)
}

func Invariant(code, format string, args ...any) *Error {
	return NewError(ErrInvariant, code, format, args...)
}

// AsError extrae el *Error de la cadena, si existe.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// KindOf devuelve la clase de la taxonomía a la que pertenece err (ErrStore si no se reconoce).
func KindOf(err error) error {
	for _, k := range []error{
		ErrNotFound, ErrValidation, ErrInvariant, ErrIllegalTransition,
		ErrIllegalEdit, ErrConflict, ErrTimeout, ErrUnavailable, ErrStore,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrStore
}
