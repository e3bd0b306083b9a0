package dto

// ErrorResponse cuerpo de error HTTP. Details lleva los identificadores implicados
// (pets repetidos, par de transición inválido, etc.).
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ContractListResponse listado de contratos de un tutor.
type ContractListResponse struct {
	Total     int                  `json:"total"`
	Contracts []*ContractAggregate `json:"contracts"`
}
