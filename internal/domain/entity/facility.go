package entity

import "github.com/shopspring/decimal"

// Facility hospedagem (referencia de solo lectura). NightlyRate nil = sin diaria configurada.
type Facility struct {
	ID          string
	Name        string
	NightlyRate *decimal.Decimal
	Address     *Address
}

// Address cadena endereco → bairro → cidade de la hospedagem.
type Address struct {
	Street       string
	Number       string
	Complement   string
	ZipCode      string
	Neighborhood string
	City         string
	State        string
}
