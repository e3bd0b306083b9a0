package entity

import "github.com/shopspring/decimal"

// Owner resumen del usuario tutor (tabla usuario).
type Owner struct {
	ID    string
	Name  string
	Email string
	Phone string
}

// Pet mascota registrada por un tutor.
type Pet struct {
	ID      string
	OwnerID string
	Name    string
	Species string
	Breed   string
}

// Service servicio del catálogo de una hospedagem (banho, tosa, passeio...).
type Service struct {
	ID          string
	FacilityID  string
	Name        string
	Description string
	Price       decimal.Decimal
	Active      bool
}
