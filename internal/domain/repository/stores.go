package repository

// Stores agrupa los repositorios atados a una misma transacción.
type Stores struct {
	Contracts        ContractRepository
	ContractPets     ContractPetRepository
	ContractServices ContractServiceRepository
	Facilities       FacilityRepository
	Owners           OwnerRepository
	Pets             PetRepository
	Services         ServiceRepository
}
