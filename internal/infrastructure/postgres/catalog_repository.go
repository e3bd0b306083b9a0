package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/hospedagem-api/internal/domain/entity"
	"github.com/jhoicas/hospedagem-api/internal/domain/repository"
)

var (
	_ repository.FacilityRepository = (*FacilityRepo)(nil)
	_ repository.OwnerRepository    = (*OwnerRepo)(nil)
	_ repository.PetRepository      = (*PetRepo)(nil)
	_ repository.ServiceRepository  = (*ServiceRepo)(nil)
)

// FacilityRepo hospedagem con su cadena endereco → bairro → cidade.
type FacilityRepo struct {
	q Querier
}

func NewFacilityRepository(q Querier) *FacilityRepo {
	return &FacilityRepo{q: q}
}

func (r *FacilityRepo) GetByID(ctx context.Context, id string) (*entity.Facility, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `
		SELECT h.id, h.nome, h.valor_diaria,
		       e.id IS NOT NULL,
		       COALESCE(e.logradouro, ''), COALESCE(e.numero, ''), COALESCE(e.complemento, ''), COALESCE(e.cep, ''),
		       COALESCE(b.nome, ''), COALESCE(c.nome, ''), COALESCE(c.uf, '')
		FROM hospedagem h
		LEFT JOIN endereco e ON e.id = h.endereco_id
		LEFT JOIN bairro b   ON b.id = e.bairro_id
		LEFT JOIN cidade c   ON c.id = b.cidade_id
		WHERE h.id = $1`
	var (
		f          entity.Facility
		rate       *decimal.Decimal
		hasAddress bool
		a          entity.Address
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.Name, &rate, &hasAddress,
		&a.Street, &a.Number, &a.Complement, &a.ZipCode, &a.Neighborhood, &a.City, &a.State,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(err, "get hospedagem")
	}
	f.NightlyRate = rate
	if hasAddress {
		f.Address = &a
	}
	return &f, nil
}

// OwnerRepo tabla usuario.
type OwnerRepo struct {
	q Querier
}

func NewOwnerRepository(q Querier) *OwnerRepo {
	return &OwnerRepo{q: q}
}

func (r *OwnerRepo) GetByID(ctx context.Context, id string) (*entity.Owner, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `SELECT id, nome, COALESCE(email, ''), COALESCE(telefone, '') FROM usuario WHERE id = $1`
	var o entity.Owner
	err := r.q.QueryRow(ctx, query, id).Scan(&o.ID, &o.Name, &o.Email, &o.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(err, "get usuario")
	}
	return &o, nil
}

// PetRepo pets con raça y espécie.
type PetRepo struct {
	q Querier
}

func NewPetRepository(q Querier) *PetRepo {
	return &PetRepo{q: q}
}

func (r *PetRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Pet, error) {
	out := make(map[string]*entity.Pet, len(ids))
	valid := uuidsOnly(ids)
	if len(valid) == 0 {
		return out, nil
	}
	query := `
		SELECT p.id, p.usuario_id, p.nome, COALESCE(e.nome, ''), COALESCE(r.nome, '')
		FROM pet p
		LEFT JOIN raca r    ON r.id = p.raca_id
		LEFT JOIN especie e ON e.id = r.especie_id
		WHERE p.id = ANY($1::uuid[])`
	rows, err := r.q.Query(ctx, query, valid)
	if err != nil {
		return nil, classify(err, "list pet")
	}
	defer rows.Close()
	for rows.Next() {
		var p entity.Pet
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Species, &p.Breed); err != nil {
			return nil, classify(err, "scan pet")
		}
		out[p.ID] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "list pet")
	}
	return out, nil
}

// ServiceRepo catálogo de servicios de las hospedagens.
type ServiceRepo struct {
	q Querier
}

func NewServiceRepository(q Querier) *ServiceRepo {
	return &ServiceRepo{q: q}
}

func (r *ServiceRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Service, error) {
	out := make(map[string]*entity.Service, len(ids))
	valid := uuidsOnly(ids)
	if len(valid) == 0 {
		return out, nil
	}
	query := `
		SELECT id, hospedagem_id, nome, COALESCE(descricao, ''), preco, ativo
		FROM service
		WHERE id = ANY($1::uuid[])`
	rows, err := r.q.Query(ctx, query, valid)
	if err != nil {
		return nil, classify(err, "list service")
	}
	defer rows.Close()
	for rows.Next() {
		var s entity.Service
		if err := rows.Scan(&s.ID, &s.FacilityID, &s.Name, &s.Description, &s.Price, &s.Active); err != nil {
			return nil, classify(err, "scan service")
		}
		out[s.ID] = &s
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "list service")
	}
	return out, nil
}

// NewStores ata todos los repositorios al mismo Querier (pool o tx).
func NewStores(q Querier) repository.Stores {
	return repository.Stores{
		Contracts:        NewContractRepository(q),
		ContractPets:     NewContractPetRepository(q),
		ContractServices: NewContractServiceRepository(q),
		Facilities:       NewFacilityRepository(q),
		Owners:           NewOwnerRepository(q),
		Pets:             NewPetRepository(q),
		Services:         NewServiceRepository(q),
	}
}
