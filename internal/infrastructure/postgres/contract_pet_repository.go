package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/hospedagem-api/internal/domain"
	"github.com/jhoicas/hospedagem-api/internal/domain/repository"
)

var _ repository.ContractPetRepository = (*ContractPetRepo)(nil)

// ContractPetRepo tabla contract_pet.
type ContractPetRepo struct {
	q Querier
}

func NewContractPetRepository(q Querier) *ContractPetRepo {
	return &ContractPetRepo{q: q}
}

// Add vincula todos los pets en una sola sentencia.
func (r *ContractPetRepo) Add(ctx context.Context, contractID string, petIDs []string, at time.Time) error {
	if len(petIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO contract_pet (contract_id, pet_id, created_at)
		SELECT $1, pet_id, $3 FROM unnest($2::uuid[]) AS pet_id`
	_, err := r.q.Exec(ctx, query, contractID, petIDs, at)
	return classify(err, "insert contract_pet")
}

func (r *ContractPetRepo) Remove(ctx context.Context, contractID, petID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM contract_pet WHERE contract_id = $1 AND pet_id = $2`, contractID, petID)
	if err != nil {
		return classify(err, "delete contract_pet")
	}
	if tag.RowsAffected() == 0 {
		return domain.NewError(domain.ErrNotFound, domain.CodePetNotAttached,
			"el pet %s no está vinculado al contrato", petID).
			With("pet_id", petID)
	}
	return nil
}

// ListPetIDs pets del contrato en orden de vinculación.
func (r *ContractPetRepo) ListPetIDs(ctx context.Context, contractID string) ([]string, error) {
	rows, err := r.q.Query(ctx,
		`SELECT pet_id FROM contract_pet WHERE contract_id = $1 ORDER BY created_at, pet_id`, contractID)
	if err != nil {
		return nil, classify(err, "list contract_pet")
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, classify(err, "scan contract_pet")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "list contract_pet")
	}
	return ids, nil
}

func (r *ContractPetRepo) DeleteByContract(ctx context.Context, contractID string) (int, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM contract_pet WHERE contract_id = $1`, contractID)
	if err != nil {
		return 0, classify(err, "delete contract_pet")
	}
	return int(tag.RowsAffected()), nil
}
