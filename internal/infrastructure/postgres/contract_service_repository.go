package postgres

import (
	"context"
	"errors"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/hospedagem-api/internal/domain"
	"github.com/jhoicas/hospedagem-api/internal/domain/entity"
	"github.com/jhoicas/hospedagem-api/internal/domain/repository"
)

var _ repository.ContractServiceRepository = (*ContractServiceRepo)(nil)

const serviceLineColumns = `contract_id, pet_id, service_id, quantity, unit_price, created_at`

// ContractServiceRepo tabla contract_service (precio unitario congelado al insertar).
type ContractServiceRepo struct {
	q Querier
}

func NewContractServiceRepository(q Querier) *ContractServiceRepo {
	return &ContractServiceRepo{q: q}
}

func scanLine(row pgx.Row) (entity.ServiceAssignment, error) {
	var l entity.ServiceAssignment
	err := row.Scan(&l.ContractID, &l.PetID, &l.ServiceID, &l.Quantity, &l.UnitPrice, &l.CreatedAt)
	return l, err
}

func (r *ContractServiceRepo) collect(rows pgx.Rows, op string) ([]entity.ServiceAssignment, error) {
	defer rows.Close()
	lines := make([]entity.ServiceAssignment, 0)
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, classify(err, op)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, op)
	}
	return lines, nil
}

// Add inserta las líneas; dentro de la tx del caso de uso una falla revierte el lote.
func (r *ContractServiceRepo) Add(ctx context.Context, lines []entity.ServiceAssignment) error {
	query := `INSERT INTO contract_service (` + serviceLineColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	for _, l := range lines {
		_, err := r.q.Exec(ctx, query, l.ContractID, l.PetID, l.ServiceID, l.Quantity, l.UnitPrice, l.CreatedAt)
		if err != nil {
			err = classify(err, "insert contract_service")
			if de, ok := domain.AsError(err); ok && de.Code == domain.CodeDuplicateServiceLine {
				de.With("pet_id", l.PetID).With("service_ids", []string{l.ServiceID})
			}
			return err
		}
	}
	return nil
}

func (r *ContractServiceRepo) Get(ctx context.Context, contractID, petID, serviceID string) (*entity.ServiceAssignment, error) {
	if !isUUID(petID) || !isUUID(serviceID) {
		return nil, nil
	}
	query := `
		SELECT ` + serviceLineColumns + `
		FROM contract_service
		WHERE contract_id = $1 AND pet_id = $2 AND service_id = $3`
	l, err := scanLine(r.q.QueryRow(ctx, query, contractID, petID, serviceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(err, "get contract_service")
	}
	return &l, nil
}

// ListByContract líneas ordenadas por pet y servicio.
func (r *ContractServiceRepo) ListByContract(ctx context.Context, contractID string) ([]entity.ServiceAssignment, error) {
	query := `
		SELECT ` + serviceLineColumns + `
		FROM contract_service
		WHERE contract_id = $1
		ORDER BY pet_id, service_id`
	rows, err := r.q.Query(ctx, query, contractID)
	if err != nil {
		return nil, classify(err, "list contract_service")
	}
	return r.collect(rows, "list contract_service")
}

func (r *ContractServiceRepo) UpdateQuantity(ctx context.Context, contractID, petID, serviceID string, quantity int) error {
	query := `
		UPDATE contract_service SET quantity = $4
		WHERE contract_id = $1 AND pet_id = $2 AND service_id = $3`
	tag, err := r.q.Exec(ctx, query, contractID, petID, serviceID, quantity)
	if err != nil {
		return classify(err, "update contract_service")
	}
	if tag.RowsAffected() == 0 {
		return domain.NewError(domain.ErrNotFound, domain.CodeNotFound, "línea de servicio no encontrada")
	}
	return nil
}

func (r *ContractServiceRepo) Remove(ctx context.Context, contractID, petID, serviceID string) error {
	tag, err := r.q.Exec(ctx,
		`DELETE FROM contract_service WHERE contract_id = $1 AND pet_id = $2 AND service_id = $3`,
		contractID, petID, serviceID)
	if err != nil {
		return classify(err, "delete contract_service")
	}
	if tag.RowsAffected() == 0 {
		return domain.NewError(domain.ErrNotFound, domain.CodeNotFound, "línea de servicio no encontrada")
	}
	return nil
}

// RemoveByPet elimina las líneas del pet y las devuelve ordenadas por servicio.
func (r *ContractServiceRepo) RemoveByPet(ctx context.Context, contractID, petID string) ([]entity.ServiceAssignment, error) {
	query := `
		DELETE FROM contract_service
		WHERE contract_id = $1 AND pet_id = $2
		RETURNING ` + serviceLineColumns
	rows, err := r.q.Query(ctx, query, contractID, petID)
	if err != nil {
		return nil, classify(err, "delete contract_service")
	}
	lines, err := r.collect(rows, "delete contract_service")
	if err != nil {
		return nil, err
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ServiceID < lines[j].ServiceID })
	return lines, nil
}

func (r *ContractServiceRepo) DeleteByContract(ctx context.Context, contractID string) (int, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM contract_service WHERE contract_id = $1`, contractID)
	if err != nil {
		return 0, classify(err, "delete contract_service")
	}
	return int(tag.RowsAffected()), nil
}
