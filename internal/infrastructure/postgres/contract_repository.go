package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/hospedagem-api/internal/domain"
	rules "github.com/jhoicas/hospedagem-api/internal/domain/contract"
	"github.com/jhoicas/hospedagem-api/internal/domain/entity"
	"github.com/jhoicas/hospedagem-api/internal/domain/repository"
)

var _ repository.ContractRepository = (*ContractRepo)(nil)

const contractColumns = `id, facility_id, owner_id, status, start_date, end_date, status_reason, created_at, updated_at`

// ContractRepo implementación de ContractRepository sobre PostgreSQL (usable con pool o tx).
type ContractRepo struct {
	q Querier
}

// NewContractRepository construye el adaptador. Pasar pool o tx (Querier).
func NewContractRepository(q Querier) *ContractRepo {
	return &ContractRepo{q: q}
}

func scanContract(row pgx.Row) (*entity.Contract, error) {
	var c entity.Contract
	var status string
	err := row.Scan(&c.ID, &c.FacilityID, &c.OwnerID, &status, &c.StartDate, &c.EndDate,
		&c.StatusReason, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Status = entity.ContractStatus(status)
	return &c, nil
}

// Create inserta la cabecera del contrato.
func (r *ContractRepo) Create(ctx context.Context, c *entity.Contract) error {
	query := `
		INSERT INTO contract (` + contractColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.FacilityID, c.OwnerID, string(c.Status), c.StartDate, c.EndDate,
		c.StatusReason, c.CreatedAt, c.UpdatedAt,
	)
	return classify(err, "insert contract")
}

// GetByID obtiene un contrato por ID.
func (r *ContractRepo) GetByID(ctx context.Context, id string) (*entity.Contract, error) {
	return r.get(ctx, `SELECT `+contractColumns+` FROM contract WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID pero bloqueando la fila (SELECT ... FOR UPDATE).
func (r *ContractRepo) GetForUpdate(ctx context.Context, id string) (*entity.Contract, error) {
	return r.get(ctx, `SELECT `+contractColumns+` FROM contract WHERE id = $1 FOR UPDATE`, id)
}

func (r *ContractRepo) get(ctx context.Context, query, id string) (*entity.Contract, error) {
	if !isUUID(id) {
		return nil, nil
	}
	c, err := scanContract(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(err, "get contract")
	}
	return c, nil
}

// ListByOwner contratos del tutor ordenados por fecha de inicio y creación (más recientes primero).
func (r *ContractRepo) ListByOwner(ctx context.Context, ownerID string, status *entity.ContractStatus) ([]*entity.Contract, error) {
	if !isUUID(ownerID) {
		return []*entity.Contract{}, nil
	}
	var filter *string
	if status != nil {
		s := string(*status)
		filter = &s
	}
	query := `
		SELECT ` + contractColumns + `
		FROM contract
		WHERE owner_id = $1 AND ($2::text IS NULL OR status = $2::text)
		ORDER BY start_date DESC, created_at DESC, id`
	rows, err := r.q.Query(ctx, query, ownerID, filter)
	if err != nil {
		return nil, classify(err, "list contracts")
	}
	defer rows.Close()

	list := make([]*entity.Contract, 0)
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, classify(err, "scan contract")
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "list contracts")
	}
	return list, nil
}

// FindActiveDuplicate contrato activo con la misma hospedagem, tutor y fechas.
// IS NOT DISTINCT FROM hace que una fecha de salida nula solo coincida con otra nula.
func (r *ContractRepo) FindActiveDuplicate(ctx context.Context, facilityID, ownerID string, start time.Time, end *time.Time, excludeID string) (*entity.Contract, error) {
	active := make([]string, 0, 3)
	for _, s := range rules.ActiveStatuses() {
		active = append(active, string(s))
	}
	query := `
		SELECT ` + contractColumns + `
		FROM contract
		WHERE facility_id = $1
		  AND owner_id = $2
		  AND start_date = $3::date
		  AND end_date IS NOT DISTINCT FROM $4::date
		  AND status = ANY($5::text[])
		  AND id::text <> $6
		ORDER BY created_at
		LIMIT 1`
	c, err := scanContract(r.q.QueryRow(ctx, query, facilityID, ownerID, start, end, active, excludeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(err, "find duplicate contract")
	}
	return c, nil
}

// UpdateFields aplica el patch de fechas. Un patch vacío solo actualiza updated_at.
func (r *ContractRepo) UpdateFields(ctx context.Context, id string, patch entity.ContractPatch, updatedAt time.Time) error {
	query := `
		UPDATE contract
		SET start_date = COALESCE($2::date, start_date),
		    end_date   = CASE WHEN $3::boolean THEN NULL ELSE COALESCE($4::date, end_date) END,
		    updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, patch.StartDate, patch.ClearEndDate, patch.EndDate, updatedAt)
	if err != nil {
		return classify(err, "update contract")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("contrato", id)
	}
	return nil
}

// UpdateStatus registra el nuevo estado y su motivo (nil lo limpia).
func (r *ContractRepo) UpdateStatus(ctx context.Context, id string, status entity.ContractStatus, reason *string, updatedAt time.Time) error {
	query := `UPDATE contract SET status = $2, status_reason = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, string(status), reason, updatedAt)
	if err != nil {
		return classify(err, "update contract status")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("contrato", id)
	}
	return nil
}

// Delete borra la cabecera; las filas dependientes deben eliminarse antes en la misma tx.
func (r *ContractRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM contract WHERE id = $1`, id)
	if err != nil {
		return classify(err, "delete contract")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("contrato", id)
	}
	return nil
}
