package contract_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hospedagem-api/internal/domain"
	"github.com/jhoicas/hospedagem-api/internal/domain/entity"
)

func TestTransition_CaminoCompleto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.create(t, []string{"p1"})

	out, err := f.status.Transition(ctx, c.ID, "approved", "")
	require.NoError(t, err)
	assert.Equal(t, "pending_approval", out.Transition.From)
	assert.Equal(t, "approved", out.Transition.To)
	assert.Nil(t, out.Transition.Reason)

	// Antes del inicio (2025-03-10) no puede pasar a in_progress.
	_, err = f.status.Transition(ctx, c.ID, "in_progress", "")
	de := requireCode(t, err, domain.ErrIllegalTransition, domain.CodePrematureStart)
	assert.Equal(t, "2025-03-10", de.Details["start_date"])

	f.now = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	out, err = f.status.Transition(ctx, c.ID, "in_progress", "")
	require.NoError(t, err)
	assert.Equal(t, "in_progress", out.Contract.Status)

	// Antes de la salida (2025-03-13) no puede concluirse.
	_, err = f.status.Transition(ctx, c.ID, "completed", "")
	requireCode(t, err, domain.ErrIllegalTransition, domain.CodePrematureCompletion)

	f.now = time.Date(2025, 3, 13, 18, 0, 0, 0, time.UTC)
	out, err = f.status.Transition(ctx, c.ID, "completed", "")
	require.NoError(t, err)
	assert.Equal(t, "completed", out.Contract.Status)

	_, err = f.status.Transition(ctx, c.ID, "cancelled", "")
	de = requireCode(t, err, domain.ErrIllegalTransition, domain.CodeIllegalTransition)
	assert.Equal(t, []string{}, de.Details["allowed"])

	assert.Equal(t, []string{
		"pending_approval->approved",
		"approved->in_progress",
		"in_progress->completed",
	}, f.recorder.transitions)
}

func TestTransition_TablaDesdeCadaEstado(t *testing.T) {
	allowed := map[entity.ContractStatus][]entity.ContractStatus{
		entity.StatusPendingApproval: {entity.StatusApproved, entity.StatusDenied, entity.StatusCancelled},
		entity.StatusApproved:        {entity.StatusInProgress, entity.StatusCancelled},
		entity.StatusInProgress:      {entity.StatusCompleted, entity.StatusCancelled},
	}
	for _, from := range entity.AllStatuses {
		for _, to := range entity.AllStatuses {
			ok := false
			for _, s := range allowed[from] {
				ok = ok || s == to
			}
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				f := newFixture(t)
				c := f.create(t, []string{"p1"})
				f.moveTo(t, c.ID, from)
				f.now = time.Date(2025, 3, 20, 9, 0, 0, 0, time.UTC)

				out, err := f.status.Transition(context.Background(), c.ID, string(to), "motivo")
				if ok {
					require.NoError(t, err)
					assert.Equal(t, string(to), out.Contract.Status)
					return
				}
				requireCode(t, err, domain.ErrIllegalTransition, domain.CodeIllegalTransition)
				agg, err := f.contracts.Get(context.Background(), c.ID)
				require.NoError(t, err)
				assert.Equal(t, string(from), agg.Status, "el estado no cambia")
			})
		}
	}
}

func TestTransition_NegacionRequiereMotivo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.create(t, []string{"p1"})

	_, err := f.status.Transition(ctx, c.ID, "denied", "   ")
	requireCode(t, err, domain.ErrValidation, domain.CodeMissingReason)

	out, err := f.status.Transition(ctx, c.ID, "denied", "  sem vagas  ")
	require.NoError(t, err)
	require.NotNil(t, out.Transition.Reason)
	assert.Equal(t, "sem vagas", *out.Transition.Reason)
	require.NotNil(t, out.Contract.StatusReason)
	assert.Equal(t, "sem vagas", *out.Contract.StatusReason)
}

func TestTransition_CancelacionConMotivoOpcional(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t, []string{"p1"})

	out, err := f.status.Transition(ctx, a.ID, "cancelled", "")
	require.NoError(t, err)
	assert.Nil(t, out.Contract.StatusReason)
}

func TestTransition_EstadoDesconocidoEInexistente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.create(t, []string{"p1"})

	_, err := f.status.Transition(ctx, c.ID, "archived", "")
	requireCode(t, err, domain.ErrValidation, domain.CodeInvalidStatus)

	_, err = f.status.Transition(ctx, "nao-existe", "approved", "")
	requireCode(t, err, domain.ErrNotFound, domain.CodeNotFound)
	assert.Empty(t, f.recorder.transitions)
}
