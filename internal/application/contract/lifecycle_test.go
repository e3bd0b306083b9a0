package contract_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/jhoicas/hospedagem-api/internal/application/contract"
	"github.com/jhoicas/hospedagem-api/internal/application/dto"
	"github.com/jhoicas/hospedagem-api/internal/domain"
	"github.com/jhoicas/hospedagem-api/internal/domain/entity"
	"github.com/jhoicas/hospedagem-api/internal/domain/repository"
)

func TestCreate_ContratoCompletoYPrecio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.contracts.Create(ctx, dto.CreateContractRequest{
		FacilityID: facilityID,
		OwnerID:    ownerID,
		StartDate:  "2025-03-10",
		EndDate:    strPtr("2025-03-13"),
		PetIDs:     []string{"p1", "p2"},
		Services:   []dto.ServiceSelectionRequest{{PetID: "p1", ServiceIDs: []string{"s-banho"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.PetCount)
	assert.Equal(t, 1, out.ServiceLineCount)

	agg := out.Contract
	assert.Equal(t, string(entity.StatusPendingApproval), agg.Status)
	assert.Equal(t, 3, agg.DurationNights)
	assert.Equal(t, "Hotelzinho Patas", agg.Facility.Name)
	require.NotNil(t, agg.Facility.Address)
	assert.Equal(t, "Campinas", agg.Facility.Address.City)
	assert.Equal(t, "Ana", agg.Owner.Name)
	require.Len(t, agg.Pets, 2)
	assert.Equal(t, "p1", agg.Pets[0].ID)
	require.Len(t, agg.Pets[0].Services, 1)
	assert.Equal(t, "Banho", agg.Pets[0].Services[0].Name)
	assertDecimal(t, "50", agg.Pets[0].ServicesSubtotal)
	assert.Empty(t, agg.Pets[1].Services)

	price, err := f.contracts.ComputePrice(ctx, agg.ID)
	require.NoError(t, err)
	assertDecimal(t, "600", price.HousingSubtotal)
	assertDecimal(t, "50", price.ServiceSubtotal)
	assertDecimal(t, "650", price.Total)
	assert.Equal(t, 2, price.PetCount)
	assert.Equal(t, 3, price.DurationNights)
}

func TestCreate_Validaciones(t *testing.T) {
	cases := []struct {
		name string
		in   dto.CreateContractRequest
		kind error
		code string
	}{
		{
			name: "inicio en el pasado",
			in:   dto.CreateContractRequest{FacilityID: facilityID, OwnerID: ownerID, StartDate: "2025-02-28", PetIDs: []string{"p1"}},
			kind: domain.ErrValidation, code: domain.CodeInvalidDateRange,
		},
		{
			name: "fin antes del inicio",
			in:   dto.CreateContractRequest{FacilityID: facilityID, OwnerID: ownerID, StartDate: "2025-03-10", EndDate: strPtr("2025-03-09"), PetIDs: []string{"p1"}},
			kind: domain.ErrValidation, code: domain.CodeInvalidDateRange,
		},
		{
			name: "fecha mal formada",
			in:   dto.CreateContractRequest{FacilityID: facilityID, OwnerID: ownerID, StartDate: "10/03/2025", PetIDs: []string{"p1"}},
			kind: domain.ErrValidation, code: domain.CodeValidation,
		},
		{
			name: "hospedagem inexistente",
			in:   dto.CreateContractRequest{FacilityID: "nao-existe", OwnerID: ownerID, StartDate: "2025-03-10", PetIDs: []string{"p1"}},
			kind: domain.ErrNotFound, code: domain.CodeNotFound,
		},
		{
			name: "tutor inexistente",
			in:   dto.CreateContractRequest{FacilityID: facilityID, OwnerID: "nao-existe", StartDate: "2025-03-10", PetIDs: []string{"p1"}},
			kind: domain.ErrNotFound, code: domain.CodeNotFound,
		},
		{
			name: "sin pets",
			in:   dto.CreateContractRequest{FacilityID: facilityID, OwnerID: ownerID, StartDate: "2025-03-10"},
			kind: domain.ErrValidation, code: domain.CodeValidation,
		},
		{
			name: "pet de otro tutor",
			in:   dto.CreateContractRequest{FacilityID: facilityID, OwnerID: ownerID, StartDate: "2025-03-10", PetIDs: []string{"p1", "p9"}},
			kind: domain.ErrInvariant, code: domain.CodePetNotOwned,
		},
		{
			name: "pets repetidos",
			in:   dto.CreateContractRequest{FacilityID: facilityID, OwnerID: ownerID, StartDate: "2025-03-10", PetIDs: []string{"p1", "p1"}},
			kind: domain.ErrValidation, code: domain.CodeDuplicateIDs,
		},
		{
			name: "servicio inactivo",
			in: dto.CreateContractRequest{
				FacilityID: facilityID, OwnerID: ownerID, StartDate: "2025-03-10", PetIDs: []string{"p1"},
				Services: []dto.ServiceSelectionRequest{{PetID: "p1", ServiceIDs: []string{"s-inativo"}}},
			},
			kind: domain.ErrInvariant, code: domain.CodeServiceUnavailable,
		},
		{
			name: "servicio para pet fuera del contrato",
			in: dto.CreateContractRequest{
				FacilityID: facilityID, OwnerID: ownerID, StartDate: "2025-03-10", PetIDs: []string{"p1"},
				Services: []dto.ServiceSelectionRequest{{PetID: "p2", ServiceIDs: []string{"s-banho"}}},
			},
			kind: domain.ErrInvariant, code: domain.CodePetNotAttached,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.contracts.Create(context.Background(), tc.in)
			requireCode(t, err, tc.kind, tc.code)

			list, err := f.contracts.ListByOwner(context.Background(), ownerID, "")
			require.NoError(t, err)
			assert.Zero(t, list.Total, "una creación fallida no deja filas")
		})
	}
}

func TestCreate_DuplicadoActivo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.create(t, []string{"p1"})

	_, err := f.contracts.Create(ctx, dto.CreateContractRequest{
		FacilityID: facilityID, OwnerID: ownerID, StartDate: "2025-03-10", EndDate: strPtr("2025-03-13"), PetIDs: []string{"p2"},
	})
	de := requireCode(t, err, domain.ErrConflict, domain.CodeDuplicateActive)
	assert.Equal(t, first.ID, de.Details["contract_id"])

	// Sin fecha de fin no coincide con uno que sí la tiene.
	_, err = f.contracts.Create(ctx, dto.CreateContractRequest{
		FacilityID: facilityID, OwnerID: ownerID, StartDate: "2025-03-10", PetIDs: []string{"p2"},
	})
	require.NoError(t, err)

	// Un contrato cancelado no bloquea.
	f.moveTo(t, first.ID, entity.StatusCancelled)
	_, err = f.contracts.Create(ctx, dto.CreateContractRequest{
		FacilityID: facilityID, OwnerID: ownerID, StartDate: "2025-03-10", EndDate: strPtr("2025-03-13"), PetIDs: []string{"p3"},
	})
	require.NoError(t, err)
}

func TestGet_Inexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.contracts.Get(context.Background(), "nao-existe")
	requireCode(t, err, domain.ErrNotFound, domain.CodeNotFound)
}

func TestGet_SinDiariaOmitePrecio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out, err := f.contracts.Create(ctx, dto.CreateContractRequest{
		FacilityID: noRateID, OwnerID: ownerID, StartDate: "2025-03-10", PetIDs: []string{"p1"},
	})
	require.NoError(t, err)
	assert.Nil(t, out.Contract.Pricing)

	agg, err := f.contracts.Get(ctx, out.Contract.ID)
	require.NoError(t, err)
	assert.Nil(t, agg.Pricing)
	assert.Nil(t, agg.EndDate)

	_, err = f.contracts.ComputePrice(ctx, out.Contract.ID)
	requireCode(t, err, domain.ErrValidation, domain.CodeMissingNightlyRate)
}

func TestListByOwner_FiltroYOrden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t, []string{"p1"})
	b, err := f.contracts.Create(ctx, dto.CreateContractRequest{
		FacilityID: facilityID, OwnerID: ownerID, StartDate: "2025-04-01", PetIDs: []string{"p2"},
	})
	require.NoError(t, err)
	f.moveTo(t, a.ID, entity.StatusApproved)

	all, err := f.contracts.ListByOwner(ctx, ownerID, "")
	require.NoError(t, err)
	require.Equal(t, 2, all.Total)
	assert.Equal(t, b.Contract.ID, all.Contracts[0].ID, "el de inicio más reciente primero")
	assert.Equal(t, a.ID, all.Contracts[1].ID)

	approved, err := f.contracts.ListByOwner(ctx, ownerID, string(entity.StatusApproved))
	require.NoError(t, err)
	require.Equal(t, 1, approved.Total)
	assert.Equal(t, a.ID, approved.Contracts[0].ID)

	none, err := f.contracts.ListByOwner(ctx, otherOwnerID, "")
	require.NoError(t, err)
	assert.Zero(t, none.Total)
	assert.NotNil(t, none.Contracts)

	_, err = f.contracts.ListByOwner(ctx, ownerID, "archived")
	requireCode(t, err, domain.ErrValidation, domain.CodeInvalidStatus)

	_, err = f.contracts.ListByOwner(ctx, "nao-existe", "")
	requireCode(t, err, domain.ErrNotFound, domain.CodeNotFound)
}

func TestUpdate_Fechas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.create(t, []string{"p1"})

	f.now = fixedNow.Add(time.Hour)
	agg, err := f.contracts.Update(ctx, c.ID, dto.UpdateContractRequest{EndDate: strPtr("2025-03-15")})
	require.NoError(t, err)
	require.NotNil(t, agg.EndDate)
	assert.Equal(t, "2025-03-15", *agg.EndDate)
	assert.Equal(t, 5, agg.DurationNights)
	assert.True(t, agg.UpdatedAt.After(agg.CreatedAt))

	agg, err = f.contracts.Update(ctx, c.ID, dto.UpdateContractRequest{ClearEndDate: true})
	require.NoError(t, err)
	assert.Nil(t, agg.EndDate)
	assert.Equal(t, 1, agg.DurationNights)

	_, err = f.contracts.Update(ctx, c.ID, dto.UpdateContractRequest{StartDate: strPtr("2025-02-01")})
	requireCode(t, err, domain.ErrValidation, domain.CodeInvalidDateRange)

	_, err = f.contracts.Update(ctx, c.ID, dto.UpdateContractRequest{})
	requireCode(t, err, domain.ErrValidation, domain.CodeValidation)
}

func TestUpdate_DuplicadoActivo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, []string{"p1"})
	other, err := f.contracts.Create(ctx, dto.CreateContractRequest{
		FacilityID: facilityID, OwnerID: ownerID, StartDate: "2025-03-10", EndDate: strPtr("2025-03-20"), PetIDs: []string{"p2"},
	})
	require.NoError(t, err)

	_, err = f.contracts.Update(ctx, other.Contract.ID, dto.UpdateContractRequest{EndDate: strPtr("2025-03-13")})
	requireCode(t, err, domain.ErrConflict, domain.CodeDuplicateActive)

	// El propio contrato no cuenta como duplicado.
	_, err = f.contracts.Update(ctx, other.Contract.ID, dto.UpdateContractRequest{EndDate: strPtr("2025-03-20")})
	require.NoError(t, err)
}

func TestUpdate_EstadosNoEditables(t *testing.T) {
	for _, st := range []entity.ContractStatus{entity.StatusCompleted, entity.StatusCancelled, entity.StatusDenied} {
		t.Run(string(st), func(t *testing.T) {
			f := newFixture(t)
			c := f.create(t, []string{"p1"})
			f.moveTo(t, c.ID, st)
			_, err := f.contracts.Update(context.Background(), c.ID, dto.UpdateContractRequest{EndDate: strPtr("2025-03-30")})
			requireCode(t, err, domain.ErrIllegalEdit, domain.CodeIllegalEdit)
		})
	}
}

func TestDelete_CascadaYBloqueo(t *testing.T) {
	cases := []struct {
		status  entity.ContractStatus
		blocked bool
	}{
		{entity.StatusPendingApproval, false},
		{entity.StatusApproved, false},
		{entity.StatusInProgress, true},
		{entity.StatusCompleted, true},
		{entity.StatusDenied, false},
		{entity.StatusCancelled, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			c := f.create(t, []string{"p1", "p2"},
				dto.ServiceSelectionRequest{PetID: "p1", ServiceIDs: []string{"s-banho", "s-tosa"}},
				dto.ServiceSelectionRequest{PetID: "p2", ServiceIDs: []string{"s-banho"}},
			)
			f.moveTo(t, c.ID, tc.status)

			out, err := f.contracts.Delete(ctx, c.ID)
			if tc.blocked {
				requireCode(t, err, domain.ErrIllegalEdit, domain.CodeDeletionBlocked)
				pets, lines := f.store.Counts(c.ID)
				assert.Equal(t, 2, pets)
				assert.Equal(t, 3, lines)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 2, out.RemovedPets)
			assert.Equal(t, 3, out.RemovedServiceLines)
			assert.Equal(t, c.ID, out.Deleted.ID)

			pets, lines := f.store.Counts(c.ID)
			assert.Zero(t, pets)
			assert.Zero(t, lines)
			_, err = f.contracts.Get(ctx, c.ID)
			requireCode(t, err, domain.ErrNotFound, domain.CodeNotFound)
		})
	}
}

// blockingRunner no devuelve el control hasta que vence el contexto.
type blockingRunner struct{}

func (blockingRunner) Run(ctx context.Context, _ func(repository.Stores) error) error {
	<-ctx.Done()
	return ctx.Err()
}

func (blockingRunner) View(ctx context.Context, _ func(repository.Stores) error) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestTimeout_SeClasificaComoTimeout(t *testing.T) {
	rec := &spyRecorder{}
	uc := app.NewContractUseCase(blockingRunner{}, nil, app.Options{
		StatementTimeout: 20 * time.Millisecond,
		Now:              func() time.Time { return fixedNow },
		Recorder:         rec,
	})

	_, err := uc.Get(context.Background(), "c-1")
	requireCode(t, err, domain.ErrTimeout, domain.CodeTimeout)

	_, err = uc.Delete(context.Background(), "c-1")
	requireCode(t, err, domain.ErrTimeout, domain.CodeTimeout)
	assert.Equal(t, 1, rec.ops["get"])
	assert.Equal(t, 1, rec.ops["delete"])
}

func TestStatement_SinGenerador(t *testing.T) {
	f := newFixture(t)
	c := f.create(t, []string{"p1"})
	_, err := f.contracts.Statement(context.Background(), c.ID)
	requireCode(t, err, domain.ErrUnavailable, domain.CodeStatementDisabled)
}

type fakeRenderer struct{ got *dto.ContractAggregate }

func (r *fakeRenderer) RenderStatement(_ context.Context, agg *dto.ContractAggregate) ([]byte, error) {
	r.got = agg
	return []byte("%PDF-fake"), nil
}

func TestStatement_UsaAgregadoConPrecio(t *testing.T) {
	f := newFixture(t)
	r := &fakeRenderer{}
	uc := app.NewContractUseCase(f.store, r, app.Options{Now: func() time.Time { return fixedNow }})
	c := f.create(t, []string{"p1"})

	pdf, err := uc.Statement(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(pdf))
	require.NotNil(t, r.got)
	require.NotNil(t, r.got.Pricing)
	assertDecimal(t, "300", r.got.Pricing.Total)
}
