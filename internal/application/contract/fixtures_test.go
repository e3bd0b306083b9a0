package contract_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/jhoicas/hospedagem-api/internal/application/contract"
	"github.com/jhoicas/hospedagem-api/internal/application/dto"
	"github.com/jhoicas/hospedagem-api/internal/domain"
	"github.com/jhoicas/hospedagem-api/internal/domain/entity"
	"github.com/jhoicas/hospedagem-api/internal/infrastructure/memory"
)

const (
	facilityID   = "hosp-1"
	noRateID     = "hosp-sem-diaria"
	ownerID      = "tutor-1"
	otherOwnerID = "tutor-2"
)

// 1 de marzo de 2025, mediodía UTC.
var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store       *memory.Store
	contracts   *app.ContractUseCase
	composition *app.CompositionUseCase
	status      *app.StatusUseCase
	now         time.Time
	recorder    *spyRecorder
}

type spyRecorder struct {
	ops         map[string]int
	transitions []string
}

func (r *spyRecorder) ObserveOperation(op string, _ error, _ time.Duration) {
	if r.ops == nil {
		r.ops = make(map[string]int)
	}
	r.ops[op]++
}

func (r *spyRecorder) ObserveTransition(from, to entity.ContractStatus) {
	r.transitions = append(r.transitions, string(from)+"->"+string(to))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	rate := decimal.RequireFromString("100.00")
	store.PutFacility(entity.Facility{
		ID:          facilityID,
		Name:        "Hotelzinho Patas",
		NightlyRate: &rate,
		Address: &entity.Address{
			Street: "Rua das Flores", Number: "120", Neighborhood: "Centro", City: "Campinas", State: "SP",
		},
	})
	store.PutFacility(entity.Facility{ID: noRateID, Name: "Sem diária"})
	store.PutOwner(entity.Owner{ID: ownerID, Name: "Ana"})
	store.PutOwner(entity.Owner{ID: otherOwnerID, Name: "Bruno"})
	for _, p := range []entity.Pet{
		{ID: "p1", OwnerID: ownerID, Name: "Thor", Species: "Cachorro"},
		{ID: "p2", OwnerID: ownerID, Name: "Mel", Species: "Gato"},
		{ID: "p3", OwnerID: ownerID, Name: "Luna", Species: "Cachorro"},
		{ID: "p9", OwnerID: otherOwnerID, Name: "Rex", Species: "Cachorro"},
	} {
		store.PutPet(p)
	}
	for _, s := range []entity.Service{
		{ID: "s-banho", FacilityID: facilityID, Name: "Banho", Price: decimal.RequireFromString("50.00"), Active: true},
		{ID: "s-tosa", FacilityID: facilityID, Name: "Tosa", Price: decimal.RequireFromString("30.00"), Active: true},
		{ID: "s-inativo", FacilityID: facilityID, Name: "Passeio", Price: decimal.RequireFromString("20.00"), Active: false},
		{ID: "s-outra", FacilityID: noRateID, Name: "Banho", Price: decimal.RequireFromString("45.00"), Active: true},
	} {
		store.PutService(s)
	}

	f := &fixture{store: store, now: fixedNow, recorder: &spyRecorder{}}
	opts := app.Options{Location: time.UTC, Now: func() time.Time { return f.now }, Recorder: f.recorder}
	f.contracts = app.NewContractUseCase(store, nil, opts)
	f.composition = app.NewCompositionUseCase(store, opts)
	f.status = app.NewStatusUseCase(store, opts)
	return f
}

func strPtr(s string) *string { return &s }

// create contrato 2025-03-10 → 2025-03-13 en hosp-1 con los pets indicados.
func (f *fixture) create(t *testing.T, petIDs []string, services ...dto.ServiceSelectionRequest) *dto.ContractAggregate {
	t.Helper()
	out, err := f.contracts.Create(context.Background(), dto.CreateContractRequest{
		FacilityID: facilityID,
		OwnerID:    ownerID,
		StartDate:  "2025-03-10",
		EndDate:    strPtr("2025-03-13"),
		PetIDs:     petIDs,
		Services:   services,
	})
	require.NoError(t, err)
	return out.Contract
}

// moveTo lleva el contrato al estado indicado por el camino feliz.
func (f *fixture) moveTo(t *testing.T, id string, target entity.ContractStatus) {
	t.Helper()
	paths := map[entity.ContractStatus][]entity.ContractStatus{
		entity.StatusPendingApproval: {},
		entity.StatusApproved:        {entity.StatusApproved},
		entity.StatusInProgress:      {entity.StatusApproved, entity.StatusInProgress},
		entity.StatusCompleted:       {entity.StatusApproved, entity.StatusInProgress, entity.StatusCompleted},
		entity.StatusDenied:          {entity.StatusDenied},
		entity.StatusCancelled:       {entity.StatusCancelled},
	}
	saved := f.now
	f.now = time.Date(2025, 3, 20, 9, 0, 0, 0, time.UTC)
	defer func() { f.now = saved }()
	for _, st := range paths[target] {
		_, err := f.status.Transition(context.Background(), id, string(st), "motivo")
		require.NoError(t, err)
	}
}

func requireCode(t *testing.T, err error, kind error, code string) *domain.Error {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, kind), "clase esperada %v, obtenida %v", kind, domain.KindOf(err))
	de, ok := domain.AsError(err)
	require.True(t, ok, "se esperaba *domain.Error: %v", err)
	assert.Equal(t, code, de.Code)
	return de
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "esperado %s, obtenido %s", want, got)
}
