package contract_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hospedagem-api/internal/domain"
	"github.com/jhoicas/hospedagem-api/internal/domain/contract"
	"github.com/jhoicas/hospedagem-api/internal/domain/entity"
)

func petsOf(owner string, ids ...string) map[string]*entity.Pet {
	m := make(map[string]*entity.Pet, len(ids))
	for _, id := range ids {
		m[id] = &entity.Pet{ID: id, OwnerID: owner, Name: id}
	}
	return m
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	de, ok := domain.AsError(err)
	require.True(t, ok, "se esperaba *domain.Error, llegó %v", err)
	return de.Code
}

func TestCheckPetsToAttach(t *testing.T) {
	pets := petsOf("u-1", "p1", "p2", "p3")
	pets["px"] = &entity.Pet{ID: "px", OwnerID: "u-2"}

	t.Run("lista vacía", func(t *testing.T) {
		err := contract.CheckPetsToAttach(nil, []string{"p1"}, pets, "u-1")
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})
	t.Run("repetidos", func(t *testing.T) {
		err := contract.CheckPetsToAttach([]string{"p2", "p3", "p2"}, []string{"p1"}, pets, "u-1")
		require.Error(t, err)
		assert.Equal(t, domain.CodeDuplicateIDs, codeOf(t, err))
		de, _ := domain.AsError(err)
		assert.Equal(t, []string{"p2"}, de.Details["pet_ids"])
	})
	t.Run("ya vinculado reporta los ids en conflicto", func(t *testing.T) {
		err := contract.CheckPetsToAttach([]string{"p1", "p2"}, []string{"p1"}, pets, "u-1")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvariant))
		de, _ := domain.AsError(err)
		assert.Equal(t, []string{"p1"}, de.Details["pet_ids"])
	})
	t.Run("pet de otro tutor", func(t *testing.T) {
		err := contract.CheckPetsToAttach([]string{"px"}, []string{"p1"}, pets, "u-1")
		assert.Equal(t, domain.CodePetNotOwned, codeOf(t, err))
	})
	t.Run("pet inexistente", func(t *testing.T) {
		err := contract.CheckPetsToAttach([]string{"nope"}, []string{"p1"}, pets, "u-1")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
	t.Run("válido", func(t *testing.T) {
		assert.NoError(t, contract.CheckPetsToAttach([]string{"p2", "p3"}, []string{"p1"}, pets, "u-1"))
	})
}

func TestCheckPetDetach(t *testing.T) {
	err := contract.CheckPetDetach([]string{"p1"}, "p1")
	require.Error(t, err)
	assert.Equal(t, domain.CodeCannotRemoveLastPet, codeOf(t, err))

	err = contract.CheckPetDetach([]string{"p1", "p2"}, "p9")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	assert.NoError(t, contract.CheckPetDetach([]string{"p1", "p2"}, "p2"))
}

func TestCheckServiceSelections(t *testing.T) {
	catalog := map[string]*entity.Service{
		"banho":   {ID: "banho", FacilityID: "h-1", Price: dec("50.00"), Active: true},
		"tosa":    {ID: "tosa", FacilityID: "h-1", Price: dec("70.00"), Active: true},
		"inativo": {ID: "inativo", FacilityID: "h-1", Price: dec("10.00"), Active: false},
		"alheio":  {ID: "alheio", FacilityID: "h-2", Price: dec("10.00"), Active: true},
	}
	existing := []entity.ServiceAssignment{{PetID: "p1", ServiceID: "banho", Quantity: 1, UnitPrice: dec("45.00")}}
	attached := []string{"p1", "p2"}

	cases := []struct {
		name string
		sel  []contract.ServiceSelection
		kind error
		code string
	}{
		{"vacío", nil, domain.ErrValidation, domain.CodeValidation},
		{"repetido en el grupo", []contract.ServiceSelection{{PetID: "p2", ServiceIDs: []string{"tosa", "tosa"}}}, domain.ErrValidation, domain.CodeDuplicateIDs},
		{"pet no vinculado", []contract.ServiceSelection{{PetID: "p9", ServiceIDs: []string{"tosa"}}}, domain.ErrInvariant, domain.CodePetNotAttached},
		{"línea existente", []contract.ServiceSelection{{PetID: "p1", ServiceIDs: []string{"tosa", "banho"}}}, domain.ErrInvariant, domain.CodeDuplicateServiceLine},
		{"repetido entre grupos", []contract.ServiceSelection{
			{PetID: "p2", ServiceIDs: []string{"tosa"}},
			{PetID: "p2", ServiceIDs: []string{"tosa"}},
		}, domain.ErrInvariant, domain.CodeDuplicateServiceLine},
		{"inexistente", []contract.ServiceSelection{{PetID: "p2", ServiceIDs: []string{"nope"}}}, domain.ErrNotFound, domain.CodeNotFound},
		{"inactivo", []contract.ServiceSelection{{PetID: "p2", ServiceIDs: []string{"inativo"}}}, domain.ErrInvariant, domain.CodeServiceUnavailable},
		{"de otra hospedagem", []contract.ServiceSelection{{PetID: "p2", ServiceIDs: []string{"alheio"}}}, domain.ErrInvariant, domain.CodeServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := contract.CheckServiceSelections(tc.sel, attached, existing, catalog, "h-1")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.kind))
			assert.Equal(t, tc.code, codeOf(t, err))
		})
	}

	ok := []contract.ServiceSelection{
		{PetID: "p1", ServiceIDs: []string{"tosa"}},
		{PetID: "p2", ServiceIDs: []string{"banho", "tosa"}},
	}
	require.NoError(t, contract.CheckServiceSelections(ok, attached, existing, catalog, "h-1"))

	lines := contract.BuildServiceLines("c-1", ok, catalog, date("2025-01-01"))
	require.Len(t, lines, 3)
	for _, l := range lines {
		assert.Equal(t, 1, l.Quantity)
		assert.True(t, l.UnitPrice.Equal(catalog[l.ServiceID].Price), "precio congelado del catálogo")
	}
	assert.Equal(t, []string{"banho", "tosa"}, contract.SelectionServiceIDs(ok))
}
