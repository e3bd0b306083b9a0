package contract_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/hospedagem-api/internal/domain"
	"github.com/jhoicas/hospedagem-api/internal/domain/contract"
)

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{"pending_approval", "approved", "in_progress", "completed", "denied", "cancelled"} {
		assert.True(t, contract.IsValidStatus(s), s)
	}
	for _, s := range []string{"", "PENDING_APPROVAL", "archived", "canceled"} {
		assert.False(t, contract.IsValidStatus(s), s)
	}
}

func TestValidateDateRange(t *testing.T) {
	today := date("2025-06-10")

	assert.NoError(t, contract.ValidateDateRange(date("2025-06-10"), nil, today))
	assert.NoError(t, contract.ValidateDateRange(date("2025-06-10"), datePtr("2025-06-10"), today))
	assert.NoError(t, contract.ValidateDateRange(date("2025-06-11"), datePtr("2025-06-20"), today))

	err := contract.ValidateDateRange(date("2025-06-09"), nil, today)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	de, _ := domain.AsError(err)
	assert.Equal(t, domain.CodeInvalidDateRange, de.Code)

	err = contract.ValidateDateRange(date("2025-06-12"), datePtr("2025-06-11"), today)
	de, _ = domain.AsError(err)
	if assert.NotNil(t, de) {
		assert.Equal(t, domain.CodeInvalidDateRange, de.Code)
	}
}

func TestValidateQuantity(t *testing.T) {
	assert.NoError(t, contract.ValidateQuantity(1))
	assert.NoError(t, contract.ValidateQuantity(7))
	assert.Error(t, contract.ValidateQuantity(0))
	assert.Error(t, contract.ValidateQuantity(-3))
}

func TestDuplicateIDs(t *testing.T) {
	assert.Empty(t, contract.DuplicateIDs([]string{"a", "b", "c"}))
	assert.Equal(t, []string{"b", "a"}, contract.DuplicateIDs([]string{"a", "b", "b", "a", "b"}))
}
