package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_Localized(t *testing.T) {
	assert.Equal(t, "Requested quantity is no longer in stock", ErrOutOfStock.Localized("en"))
	assert.Equal(t, "الكمية المطلوبة لم تعد متوفرة", ErrOutOfStock.Localized("ar"))

	// Unknown tags and a missing translation both fall back to English.
	assert.Equal(t, ErrCartEmpty.Message, ErrCartEmpty.Localized("fr"))
	noArabic := NewDomainError("TEST", "english only", "")
	assert.Equal(t, "english only", noArabic.Localized("ar"))
}

func TestDomainError_ErrorsAs(t *testing.T) {
	wrapped := fmt.Errorf("failed to add item: %w", ErrOutOfStock)

	var domainErr *DomainError
	require.True(t, errors.As(wrapped, &domainErr))
	assert.Equal(t, ErrCodeOutOfStock, domainErr.Code)
}

func TestNewMissingFieldError(t *testing.T) {
	err := NewMissingFieldError("phone")
	assert.Equal(t, ErrCodeMissingField, err.Code)
	assert.Contains(t, err.Message, "phone")
	assert.Contains(t, err.MessageAr, "phone")
}
