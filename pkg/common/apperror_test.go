package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsProviderCapabilityGap(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    bool
	}{
		{"english not implemented", "transfer not implemented for this provider", true},
		{"portuguese nao implementado", "payout não implementado", true},
		{"portuguese nao suportado", "Provider não suportado para transferências", true},
		{"mixed case", "NOT IMPLEMENTED", true},
		{"ordinary failure", "insufficient balance", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsProviderCapabilityGap(tt.message))
		})
	}
}

func TestNewApplicationError_ClassifiesCapabilityGap(t *testing.T) {
	err := NewApplicationError("pix payout não suportado", nil)
	assert.Equal(t, CodeProviderCapability, err.Code)

	err = NewApplicationError("split not eligible", nil)
	assert.Equal(t, CodeApplication, err.Code)
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewTransportError("falha de comunicação", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusBadGateway, err.Status)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAsAppError(t *testing.T) {
	appErr := NewNotFoundError("split não encontrado")
	wrapped := fmt.Errorf("fetching detail: %w", appErr)

	got, ok := AsAppError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, CodeNotFound, got.Code)

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
}
