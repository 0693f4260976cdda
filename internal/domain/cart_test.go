package domain_test

import (
	"testing"

	"github.com/DanielPopoola/gymfit-backoffice/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestValidateCart(t *testing.T) {
	tests := []struct {
		name    string
		items   []domain.CartItem
		wantErr bool
	}{
		{"valid cart", []domain.CartItem{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 99}}, false},
		{"empty cart", nil, true},
		{"zero quantity", []domain.CartItem{{ProductID: 1, Quantity: 0}}, true},
		{"quantity above max", []domain.CartItem{{ProductID: 1, Quantity: 100}}, true},
		{"duplicate product", []domain.CartItem{{ProductID: 1, Quantity: 1}, {ProductID: 1, Quantity: 2}}, true},
		{"non positive product id", []domain.CartItem{{ProductID: 0, Quantity: 1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateCart(tt.items)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidCart)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestProductIDs(t *testing.T) {
	ids := domain.ProductIDs([]domain.CartItem{{ProductID: 4, Quantity: 1}, {ProductID: 2, Quantity: 3}})
	assert.Equal(t, []int64{4, 2}, ids)
}
