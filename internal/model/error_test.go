package model

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		target   error
		expected bool
	}{
		{
			name:     "Detailed invalid order matches sentinel",
			err:      InvalidOrder("name must be at least 2 characters"),
			target:   ErrInvalidOrder,
			expected: true,
		},
		{
			name:     "Wrapped storage error matches sentinel",
			err:      fmt.Errorf("failed to read catalog: %w", StorageUnavailable(fs.ErrNotExist)),
			target:   ErrStorageUnavailable,
			expected: true,
		},
		{
			name:     "Storage error exposes cause",
			err:      StorageUnavailable(fs.ErrNotExist),
			target:   fs.ErrNotExist,
			expected: true,
		},
		{
			name:     "Different codes do not match",
			err:      NotifyFailed(errors.New("timeout")),
			target:   ErrStorageUnavailable,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, errors.Is(tt.err, tt.target))
		})
	}
}

func TestDomainError_Error(t *testing.T) {
	assert.Equal(t, "cart must contain at least one item", InvalidOrder("cart must contain at least one item").Error())
	assert.Equal(t,
		"Order notification could not be delivered: telegram returned status 502",
		NotifyFailed(errors.New("telegram returned status 502")).Error(),
	)
}

func TestOrder_Total(t *testing.T) {
	order := Order{
		Cart: []CartItem{
			{Title: "Tea", Price: 10, Amount: 2},
			{Title: "Cake", Price: 35, Amount: 1},
		},
	}

	assert.Equal(t, 20, order.Cart[0].LineTotal())
	assert.Equal(t, 55, order.Total())
}

func TestProductInput_Product(t *testing.T) {
	id, price, discount := 7, 120, 15
	title, image := "Green tea", "/img/tea.png"

	in := ProductInput{ID: &id, Title: &title, Price: &price, Image: &image, DiscountPercentage: &discount}

	assert.Equal(t, Product{ID: 7, Title: "Green tea", Price: 120, Image: "/img/tea.png", DiscountPercentage: 15}, in.Product())
}
