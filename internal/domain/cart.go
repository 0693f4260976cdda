package domain

import "fmt"

const (
	MinItemQuantity = 1
	MaxItemQuantity = 99
)

type CartItem struct {
	ProductID int64
	Quantity  int
}

// ValidateCart rejects empty carts, out of range quantities and repeated products.
func ValidateCart(items []CartItem) error {
	if len(items) == 0 {
		return NewInvalidCartError("cart is empty")
	}

	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if item.ProductID <= 0 {
			return NewInvalidCartError(fmt.Sprintf("invalid product id %d", item.ProductID))
		}
		if item.Quantity < MinItemQuantity || item.Quantity > MaxItemQuantity {
			return NewInvalidCartError(fmt.Sprintf(
				"quantity %d for product %d must be between %d and %d",
				item.Quantity, item.ProductID, MinItemQuantity, MaxItemQuantity,
			))
		}
		if _, dup := seen[item.ProductID]; dup {
			return NewInvalidCartError(fmt.Sprintf("product %d appears more than once", item.ProductID))
		}
		seen[item.ProductID] = struct{}{}
	}
	return nil
}

// ProductIDs returns the cart's product ids in cart order.
func ProductIDs(items []CartItem) []int64 {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	return ids
}
