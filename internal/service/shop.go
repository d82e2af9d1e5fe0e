package service

import (
	"context"
	"strings"

	"tamapet-data-api/internal/model"
	"tamapet-data-api/internal/repository"
	"tamapet-data-api/pkg/apierror"
)

const maxPurchaseQuantity = 99

// ShopService validates inputs and delegates to the shop repository.
type ShopService struct {
	shop repository.ShopRepository
}

// NewShopService creates a new shop service.
// Returns nil if shop is nil (required dependency).
func NewShopService(shop repository.ShopRepository) *ShopService {
	if shop == nil {
		return nil
	}
	return &ShopService{shop: shop}
}

// Items returns the catalog ordered by category then price.
func (s *ShopService) Items(ctx context.Context) ([]model.Item, error) {
	return s.shop.ListItems(ctx)
}

// Buy purchases quantity of the named item for the user's pet.
// Business failures (missing pet/item, insufficient funds) come back
// inside the result.
func (s *ShopService) Buy(ctx context.Context, userID int64, itemName string, quantity int64) (model.PurchaseResult, error) {
	if userID <= 0 {
		return model.PurchaseResult{}, apierror.BadRequest("invalid user id")
	}
	if strings.TrimSpace(itemName) == "" {
		return model.PurchaseResult{}, apierror.BadRequest("item name is required")
	}
	if quantity < 1 || quantity > maxPurchaseQuantity {
		return model.PurchaseResult{}, apierror.BadRequest("quantity out of range")
	}
	return s.shop.Purchase(ctx, userID, itemName, quantity)
}
