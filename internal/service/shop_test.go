package service

import (
	"context"
	"testing"

	"tamapet-data-api/internal/model"
)

type fakeShopRepo struct {
	boughtItem string
	boughtQty  int64
}

func (f *fakeShopRepo) ListItems(ctx context.Context) ([]model.Item, error) {
	return []model.Item{{Name: "candy"}}, nil
}

func (f *fakeShopRepo) Purchase(ctx context.Context, userID int64, itemName string, quantity int64) (model.PurchaseResult, error) {
	f.boughtItem = itemName
	f.boughtQty = quantity
	return model.PurchaseResult{Success: true, Cost: quantity}, nil
}

func TestBuyValidation(t *testing.T) {
	svc := NewShopService(&fakeShopRepo{})
	ctx := context.Background()

	if _, err := svc.Buy(ctx, 0, "candy", 1); err == nil {
		t.Error("invalid user should fail")
	}
	if _, err := svc.Buy(ctx, 1, "  ", 1); err == nil {
		t.Error("blank item should fail")
	}
	if _, err := svc.Buy(ctx, 1, "candy", 0); err == nil {
		t.Error("zero quantity should fail")
	}
	if _, err := svc.Buy(ctx, 1, "candy", maxPurchaseQuantity+1); err == nil {
		t.Error("oversized quantity should fail")
	}
}

func TestBuyDelegates(t *testing.T) {
	repo := &fakeShopRepo{}
	svc := NewShopService(repo)

	result, err := svc.Buy(context.Background(), 1, "candy", 3)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if !result.Success {
		t.Error("expected success passthrough")
	}
	if repo.boughtItem != "candy" || repo.boughtQty != 3 {
		t.Errorf("delegated %s x%d, want candy x3", repo.boughtItem, repo.boughtQty)
	}
}
