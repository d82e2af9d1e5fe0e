package repository

import (
	"context"
	"testing"

	"tamapet-data-api/internal/model"
)

func TestListItemsOrderedByCategoryThenPrice(t *testing.T) {
	_, shop, _ := newTestRepos(t)

	items, err := shop.ListItems(context.Background())
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != len(defaultCatalog) {
		t.Fatalf("items = %d, want %d", len(items), len(defaultCatalog))
	}

	want := []string{"soap", "potion", "medicine", "candy", "salad", "burger", "ball", "toy"}
	for i, name := range want {
		if items[i].Name != name {
			t.Errorf("items[%d] = %s, want %s", i, items[i].Name, name)
		}
	}
}

func TestListItemsServedFromCache(t *testing.T) {
	_, shop, mgr := newTestRepos(t)
	ctx := context.Background()

	if _, err := shop.ListItems(ctx); err != nil {
		t.Fatalf("first list: %v", err)
	}

	// Remove the table under the repository. A second read inside the
	// TTL window must come from the cache and never notice.
	if _, err := mgr.DB().Exec(`DROP TABLE items`); err != nil {
		t.Fatalf("drop items table: %v", err)
	}

	items, err := shop.ListItems(ctx)
	if err != nil {
		t.Fatalf("cached list: %v", err)
	}
	if len(items) != len(defaultCatalog) {
		t.Fatalf("cached items = %d, want %d", len(items), len(defaultCatalog))
	}
}

func TestPurchaseInsufficientFunds(t *testing.T) {
	pets, shop, _ := newTestRepos(t)
	ctx := context.Background()

	if _, err := pets.Create(ctx, 71, "Oyajitchi"); err != nil {
		t.Fatalf("create pet: %v", err)
	}
	if _, err := pets.Update(ctx, 71, model.PetUpdate{Coins: int64Ptr(25)}); err != nil {
		t.Fatalf("set coins: %v", err)
	}

	// potion costs 10, three of them cost 30
	result, err := shop.Purchase(ctx, 71, "potion", 3)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if result.Success {
		t.Fatal("purchase with 25 coins should fail")
	}
	if result.Reason != model.PurchaseInsufficientFunds {
		t.Errorf("reason = %q, want %q", result.Reason, model.PurchaseInsufficientFunds)
	}

	pet, err := pets.GetByUser(ctx, 71)
	if err != nil {
		t.Fatalf("get pet: %v", err)
	}
	if pet.Coins != 25 {
		t.Errorf("failed purchase changed balance: coins = %d, want 25", pet.Coins)
	}
	if pet.Items["potion"] != 0 {
		t.Errorf("failed purchase granted items: potion = %d, want 0", pet.Items["potion"])
	}
}

func TestPurchaseSuccess(t *testing.T) {
	pets, shop, _ := newTestRepos(t)
	ctx := context.Background()

	if _, err := pets.Create(ctx, 72, "Mimitchi"); err != nil {
		t.Fatalf("create pet: %v", err)
	}
	if _, err := pets.Update(ctx, 72, model.PetUpdate{Coins: int64Ptr(30)}); err != nil {
		t.Fatalf("set coins: %v", err)
	}

	// Warm the pet cache so the purchase has a stale copy to invalidate.
	if _, err := pets.GetByUser(ctx, 72); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	result, err := shop.Purchase(ctx, 72, "potion", 3)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if !result.Success {
		t.Fatalf("purchase failed: %+v", result)
	}
	if result.Cost != 30 {
		t.Errorf("cost = %d, want 30", result.Cost)
	}

	pet, err := pets.GetByUser(ctx, 72)
	if err != nil {
		t.Fatalf("get pet after purchase: %v", err)
	}
	if pet.Coins != 0 {
		t.Errorf("balance = %d, want 0", pet.Coins)
	}
	if pet.Items["potion"] != 3 {
		t.Errorf("potion quantity = %d, want 3", pet.Items["potion"])
	}
}

func TestPurchaseUnknownItem(t *testing.T) {
	pets, shop, _ := newTestRepos(t)
	ctx := context.Background()

	if _, err := pets.Create(ctx, 73, "Kusatchi"); err != nil {
		t.Fatalf("create pet: %v", err)
	}

	result, err := shop.Purchase(ctx, 73, "no-such-item", 1)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if result.Success || result.Reason != model.PurchaseNotFound {
		t.Errorf("result = %+v, want not_found failure", result)
	}
}

func TestPurchaseWithoutPet(t *testing.T) {
	_, shop, _ := newTestRepos(t)

	result, err := shop.Purchase(context.Background(), 9999, "potion", 1)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if result.Success || result.Reason != model.PurchaseNotFound {
		t.Errorf("result = %+v, want not_found failure", result)
	}
}
