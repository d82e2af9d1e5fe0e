package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"tamapet-data-api/internal/database"
	"tamapet-data-api/internal/model"
)

// MySQLShopRepository implements ShopRepository using MySQL.
type MySQLShopRepository struct {
	mgr *database.Manager
	db  *sql.DB
}

// NewMySQLShopRepository creates a MySQL shop repository on the
// manager's pool and bootstraps the schema.
func NewMySQLShopRepository(mgr *database.Manager) (*MySQLShopRepository, error) {
	if err := ensureMySQLSchema(mgr.DB()); err != nil {
		return nil, err
	}
	log.Printf("[ShopRepository] mysql backend ready")
	return &MySQLShopRepository{mgr: mgr, db: mgr.DB()}, nil
}

// ListItems returns the catalog ordered by category then price,
// cache-aside under shop:items.
func (r *MySQLShopRepository) ListItems(ctx context.Context) ([]model.Item, error) {
	if items := cachedCatalog(ctx, r.mgr.Cache()); items != nil {
		return items, nil
	}

	opCtx, cancel := r.mgr.OpContext(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(opCtx,
		`SELECT id, name, category, price FROM items ORDER BY category, price`)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Category, &it.Price); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}

	storeCatalog(ctx, r.mgr.Cache(), items)
	return items, nil
}

// Purchase runs the balance check, deduction and inventory upsert in
// one transaction, with the deduction guarded by the balance.
func (r *MySQLShopRepository) Purchase(ctx context.Context, userID int64, itemName string, quantity int64) (model.PurchaseResult, error) {
	opCtx, cancel := r.mgr.OpContext(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(opCtx, nil)
	if err != nil {
		return model.PurchaseResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		itemID, price int64
		petID, coins  int64
	)
	err = tx.QueryRowContext(opCtx, `
		SELECT i.id, i.price, p.id, p.coins
		FROM items i, pets p
		WHERE i.name = ? AND p.user_id = ?`, itemName, userID).Scan(
		&itemID, &price, &petID, &coins)
	if err == sql.ErrNoRows {
		return model.PurchaseResult{Reason: model.PurchaseNotFound}, nil
	}
	if err != nil {
		return model.PurchaseResult{}, fmt.Errorf("failed to fetch item and pet: %w", err)
	}

	totalCost := price * quantity
	if coins < totalCost {
		return model.PurchaseResult{Reason: model.PurchaseInsufficientFunds}, nil
	}

	res, err := tx.ExecContext(opCtx,
		`UPDATE pets SET coins = coins - ? WHERE id = ? AND coins >= ?`,
		totalCost, petID, totalCost)
	if err != nil {
		return model.PurchaseResult{}, fmt.Errorf("failed to deduct coins: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return model.PurchaseResult{}, err
	} else if affected == 0 {
		return model.PurchaseResult{Reason: model.PurchaseInsufficientFunds}, nil
	}

	if _, err := tx.ExecContext(opCtx, `
		INSERT INTO pet_items (pet_id, item_id, quantity)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`,
		petID, itemID, quantity); err != nil {
		return model.PurchaseResult{}, fmt.Errorf("failed to add items: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.PurchaseResult{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	invalidatePet(ctx, r.mgr.Cache(), userID)

	return model.PurchaseResult{Success: true, Cost: totalCost}, nil
}

// Ensure MySQLShopRepository implements ShopRepository
var _ ShopRepository = (*MySQLShopRepository)(nil)
