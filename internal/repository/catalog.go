package repository

import "tamapet-data-api/internal/model"

// defaultCatalog is seeded into the items table on first run. Item
// names are unique; reseeding is a no-op.
var defaultCatalog = []model.Item{
	{Name: "candy", Category: "food", Price: 5},
	{Name: "salad", Category: "food", Price: 10},
	{Name: "burger", Category: "food", Price: 15},
	{Name: "soap", Category: "care", Price: 8},
	{Name: "potion", Category: "care", Price: 10},
	{Name: "medicine", Category: "care", Price: 20},
	{Name: "ball", Category: "play", Price: 12},
	{Name: "toy", Category: "play", Price: 25},
}

// Starter items every new pet gets at quantity 1; the rest of the
// catalog seeds at 0.
const (
	starterItemMedicine = "medicine"
	starterItemToy      = "toy"
)
