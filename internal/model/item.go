package model

// Item is one shop catalog entry. Reference data, cached aggressively.
type Item struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    int64  `json:"price"`
}

// CatalogSnapshot is the cached form of the shop catalog.
type CatalogSnapshot struct {
	Version int    `json:"v"`
	Items   []Item `json:"items"`
}

// PurchaseReason is a machine-readable reason for a failed purchase.
type PurchaseReason string

const (
	// PurchaseNotFound means the item or the buyer's pet does not exist.
	PurchaseNotFound PurchaseReason = "not_found"
	// PurchaseInsufficientFunds means the pet cannot afford the total cost.
	PurchaseInsufficientFunds PurchaseReason = "insufficient_funds"
)

// PurchaseResult is the outcome of a shop purchase. Business-rule
// failures are carried here, not as errors.
type PurchaseResult struct {
	Success bool           `json:"success"`
	Cost    int64          `json:"cost,omitempty"`
	Reason  PurchaseReason `json:"reason,omitempty"`
}
