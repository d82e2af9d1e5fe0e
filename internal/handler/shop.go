package handler

import (
	"encoding/json"
	"net/http"

	"tamapet-data-api/internal/model"
	"tamapet-data-api/internal/service"
	"tamapet-data-api/pkg/apierror"
	"tamapet-data-api/pkg/response"
)

// ShopHandler handles shop-related HTTP requests.
type ShopHandler struct {
	shopService *service.ShopService
}

// NewShopHandler creates a new shop handler.
func NewShopHandler(shopService *service.ShopService) *ShopHandler {
	return &ShopHandler{shopService: shopService}
}

// ListItems handles GET /api/v1/shop/items
func (h *ShopHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.shopService.Items(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}

	response.OK(w, items)
}

// PurchaseRequest is the body of the purchase endpoint.
type PurchaseRequest struct {
	Item     string `json:"item"`
	Quantity int64  `json:"quantity"`
}

// Purchase handles POST /api/v1/shop/{discord_id}/purchase
func (h *ShopHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	var req PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}

	result, err := h.shopService.Buy(r.Context(), userID, req.Item, req.Quantity)
	if err != nil {
		response.Error(w, err)
		return
	}

	if !result.Success {
		switch result.Reason {
		case model.PurchaseNotFound:
			response.Error(w, apierror.NotFound("item or pet not found"))
		case model.PurchaseInsufficientFunds:
			response.Error(w, apierror.InsufficientFunds())
		default:
			response.Error(w, apierror.InternalError(""))
		}
		return
	}

	response.OK(w, result)
}
