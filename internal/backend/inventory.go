package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/erazemk/hamanasi/internal/model"
)

// InventoryRequest is the body of inventory create and update calls.
type InventoryRequest struct {
	ItemName   string `json:"item_name"`
	Image      string `json:"image,omitempty"`
	PropertyID int64  `json:"property_id"`
}

type inventoryResponse struct {
	Inventory *model.InventoryItem `json:"inventory"`
}

// ListInventory returns the inventory items.
func (s *Session) ListInventory(ctx context.Context) ([]model.InventoryItem, error) {
	var resp struct {
		Inventory []model.InventoryItem `json:"inventory"`
	}
	if err := s.do(ctx, http.MethodGet, "/inventory", nil, &resp); err != nil {
		return nil, err
	}
	if err := validateEach(resp.Inventory); err != nil {
		return nil, err
	}
	return resp.Inventory, nil
}

// CreateInventory adds an inventory item.
func (s *Session) CreateInventory(ctx context.Context, req InventoryRequest) (*model.InventoryItem, error) {
	var resp inventoryResponse
	if err := s.do(ctx, http.MethodPost, "/inventory", req, &resp); err != nil {
		return nil, err
	}
	if err := validateOne(resp.Inventory); err != nil {
		return nil, err
	}
	return resp.Inventory, nil
}

// UpdateInventory replaces an inventory item's name and image.
func (s *Session) UpdateInventory(ctx context.Context, id int64, req InventoryRequest) (*model.InventoryItem, error) {
	var resp inventoryResponse
	if err := s.do(ctx, http.MethodPut, fmt.Sprintf("/inventory/%d", id), req, &resp); err != nil {
		return nil, err
	}
	if err := validateOne(resp.Inventory); err != nil {
		return nil, err
	}
	return resp.Inventory, nil
}

// DeleteInventory removes an inventory item.
func (s *Session) DeleteInventory(ctx context.Context, id int64) error {
	return s.do(ctx, http.MethodDelete, fmt.Sprintf("/inventory/%d", id), nil, nil)
}
