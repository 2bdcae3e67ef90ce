package model

import "fmt"

// InventoryItem is one household item on the user's list.
type InventoryItem struct {
	ID         int64     `json:"id"`
	ItemName   string    `json:"item_name"`
	Image      string    `json:"image,omitempty"`
	PropertyID int64     `json:"property_id"`
	CreatedAt  Timestamp `json:"created_at"`
}

// Validate checks the fields the frontend relies on.
func (i *InventoryItem) Validate() error {
	if i.ID <= 0 {
		return fmt.Errorf("inventory item: invalid id %d", i.ID)
	}
	if i.ItemName == "" {
		return fmt.Errorf("inventory item %d: missing name", i.ID)
	}
	return nil
}
