// Package inventory manages the user's household item list. Every change is
// followed by a full re-fetch so the page always shows what the backend
// holds.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/erazemk/hamanasi/internal/backend"
	"github.com/erazemk/hamanasi/internal/imaging"
	"github.com/erazemk/hamanasi/internal/model"
)

// ErrNameRequired is returned when an item has no name.
var ErrNameRequired = errors.New("item name is required")

// Backend is the slice of the API the inventory page uses.
type Backend interface {
	ListInventory(ctx context.Context) ([]model.InventoryItem, error)
	CreateInventory(ctx context.Context, req backend.InventoryRequest) (*model.InventoryItem, error)
	UpdateInventory(ctx context.Context, id int64, req backend.InventoryRequest) (*model.InventoryItem, error)
	DeleteInventory(ctx context.Context, id int64) error
	Upload(ctx context.Context, filename, mime string, data []byte) (string, error)
}

// Photo is an optional image attached to a create or update.
type Photo struct {
	Filename string
	Body     io.Reader
}

// Manager runs inventory changes.
type Manager struct {
	propertyID int64
}

// NewManager creates a Manager that files new items under propertyID.
func NewManager(propertyID int64) *Manager {
	if propertyID <= 0 {
		propertyID = 1
	}
	return &Manager{propertyID: propertyID}
}

// List returns the current items.
func (m *Manager) List(ctx context.Context, b Backend) ([]model.InventoryItem, error) {
	items, err := b.ListInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}
	return items, nil
}

// Create adds an item, uploading its photo first when one is given. It
// returns the re-fetched list alongside any error from the change itself.
func (m *Manager) Create(ctx context.Context, b Backend, name string, photo *Photo) ([]model.InventoryItem, error) {
	err := m.create(ctx, b, name, photo)
	return m.refetch(ctx, b, err)
}

func (m *Manager) create(ctx context.Context, b Backend, name string, photo *Photo) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	image, err := m.upload(ctx, b, photo)
	if err != nil {
		return err
	}
	item, err := b.CreateInventory(ctx, backend.InventoryRequest{ItemName: name, Image: image, PropertyID: m.propertyID})
	if err != nil {
		return fmt.Errorf("creating item: %w", err)
	}
	slog.Info("inventory item created", "item", item.ID, "name", item.ItemName)
	return nil
}

// Update renames an item and optionally replaces its photo.
func (m *Manager) Update(ctx context.Context, b Backend, id int64, name string, photo *Photo) ([]model.InventoryItem, error) {
	err := m.update(ctx, b, id, name, photo)
	return m.refetch(ctx, b, err)
}

func (m *Manager) update(ctx context.Context, b Backend, id int64, name string, photo *Photo) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	image, err := m.upload(ctx, b, photo)
	if err != nil {
		return err
	}
	if _, err := b.UpdateInventory(ctx, id, backend.InventoryRequest{ItemName: name, Image: image, PropertyID: m.propertyID}); err != nil {
		return fmt.Errorf("updating item %d: %w", id, err)
	}
	slog.Info("inventory item updated", "item", id)
	return nil
}

// Delete removes an item. A failed delete leaves the item in the returned
// list.
func (m *Manager) Delete(ctx context.Context, b Backend, id int64) ([]model.InventoryItem, error) {
	var err error
	if derr := b.DeleteInventory(ctx, id); derr != nil {
		err = fmt.Errorf("deleting item %d: %w", id, derr)
	} else {
		slog.Info("inventory item deleted", "item", id)
	}
	return m.refetch(ctx, b, err)
}

// upload prepares and stores a photo, returning its URL ("" without one).
func (m *Manager) upload(ctx context.Context, b Backend, photo *Photo) (string, error) {
	if photo == nil || photo.Body == nil {
		return "", nil
	}
	prepared, err := imaging.Prepare(photo.Body, photo.Filename)
	if err != nil {
		return "", err
	}
	url, err := b.Upload(ctx, prepared.Filename, prepared.MIME, prepared.Data)
	if err != nil {
		return "", fmt.Errorf("uploading photo: %w", err)
	}
	return url, nil
}

// refetch reloads the list after a change. The change's own error wins; a
// failed reload is only reported when the change succeeded.
func (m *Manager) refetch(ctx context.Context, b Backend, changeErr error) ([]model.InventoryItem, error) {
	items, err := b.ListInventory(ctx)
	if err != nil {
		slog.Error("failed to reload inventory", "error", err)
		if changeErr == nil {
			return nil, fmt.Errorf("reloading inventory: %w", err)
		}
	}
	return items, changeErr
}

// Message returns the user-facing text for an inventory error.
func Message(err error, action string) string {
	switch {
	case errors.Is(err, ErrNameRequired):
		return "Please enter an item name."
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		return "Photos must be JPEG or PNG images."
	case errors.Is(err, imaging.ErrTooLarge):
		return "That photo is too large."
	}
	return fmt.Sprintf("Failed to %s item.", action)
}
