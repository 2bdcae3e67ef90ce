package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/hamanasi/internal/imaging"
	"github.com/erazemk/hamanasi/internal/inventory"
	"github.com/erazemk/hamanasi/internal/model"
)

// maxUploadForm bounds an inventory form including its photo.
const maxUploadForm = imaging.MaxInputSize + 1<<20

func (s *Server) renderInventory(w http.ResponseWriter, r *http.Request, items []model.InventoryItem, success, errMsg string) {
	pd := s.page(r, "Inventory")
	pd.Success = success
	pd.Error = errMsg
	s.Templates.Render(w, "inventory.html", &struct {
		PageData
		Items []model.InventoryItem
	}{
		PageData: pd,
		Items:    items,
	})
}

// InventoryPage handles GET /dashboard/inventory.
func (s *Server) InventoryPage(w http.ResponseWriter, r *http.Request) {
	items, err := s.Inventory.List(r.Context(), s.api(r))
	if err != nil {
		if s.sessionExpired(w, r, err) {
			return
		}
		slog.Error("failed to list inventory", "error", err)
		s.renderInventory(w, r, nil, "", "We could not load your inventory. Please try again.")
		return
	}
	s.renderInventory(w, r, items, "", "")
}

// InventoryCreateSubmit handles POST /dashboard/inventory.
func (s *Server) InventoryCreateSubmit(w http.ResponseWriter, r *http.Request) {
	name, photo, cleanup, ok := s.inventoryForm(w, r)
	if !ok {
		return
	}
	defer cleanup()

	items, err := s.Inventory.Create(r.Context(), s.api(r), name, photo)
	s.inventoryResult(w, r, items, err, "add", "Item added.")
}

// InventoryUpdateSubmit handles POST /dashboard/inventory/{id}.
func (s *Server) InventoryUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.renderError(w, r, http.StatusNotFound, "That item does not exist.")
		return
	}
	name, photo, cleanup, ok := s.inventoryForm(w, r)
	if !ok {
		return
	}
	defer cleanup()

	items, err := s.Inventory.Update(r.Context(), s.api(r), id, name, photo)
	s.inventoryResult(w, r, items, err, "update", "Item updated.")
}

// InventoryDeleteSubmit handles POST /dashboard/inventory/{id}/delete.
func (s *Server) InventoryDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.renderError(w, r, http.StatusNotFound, "That item does not exist.")
		return
	}

	items, err := s.Inventory.Delete(r.Context(), s.api(r), id)
	s.inventoryResult(w, r, items, err, "delete", "Item deleted.")
}

// inventoryForm reads the item name and optional photo of a multipart form.
func (s *Server) inventoryForm(w http.ResponseWriter, r *http.Request) (string, *inventory.Photo, func(), bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadForm)
	if err := r.ParseMultipartForm(maxUploadForm); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooBig *http.MaxBytesError
		msg := "We could not read that form. Please try again."
		if errors.As(err, &tooBig) {
			msg = inventory.Message(imaging.ErrTooLarge, "")
		}
		items, _ := s.Inventory.List(r.Context(), s.api(r))
		s.renderInventory(w, r, items, "", msg)
		return "", nil, nil, false
	}

	name := r.FormValue("item_name")
	file, header, err := r.FormFile("image")
	if err != nil {
		return name, nil, func() {}, true
	}
	return name, &inventory.Photo{Filename: header.Filename, Body: file}, func() { file.Close() }, true
}

// inventoryResult renders the re-fetched list after a change.
func (s *Server) inventoryResult(w http.ResponseWriter, r *http.Request, items []model.InventoryItem, err error, action, success string) {
	if err != nil {
		if s.sessionExpired(w, r, err) {
			return
		}
		slog.Warn("inventory change failed", "action", action, "error", err)
		s.renderInventory(w, r, items, "", inventory.Message(err, action))
		return
	}
	s.renderInventory(w, r, items, success, "")
}
