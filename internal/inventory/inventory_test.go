package inventory

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"net/http"
	"strings"
	"testing"

	"github.com/erazemk/hamanasi/internal/backend/backendtest"
	"github.com/erazemk/hamanasi/internal/imaging"
	"github.com/erazemk/hamanasi/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedItems(fake *backendtest.Server) {
	fake.Inventory = []model.InventoryItem{
		{ID: 1, ItemName: "Sofa", PropertyID: 1},
		{ID: 2, ItemName: "Fridge", PropertyID: 1},
	}
}

func names(items []model.InventoryItem) []string {
	out := []string{}
	for _, it := range items {
		out = append(out, it.ItemName)
	}
	return out
}

func testJPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8)), nil))
	return buf.Bytes()
}

func TestDeleteRemovesItemAfterRefetch(t *testing.T) {
	fake := backendtest.New(t)
	seedItems(fake)

	items, err := NewManager(1).Delete(context.Background(), fake.Session(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fridge"}, names(items))
	assert.Len(t, fake.CallsTo(http.MethodGet, "/inventory"), 1)
}

func TestFailedDeleteKeepsItem(t *testing.T) {
	fake := backendtest.New(t)
	seedItems(fake)
	fake.FailOn(http.MethodDelete, "/inventory/1", http.StatusInternalServerError)

	items, err := NewManager(1).Delete(context.Background(), fake.Session(), 1)
	require.Error(t, err)
	assert.Equal(t, []string{"Sofa", "Fridge"}, names(items))
	assert.Equal(t, "Failed to delete item.", Message(err, "delete"))
}

func TestCreateWithPhoto(t *testing.T) {
	fake := backendtest.New(t)

	items, err := NewManager(3).Create(context.Background(), fake.Session(), " Bed ", &Photo{
		Filename: "bed.png",
		Body:     bytes.NewReader(testJPEG(t)),
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Bed", items[0].ItemName)
	assert.Equal(t, "https://cdn.example.com/bed.jpg", items[0].Image)

	calls := fake.CallsTo(http.MethodPost, "/inventory")
	require.Len(t, calls, 1)
	assert.Equal(t, float64(3), calls[0].Body["property_id"])
	assert.Len(t, fake.CallsTo(http.MethodPost, "/upload"), 1)
}

func TestCreateRejectsBadPhotoBeforeUpload(t *testing.T) {
	fake := backendtest.New(t)

	_, err := NewManager(1).Create(context.Background(), fake.Session(), "Bed", &Photo{
		Filename: "bed.gif",
		Body:     strings.NewReader("GIF89a"),
	})
	assert.ErrorIs(t, err, imaging.ErrUnsupportedFormat)
	assert.Empty(t, fake.CallsTo(http.MethodPost, "/upload"))
	assert.Empty(t, fake.CallsTo(http.MethodPost, "/inventory"))
}

func TestCreateRequiresName(t *testing.T) {
	fake := backendtest.New(t)

	_, err := NewManager(1).Create(context.Background(), fake.Session(), "  ", nil)
	assert.ErrorIs(t, err, ErrNameRequired)
	assert.Empty(t, fake.CallsTo(http.MethodPost, "/inventory"))
}

func TestUpdateKeepsImageWithoutPhoto(t *testing.T) {
	fake := backendtest.New(t)
	fake.Inventory = []model.InventoryItem{{ID: 1, ItemName: "Sofa", Image: "https://cdn.example.com/sofa.jpg"}}

	items, err := NewManager(1).Update(context.Background(), fake.Session(), 1, "Couch", nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Couch", items[0].ItemName)
	assert.Equal(t, "https://cdn.example.com/sofa.jpg", items[0].Image)
}
