package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"campusfind/middleware"
	"campusfind/models"
	"campusfind/services"
	"campusfind/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

// Minimal in-memory collaborators so the handlers run against the real
// submission and lifecycle services.

type memStore struct {
	mu    sync.Mutex
	items []models.Item
}

func (s *memStore) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = primitive.NewObjectID()
	item.DatePosted = time.Now().UTC().Add(time.Duration(len(s.items)) * time.Millisecond)
	s.items = append(s.items, *item)
	return item, nil
}

func (s *memStore) List(ctx context.Context) ([]models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Item, 0, len(s.items))
	for i := len(s.items) - 1; i >= 0; i-- {
		out = append(out, s.items[i])
	}
	return out, nil
}

func (s *memStore) Get(ctx context.Context, id string) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID.Hex() == id {
			found := item
			return &found, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *memStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID.Hex() == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

type nullStorage struct{}

func (nullStorage) Upload(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	return "http://storage.test/uploads/" + filename, nil
}

func (nullStorage) Delete(ctx context.Context, imageRef string) error { return nil }

func testRouter(store *memStore) *gin.Engine {
	return testRouterWithMaxUpload(store, 0)
}

func testRouterWithMaxUpload(store *memStore, maxUpload int64) *gin.Engine {
	gin.SetMode(gin.TestMode)

	submission := services.NewSubmissionService(store, nullStorage{}, nil, maxUpload)
	lifecycle := services.NewLifecycleService(store, nullStorage{})
	controller := NewItemController(store, submission, lifecycle, maxUpload)

	router := gin.New()
	api := router.Group("/api")

	items := api.Group("/items")
	items.GET("", controller.ListItems)
	items.GET("/:id", controller.GetItem)

	authed := api.Group("/items")
	authed.Use(middleware.AuthMiddleware(testSecret))
	authed.POST("", controller.SubmitItem)
	authed.DELETE("/:id", controller.MarkFound)

	return router
}

func tokenFor(t *testing.T, rollNo string) string {
	t.Helper()
	token, err := utils.GenerateToken(rollNo, rollNo+"@nitrkl.ac.in", testSecret, "campusfind", time.Hour)
	require.NoError(t, err)
	return token
}

func submitForm(t *testing.T, router *gin.Engine, rollNo string, fields map[string]string, withImage bool) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if withImage {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="image"; filename="photo.jpg"`)
		h.Set("Content-Type", "image/jpeg")
		part, err := writer.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/items", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if rollNo != "" {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, rollNo))
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validForm() map[string]string {
	return map[string]string{
		"itemType":    "lost",
		"itemName":    "Blue Bottle",
		"description": "steel bottle",
		"dateLost":    "2024-01-01",
		"roomNo":      "C-301",
		"contact":     "9999999999",
	}
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) utils.APIResponse {
	t.Helper()
	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSubmitItemCreates(t *testing.T) {
	store := &memStore{}
	router := testRouter(store)

	w := submitForm(t, router, "21CS01", validForm(), false)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, store.items, 1)

	item := store.items[0]
	assert.Equal(t, "21CS01", item.ReporterID)
	assert.Equal(t, "lost", item.ItemType)
	assert.Empty(t, item.ImageRef, "no image submitted, imageRef absent")
}

func TestSubmitItemWithImage(t *testing.T) {
	store := &memStore{}
	router := testRouter(store)

	w := submitForm(t, router, "21CS01", validForm(), true)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, store.items, 1)
	assert.NotEmpty(t, store.items[0].ImageRef)
}

func TestSubmitItemMissingFieldIs400(t *testing.T) {
	store := &memStore{}
	router := testRouter(store)

	fields := validForm()
	delete(fields, "contact")
	w := submitForm(t, router, "21CS01", fields, false)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.items)
}

func TestSubmitItemBadDateIs400(t *testing.T) {
	router := testRouter(&memStore{})

	fields := validForm()
	fields["dateLost"] = "yesterday"
	w := submitForm(t, router, "21CS01", fields, false)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitItemWithoutTokenIs401(t *testing.T) {
	router := testRouter(&memStore{})

	w := submitForm(t, router, "", validForm(), false)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitItemMalformedImagePartIs400(t *testing.T) {
	store := &memStore{}
	router := testRouter(store)

	// A multipart body that opens an image part but is cut off before the
	// closing boundary. The report must not be created photoless.
	body := "--formboundary\r\n" +
		"Content-Disposition: form-data; name=\"image\"; filename=\"photo.jpg\"\r\n" +
		"Content-Type: image/jpeg\r\n\r\n" +
		"partial bytes"

	req := httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=formboundary")
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, "21CS01"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Empty(t, store.items)
}

func TestSubmitItemHonorsConfiguredUploadCap(t *testing.T) {
	store := &memStore{}
	router := testRouterWithMaxUpload(store, 8)

	w := submitForm(t, router, "21CS01", validForm(), true)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())
	assert.Empty(t, store.items)
}

func TestListItemsEmptyStoreState(t *testing.T) {
	router := testRouter(&memStore{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/items", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "No items posted yet", decodeResponse(t, w).Message)
}

func TestListItemsEmptyResultState(t *testing.T) {
	store := &memStore{}
	router := testRouter(store)
	submitForm(t, router, "21CS01", validForm(), false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/items?q=nosuchthing", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "No items found", decodeResponse(t, w).Message)
}

func TestListItemsFilterAndSearch(t *testing.T) {
	store := &memStore{}
	router := testRouter(store)

	submitForm(t, router, "21CS01", validForm(), false)
	found := validForm()
	found["itemType"] = "found"
	found["itemName"] = "Black Backpack"
	submitForm(t, router, "21EE99", found, false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/items?filter=lost&sort=newest", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Items []models.Item `json:"items"`
		Total int           `json:"total"`
	}
	resp := decodeResponse(t, w)
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &data))

	require.Equal(t, 1, data.Total)
	assert.Equal(t, "Blue Bottle", data.Items[0].Name)
}

func TestListItemsClampsLongDescriptions(t *testing.T) {
	store := &memStore{}
	router := testRouter(store)

	fields := validForm()
	fields["description"] = strings.TrimSpace(strings.Repeat("word ", 30))
	submitForm(t, router, "21CS01", fields, false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/items", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Items []models.Item `json:"items"`
	}
	raw, err := json.Marshal(decodeResponse(t, w).Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &data))

	require.Len(t, data.Items, 1)
	assert.Equal(t, utils.MaxDescriptionWords, utils.WordCount(data.Items[0].Description))

	// The detail endpoint keeps the full text.
	itemID := store.items[0].ID.Hex()
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/items/"+itemID, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var detail models.Item
	raw, err = json.Marshal(decodeResponse(t, w).Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &detail))
	assert.Equal(t, 30, utils.WordCount(detail.Description))
}

func TestListItemsRejectsUnknownFilter(t *testing.T) {
	router := testRouter(&memStore{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/items?filter=stolen", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkFoundByOwner(t *testing.T) {
	store := &memStore{}
	router := testRouter(store)
	submitForm(t, router, "21CS01", validForm(), false)
	itemID := store.items[0].ID.Hex()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/items/"+itemID, nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, "21CS01"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.items)
}

func TestMarkFoundByNonOwnerIs403(t *testing.T) {
	store := &memStore{}
	router := testRouter(store)
	submitForm(t, router, "21CS01", validForm(), false)
	itemID := store.items[0].ID.Hex()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/items/"+itemID, nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, "21EE99"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Len(t, store.items, 1)
}

func TestMarkFoundUnknownIDIs404(t *testing.T) {
	router := testRouter(&memStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/items/%s", primitive.NewObjectID().Hex()), nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, "21CS01"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetItem(t *testing.T) {
	store := &memStore{}
	router := testRouter(store)
	submitForm(t, router, "21CS01", validForm(), false)
	itemID := store.items[0].ID.Hex()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/items/"+itemID, nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
