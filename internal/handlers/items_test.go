package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benvon/lemonaid/internal/database"
	"github.com/benvon/lemonaid/internal/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type failingStore struct{}

func (failingStore) Get(context.Context, uuid.UUID) (*models.Item, error) {
	return nil, errors.New("db down")
}

func (failingStore) List(context.Context, int, int) ([]*models.Item, int, error) {
	return nil, 0, errors.New("db down")
}

func (failingStore) Create(context.Context, *models.Item) error {
	return errors.New("db down")
}

func newItemRouter(store database.ItemStore) *mux.Router {
	r := mux.NewRouter()
	NewItemHandler(store, zap.NewNop()).RegisterRoutes(r.PathPrefix("/api/items").Subrouter())
	return r
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestItemHandler_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"valid", `{"name":"Lemon","description":"sour"}`, http.StatusCreated, ""},
		{"missing name", `{"description":"no name"}`, http.StatusBadRequest, "Name is required"},
		{"blank name", `{"name":"   "}`, http.StatusBadRequest, "Name is required"},
		{"name too long", `{"name":"` + strings.Repeat("x", 201) + `"}`, http.StatusBadRequest, "Name must be at most 200 characters"},
		{"malformed json", `{"name":`, http.StatusBadRequest, "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := serve(newItemRouter(database.NewMemoryItemStore()), http.MethodPost, "/api/items", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}

			if tt.wantError != "" {
				var body map[string]string
				if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				if body["error"] != tt.wantError {
					t.Errorf("Expected error %q, got %q", tt.wantError, body["error"])
				}
				return
			}

			var body struct {
				Data    models.Item `json:"data"`
				Message string      `json:"message"`
			}
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if body.Message != "Created" {
				t.Errorf("Expected message 'Created', got %q", body.Message)
			}
			if body.Data.Name != "Lemon" || body.Data.ID == uuid.Nil {
				t.Errorf("Unexpected item %+v", body.Data)
			}
		})
	}
}

func TestItemHandler_CreateBodyTooLarge(t *testing.T) {
	t.Parallel()

	router := newItemRouter(database.NewMemoryItemStore())
	limited := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 10)
		router.ServeHTTP(w, r)
	})

	w := serve(limited, http.MethodPost, "/api/items", `{"name":"a much longer name than ten bytes"}`)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected status 413, got %d", w.Code)
	}
}

func TestItemHandler_Get(t *testing.T) {
	t.Parallel()

	store := database.NewMemoryItemStore()
	item := &models.Item{ID: uuid.New(), Name: "Existing", CreatedAt: time.Now().UTC()}
	if err := store.Create(context.Background(), item); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	router := newItemRouter(store)

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		w := serve(router, http.MethodGet, "/api/items/"+item.ID.String(), "")
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		var body struct {
			Data models.Item `json:"data"`
		}
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if body.Data.ID != item.ID {
			t.Errorf("Expected id %s, got %s", item.ID, body.Data.ID)
		}
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		missing := uuid.New()
		w := serve(router, http.MethodGet, "/api/items/"+missing.String(), "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("Expected status 404, got %d", w.Code)
		}
		var body map[string]any
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if body["message"] != "Item not found" || body["code"] != "ITEM_NOT_FOUND" || body["statusCode"] != float64(404) {
			t.Errorf("Unexpected body %v", body)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		t.Parallel()
		w := serve(router, http.MethodGet, "/api/items/not-a-uuid", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestItemHandler_List(t *testing.T) {
	t.Parallel()

	store := database.NewMemoryItemStore()
	base := time.Now().UTC()
	for i := range 5 {
		_ = store.Create(context.Background(), &models.Item{
			ID: uuid.New(), Name: "item", CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}

	w := serve(newItemRouter(store), http.MethodGet, "/api/items?page=2&limit=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var body ListItemsResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(body.Data) != 2 {
		t.Errorf("Expected 2 items, got %d", len(body.Data))
	}
	want := models.PaginationMeta{Page: 2, Limit: 2, Total: 5, TotalPages: 3}
	if body.Meta != want {
		t.Errorf("Meta = %+v, want %+v", body.Meta, want)
	}
}

func TestItemHandler_StoreFailures(t *testing.T) {
	t.Parallel()

	router := newItemRouter(failingStore{})
	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{"list", http.MethodGet, "/api/items", ""},
		{"get", http.MethodGet, "/api/items/" + uuid.NewString(), ""},
		{"create", http.MethodPost, "/api/items", `{"name":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := serve(router, tt.method, tt.target, tt.body)
			if w.Code != http.StatusInternalServerError {
				t.Errorf("Expected status 500, got %d", w.Code)
			}
			if strings.Contains(w.Body.String(), "db down") {
				t.Error("Internal error leaked to client")
			}
		})
	}
}
