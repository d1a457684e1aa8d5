package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/benvon/lemonaid/internal/apperror"
	"github.com/benvon/lemonaid/internal/database"
	"github.com/benvon/lemonaid/internal/models"
	"github.com/benvon/lemonaid/internal/response"
	"github.com/benvon/lemonaid/internal/validation"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	// DefaultPageSize is the default page size for pagination
	DefaultPageSize = 20
	// MaxPageSize is the maximum page size for pagination
	MaxPageSize = 100
)

// ItemHandler serves the example item API.
type ItemHandler struct {
	store database.ItemStore
	log   *zap.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(store database.ItemStore, log *zap.Logger) *ItemHandler {
	return &ItemHandler{store: store, log: log}
}

// RegisterRoutes registers item routes on the given router
// The router should already have the /items prefix (e.g., from apiRouter.PathPrefix("/items"))
func (h *ItemHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListItems).Methods(http.MethodGet)
	r.HandleFunc("", h.CreateItem).Methods(http.MethodPost)
	r.HandleFunc("/{id}", h.GetItem).Methods(http.MethodGet)
}

// ListItemsResponse is one page of items.
type ListItemsResponse struct {
	Data []*models.Item        `json:"data"`
	Meta models.PaginationMeta `json:"meta"`
}

// ListItems lists items newest first with pagination
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	limit := DefaultPageSize
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = min(parsed, MaxPageSize)
		}
	}

	items, total, err := h.store.List(r.Context(), limit, (page-1)*limit)
	if err != nil {
		h.log.Error("Failed to list items", zap.Error(err))
		apperror.Write(w, "Failed to retrieve items", http.StatusInternalServerError)
		return
	}

	response.JSON(w, http.StatusOK, ListItemsResponse{
		Data: items,
		Meta: models.NewPaginationMeta(page, limit, total),
	})
}

// GetItem retrieves an item by ID
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	rawID := mux.Vars(r)["id"]
	id, err := uuid.Parse(rawID)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	item, err := h.store.Get(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		apperror.Write(w, apperror.New("Item not found", http.StatusNotFound, "ITEM_NOT_FOUND",
			map[string]any{"id": id.String()}), http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error("Failed to get item", zap.String("id", id.String()), zap.Error(err))
		apperror.Write(w, "Failed to retrieve item", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, item, "")
}

// CreateItem creates a new item
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req models.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondJSONError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = validation.SanitizeText(req.Name)
	req.Description = validation.SanitizeText(req.Description)

	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, validation.Message(err))
		return
	}

	item := &models.Item{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.store.Create(r.Context(), item); err != nil {
		h.log.Error("Failed to create item", zap.Error(err))
		apperror.Write(w, "Failed to create item", http.StatusInternalServerError)
		return
	}

	h.log.Info("Item created", zap.String("id", item.ID.String()))
	respondJSON(w, http.StatusCreated, item, "Created")
}
