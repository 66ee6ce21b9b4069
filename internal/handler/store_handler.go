package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"havenrp-web/internal/service"
	"havenrp-web/pkg/errors"
	"havenrp-web/pkg/logger"
)

// StoreHandler proxies the public storefront views
type StoreHandler struct {
	store  *service.StorefrontService
	logger *logger.Logger
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(store *service.StorefrontService, logger *logger.Logger) *StoreHandler {
	return &StoreHandler{
		store:  store,
		logger: logger,
	}
}

// GetInformation handles GET /api/store/information
func (h *StoreHandler) GetInformation(w http.ResponseWriter, r *http.Request) {
	webstore, err := h.store.GetWebstore(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, webstore)
}

// ListCategories handles GET /api/store/categories
func (h *StoreHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// GetCategory handles GET /api/store/categories/{id}
func (h *StoreHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	category, err := h.store.GetCategory(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"category": category})
}

// GetPackage handles GET /api/store/packages/{id}
func (h *StoreHandler) GetPackage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	pkg, err := h.store.GetPackage(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"package": pkg})
}

func (h *StoreHandler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, h.logger, errors.NewValidationError("Invalid "+name, nil))
		return 0, false
	}
	return id, true
}
