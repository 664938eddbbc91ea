package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mrops-br/stock-manager-api/internal/app/dto"
	"github.com/mrops-br/stock-manager-api/internal/app/service"
	"github.com/mrops-br/stock-manager-api/internal/domain"
	"github.com/mrops-br/stock-manager-api/internal/infrastructure/http/response"
)

var ErrInvalidBody = domain.ValidationError("Request.InvalidBody", "The request body is not valid JSON.")

// EntityHandler serves the CRUD and search routes of one entity kind.
// Req is the request body and Resp the response body.
type EntityHandler[T domain.Entity, Req any, Resp any] struct {
	basePath   string
	notFound   domain.Error
	service    *service.EntityService[T]
	fromCreate func(Req) domain.Result[T]
	fromUpsert func(uuid.UUID, Req) domain.Result[T]
	toResponse func(T) Resp
	logger     *slog.Logger
}

func NewProductHandler(svc *service.EntityService[domain.Product], logger *slog.Logger) *EntityHandler[domain.Product, dto.ProductRequest, dto.ProductResponse] {
	return &EntityHandler[domain.Product, dto.ProductRequest, dto.ProductResponse]{
		basePath:   "/api/products",
		notFound:   domain.ErrProductNotFound,
		service:    svc,
		fromCreate: dto.ProductFromCreate,
		fromUpsert: dto.ProductFromUpsert,
		toResponse: dto.ToProductResponse,
		logger:     logger,
	}
}

func NewBranchHandler(svc *service.EntityService[domain.Branch], logger *slog.Logger) *EntityHandler[domain.Branch, dto.BranchRequest, dto.BranchResponse] {
	return &EntityHandler[domain.Branch, dto.BranchRequest, dto.BranchResponse]{
		basePath:   "/api/branches",
		notFound:   domain.ErrBranchNotFound,
		service:    svc,
		fromCreate: dto.BranchFromCreate,
		fromUpsert: dto.BranchFromUpsert,
		toResponse: dto.ToBranchResponse,
		logger:     logger,
	}
}

func NewInventoryHandler(svc *service.EntityService[domain.Inventory], logger *slog.Logger) *EntityHandler[domain.Inventory, dto.InventoryRequest, dto.InventoryResponse] {
	return &EntityHandler[domain.Inventory, dto.InventoryRequest, dto.InventoryResponse]{
		basePath:   "/api/inventories",
		notFound:   domain.ErrInventoryNotFound,
		service:    svc,
		fromCreate: dto.InventoryFromCreate,
		fromUpsert: dto.InventoryFromUpsert,
		toResponse: dto.ToInventoryResponse,
		logger:     logger,
	}
}

func NewPurchaseHandler(svc *service.EntityService[domain.Purchase], logger *slog.Logger) *EntityHandler[domain.Purchase, dto.PurchaseRequest, dto.PurchaseResponse] {
	return &EntityHandler[domain.Purchase, dto.PurchaseRequest, dto.PurchaseResponse]{
		basePath:   "/api/purchases",
		notFound:   domain.ErrPurchaseNotFound,
		service:    svc,
		fromCreate: dto.PurchaseFromCreate,
		fromUpsert: dto.PurchaseFromUpsert,
		toResponse: dto.ToPurchaseResponse,
		logger:     logger,
	}
}

// BasePath is the mount point of the handler's routes.
func (h *EntityHandler[T, Req, Resp]) BasePath() string { return h.basePath }

// Routes mounts the handler under its base path.
func (h *EntityHandler[T, Req, Resp]) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/search", h.Search)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Upsert)
	r.Delete("/{id}", h.Delete)
}

// Create handles POST /api/<entity>
func (h *EntityHandler[T, Req, Resp]) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	created := h.service.Create(r.Context(), h.fromCreate(req))
	if created.IsError() {
		response.Problem(w, r, created.Errors())
		return
	}

	entity := created.Value()
	w.Header().Set("Location", h.basePath+"/"+entity.EntityID().String())
	response.JSON(w, http.StatusCreated, h.toResponse(entity))
}

// Get handles GET /api/<entity>/{id}
func (h *EntityHandler[T, Req, Resp]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	found := h.service.GetByID(r.Context(), id)
	if found.IsError() {
		response.Problem(w, r, found.Errors())
		return
	}

	response.JSON(w, http.StatusOK, h.toResponse(found.Value()))
}

// Search handles GET /api/<entity>/search?<name>=<value>...
func (h *EntityHandler[T, Req, Resp]) Search(w http.ResponseWriter, r *http.Request) {
	found := h.service.Search(r.Context(), SearchParameters(r))
	if found.IsError() {
		response.Problem(w, r, found.Errors())
		return
	}

	items := found.Value()
	out := make([]Resp, len(items))
	for i, item := range items {
		out[i] = h.toResponse(item)
	}
	response.JSON(w, http.StatusOK, out)
}

// Upsert handles PUT /api/<entity>/{id}
func (h *EntityHandler[T, Req, Resp]) Upsert(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	upserted := h.service.Upsert(r.Context(), h.fromUpsert(id, req))
	if upserted.IsError() {
		response.Problem(w, r, upserted.Errors())
		return
	}

	if upserted.Value().IsNewlyCreated {
		w.Header().Set("Location", h.basePath+"/"+id.String())
		w.WriteHeader(http.StatusCreated)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/<entity>/{id}
func (h *EntityHandler[T, Req, Resp]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	deleted := h.service.Delete(r.Context(), id)
	if deleted.IsError() {
		response.Problem(w, r, deleted.Errors())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the {id} segment. A malformed identifier cannot name an
// existing record and is answered with the entity's NotFound error.
func (h *EntityHandler[T, Req, Resp]) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Malformed identifier in path", slog.String("id", raw))
		response.Problem(w, r, domain.Errors{h.notFound})
		return uuid.Nil, false
	}
	return id, true
}

func (h *EntityHandler[T, Req, Resp]) decode(w http.ResponseWriter, r *http.Request) (Req, bool) {
	var req Req
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Problem(w, r, domain.Errors{ErrInvalidBody})
		return req, false
	}
	return req, true
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// SearchParameters turns the query string into search parameters ordered by
// name, keeping every value of a repeated name.
func SearchParameters(r *http.Request) []domain.SearchParameter {
	query := r.URL.Query()
	names := make([]string, 0, len(query))
	for name := range query {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make([]domain.SearchParameter, 0, len(names))
	for _, name := range names {
		for _, value := range query[name] {
			params = append(params, domain.SearchParameter{Name: name, Value: value})
		}
	}
	return params
}
