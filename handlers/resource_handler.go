package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/upb/blog-api/middleware"
	"github.com/upb/blog-api/models"
	"github.com/upb/blog-api/services"
	"github.com/upb/blog-api/utils"
	"go.uber.org/zap"
)

// IDParam is the chi URL parameter holding a resource id
const IDParam = "id"

// ResourceHandler serves list/get/create/update/delete for one resource kind.
// Handlers assume the route policy has already run; they only read the
// caller's subject for logging.
type ResourceHandler[T models.Resource, I any] struct {
	service *services.ResourceService[T, I]
	logger  *zap.Logger
}

// NewResourceHandler creates a new ResourceHandler
func NewResourceHandler[T models.Resource, I any](service *services.ResourceService[T, I], logger *zap.Logger) *ResourceHandler[T, I] {
	return &ResourceHandler[T, I]{
		service: service,
		logger:  logger,
	}
}

// HandleList handles GET /{resources}
func (h *ResourceHandler[T, I]) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.writeOK(w, items)
}

// HandleGet handles GET /{resources}/{id}
func (h *ResourceHandler[T, I]) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.writeOK(w, item)
}

// HandleCreate handles POST /{resources}
func (h *ResourceHandler[T, I]) HandleCreate(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	item, err := h.service.Create(r.Context(), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Debug("created",
		zap.String("resource", h.service.Name()),
		zap.Int64("id", (*item).ResourceID()),
		zap.String("sub", middleware.SubjectFromContext(r.Context())))

	h.writeOK(w, item)
}

// HandleUpdate handles PUT /{resources}/{id}. A missing id yields 404 and
// never creates a row.
func (h *ResourceHandler[T, I]) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	item, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.writeOK(w, item)
}

// HandleDelete handles DELETE /{resources}/{id}
func (h *ResourceHandler[T, I]) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteMessage(w, h.service.Name()+" deleted successfully"); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}

// parseID accepts ids in the range of the SERIAL primary keys
func (h *ResourceHandler[T, I]) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, IDParam)
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid id", map[string]interface{}{"id": raw})
		return 0, false
	}
	return id, true
}

func (h *ResourceHandler[T, I]) decodeInput(w http.ResponseWriter, r *http.Request) (*I, bool) {
	input := new(I)
	if err := utils.DecodeJSON(r, input); err != nil {
		HandleValidationError(w, err, h.logger)
		return nil, false
	}

	if err := utils.ValidateStruct(input); err != nil {
		HandleValidationError(w, err, h.logger)
		return nil, false
	}

	return input, true
}

func (h *ResourceHandler[T, I]) writeOK(w http.ResponseWriter, data interface{}) {
	if err := utils.WriteOK(w, data); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}
