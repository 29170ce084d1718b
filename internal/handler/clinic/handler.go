package clinic

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medora-health/emr-admin-api/internal/handler"
	"github.com/medora-health/emr-admin-api/internal/model"
	clinicService "github.com/medora-health/emr-admin-api/internal/service/clinic"
	"github.com/medora-health/emr-admin-api/pkg/access"
)

type Handler struct {
	service *clinicService.Service
	emitter *handler.Emitter
}

func NewHandler(service *clinicService.Service, emitter *handler.Emitter) *Handler {
	return &Handler{
		service: service,
		emitter: emitter,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, guard handler.Guard) {
	clinics := r.Group("/clinics")
	{
		clinics.POST("", guard(access.Require(model.ModuleClinics, model.OperationCreate)), h.Onboard)
		clinics.GET("", guard(access.Require(model.ModuleClinics, model.OperationRead)), h.List)
		clinics.GET("/:id", guard(access.Require(model.ModuleClinics, model.OperationRead)), h.Get)
		clinics.PUT("/:id", guard(access.Require(model.ModuleClinics, model.OperationUpdate)), h.Update)
		clinics.DELETE("/:id", guard(access.Require(model.ModuleClinics, model.OperationDelete)), h.Delete)
		clinics.GET("/:id/staff", guard(access.Require(model.ModuleClinics, model.OperationRead)), h.ListStaff)
	}
}

func (h *Handler) Onboard(c *gin.Context) {
	var req model.CreateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	clinic, err := h.service.Onboard(c.Request.Context(), &req)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "clinic.onboarded", clinic)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(clinic))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid clinic ID"))
		return
	}

	clinic, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(clinic))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid clinic ID"))
		return
	}

	var req model.UpdateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	clinic, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "clinic.updated", clinic)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(clinic))
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid clinic ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "clinic.deleted", gin.H{"id": id})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) List(c *gin.Context) {
	clinics, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(clinics))
}

func (h *Handler) ListStaff(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid clinic ID"))
		return
	}

	staff, err := h.service.ListStaff(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(staff))
}
