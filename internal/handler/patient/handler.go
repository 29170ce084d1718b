package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medora-health/emr-admin-api/internal/handler"
	"github.com/medora-health/emr-admin-api/internal/model"
	patientService "github.com/medora-health/emr-admin-api/internal/service/patient"
	"github.com/medora-health/emr-admin-api/pkg/access"
)

type Handler struct {
	service *patientService.Service
	emitter *handler.Emitter
}

func NewHandler(service *patientService.Service, emitter *handler.Emitter) *Handler {
	return &Handler{
		service: service,
		emitter: emitter,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, guard handler.Guard) {
	patients := r.Group("/patients")
	{
		patients.POST("", guard(access.Require(model.ModulePatients, model.OperationCreate)), h.Create)
		patients.GET("", guard(access.Require(model.ModulePatients, model.OperationRead)), h.List)
		patients.GET("/:id", guard(access.Require(model.ModulePatients, model.OperationRead)), h.Get)
		patients.PUT("/:id", guard(access.Require(model.ModulePatients, model.OperationUpdate)), h.Update)
		patients.DELETE("/:id", guard(access.Require(model.ModulePatients, model.OperationDelete)), h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	patient, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "patient.created", patient)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(patient))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	patient, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patient))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	patient, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "patient.updated", patient)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patient))
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "patient.deleted", gin.H{"id": id})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.PatientFilters{
		Status:     c.Query("status"),
		SearchTerm: c.Query("search"),
	}
	if raw := c.Query("clinic_id"); raw != "" {
		clinicID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid clinic ID"))
			return
		}
		filters.ClinicID = clinicID
	}

	patients, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}
