package appointment

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medora-health/emr-admin-api/internal/handler"
	"github.com/medora-health/emr-admin-api/internal/model"
	appointmentService "github.com/medora-health/emr-admin-api/internal/service/appointment"
	"github.com/medora-health/emr-admin-api/pkg/access"
)

type Handler struct {
	service *appointmentService.Service
	emitter *handler.Emitter
}

func NewHandler(service *appointmentService.Service, emitter *handler.Emitter) *Handler {
	return &Handler{
		service: service,
		emitter: emitter,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, guard handler.Guard) {
	read := guard(access.Require(model.ModuleAppointments, model.OperationRead))
	create := guard(access.Require(model.ModuleAppointments, model.OperationCreate))
	update := guard(access.Require(model.ModuleAppointments, model.OperationUpdate))

	appointments := r.Group("/appointments")
	{
		appointments.POST("", create, h.Book)
		appointments.GET("", read, h.List)
		appointments.GET("/:id", read, h.Get)
		appointments.PUT("/:id", update, h.Reschedule)
		appointments.POST("/:id/confirm", update, h.Confirm)
		appointments.POST("/:id/complete", update, h.Complete)
		appointments.POST("/:id/cancel", update, h.Cancel)
	}
}

func (h *Handler) Book(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	appointment, err := h.service.Book(c.Request.Context(), &req)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "appointment.booked", appointment)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(appointment))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	appointment, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointment))
}

func (h *Handler) Reschedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	appointment, err := h.service.Reschedule(c.Request.Context(), id, &req)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "appointment.rescheduled", appointment)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointment))
}

func (h *Handler) Confirm(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	appointment, err := h.service.Confirm(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "appointment.confirmed", appointment)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointment))
}

func (h *Handler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	appointment, err := h.service.Complete(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "appointment.completed", appointment)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointment))
}

type cancelRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

func (h *Handler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	appointment, err := h.service.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "appointment.cancelled", appointment)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointment))
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.AppointmentFilters{
		Status: model.AppointmentStatus(c.Query("status")),
	}
	for param, target := range map[string]*uuid.UUID{
		"clinic_id":  &filters.ClinicID,
		"doctor_id":  &filters.DoctorID,
		"patient_id": &filters.PatientID,
	} {
		if raw := c.Query(param); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid "+param))
				return
			}
			*target = id
		}
	}
	for param, target := range map[string]*time.Time{
		"from": &filters.StartDate,
		"to":   &filters.EndDate,
	} {
		if raw := c.Query(param); raw != "" {
			date, err := time.Parse("2006-01-02", raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, handler.NewErrorResponse(param+" must be YYYY-MM-DD"))
				return
			}
			*target = date
		}
	}

	appointments, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}
