package doctor

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medora-health/emr-admin-api/internal/handler"
	"github.com/medora-health/emr-admin-api/internal/model"
	doctorService "github.com/medora-health/emr-admin-api/internal/service/doctor"
	"github.com/medora-health/emr-admin-api/pkg/access"
)

type Handler struct {
	service *doctorService.Service
	emitter *handler.Emitter
}

func NewHandler(service *doctorService.Service, emitter *handler.Emitter) *Handler {
	return &Handler{
		service: service,
		emitter: emitter,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, guard handler.Guard) {
	read := guard(access.Require(model.ModuleDoctors, model.OperationRead))
	create := guard(access.Require(model.ModuleDoctors, model.OperationCreate))
	update := guard(access.Require(model.ModuleDoctors, model.OperationUpdate))
	remove := guard(access.Require(model.ModuleDoctors, model.OperationDelete))

	doctors := r.Group("/doctors")
	{
		doctors.GET("/:id/availability", read, h.CheckAvailability)
		doctors.GET("/:id/schedules", read, h.ListSchedules)
		doctors.GET("/:id/timeoff", read, h.ListTimeOff)
	}

	schedules := r.Group("/doctor-schedules")
	{
		schedules.POST("", create, h.CreateSchedule)
		schedules.GET("/:id", read, h.GetSchedule)
		schedules.PUT("/:id", update, h.UpdateSchedule)
		schedules.DELETE("/:id", remove, h.DeleteSchedule)
	}

	timeOff := r.Group("/doctor-timeoff")
	{
		timeOff.POST("", create, h.CreateTimeOff)
		timeOff.DELETE("/:id", remove, h.DeleteTimeOff)
	}
}

// CheckAvailability answers "can this doctor take a patient at this
// moment". Supply day_of_week (0-6) plus time ("HH:MM"), and optionally
// date (YYYY-MM-DD) to also consider time off.
func (h *Handler) CheckAvailability(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	dayOfWeek, err := strconv.Atoi(c.Query("day_of_week"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("day_of_week must be an integer"))
		return
	}

	available, err := h.service.IsAvailable(c.Request.Context(), doctorID, dayOfWeek, c.Query("time"))
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	result := gin.H{"available": available}

	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("date must be YYYY-MM-DD"))
			return
		}
		onTimeOff, err := h.service.IsOnTimeOff(c.Request.Context(), doctorID, date)
		if err != nil {
			c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
			return
		}
		result["on_time_off"] = onTimeOff
		if onTimeOff {
			result["available"] = false
		}
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) CreateSchedule(c *gin.Context) {
	var req model.CreateDoctorScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	schedule := &model.DoctorSchedule{
		DoctorID:       doctorID,
		DayOfWeek:      req.DayOfWeek,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		BreakStartTime: req.BreakStartTime,
		BreakEndTime:   req.BreakEndTime,
		IsActive:       true,
	}

	if err := h.service.CreateSchedule(c.Request.Context(), schedule); err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "doctor.schedule.created", schedule)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(schedule))
}

func (h *Handler) GetSchedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid schedule ID"))
		return
	}

	schedule, err := h.service.GetSchedule(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(schedule))
}

func (h *Handler) UpdateSchedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid schedule ID"))
		return
	}

	var req model.UpdateDoctorScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	schedule, err := h.service.UpdateSchedule(c.Request.Context(), id, &req)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "doctor.schedule.updated", schedule)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(schedule))
}

func (h *Handler) DeleteSchedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid schedule ID"))
		return
	}

	if err := h.service.DeleteSchedule(c.Request.Context(), id); err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "doctor.schedule.deleted", gin.H{"id": id})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListSchedules(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	schedules, err := h.service.ListSchedules(c.Request.Context(), doctorID)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(schedules))
}

func (h *Handler) CreateTimeOff(c *gin.Context) {
	var req model.CreateDoctorTimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	timeOff := &model.DoctorTimeOff{
		DoctorID:  doctorID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
	}

	if err := h.service.CreateTimeOff(c.Request.Context(), timeOff); err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "doctor.timeoff.created", timeOff)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(timeOff))
}

func (h *Handler) DeleteTimeOff(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid time off ID"))
		return
	}

	if err := h.service.DeleteTimeOff(c.Request.Context(), id); err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "doctor.timeoff.deleted", gin.H{"id": id})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListTimeOff(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	timeOff, err := h.service.ListTimeOff(c.Request.Context(), doctorID)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(timeOff))
}
