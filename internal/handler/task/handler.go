package task

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medora-health/emr-admin-api/internal/handler"
	"github.com/medora-health/emr-admin-api/internal/middleware"
	"github.com/medora-health/emr-admin-api/internal/model"
	taskService "github.com/medora-health/emr-admin-api/internal/service/task"
	"github.com/medora-health/emr-admin-api/pkg/access"
)

type Handler struct {
	service *taskService.Service
	emitter *handler.Emitter
}

func NewHandler(service *taskService.Service, emitter *handler.Emitter) *Handler {
	return &Handler{
		service: service,
		emitter: emitter,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, guard handler.Guard) {
	tasks := r.Group("/tasks")
	{
		tasks.POST("", guard(access.Require(model.ModuleTasks, model.OperationCreate)), h.Create)
		tasks.GET("", guard(access.Require(model.ModuleTasks, model.OperationRead)), h.List)
		tasks.GET("/:id", guard(access.Require(model.ModuleTasks, model.OperationRead)), h.Get)
		tasks.PUT("/:id", guard(access.Require(model.ModuleTasks, model.OperationUpdate)), h.Update)
		tasks.DELETE("/:id", guard(access.Require(model.ModuleTasks, model.OperationDelete)), h.Delete)
		tasks.POST("/:id/move", guard(access.Require(model.ModuleTasks, model.OperationUpdate)), h.Move)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	task, err := h.service.Create(c.Request.Context(), &req, claims.UserID)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "task.created", task)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(task))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid task ID"))
		return
	}

	task, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(task))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid task ID"))
		return
	}

	var req model.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	task, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "task.updated", task)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(task))
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid task ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "task.deleted", gin.H{"id": id})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.TaskFilters{
		Status: model.TaskStatus(c.Query("status")),
	}
	if raw := c.Query("clinic_id"); raw != "" {
		clinicID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid clinic ID"))
			return
		}
		filters.ClinicID = clinicID
	}
	if raw := c.Query("assignee_id"); raw != "" {
		assigneeID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid assignee ID"))
			return
		}
		filters.AssigneeID = assigneeID
	}

	tasks, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(tasks))
}

func (h *Handler) Move(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid task ID"))
		return
	}

	var req model.MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	task, err := h.service.Move(c.Request.Context(), id, &req)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "task.moved", task)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(task))
}
