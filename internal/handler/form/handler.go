package form

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medora-health/emr-admin-api/internal/handler"
	"github.com/medora-health/emr-admin-api/internal/middleware"
	"github.com/medora-health/emr-admin-api/internal/model"
	formService "github.com/medora-health/emr-admin-api/internal/service/form"
	"github.com/medora-health/emr-admin-api/pkg/access"
)

type Handler struct {
	service *formService.Service
	emitter *handler.Emitter
}

func NewHandler(service *formService.Service, emitter *handler.Emitter) *Handler {
	return &Handler{
		service: service,
		emitter: emitter,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, guard handler.Guard) {
	read := guard(access.Require(model.ModuleForms, model.OperationRead))
	create := guard(access.Require(model.ModuleForms, model.OperationCreate))
	update := guard(access.Require(model.ModuleForms, model.OperationUpdate))
	remove := guard(access.Require(model.ModuleForms, model.OperationDelete))

	forms := r.Group("/forms")
	{
		forms.POST("", create, h.Create)
		forms.GET("", read, h.List)
		forms.GET("/:id", read, h.Get)
		forms.PUT("/:id", update, h.Update)
		forms.DELETE("/:id", remove, h.Delete)
		forms.POST("/:id/publish", update, h.Publish)
		forms.POST("/:id/unpublish", update, h.Unpublish)
		forms.POST("/:id/submissions", create, h.Submit)
		forms.GET("/:id/submissions", read, h.ListSubmissions)
	}

	r.GET("/form-submissions/:id", read, h.GetSubmission)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	form, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "form.created", form)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(form))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid form ID"))
		return
	}

	form, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(form))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid form ID"))
		return
	}

	var req model.UpdateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	form, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "form.updated", form)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(form))
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid form ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "form.deleted", gin.H{"id": id})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) List(c *gin.Context) {
	clinicID, err := uuid.Parse(c.Query("clinic_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("clinic_id is required"))
		return
	}

	forms, err := h.service.List(c.Request.Context(), clinicID)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(forms))
}

func (h *Handler) Publish(c *gin.Context) {
	h.setPublished(c, true, "form.published")
}

func (h *Handler) Unpublish(c *gin.Context) {
	h.setPublished(c, false, "form.unpublished")
}

func (h *Handler) setPublished(c *gin.Context, published bool, eventType string) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid form ID"))
		return
	}

	if err := h.service.SetPublished(c.Request.Context(), id, published); err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), eventType, gin.H{"id": id})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) Submit(c *gin.Context) {
	formID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid form ID"))
		return
	}

	var req model.SubmitFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	submission, err := h.service.Submit(c.Request.Context(), formID, claims.UserID, &req)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "form.submitted", submission)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(submission))
}

func (h *Handler) GetSubmission(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid submission ID"))
		return
	}

	submission, err := h.service.GetSubmission(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(submission))
}

func (h *Handler) ListSubmissions(c *gin.Context) {
	formID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid form ID"))
		return
	}

	submissions, err := h.service.ListSubmissions(c.Request.Context(), formID)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(submissions))
}
