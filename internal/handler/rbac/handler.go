package rbac

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medora-health/emr-admin-api/internal/handler"
	"github.com/medora-health/emr-admin-api/internal/model"
	rbacService "github.com/medora-health/emr-admin-api/internal/service/rbac"
	"github.com/medora-health/emr-admin-api/pkg/access"
)

// RoleCacheInvalidator drops cached permission sets after grants change.
type RoleCacheInvalidator interface {
	InvalidateRole(roleID uuid.UUID)
}

type Handler struct {
	service     *rbacService.Service
	emitter     *handler.Emitter
	invalidator RoleCacheInvalidator
}

func NewHandler(service *rbacService.Service, emitter *handler.Emitter, invalidator RoleCacheInvalidator) *Handler {
	return &Handler{
		service:     service,
		emitter:     emitter,
		invalidator: invalidator,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, guard handler.Guard) {
	read := guard(access.Require(model.ModuleAccess, model.OperationRead))
	create := guard(access.Require(model.ModuleAccess, model.OperationCreate))
	update := guard(access.Require(model.ModuleAccess, model.OperationUpdate))
	remove := guard(access.Require(model.ModuleAccess, model.OperationDelete))

	rbac := r.Group("/rbac")
	{
		roles := rbac.Group("/roles")
		{
			roles.POST("", create, h.CreateRole)
			roles.GET("", read, h.ListRoles)
			roles.GET("/:id", read, h.GetRole)
			roles.PUT("/:id", update, h.UpdateRole)
			roles.DELETE("/:id", remove, h.DeleteRole)
			roles.GET("/:id/permissions", read, h.ListRolePermissions)
			roles.POST("/:id/permissions/:moduleOperationId", update, h.AssignPermission)
			roles.DELETE("/:id/permissions/:moduleOperationId", update, h.RemovePermission)
		}

		rbac.POST("/modules", create, h.CreateModule)
		rbac.GET("/modules", read, h.ListModules)
		rbac.DELETE("/modules/:id", remove, h.DeleteModule)

		rbac.POST("/operations", create, h.CreateOperation)
		rbac.GET("/operations", read, h.ListOperations)
		rbac.DELETE("/operations/:id", remove, h.DeleteOperation)

		rbac.POST("/module-operations", create, h.CreateModuleOperation)
		rbac.GET("/module-operations", read, h.ListModuleOperations)
		rbac.DELETE("/module-operations/:id", remove, h.DeleteModuleOperation)
	}
}

func (h *Handler) CreateRole(c *gin.Context) {
	var req model.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	role := &model.Role{
		Name:           req.Name,
		Description:    req.Description,
		IsPracticeRole: req.IsPracticeRole,
	}
	if req.ClinicID != nil {
		clinicID, err := uuid.Parse(*req.ClinicID)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid clinic ID"))
			return
		}
		role.ClinicID = &clinicID
	}

	if err := h.service.CreateRole(c.Request.Context(), role); err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "rbac.role.created", role)
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(role))
}

func (h *Handler) GetRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid role ID"))
		return
	}

	role, err := h.service.GetRole(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(role))
}

func (h *Handler) UpdateRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid role ID"))
		return
	}

	var req model.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	role, err := h.service.GetRole(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	if req.Name != nil {
		role.Name = *req.Name
	}
	if req.Description != nil {
		role.Description = *req.Description
	}

	if err := h.service.UpdateRole(c.Request.Context(), role); err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.emitter.Emit(c.Request.Context(), "rbac.role.updated", role)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(role))
}

func (h *Handler) DeleteRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid role ID"))
		return
	}

	if err := h.service.DeleteRole(c.Request.Context(), id); err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.invalidator.InvalidateRole(id)
	h.emitter.Emit(c.Request.Context(), "rbac.role.deleted", gin.H{"id": id})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListRoles(c *gin.Context) {
	var clinicID *uuid.UUID
	if raw := c.Query("clinic_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid clinic ID"))
			return
		}
		clinicID = &id
	}

	roles, err := h.service.ListRoles(c.Request.Context(), clinicID)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(roles))
}

func (h *Handler) CreateModule(c *gin.Context) {
	var req model.CreateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	module := &model.Module{Name: req.Name, Description: req.Description}
	if err := h.service.CreateModule(c.Request.Context(), module); err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(module))
}

func (h *Handler) ListModules(c *gin.Context) {
	modules, err := h.service.ListModules(c.Request.Context())
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(modules))
}

func (h *Handler) DeleteModule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid module ID"))
		return
	}

	if err := h.service.DeleteModule(c.Request.Context(), id); err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) CreateOperation(c *gin.Context) {
	var req model.CreateOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	operation := &model.Operation{Name: req.Name}
	if err := h.service.CreateOperation(c.Request.Context(), operation); err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(operation))
}

func (h *Handler) ListOperations(c *gin.Context) {
	operations, err := h.service.ListOperations(c.Request.Context())
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(operations))
}

func (h *Handler) DeleteOperation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid operation ID"))
		return
	}

	if err := h.service.DeleteOperation(c.Request.Context(), id); err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) CreateModuleOperation(c *gin.Context) {
	var req model.CreateModuleOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	moduleID, err := uuid.Parse(req.ModuleID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid module ID"))
		return
	}
	operationID, err := uuid.Parse(req.OperationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid operation ID"))
		return
	}

	mo := &model.ModuleOperation{ModuleID: moduleID, OperationID: operationID}
	if err := h.service.CreateModuleOperation(c.Request.Context(), mo); err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(mo))
}

func (h *Handler) ListModuleOperations(c *gin.Context) {
	list, err := h.service.ListModuleOperations(c.Request.Context())
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(list))
}

func (h *Handler) DeleteModuleOperation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid module operation ID"))
		return
	}

	if err := h.service.DeleteModuleOperation(c.Request.Context(), id); err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) AssignPermission(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid role ID"))
		return
	}
	moID, err := uuid.Parse(c.Param("moduleOperationId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid module operation ID"))
		return
	}

	if err := h.service.AssignPermission(c.Request.Context(), roleID, moID); err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.invalidator.InvalidateRole(roleID)
	h.emitter.Emit(c.Request.Context(), "rbac.permission.assigned", gin.H{
		"role_id":             roleID,
		"module_operation_id": moID,
	})
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(nil))
}

func (h *Handler) RemovePermission(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid role ID"))
		return
	}
	moID, err := uuid.Parse(c.Param("moduleOperationId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid module operation ID"))
		return
	}

	if err := h.service.RemovePermission(c.Request.Context(), roleID, moID); err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}

	h.invalidator.InvalidateRole(roleID)
	h.emitter.Emit(c.Request.Context(), "rbac.permission.removed", gin.H{
		"role_id":             roleID,
		"module_operation_id": moID,
	})
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListRolePermissions(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid role ID"))
		return
	}

	permissions, err := h.service.ListRolePermissions(c.Request.Context(), roleID)
	if err != nil {
		c.JSON(handler.HTTPStatus(err), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(permissions))
}
