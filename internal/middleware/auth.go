package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/medora-health/emr-admin-api/internal/handler"
	"github.com/medora-health/emr-admin-api/internal/model"
	"github.com/medora-health/emr-admin-api/pkg/access"
	"github.com/medora-health/emr-admin-api/pkg/auth"
)

const contextClaimsKey = "token_claims"

// PermissionSource loads the grants held by a role. Satisfied by the
// rbac service.
type PermissionSource interface {
	GetPermissionSet(ctx context.Context, roleID uuid.UUID) (access.PermissionSet, error)
}

type AuthMiddleware struct {
	jwtSvc      auth.JWTService
	permissions PermissionSource
	resolver    *access.Resolver
	cache       *gocache.Cache
}

func NewAuthMiddleware(jwtSvc auth.JWTService, permissions PermissionSource, resolver *access.Resolver) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSvc:      jwtSvc,
		permissions: permissions,
		resolver:    resolver,
		cache:       gocache.New(5*time.Minute, 10*time.Minute),
	}
}

// Authenticate verifies the bearer token and stores the claims in the
// request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.jwtSvc.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		c.Set(contextClaimsKey, &model.TokenClaims{
			UserID:   claims.UserID,
			Email:    claims.Email,
			UserType: claims.UserType,
			ClinicID: claims.ClinicID,
			RoleID:   claims.RoleID,
		})
		c.Next()
	}
}

// RequireAccess evaluates the route's requirement against the caller's
// grants. A missing or roleless caller carries an empty permission set,
// which the resolver denies unless the route is public or the caller's
// user type bypasses checks.
func (m *AuthMiddleware) RequireAccess(req access.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userType string
		var grants access.PermissionSet

		if claims, ok := ClaimsFromContext(c); ok {
			userType = claims.UserType
			if claims.RoleID != nil {
				set, err := m.permissionSet(c.Request.Context(), *claims.RoleID)
				if err != nil {
					c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to load permissions"))
					c.Abort()
					return
				}
				grants = set
			}
		}

		if !m.resolver.Resolve(userType, grants, req) {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("permission denied"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) permissionSet(ctx context.Context, roleID uuid.UUID) (access.PermissionSet, error) {
	key := roleID.String()
	if cached, ok := m.cache.Get(key); ok {
		return cached.(access.PermissionSet), nil
	}

	set, err := m.permissions.GetPermissionSet(ctx, roleID)
	if err != nil {
		return nil, err
	}
	m.cache.SetDefault(key, set)
	return set, nil
}

// InvalidateRole drops a role's cached permission set. Call after
// permission assignments change.
func (m *AuthMiddleware) InvalidateRole(roleID uuid.UUID) {
	m.cache.Delete(roleID.String())
}

// ClaimsFromContext returns the validated token claims, if any.
func ClaimsFromContext(c *gin.Context) (*model.TokenClaims, bool) {
	v, ok := c.Get(contextClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*model.TokenClaims)
	return claims, ok
}
