package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/medora-health/emr-admin-api/pkg/access"
)

// Guard turns a route's access requirement into middleware. Routes declare
// what they demand at registration time; a route without a declared
// requirement (or an explicit Public one) is denied by the resolver.
type Guard func(access.Requirement) gin.HandlerFunc
