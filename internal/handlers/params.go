package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/leasebook/internal/errors"
)

// pathID parses a positive numeric path parameter. On failure it writes a 400
// response and returns false.
func pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name, map[string]interface{}{name: raw})
		return 0, false
	}
	return uint(id), true
}

// bindJSON binds and validates the request body. On failure it writes the
// error response and returns false.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		apierrors.BindError(c, err, "Invalid request body")
		return false
	}
	return true
}

// bindQuery binds and validates query parameters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		apierrors.BindError(c, err, "Invalid query parameters")
		return false
	}
	return true
}
