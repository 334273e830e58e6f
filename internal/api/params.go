package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/isquicha/desafio-softfocus/internal/apperr"
)

// idParam parses the :id path parameter as an unsigned integer.
func idParam(c *gin.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.Validation("Path parameter 'id' must be a positive integer")
	}
	return uint(id), nil
}
