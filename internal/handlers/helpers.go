package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
)

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return false
	}
	return true
}

// bindPatch reads a partial update. Unknown fields are ignored by the merge.
func bindPatch(c *gin.Context) (map[string]any, bool) {
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil || len(patch) == 0 {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return nil, false
	}
	return patch, true
}
