package rest

import (
	"strconv"

	"shopviet-be/internal/utils"

	"github.com/gin-gonic/gin"
)

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := utils.ToUint(c.Param(name))
	if err != nil || id == 0 {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// pagination reads limit/page with the same clamps the repositories
// apply, so Meta reflects what was actually queried.
func pagination(c *gin.Context) (limit, page int) {
	limit = queryInt(c, "limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page = queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	return limit, page
}
