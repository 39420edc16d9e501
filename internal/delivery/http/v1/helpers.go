package v1

import (
	"strconv"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// actorFrom builds the use case caller from what AuthMiddleware stored.
func actorFrom(c *gin.Context) domain.Actor {
	return domain.Actor{
		UserID: c.GetString(string(domain.KeyUserID)),
		Email:  c.GetString(string(domain.KeyUserEmail)),
		Role:   c.GetString(string(domain.KeyUserRole)),
	}
}

// requireRole records a 403 and returns false unless the caller holds one of
// roles. Admins always pass.
func requireRole(c *gin.Context, message string, roles ...string) bool {
	role := c.GetString(string(domain.KeyUserRole))
	if role == domain.RoleAdmin {
		return true
	}
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	c.Error(apperror.Forbidden(message))
	return false
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.Error(apperror.BadRequest("Invalid id"))
		return 0, false
	}
	return id, true
}

// pageParams reads page and page_size; the use cases clamp them.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	return page, pageSize
}
