package v1

import (
	"context"
	"net/http"

	"go-interview-backend/internal/delivery/http/response"
	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"
	"go-interview-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
	secLog *security.SecurityLogger
}

func NewAuthHandler(protected *gin.RouterGroup, authUC domain.AuthUsecase, secLog *security.SecurityLogger) {
	handler := &AuthHandler{authUC: authUC, secLog: secLog}

	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.POST("/sync", handler.SyncProfile)
		protectedAuth.GET("/me", handler.Me)
	}

	admin := protected.Group("/admin")
	{
		admin.PUT("/users/:id/role", handler.AssignRole)
	}
}

type SyncProfileRequest struct {
	Role      string `json:"role" binding:"omitempty,oneof=candidate recruiter admin"`
	FirstName string `json:"first_name" binding:"max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
	Company   string `json:"company" binding:"max=200"`
}

type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=candidate recruiter admin"`
}

// SyncProfile godoc
// @Summary      Sync the caller's profile
// @Description  Creates the local user on first login. Self-service roles are candidate and recruiter.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        profile  body      SyncProfileRequest  false  "Profile"
// @Success      200      {object}  response.Response{data=domain.User}
// @Router       /auth/sync [post]
// @Security     BearerAuth
func (h *AuthHandler) SyncProfile(c *gin.Context) {
	var req SyncProfileRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(apperror.BadRequest(err.Error()))
			return
		}
	}

	actor := actorFrom(c)
	if req.Role == domain.RoleAdmin && actor.Role != domain.RoleAdmin {
		h.secLog.LogPrivilegeEscalation(c.Request.Context(), actor.Email, req.Role)
	}

	user := &domain.User{
		ID:    actor.UserID,
		Email: actor.Email,
		Role:  req.Role,
	}
	if req.FirstName != "" {
		user.FirstName = &req.FirstName
	}
	if req.LastName != "" {
		user.LastName = &req.LastName
	}
	if req.Company != "" {
		user.Company = &req.Company
	}

	if err := h.authUC.EnsureUserExists(c.Request.Context(), user); err != nil {
		c.Error(err)
		return
	}

	// Re-read so an existing admin role is reported correctly
	current, err := h.authUC.GetCurrentUser(c.Request.Context(), actor.UserID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile synced", current)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      404  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUC.GetCurrentUser(c.Request.Context(), actorFrom(c).UserID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User details", user)
}

// AssignRole godoc
// @Summary      Assign a role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User ID"
// @Param        role  body      AssignRoleRequest  true  "Role"
// @Success      200   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /admin/users/{id}/role [put]
// @Security     BearerAuth
func (h *AuthHandler) AssignRole(c *gin.Context) {
	if !requireRole(c, "Only admins can assign roles") {
		return
	}
	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	actor := actorFrom(c)
	targetID := c.Param("id")
	ctx := context.WithValue(c.Request.Context(), domain.KeyUserRole, actor.Role)
	if err := h.authUC.AssignRole(ctx, targetID, req.Role); err != nil {
		c.Error(err)
		return
	}
	h.secLog.LogRoleChanged(c.Request.Context(), actor.UserID, targetID, req.Role)
	response.Success(c, http.StatusOK, "Role assigned", gin.H{"user_id": targetID, "role": req.Role})
}
