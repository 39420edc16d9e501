package v1

import (
	"net/http"

	"go-interview-backend/internal/delivery/http/response"
	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	templateUC domain.TemplateUsecase
}

func NewTemplateHandler(protected *gin.RouterGroup, templateUC domain.TemplateUsecase) {
	handler := &TemplateHandler{templateUC: templateUC}

	templates := protected.Group("/templates")
	{
		templates.GET("", handler.List)
		templates.POST("", handler.Create)
		templates.POST("/validate", handler.Validate)
		templates.GET("/:id", handler.Get)
		templates.PUT("/:id", handler.Update)
		templates.DELETE("/:id", handler.Delete)
	}
}

const recruiterOnly = "Only recruiters can manage interview templates"

// CreateTemplate godoc
// @Summary      Create an interview template
// @Description  Validates every question and stores the template with its questions (recruiter only)
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        template  body      domain.TemplateInput  true  "Template"
// @Success      201       {object}  response.Response{data=domain.Template}
// @Failure      400       {object}  response.Response
// @Failure      403       {object}  response.Response
// @Router       /templates [post]
// @Security     BearerAuth
func (h *TemplateHandler) Create(c *gin.Context) {
	if !requireRole(c, recruiterOnly, domain.RoleRecruiter) {
		return
	}
	var input domain.TemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	tmpl, err := h.templateUC.CreateTemplate(c.Request.Context(), actorFrom(c), &input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Template created", tmpl)
}

// ValidateTemplate godoc
// @Summary      Validate a template without saving it
// @Description  Returns every structural violation at once
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        template  body      domain.TemplateInput  true  "Template"
// @Success      200       {object}  response.Response
// @Failure      400       {object}  response.Response{error=domain.ValidationError}
// @Router       /templates/validate [post]
// @Security     BearerAuth
func (h *TemplateHandler) Validate(c *gin.Context) {
	if !requireRole(c, recruiterOnly, domain.RoleRecruiter) {
		return
	}
	var input domain.TemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}
	if err := h.templateUC.ValidateTemplate(&input); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Template is valid", gin.H{"valid": true})
}

// ListTemplates godoc
// @Summary      List own templates
// @Tags         templates
// @Produce      json
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  response.Response{data=response.Paginated}
// @Router       /templates [get]
// @Security     BearerAuth
func (h *TemplateHandler) List(c *gin.Context) {
	if !requireRole(c, recruiterOnly, domain.RoleRecruiter) {
		return
	}
	page, pageSize := pageParams(c)
	items, total, err := h.templateUC.ListTemplates(c.Request.Context(), actorFrom(c), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Templates", response.Paginated{
		Items: items, Total: total, Page: page, PageSize: pageSize,
	})
}

// GetTemplate godoc
// @Summary      Get a template with its questions
// @Tags         templates
// @Produce      json
// @Param        id   path      int  true  "Template ID"
// @Success      200  {object}  response.Response{data=domain.Template}
// @Failure      404  {object}  response.Response
// @Router       /templates/{id} [get]
// @Security     BearerAuth
func (h *TemplateHandler) Get(c *gin.Context) {
	if !requireRole(c, recruiterOnly, domain.RoleRecruiter) {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	tmpl, err := h.templateUC.GetTemplate(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Template", tmpl)
}

// UpdateTemplate godoc
// @Summary      Replace a template
// @Description  Only allowed while no interview references the template
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        id        path      int                   true  "Template ID"
// @Param        template  body      domain.TemplateInput  true  "Template"
// @Success      200       {object}  response.Response{data=domain.Template}
// @Failure      400       {object}  response.Response
// @Failure      409       {object}  response.Response
// @Router       /templates/{id} [put]
// @Security     BearerAuth
func (h *TemplateHandler) Update(c *gin.Context) {
	if !requireRole(c, recruiterOnly, domain.RoleRecruiter) {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input domain.TemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}
	tmpl, err := h.templateUC.UpdateTemplate(c.Request.Context(), actorFrom(c), id, &input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Template updated", tmpl)
}

// DeleteTemplate godoc
// @Summary      Delete a template
// @Tags         templates
// @Produce      json
// @Param        id   path      int  true  "Template ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /templates/{id} [delete]
// @Security     BearerAuth
func (h *TemplateHandler) Delete(c *gin.Context) {
	if !requireRole(c, recruiterOnly, domain.RoleRecruiter) {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.templateUC.DeleteTemplate(c.Request.Context(), actorFrom(c), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Template deleted", nil)
}
