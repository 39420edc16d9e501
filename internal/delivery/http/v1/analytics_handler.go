package v1

import (
	"net/http"

	"go-interview-backend/internal/delivery/http/response"
	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AnalyticsHandler struct {
	analyticsUC domain.AnalyticsUsecase
	interviewUC domain.InterviewUsecase
	secLog      *security.SecurityLogger
}

func NewAnalyticsHandler(protected *gin.RouterGroup, analyticsUC domain.AnalyticsUsecase, interviewUC domain.InterviewUsecase, secLog *security.SecurityLogger) {
	handler := &AnalyticsHandler{analyticsUC: analyticsUC, interviewUC: interviewUC, secLog: secLog}

	analytics := protected.Group("/analytics")
	{
		analytics.GET("/recruiter/dashboard", handler.Dashboard)
		analytics.GET("/recruiter/export", handler.Export)
		analytics.GET("/interview/:id", handler.InterviewAnalysis)
		analytics.POST("/interview/:id/regenerate", handler.Regenerate)
	}
}

const analyticsRecruiterOnly = "Only recruiters can view analytics"

// RecruiterDashboard godoc
// @Summary      Recruiter dashboard
// @Description  Status counts, completion rate, last 7 days activity and score distribution
// @Tags         analytics
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.RecruiterAnalytics}
// @Router       /analytics/recruiter/dashboard [get]
// @Security     BearerAuth
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	if !requireRole(c, analyticsRecruiterOnly, domain.RoleRecruiter) {
		return
	}
	out, err := h.analyticsUC.GetRecruiterDashboard(c.Request.Context(), actorFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard", out)
}

// ExportResults godoc
// @Summary      Export interview results
// @Tags         analytics
// @Produce      application/octet-stream
// @Success      200  {file}  file
// @Router       /analytics/recruiter/export [get]
// @Security     BearerAuth
func (h *AnalyticsHandler) Export(c *gin.Context) {
	if !requireRole(c, analyticsRecruiterOnly, domain.RoleRecruiter) {
		return
	}
	data, filename, err := h.analyticsUC.ExportResults(c.Request.Context(), actorFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// InterviewAnalysis godoc
// @Summary      Interview analysis
// @Description  Returns the aggregate analysis of a completed interview, generating it on first access
// @Tags         analytics
// @Produce      json
// @Param        id   path      int  true  "Interview ID"
// @Success      200  {object}  response.Response{data=domain.InterviewAnalysisView}
// @Failure      409  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /analytics/interview/{id} [get]
// @Security     BearerAuth
func (h *AnalyticsHandler) InterviewAnalysis(c *gin.Context) {
	if !requireRole(c, analyticsRecruiterOnly, domain.RoleRecruiter) {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	out, err := h.interviewUC.GetAnalysis(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview analysis", out)
}

// RegenerateAnalysis godoc
// @Summary      Regenerate an interview analysis
// @Description  Rescores every response and replaces the stored analysis
// @Tags         analytics
// @Produce      json
// @Param        id   path      int  true  "Interview ID"
// @Success      200  {object}  response.Response{data=domain.InterviewAnalysisView}
// @Failure      409  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /analytics/interview/{id}/regenerate [post]
// @Security     BearerAuth
func (h *AnalyticsHandler) Regenerate(c *gin.Context) {
	if !requireRole(c, analyticsRecruiterOnly, domain.RoleRecruiter) {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	actor := actorFrom(c)
	out, err := h.interviewUC.RegenerateAnalysis(c.Request.Context(), actor, id)
	if err != nil {
		c.Error(err)
		return
	}
	h.secLog.LogAnalysisRegenerated(c.Request.Context(), actor.UserID, id)
	response.Success(c, http.StatusOK, "Analysis regenerated", out)
}
