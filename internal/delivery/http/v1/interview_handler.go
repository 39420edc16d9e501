package v1

import (
	"net/http"

	"go-interview-backend/internal/delivery/http/response"
	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type InterviewHandler struct {
	interviewUC domain.InterviewUsecase
}

// NewInterviewHandler registers interview routes. submitLimit guards the
// submission endpoint, which triggers scoring.
func NewInterviewHandler(protected *gin.RouterGroup, interviewUC domain.InterviewUsecase, submitLimit gin.HandlerFunc) {
	handler := &InterviewHandler{interviewUC: interviewUC}

	interviews := protected.Group("/interviews")
	{
		interviews.POST("", handler.Create)
		interviews.GET("/recruiter", handler.ListForRecruiter)
		interviews.GET("/candidate", handler.ListForCandidate)
		interviews.GET("/:id", handler.Get)
		interviews.POST("/:id/start", handler.Start)
		interviews.POST("/:id/submit", submitLimit, handler.Submit)
		interviews.POST("/:id/video-upload-url", handler.VideoUploadURL)
	}
}

type SubmitResponsesRequest struct {
	Responses []domain.ResponseInput `json:"responses" binding:"required,min=1,dive"`
}

// CreateInterview godoc
// @Summary      Schedule an interview
// @Description  Creates a pending interview from an active template and emails the candidate (recruiter only)
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        interview  body      domain.CreateInterviewInput  true  "Interview"
// @Success      201        {object}  response.Response{data=domain.InterviewInvitation}
// @Failure      400        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Router       /interviews [post]
// @Security     BearerAuth
func (h *InterviewHandler) Create(c *gin.Context) {
	if !requireRole(c, "Only recruiters can schedule interviews", domain.RoleRecruiter) {
		return
	}
	var input domain.CreateInterviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	out, err := h.interviewUC.CreateInterview(c.Request.Context(), actorFrom(c), &input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Interview scheduled", out)
}

// ListRecruiterInterviews godoc
// @Summary      List interviews scheduled by the caller
// @Tags         interviews
// @Produce      json
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  response.Response{data=response.Paginated}
// @Router       /interviews/recruiter [get]
// @Security     BearerAuth
func (h *InterviewHandler) ListForRecruiter(c *gin.Context) {
	if !requireRole(c, "Only recruiters can list scheduled interviews", domain.RoleRecruiter) {
		return
	}
	page, pageSize := pageParams(c)
	items, total, err := h.interviewUC.ListForRecruiter(c.Request.Context(), actorFrom(c), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interviews", response.Paginated{
		Items: items, Total: total, Page: page, PageSize: pageSize,
	})
}

// ListCandidateInterviews godoc
// @Summary      List interviews the caller is invited to
// @Tags         interviews
// @Produce      json
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  response.Response{data=response.Paginated}
// @Router       /interviews/candidate [get]
// @Security     BearerAuth
func (h *InterviewHandler) ListForCandidate(c *gin.Context) {
	if !requireRole(c, "Only candidates can list their invitations", domain.RoleCandidate) {
		return
	}
	page, pageSize := pageParams(c)
	items, total, err := h.interviewUC.ListForCandidate(c.Request.Context(), actorFrom(c), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interviews", response.Paginated{
		Items: items, Total: total, Page: page, PageSize: pageSize,
	})
}

// GetInterview godoc
// @Summary      Get an interview
// @Description  Recruiters see responses with analyses; candidates see their own answers only
// @Tags         interviews
// @Produce      json
// @Param        id   path      int  true  "Interview ID"
// @Success      200  {object}  response.Response{data=domain.InterviewDetail}
// @Failure      404  {object}  response.Response
// @Router       /interviews/{id} [get]
// @Security     BearerAuth
func (h *InterviewHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	detail, err := h.interviewUC.GetInterview(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview", detail)
}

// StartInterview godoc
// @Summary      Start an interview
// @Description  pending to in_progress; starting an in-progress interview is a no-op
// @Tags         interviews
// @Produce      json
// @Param        id   path      int  true  "Interview ID"
// @Success      200  {object}  response.Response{data=domain.Interview}
// @Failure      409  {object}  response.Response
// @Router       /interviews/{id}/start [post]
// @Security     BearerAuth
func (h *InterviewHandler) Start(c *gin.Context) {
	if !requireRole(c, "Only candidates can start interviews", domain.RoleCandidate) {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	iv, err := h.interviewUC.Start(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview started", iv)
}

// SubmitResponses godoc
// @Summary      Submit answers
// @Description  Stores and scores a batch of answers. The interview completes once every required question is answered.
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        id         path      int                     true  "Interview ID"
// @Param        responses  body      SubmitResponsesRequest  true  "Answers"
// @Success      200        {object}  response.Response{data=domain.SubmissionResult}
// @Failure      400        {object}  response.Response
// @Failure      409        {object}  response.Response
// @Failure      429        {object}  response.Response
// @Router       /interviews/{id}/submit [post]
// @Security     BearerAuth
func (h *InterviewHandler) Submit(c *gin.Context) {
	if !requireRole(c, "Only candidates can submit answers", domain.RoleCandidate) {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req SubmitResponsesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	result, err := h.interviewUC.SubmitResponses(c.Request.Context(), actorFrom(c), id, req.Responses)
	if err != nil {
		c.Error(err)
		return
	}

	msg := "Responses saved"
	if result.Completed {
		msg = "Interview completed"
	}
	response.Success(c, http.StatusOK, msg, result)
}

// VideoUploadURL godoc
// @Summary      Get a pre-signed video upload URL
// @Tags         interviews
// @Produce      json
// @Param        id   path      int  true  "Interview ID"
// @Success      200  {object}  response.Response{data=domain.UploadURL}
// @Failure      409  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /interviews/{id}/video-upload-url [post]
// @Security     BearerAuth
func (h *InterviewHandler) VideoUploadURL(c *gin.Context) {
	if !requireRole(c, "Only candidates can upload answers", domain.RoleCandidate) {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	out, err := h.interviewUC.IssueVideoUploadURL(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Upload URL issued", out)
}
