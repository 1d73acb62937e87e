package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	qualificationapp "github.com/servicehub/admin/internal/application/qualification"
)

// QualificationHandler handles provider qualification endpoints
type QualificationHandler struct {
	BaseHandler
	qualificationService *qualificationapp.QualificationService
}

// NewQualificationHandler creates a new QualificationHandler
func NewQualificationHandler(qualificationService *qualificationapp.QualificationService) *QualificationHandler {
	return &QualificationHandler{qualificationService: qualificationService}
}

// Create godoc
// @ID           createQualification
// @Summary      Open a qualification for a partner and specialty
// @Tags         qualifications
// @Accept       json
// @Produce      json
// @Param        request body qualificationapp.CreateQualificationRequest true "Qualification"
// @Success      201 {object} dto.Response{data=qualificationapp.QualificationResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /qualifications [post]
func (h *QualificationHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}

	var req qualificationapp.CreateQualificationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	q, err := h.qualificationService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, q)
}

// GetByID godoc
// @ID           getQualificationById
// @Summary      Get a qualification
// @Tags         qualifications
// @Produce      json
// @Param        id path string true "Qualification ID" format(uuid)
// @Success      200 {object} dto.Response{data=qualificationapp.QualificationResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /qualifications/{id} [get]
func (h *QualificationHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "qualification")
	if !ok {
		return
	}

	q, err := h.qualificationService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, q)
}

// List godoc
// @ID           listQualifications
// @Summary      List qualifications
// @Tags         qualifications
// @Produce      json
// @Param        status       query string false "pending, testing, submitted, in_review, approved or rejected"
// @Param        company_id   query string false "Company ID" format(uuid)
// @Param        specialty_id query string false "Specialty ID" format(uuid)
// @Param        order_dir    query string false "asc or desc"
// @Param        page         query int    false "Page number" default(1)
// @Param        page_size    query int    false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]qualificationapp.QualificationListResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /qualifications [get]
func (h *QualificationHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}

	var filter qualificationapp.QualificationListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	items, total, err := h.qualificationService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// StartTest godoc
// @ID           startQualificationTest
// @Summary      Hand the test to the provider
// @Tags         qualifications
// @Produce      json
// @Param        id path string true "Qualification ID" format(uuid)
// @Success      200 {object} dto.Response{data=qualificationapp.QualificationResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /qualifications/{id}/start-test [post]
func (h *QualificationHandler) StartTest(c *gin.Context) {
	runLifecycle(&h.BaseHandler, c, "qualification", h.qualificationService.StartTest)
}

// Submit godoc
// @ID           submitQualificationTest
// @Summary      Submit test answers
// @Tags         qualifications
// @Accept       json
// @Produce      json
// @Param        id      path string true "Qualification ID" format(uuid)
// @Param        request body qualificationapp.SubmitTestRequest true "Answers"
// @Success      200 {object} dto.Response{data=qualificationapp.QualificationResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /qualifications/{id}/submit [post]
func (h *QualificationHandler) Submit(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "qualification")
	if !ok {
		return
	}

	var req qualificationapp.SubmitTestRequest
	if !h.BindJSON(c, &req) {
		return
	}

	q, err := h.qualificationService.Submit(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, q)
}

// StartReview godoc
// @ID           startQualificationReview
// @Summary      Take a submitted test into review
// @Description  The authenticated user becomes the reviewer
// @Tags         qualifications
// @Produce      json
// @Param        id path string true "Qualification ID" format(uuid)
// @Success      200 {object} dto.Response{data=qualificationapp.QualificationResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /qualifications/{id}/start-review [post]
func (h *QualificationHandler) StartReview(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "qualification")
	if !ok {
		return
	}
	reviewerID, ok := h.reviewer(c)
	if !ok {
		return
	}

	q, err := h.qualificationService.StartReview(c.Request.Context(), tenantID, id, reviewerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, q)
}

// Score godoc
// @ID           scoreQualificationSubmission
// @Summary      Score a submission
// @Tags         qualifications
// @Accept       json
// @Produce      json
// @Param        id           path string true "Qualification ID" format(uuid)
// @Param        submissionId path string true "Submission ID" format(uuid)
// @Param        request      body qualificationapp.ScoreSubmissionRequest true "Score"
// @Success      200 {object} dto.Response{data=qualificationapp.QualificationResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /qualifications/{id}/submissions/{submissionId}/score [put]
func (h *QualificationHandler) Score(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "qualification")
	if !ok {
		return
	}
	submissionID, ok := h.uuidParam(c, "submissionId", "submission")
	if !ok {
		return
	}

	var req qualificationapp.ScoreSubmissionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	q, err := h.qualificationService.Score(c.Request.Context(), tenantID, id, submissionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, q)
}

// CheckItem godoc
// @ID           checkQualificationItem
// @Summary      Tick or untick a review checklist item
// @Tags         qualifications
// @Accept       json
// @Produce      json
// @Param        id      path string true "Qualification ID" format(uuid)
// @Param        itemId  path string true "Checklist item ID" format(uuid)
// @Param        request body qualificationapp.CheckItemRequest true "Check"
// @Success      200 {object} dto.Response{data=qualificationapp.QualificationResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /qualifications/{id}/checklist/{itemId} [put]
func (h *QualificationHandler) CheckItem(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "qualification")
	if !ok {
		return
	}
	itemID, ok := h.uuidParam(c, "itemId", "checklist item")
	if !ok {
		return
	}
	reviewerID, ok := h.reviewer(c)
	if !ok {
		return
	}

	var req qualificationapp.CheckItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	q, err := h.qualificationService.CheckItem(c.Request.Context(), tenantID, id, itemID, reviewerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, q)
}

// Approve godoc
// @ID           approveQualification
// @Summary      Approve a reviewed qualification
// @Tags         qualifications
// @Produce      json
// @Param        id path string true "Qualification ID" format(uuid)
// @Success      200 {object} dto.Response{data=qualificationapp.QualificationResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /qualifications/{id}/approve [post]
func (h *QualificationHandler) Approve(c *gin.Context) {
	runLifecycle(&h.BaseHandler, c, "qualification", h.qualificationService.Approve)
}

// Reject godoc
// @ID           rejectQualification
// @Summary      Reject a qualification
// @Tags         qualifications
// @Accept       json
// @Produce      json
// @Param        id      path string true "Qualification ID" format(uuid)
// @Param        request body qualificationapp.RejectQualificationRequest true "Reason"
// @Success      200 {object} dto.Response{data=qualificationapp.QualificationResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /qualifications/{id}/reject [post]
func (h *QualificationHandler) Reject(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "qualification")
	if !ok {
		return
	}

	var req qualificationapp.RejectQualificationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	q, err := h.qualificationService.Reject(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, q)
}

// Reopen godoc
// @ID           reopenQualification
// @Summary      Send a rejected qualification back to testing
// @Tags         qualifications
// @Produce      json
// @Param        id path string true "Qualification ID" format(uuid)
// @Success      200 {object} dto.Response{data=qualificationapp.QualificationResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /qualifications/{id}/reopen [post]
func (h *QualificationHandler) Reopen(c *gin.Context) {
	runLifecycle(&h.BaseHandler, c, "qualification", h.qualificationService.Reopen)
}

// UploadURL godoc
// @ID           qualificationUploadUrl
// @Summary      Presigned URL for a test attachment
// @Tags         qualifications
// @Accept       json
// @Produce      json
// @Param        id      path string true "Qualification ID" format(uuid)
// @Param        request body qualificationapp.UploadURLRequest true "File"
// @Success      200 {object} dto.Response{data=qualificationapp.UploadURLResponse}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /qualifications/{id}/attachments/upload-url [post]
func (h *QualificationHandler) UploadURL(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "qualification")
	if !ok {
		return
	}

	var req qualificationapp.UploadURLRequest
	if !h.BindJSON(c, &req) {
		return
	}

	upload, err := h.qualificationService.UploadURL(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, upload)
}

func (h *QualificationHandler) reviewer(c *gin.Context) (uuid.UUID, bool) {
	reviewerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "A signed-in reviewer is required")
		return uuid.Nil, false
	}
	return reviewerID, true
}
