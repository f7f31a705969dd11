package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-curriculum/internal/http/response"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/logger"
	"github.com/yungbote/neurobridge-curriculum/internal/services"
)

type ProgressHandler struct {
	log      *logger.Logger
	progress services.ProgressService
}

func NewProgressHandler(log *logger.Logger, progress services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		log:      log.With("handler", "ProgressHandler"),
		progress: progress,
	}
}

// POST /api/courses/:id/enrollments
func (h *ProgressHandler) Enroll(c *gin.Context) {
	courseID, ok := uuidParam(c, "id", "invalid_course_id")
	if !ok {
		return
	}
	enr, err := h.progress.Enroll(c.Request.Context(), courseID)
	if err != nil {
		response.RespondServiceError(c, "enroll_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"enrollment": enr})
}

// GET /api/enrollments
func (h *ProgressHandler) ListMyEnrollments(c *gin.Context) {
	out, err := h.progress.ListMyEnrollments(c.Request.Context())
	if err != nil {
		h.log.Error("ListMyEnrollments failed", "error", err)
		response.RespondServiceError(c, "load_enrollments_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"enrollments": out})
}

// DELETE /api/enrollments/:id
func (h *ProgressHandler) Unenroll(c *gin.Context) {
	enrollmentID, ok := uuidParam(c, "id", "invalid_enrollment_id")
	if !ok {
		return
	}
	if err := h.progress.Unenroll(c.Request.Context(), enrollmentID); err != nil {
		response.RespondServiceError(c, "unenroll_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/enrollments/:id/summary
func (h *ProgressHandler) GetSummary(c *gin.Context) {
	enrollmentID, ok := uuidParam(c, "id", "invalid_enrollment_id")
	if !ok {
		return
	}
	summary, err := h.progress.GetProgressSummary(c.Request.Context(), enrollmentID)
	if err != nil {
		response.RespondServiceError(c, "load_summary_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"summary": summary})
}

// GET /api/enrollments/:id/lectures/:lecture_id/completion
func (h *ProgressHandler) GetCompletion(c *gin.Context) {
	enrollmentID, ok := uuidParam(c, "id", "invalid_enrollment_id")
	if !ok {
		return
	}
	lectureID, ok := uuidParam(c, "lecture_id", "invalid_lecture_id")
	if !ok {
		return
	}
	done, err := h.progress.IsLectureCompleted(c.Request.Context(), enrollmentID, lectureID)
	if err != nil {
		response.RespondServiceError(c, "load_completion_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"lecture_id": lectureID, "completed": done})
}

// PUT /api/enrollments/:id/lectures/:lecture_id/completion
func (h *ProgressHandler) MarkCompleted(c *gin.Context) {
	enrollmentID, ok := uuidParam(c, "id", "invalid_enrollment_id")
	if !ok {
		return
	}
	lectureID, ok := uuidParam(c, "lecture_id", "invalid_lecture_id")
	if !ok {
		return
	}
	rec, err := h.progress.MarkLectureCompleted(c.Request.Context(), enrollmentID, lectureID)
	if err != nil {
		response.RespondServiceError(c, "mark_completed_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"progress": rec})
}

// DELETE /api/enrollments/:id/lectures/:lecture_id/completion
func (h *ProgressHandler) MarkIncomplete(c *gin.Context) {
	enrollmentID, ok := uuidParam(c, "id", "invalid_enrollment_id")
	if !ok {
		return
	}
	lectureID, ok := uuidParam(c, "lecture_id", "invalid_lecture_id")
	if !ok {
		return
	}
	rec, err := h.progress.MarkLectureIncomplete(c.Request.Context(), enrollmentID, lectureID)
	if err != nil {
		response.RespondServiceError(c, "mark_incomplete_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"progress": rec})
}
