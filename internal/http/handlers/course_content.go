package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-curriculum/internal/domain/learning/contenttree"
	"github.com/yungbote/neurobridge-curriculum/internal/http/response"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/logger"
	"github.com/yungbote/neurobridge-curriculum/internal/services"
)

type CourseContentHandler struct {
	log     *logger.Logger
	courses services.CourseContentService
}

func NewCourseContentHandler(log *logger.Logger, courses services.CourseContentService) *CourseContentHandler {
	return &CourseContentHandler{
		log:     log.With("handler", "CourseContentHandler"),
		courses: courses,
	}
}

type reconcileRequest struct {
	Course          *contenttree.CourseFields  `json:"course,omitempty"`
	Sections        []contenttree.SectionDraft `json:"sections"`
	ExpectedVersion *int64                     `json:"expected_version,omitempty"`
}

type createCourseRequest struct {
	Course   contenttree.CourseFields   `json:"course"`
	Sections []contenttree.SectionDraft `json:"sections"`
}

// POST /api/courses
func (h *CourseContentHandler) CreateCourse(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	out, err := h.courses.CreateCourse(c.Request.Context(), services.CreateCourseRequest{
		Course:   req.Course,
		Sections: req.Sections,
	})
	if err != nil {
		h.log.Warn("CreateCourse failed", "error", err)
		response.RespondServiceError(c, "create_course_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"course": out.Course, "stats": out.Stats})
}

// GET /api/courses
func (h *CourseContentHandler) ListMyCourses(c *gin.Context) {
	courses, err := h.courses.ListMyCourses(c.Request.Context())
	if err != nil {
		h.log.Error("ListMyCourses failed", "error", err)
		response.RespondServiceError(c, "load_courses_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}

// GET /api/courses/:id
func (h *CourseContentHandler) GetCourse(c *gin.Context) {
	courseID, ok := uuidParam(c, "id", "invalid_course_id")
	if !ok {
		return
	}
	course, err := h.courses.GetCourseTree(c.Request.Context(), courseID)
	if err != nil {
		response.RespondServiceError(c, "load_course_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

// PUT /api/courses/:id/content
//
// The body is the complete desired section list; anything omitted is deleted.
func (h *CourseContentHandler) ReconcileContent(c *gin.Context) {
	courseID, ok := uuidParam(c, "id", "invalid_course_id")
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	var req reconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	out, err := h.courses.Reconcile(c.Request.Context(), courseID, services.ReconcileRequest{
		Course:          req.Course,
		Sections:        req.Sections,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		response.RespondServiceError(c, "reconcile_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"course": out.Course, "stats": out.Stats})
}

// DELETE /api/courses/:id
func (h *CourseContentHandler) DeleteCourse(c *gin.Context) {
	courseID, ok := uuidParam(c, "id", "invalid_course_id")
	if !ok {
		return
	}
	out, err := h.courses.DeleteCourse(c.Request.Context(), courseID)
	if err != nil {
		response.RespondServiceError(c, "delete_course_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": out})
}
