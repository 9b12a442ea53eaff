package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/escolar-mx/secundaria-api/internal/models"
	"github.com/escolar-mx/secundaria-api/internal/service"
	"github.com/escolar-mx/secundaria-api/pkg/response"
)

// StudentHandler exposes roster read endpoints.
type StudentHandler struct {
	service *service.SchoolService
}

// NewStudentHandler constructs a student handler.
func NewStudentHandler(svc *service.SchoolService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// List godoc
// @Summary List students
// @Description List the roster with optional filters
// @Tags Students
// @Produce json
// @Param grade query string false "Filter by grade level"
// @Param group query string false "Filter by group"
// @Param status query string false "Filter by status"
// @Param search query string false "Case-insensitive name search"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	filter := models.StudentFilter{
		Grade:  models.GradeLevel(c.Query("grade")),
		Group:  c.Query("group"),
		Status: models.StudentStatus(c.Query("status")),
		Search: c.Query("search"),
	}
	students := h.service.ListStudents(filter)
	response.JSON(c, http.StatusOK, students, map[string]interface{}{"total": len(students)})
}

// Get godoc
// @Summary Get a student
// @Description Get one student with their full grade sheet
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.service.GetStudent(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// Subjects godoc
// @Summary List subjects
// @Description List the curriculum catalog, optionally scoped to one grade
// @Tags Students
// @Produce json
// @Param grade query string false "Grade level"
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *StudentHandler) Subjects(c *gin.Context) {
	response.OK(c, h.service.ListSubjects(models.GradeLevel(c.Query("grade"))))
}
