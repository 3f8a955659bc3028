package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bible-bee-api/internal/models"
	"github.com/bible-bee-api/internal/services"
)

// EnrollmentHandler handles rule lookup, enrollment and progress endpoints
type EnrollmentHandler struct {
	rules      *services.RuleResolver
	enrollment *services.EnrollmentService
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(rules *services.RuleResolver, enrollment *services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{
		rules:      rules,
		enrollment: enrollment,
	}
}

// ApplicableRule handles GET /competition-years/:yearId/grade-rules/applicable
func (h *EnrollmentHandler) ApplicableRule(c echo.Context) error {
	grade, ok := services.ParseGrade(c.QueryParam("grade"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "A valid grade is required")
	}

	var ruleType *models.RuleType
	if v := c.QueryParam("type"); v != "" {
		t := models.RuleType(v)
		if !t.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "type must be scripture or essay")
		}
		ruleType = &t
	}

	rule, err := h.rules.GetApplicableGradeRule(c.Request().Context(), c.Param("yearId"), grade, ruleType)
	if err != nil {
		return serviceError("Rule lookup", err)
	}
	return c.JSON(http.StatusOK, models.ApplicableRuleResponse{Grade: grade, Rule: rule})
}

// RuleConflicts handles GET /competition-years/:yearId/rule-conflicts
func (h *EnrollmentHandler) RuleConflicts(c echo.Context) error {
	yearID := c.Param("yearId")
	conflicts, err := h.rules.FindRuleConflicts(c.Request().Context(), yearID)
	if err != nil {
		return serviceError("Conflict check", err)
	}
	return c.JSON(http.StatusOK, models.RuleConflictsResponse{CompetitionYearID: yearID, Conflicts: conflicts})
}

// EnrollYear handles POST /competition-years/:yearId/enrollments
func (h *EnrollmentHandler) EnrollYear(c echo.Context) error {
	result, err := h.enrollment.EnrollCompetitionYear(c.Request().Context(), c.Param("yearId"))
	if err != nil {
		return serviceError("Enrollment", err)
	}
	return c.JSON(http.StatusOK, result)
}

// EnrollChild handles POST /competition-years/:yearId/enrollments/:childId
func (h *EnrollmentHandler) EnrollChild(c echo.Context) error {
	childID := c.Param("childId")
	result, err := h.enrollment.EnrollChildInBibleBee(c.Request().Context(), childID, c.Param("yearId"))
	if err != nil {
		return serviceError("Enrollment", err)
	}
	return c.JSON(http.StatusOK, models.EnrollmentResponse{
		ChildID:    childID,
		Enrolled:   result != nil,
		Assignment: result,
	})
}

// UpdateScriptureStatus handles PATCH /student-scriptures/:id
func (h *EnrollmentHandler) UpdateScriptureStatus(c echo.Context) error {
	var req models.StatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	a, err := h.enrollment.UpdateScriptureStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return serviceError("Status update", err)
	}
	return c.JSON(http.StatusOK, a)
}

// SubmitEssay handles POST /student-essays/:id/submit
func (h *EnrollmentHandler) SubmitEssay(c echo.Context) error {
	e, err := h.enrollment.SubmitEssay(c.Request().Context(), c.Param("id"))
	if err != nil {
		return serviceError("Submit", err)
	}
	return c.JSON(http.StatusOK, e)
}

// RegisterRoutes registers enrollment routes
func (h *EnrollmentHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/competition-years/:yearId/grade-rules/applicable", h.ApplicableRule)
	g.GET("/competition-years/:yearId/rule-conflicts", h.RuleConflicts)
	g.POST("/competition-years/:yearId/enrollments", h.EnrollYear)
	g.POST("/competition-years/:yearId/enrollments/:childId", h.EnrollChild)
	g.PATCH("/student-scriptures/:id", h.UpdateScriptureStatus)
	g.POST("/student-essays/:id/submit", h.SubmitEssay)
}
