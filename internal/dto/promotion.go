package dto

import "github.com/sekolahku/backoffice-api/internal/models"

// PromoteStudentRequest carries the promotion command payload.
type PromoteStudentRequest struct {
	TargetAcademicYearID string  `json:"target_academic_year_id" validate:"required"`
	TargetClassroomID    *string `json:"target_classroom_id,omitempty"`
	GradeLevelOverride   *string `json:"grade_level_override,omitempty"`
	WithFees             bool    `json:"with_fees,omitempty"`
}

// PromotionResult reports the outcome of a promotion. Graduated results
// carry no assignment and no grade level.
type PromotionResult struct {
	Student    *models.Student             `json:"student"`
	Assignment *models.ClassroomAssignment `json:"assignment,omitempty"`
	GradeLevel *models.GradeLevel          `json:"grade_level,omitempty"`
	Graduated  bool                        `json:"graduated"`
	Fees       []models.Fee                `json:"fees,omitempty"`
}
