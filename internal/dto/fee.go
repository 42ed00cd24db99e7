package dto

// GeneratePromotionFeesRequest asks for the promotion fee of a student in
// a grade and academic year to be generated (or returned when it already
// exists).
type GeneratePromotionFeesRequest struct {
	StudentID      string `json:"student_id" validate:"required"`
	GradeLevel     string `json:"grade_level" validate:"required"`
	AcademicYearID string `json:"academic_year_id" validate:"required"`
}
