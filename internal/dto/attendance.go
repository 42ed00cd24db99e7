package dto

// RollupRequest asks for the attendance rollup of one calendar date.
type RollupRequest struct {
	Date string `json:"date" validate:"required"`
}

// RollupResult reports how many attendance rows one rollup run touched.
type RollupResult struct {
	Date         string `json:"date"`
	StudentCount int    `json:"student_count"`
	StaffCount   int    `json:"staff_count"`
}
