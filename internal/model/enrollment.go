package model

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment links an account to a course and tracks lesson progress.
// LastLessonPosition only ever moves forward; CompletedAt is stamped when
// the final lesson is completed.
type Enrollment struct {
	ID                 uuid.UUID  `json:"id"`
	AccountID          uuid.UUID  `json:"account_id"`
	CourseID           uuid.UUID  `json:"course_id"`
	LastLessonPosition int        `json:"last_lesson_position"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// EnrollmentWithProgress joins an enrollment with course display fields
// and a derived progress percentage.
type EnrollmentWithProgress struct {
	Enrollment
	CourseTitle     string  `json:"course_title"`
	LessonCount     int     `json:"lesson_count"`
	ProgressPercent float64 `json:"progress_percent"`
}
