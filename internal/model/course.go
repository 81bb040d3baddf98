package model

import (
	"time"

	"github.com/google/uuid"
)

// Course represents an e-learning course made of ordered lessons.
type Course struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Level       Level     `json:"level"`
	LessonCount int       `json:"lesson_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Lessons     []Lesson  `json:"lessons,omitempty"`
}

// Lesson is a single unit of a course. Position is 1-based and unique
// within a course.
type Lesson struct {
	ID              uuid.UUID `json:"id"`
	CourseID        uuid.UUID `json:"course_id"`
	Position        int       `json:"position"`
	Title           string    `json:"title"`
	VideoURL        string    `json:"video_url"`
	DurationMinutes int       `json:"duration_minutes"`
}

// CreateCourseRequest is the payload for creating a course with its lessons.
type CreateCourseRequest struct {
	Title       string                `json:"title" binding:"required,min=3,max=255"`
	Description string                `json:"description" binding:"omitempty,max=2000"`
	Category    Category              `json:"category" binding:"required,oneof=ballet hiphop salsa contemporary jazz"`
	Level       Level                 `json:"level" binding:"required,oneof=beginner intermediate advanced"`
	Lessons     []CreateLessonRequest `json:"lessons" binding:"required,min=1,dive"`
}

// CreateLessonRequest describes one lesson inside a course payload.
type CreateLessonRequest struct {
	Title           string `json:"title" binding:"required,min=2,max=255"`
	VideoURL        string `json:"video_url" binding:"required,url,max=500"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1,max=240"`
}

// UpdateCourseRequest is the payload for updating a course. When Lessons is
// present the full lesson list is replaced.
type UpdateCourseRequest struct {
	Title       string                `json:"title" binding:"omitempty,min=3,max=255"`
	Description *string               `json:"description" binding:"omitempty,max=2000"`
	Category    Category              `json:"category" binding:"omitempty,oneof=ballet hiphop salsa contemporary jazz"`
	Level       Level                 `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Lessons     []CreateLessonRequest `json:"lessons" binding:"omitempty,min=1,dive"`
}
