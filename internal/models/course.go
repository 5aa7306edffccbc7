package models

import "time"

type Course struct {
	ID         int64     `db:"id" json:"id"`
	Code       string    `db:"code" json:"code"`
	Title      string    `db:"title" json:"title"`
	Credits    int       `db:"credits" json:"credits"`
	LecturerID *int64    `db:"lecturer_id" json:"lecturer_id,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type Registration struct {
	ID           int64     `db:"id" json:"id"`
	StudentID    int64     `db:"student_id" json:"student_id"`
	CourseID     int64     `db:"course_id" json:"course_id"`
	RegisteredAt time.Time `db:"registered_at" json:"registered_at"`
}

// Result holds the grade recorded for one registration. Score is
// nullable: some courses are graded pass/fail only.
type Result struct {
	ID             int64     `db:"id" json:"id"`
	RegistrationID int64     `db:"registration_id" json:"registration_id"`
	Grade          string    `db:"grade" json:"grade"`
	Score          *float64  `db:"score" json:"score,omitempty"`
	RecordedAt     time.Time `db:"recorded_at" json:"recorded_at"`
}
