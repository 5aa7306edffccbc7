package models

import "time"

type Student struct {
	ID           int64     `db:"id" json:"id"`
	AccountID    int64     `db:"account_id" json:"account_id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	EnrollmentNo string    `db:"enrollment_no" json:"enrollment_no"`
	YearOfStudy  int       `db:"year_of_study" json:"year_of_study"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
