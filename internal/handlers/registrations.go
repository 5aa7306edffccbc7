package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/vaughan-dsouza/AcadGo/internal/auth"
	"github.com/vaughan-dsouza/AcadGo/internal/db"
	"github.com/vaughan-dsouza/AcadGo/internal/middleware"
	"github.com/vaughan-dsouza/AcadGo/internal/models"
	"github.com/vaughan-dsouza/AcadGo/internal/utils"
)

type RegistrationHandler struct {
	DB *sqlx.DB
}

func NewRegistrationHandler(conn *sqlx.DB) *RegistrationHandler {
	return &RegistrationHandler{DB: conn}
}

// ---------------------- CREATE (student) ----------------------

// Create registers the authenticated student for a course. The
// student row is resolved from the identity, never from the body, so
// a student cannot register someone else.
func (h *RegistrationHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utils.Error(w, auth.ErrMissingToken)
		return
	}

	var body struct {
		CourseID int64 `json:"course_id"`
	}

	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return
	}

	if body.CourseID == 0 {
		utils.JSONError(w, http.StatusBadRequest, "course_id required")
		return
	}

	var studentID int64
	err := h.DB.GetContext(r.Context(), &studentID,
		`SELECT id FROM students WHERE account_id = $1`, identity.ID)
	if errors.Is(err, sql.ErrNoRows) {
		utils.JSONError(w, http.StatusBadRequest, "no student profile for this account")
		return
	}
	if err != nil {
		utils.Error(w, err)
		return
	}

	reg := models.Registration{
		StudentID: studentID,
		CourseID:  body.CourseID,
	}

	err = h.DB.QueryRowxContext(r.Context(), `
		INSERT INTO registrations (student_id, course_id)
		VALUES ($1, $2)
		RETURNING id, registered_at
	`, studentID, body.CourseID).Scan(&reg.ID, &reg.RegisteredAt)

	if err != nil {
		if db.IsUniqueViolation(err) {
			utils.JSONError(w, http.StatusBadRequest, "already registered for this course")
			return
		}
		if db.IsForeignKeyViolation(err) {
			utils.JSONError(w, http.StatusBadRequest, "course not found")
			return
		}
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, reg)
}

// ---------------------- MINE (student) ----------------------

func (h *RegistrationHandler) Mine(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utils.Error(w, auth.ErrMissingToken)
		return
	}

	regs := []models.Registration{}

	err := h.DB.SelectContext(r.Context(), &regs, `
		SELECT reg.id, reg.student_id, reg.course_id, reg.registered_at
		FROM registrations reg
		JOIN students s ON s.id = reg.student_id
		WHERE s.account_id = $1
		ORDER BY reg.registered_at DESC
	`, identity.ID)

	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, regs)
}

// ---------------------- FOR COURSE (lecturer) ----------------------

// ForCourse lists a course's registrations for the lecturer teaching
// it. Lecturers do not see each other's rosters: a course owned by
// someone else answers 403, a missing course 404.
func (h *RegistrationHandler) ForCourse(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utils.Error(w, auth.ErrMissingToken)
		return
	}

	courseID, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var lecturerID *int64
	err := h.DB.GetContext(r.Context(), &lecturerID,
		`SELECT lecturer_id FROM courses WHERE id = $1`, courseID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if lecturerID == nil || *lecturerID != identity.ID {
		utils.Error(w, auth.ErrForbidden)
		return
	}

	regs := []models.Registration{}

	err = h.DB.SelectContext(r.Context(), &regs, `
		SELECT id, student_id, course_id, registered_at
		FROM registrations
		WHERE course_id = $1
		ORDER BY registered_at
	`, courseID)

	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, regs)
}
