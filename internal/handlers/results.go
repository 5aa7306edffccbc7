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

type ResultHandler struct {
	DB *sqlx.DB
}

func NewResultHandler(conn *sqlx.DB) *ResultHandler {
	return &ResultHandler{DB: conn}
}

// registrationOwner resolves the lecturer teaching the course behind
// a registration. Nil means the course has no lecturer assigned.
func (h *ResultHandler) registrationOwner(r *http.Request, registrationID int64) (*int64, error) {
	var lecturerID *int64
	err := h.DB.GetContext(r.Context(), &lecturerID, `
		SELECT c.lecturer_id
		FROM registrations reg
		JOIN courses c ON c.id = reg.course_id
		WHERE reg.id = $1
	`, registrationID)
	return lecturerID, err
}

// ---------------------- RECORD (lecturer) ----------------------

// Record stores a grade for a registration in a course the
// authenticated lecturer teaches. Other lecturers' courses are 403.
func (h *ResultHandler) Record(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utils.Error(w, auth.ErrMissingToken)
		return
	}

	var body struct {
		RegistrationID int64    `json:"registration_id"`
		Grade          string   `json:"grade"`
		Score          *float64 `json:"score"`
	}

	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return
	}

	if body.RegistrationID == 0 || body.Grade == "" {
		utils.JSONError(w, http.StatusBadRequest, "registration_id and grade required")
		return
	}

	lecturerID, err := h.registrationOwner(r, body.RegistrationID)
	if errors.Is(err, sql.ErrNoRows) {
		utils.JSONError(w, http.StatusBadRequest, "registration not found")
		return
	}
	if err != nil {
		utils.Error(w, err)
		return
	}
	if lecturerID == nil || *lecturerID != identity.ID {
		utils.Error(w, auth.ErrForbidden)
		return
	}

	result := models.Result{
		RegistrationID: body.RegistrationID,
		Grade:          body.Grade,
		Score:          body.Score,
	}

	err = h.DB.QueryRowxContext(r.Context(), `
		INSERT INTO results (registration_id, grade, score)
		VALUES ($1, $2, $3)
		RETURNING id, recorded_at
	`, body.RegistrationID, body.Grade, body.Score).
		Scan(&result.ID, &result.RecordedAt)

	if err != nil {
		if db.IsUniqueViolation(err) {
			utils.JSONError(w, http.StatusBadRequest, "result already recorded for this registration")
			return
		}
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, result)
}

// ---------------------- UPDATE (lecturer) ----------------------

func (h *ResultHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utils.Error(w, auth.ErrMissingToken)
		return
	}

	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var body struct {
		Grade *string  `json:"grade"`
		Score *float64 `json:"score"`
	}

	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return
	}

	var result models.Result
	err := h.DB.GetContext(r.Context(), &result, `SELECT * FROM results WHERE id = $1`, id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	lecturerID, err := h.registrationOwner(r, result.RegistrationID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if lecturerID == nil || *lecturerID != identity.ID {
		utils.Error(w, auth.ErrForbidden)
		return
	}

	if body.Grade != nil {
		result.Grade = *body.Grade
	}
	if body.Score != nil {
		result.Score = body.Score
	}

	_, err = h.DB.ExecContext(r.Context(), `
		UPDATE results
		SET grade = $1, score = $2
		WHERE id = $3
	`, result.Grade, result.Score, id)

	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, result)
}

// ---------------------- MINE (student) ----------------------

func (h *ResultHandler) Mine(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utils.Error(w, auth.ErrMissingToken)
		return
	}

	results := []models.Result{}

	err := h.DB.SelectContext(r.Context(), &results, `
		SELECT res.id, res.registration_id, res.grade, res.score, res.recorded_at
		FROM results res
		JOIN registrations reg ON reg.id = res.registration_id
		JOIN students s ON s.id = reg.student_id
		WHERE s.account_id = $1
		ORDER BY res.recorded_at DESC
	`, identity.ID)

	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, results)
}
