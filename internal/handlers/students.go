package handlers

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/vaughan-dsouza/AcadGo/internal/auth"
	"github.com/vaughan-dsouza/AcadGo/internal/db"
	"github.com/vaughan-dsouza/AcadGo/internal/middleware"
	"github.com/vaughan-dsouza/AcadGo/internal/models"
	"github.com/vaughan-dsouza/AcadGo/internal/utils"
)

type StudentHandler struct {
	DB *sqlx.DB
}

func NewStudentHandler(conn *sqlx.DB) *StudentHandler {
	return &StudentHandler{DB: conn}
}

// ---------------------- CREATE ----------------------

func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AccountID    int64  `json:"account_id"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		EnrollmentNo string `json:"enrollment_no"`
		YearOfStudy  int    `json:"year_of_study"`
	}

	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return
	}

	if body.AccountID == 0 || body.FirstName == "" || body.LastName == "" || body.EnrollmentNo == "" {
		utils.JSONError(w, http.StatusBadRequest, "account_id, first_name, last_name and enrollment_no required")
		return
	}

	student := models.Student{
		AccountID:    body.AccountID,
		FirstName:    body.FirstName,
		LastName:     body.LastName,
		EnrollmentNo: body.EnrollmentNo,
		YearOfStudy:  body.YearOfStudy,
	}

	err := h.DB.QueryRowxContext(r.Context(), `
		INSERT INTO students (account_id, first_name, last_name, enrollment_no, year_of_study)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, body.AccountID, body.FirstName, body.LastName, body.EnrollmentNo, body.YearOfStudy).
		Scan(&student.ID, &student.CreatedAt)

	if err != nil {
		if db.IsUniqueViolation(err) {
			utils.JSONError(w, http.StatusBadRequest, "profile already exists for this account or enrollment number")
			return
		}
		if db.IsForeignKeyViolation(err) {
			utils.JSONError(w, http.StatusBadRequest, "account not found")
			return
		}
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, student)
}

// ---------------------- GET ONE ----------------------

func (h *StudentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var student models.Student
	err := h.DB.GetContext(r.Context(), &student, `SELECT * FROM students WHERE id = $1`, id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, student)
}

// ---------------------- LIST ----------------------

func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	students := []models.Student{}

	err := h.DB.SelectContext(r.Context(), &students, `SELECT * FROM students ORDER BY enrollment_no`)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, students)
}

// ---------------------- UPDATE ----------------------

func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var body struct {
		FirstName   *string `json:"first_name"`
		LastName    *string `json:"last_name"`
		YearOfStudy *int    `json:"year_of_study"`
	}

	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return
	}

	var student models.Student
	err := h.DB.GetContext(r.Context(), &student, `SELECT * FROM students WHERE id = $1`, id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	if body.FirstName != nil {
		student.FirstName = *body.FirstName
	}
	if body.LastName != nil {
		student.LastName = *body.LastName
	}
	if body.YearOfStudy != nil {
		student.YearOfStudy = *body.YearOfStudy
	}

	_, err = h.DB.ExecContext(r.Context(), `
		UPDATE students
		SET first_name = $1, last_name = $2, year_of_study = $3
		WHERE id = $4
	`, student.FirstName, student.LastName, student.YearOfStudy, id)

	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, student)
}

// ---------------------- DELETE ----------------------

func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	_, err := h.DB.ExecContext(r.Context(), `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ---------------------- MY PROFILE ----------------------

// MyProfile returns the profile linked to the authenticated account.
func (h *StudentHandler) MyProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utils.Error(w, auth.ErrMissingToken)
		return
	}

	var student models.Student
	err := h.DB.GetContext(r.Context(), &student, `SELECT * FROM students WHERE account_id = $1`, identity.ID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, student)
}
