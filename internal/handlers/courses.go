package handlers

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/vaughan-dsouza/AcadGo/internal/db"
	"github.com/vaughan-dsouza/AcadGo/internal/models"
	"github.com/vaughan-dsouza/AcadGo/internal/utils"
)

type CourseHandler struct {
	DB *sqlx.DB
}

func NewCourseHandler(conn *sqlx.DB) *CourseHandler {
	return &CourseHandler{DB: conn}
}

// ---------------------- CREATE ----------------------

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code       string `json:"code"`
		Title      string `json:"title"`
		Credits    int    `json:"credits"`
		LecturerID *int64 `json:"lecturer_id"`
	}

	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return
	}

	if body.Code == "" || body.Title == "" {
		utils.JSONError(w, http.StatusBadRequest, "code and title required")
		return
	}

	course := models.Course{
		Code:       body.Code,
		Title:      body.Title,
		Credits:    body.Credits,
		LecturerID: body.LecturerID,
	}

	err := h.DB.QueryRowxContext(r.Context(), `
		INSERT INTO courses (code, title, credits, lecturer_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, body.Code, body.Title, body.Credits, body.LecturerID).
		Scan(&course.ID, &course.CreatedAt)

	if err != nil {
		if db.IsUniqueViolation(err) {
			utils.JSONError(w, http.StatusBadRequest, "course code already exists")
			return
		}
		if db.IsForeignKeyViolation(err) {
			utils.JSONError(w, http.StatusBadRequest, "lecturer not found")
			return
		}
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, course)
}

// ---------------------- GET ONE ----------------------

func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var course models.Course
	err := h.DB.GetContext(r.Context(), &course, `SELECT * FROM courses WHERE id = $1`, id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, course)
}

// ---------------------- LIST ----------------------

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	courses := []models.Course{}

	err := h.DB.SelectContext(r.Context(), &courses, `SELECT * FROM courses ORDER BY code`)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, courses)
}

// ---------------------- UPDATE ----------------------

func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var body struct {
		Title      *string `json:"title"`
		Credits    *int    `json:"credits"`
		LecturerID *int64  `json:"lecturer_id"`
	}

	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return
	}

	var course models.Course
	err := h.DB.GetContext(r.Context(), &course, `SELECT * FROM courses WHERE id = $1`, id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	if body.Title != nil {
		course.Title = *body.Title
	}
	if body.Credits != nil {
		course.Credits = *body.Credits
	}
	if body.LecturerID != nil {
		course.LecturerID = body.LecturerID
	}

	_, err = h.DB.ExecContext(r.Context(), `
		UPDATE courses
		SET title = $1, credits = $2, lecturer_id = $3
		WHERE id = $4
	`, course.Title, course.Credits, course.LecturerID, id)

	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, course)
}

// ---------------------- DELETE ----------------------

func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	_, err := h.DB.ExecContext(r.Context(), `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
