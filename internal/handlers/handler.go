// Package handlers contains the HTTP route handlers. They stay thin:
// decode, delegate to SQL or the auth layer, translate errors once.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/vaughan-dsouza/AcadGo/internal/auth"
	"github.com/vaughan-dsouza/AcadGo/internal/logger"
	"github.com/vaughan-dsouza/AcadGo/internal/utils"
)

type Handler struct {
	DB            *sqlx.DB
	Auth          *AuthHandler
	Students      *StudentHandler
	Courses       *CourseHandler
	Registrations *RegistrationHandler
	Results       *ResultHandler
}

func NewHandler(db *sqlx.DB, store *auth.Store, tokens *auth.TokenManager, log *logger.Logger) *Handler {
	return &Handler{
		DB:            db,
		Auth:          NewAuthHandler(db, store, tokens, log),
		Students:      NewStudentHandler(db),
		Courses:       NewCourseHandler(db),
		Registrations: NewRegistrationHandler(db),
		Results:       NewResultHandler(db),
	}
}

// urlID parses a numeric path parameter. A non-numeric id answers
// 400 and the caller must return immediately.
func urlID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		utils.JSONError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// Health answers 200 when the database is reachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.PingContext(r.Context()); err != nil {
		utils.JSONError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
