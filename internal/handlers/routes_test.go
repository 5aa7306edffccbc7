package handlers

import (
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaughan-dsouza/AcadGo/internal/models"
)

func duplicateErr() error { return &pgconn.PgError{Code: "23505"} }

func sqlNoRows() error { return sql.ErrNoRows }

// Role gating across the mounted route tree: the same token is
// admitted on routes matching its role, forbidden elsewhere, and
// every protected route rejects anonymous requests.
func TestRoutes_RoleGating(t *testing.T) {
	router, mock, tokens := newTestRouter(t)

	studentToken, err := tokens.Issue(models.Account{ID: 1, Role: models.RoleStudent})
	require.NoError(t, err)
	lecturerToken, err := tokens.Issue(models.Account{ID: 2, Role: models.RoleLecturer})
	require.NoError(t, err)

	t.Run("student route admits student", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM registrations").
			WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "course_id", "registered_at"}).
				AddRow(int64(1), int64(1), int64(3), time.Now()))

		rec := doJSON(t, router, http.MethodGet, "/my/registrations", "", studentToken)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("student route forbids lecturer", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/my/registrations", "", lecturerToken)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error":"forbidden"}`, rec.Body.String())
	})

	t.Run("lecturer route forbids student", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/results",
			`{"registration_id":1,"grade":"A"}`, studentToken)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin route forbids lecturer", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/courses",
			`{"code":"CS101","title":"Intro","credits":5}`, lecturerToken)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("no token is 401 not 403", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/my/registrations", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRoutes_LecturerRecordsResult(t *testing.T) {
	router, mock, tokens := newTestRouter(t)

	lecturerToken, err := tokens.Issue(models.Account{ID: 2, Role: models.RoleLecturer})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT c.lecturer_id").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"lecturer_id"}).AddRow(int64(2)))
	mock.ExpectQuery("INSERT INTO results").
		WithArgs(int64(9), "A", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "recorded_at"}).
			AddRow(int64(1), time.Now()))

	rec := doJSON(t, router, http.MethodPost, "/results",
		`{"registration_id":9,"grade":"A"}`, lecturerToken)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"grade":"A"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A lecturer can only touch registrations and results of courses
// they teach; the role gate alone is not enough.
func TestRoutes_ResultOwnership(t *testing.T) {
	router, mock, tokens := newTestRouter(t)

	lecturerToken, err := tokens.Issue(models.Account{ID: 2, Role: models.RoleLecturer})
	require.NoError(t, err)

	t.Run("record for foreign course is 403", func(t *testing.T) {
		mock.ExpectQuery("SELECT c.lecturer_id").
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"lecturer_id"}).AddRow(int64(99)))

		rec := doJSON(t, router, http.MethodPost, "/results",
			`{"registration_id":9,"grade":"A"}`, lecturerToken)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		// the insert never runs
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("record for unassigned course is 403", func(t *testing.T) {
		mock.ExpectQuery("SELECT c.lecturer_id").
			WillReturnRows(sqlmock.NewRows([]string{"lecturer_id"}).AddRow(nil))

		rec := doJSON(t, router, http.MethodPost, "/results",
			`{"registration_id":9,"grade":"A"}`, lecturerToken)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("record for unknown registration is 400", func(t *testing.T) {
		mock.ExpectQuery("SELECT c.lecturer_id").
			WillReturnError(sqlNoRows())

		rec := doJSON(t, router, http.MethodPost, "/results",
			`{"registration_id":404,"grade":"A"}`, lecturerToken)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"registration not found"}`, rec.Body.String())
	})

	t.Run("update of a foreign result is 403", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM results").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "registration_id", "grade", "score", "recorded_at"}).
				AddRow(int64(1), int64(9), "B", nil, time.Now()))
		mock.ExpectQuery("SELECT c.lecturer_id").
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"lecturer_id"}).AddRow(int64(99)))

		rec := doJSON(t, router, http.MethodPut, "/results/1",
			`{"grade":"A"}`, lecturerToken)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRoutes_CourseRosterOwnership(t *testing.T) {
	router, mock, tokens := newTestRouter(t)

	lecturerToken, err := tokens.Issue(models.Account{ID: 2, Role: models.RoleLecturer})
	require.NoError(t, err)

	t.Run("own course roster is listed", func(t *testing.T) {
		mock.ExpectQuery("SELECT lecturer_id FROM courses").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"lecturer_id"}).AddRow(int64(2)))
		mock.ExpectQuery("SELECT (.+) FROM registrations").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "course_id", "registered_at"}).
				AddRow(int64(4), int64(5), int64(1), time.Now()))

		rec := doJSON(t, router, http.MethodGet, "/courses/1/registrations", "", lecturerToken)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("foreign course roster is 403", func(t *testing.T) {
		mock.ExpectQuery("SELECT lecturer_id FROM courses").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"lecturer_id"}).AddRow(int64(99)))

		rec := doJSON(t, router, http.MethodGet, "/courses/1/registrations", "", lecturerToken)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		// the roster query never runs
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing course is 404", func(t *testing.T) {
		mock.ExpectQuery("SELECT lecturer_id FROM courses").
			WillReturnError(sqlNoRows())

		rec := doJSON(t, router, http.MethodGet, "/courses/42/registrations", "", lecturerToken)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRoutes_NonNumericID(t *testing.T) {
	router, mock, tokens := newTestRouter(t)

	adminToken, err := tokens.Issue(models.Account{ID: 3, Role: models.RoleAdmin})
	require.NoError(t, err)
	lecturerToken, err := tokens.Issue(models.Account{ID: 2, Role: models.RoleLecturer})
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		token  string
	}{
		{"delete student", http.MethodDelete, "/students/abc", "", adminToken},
		{"get student", http.MethodGet, "/students/abc", "", adminToken},
		{"get course", http.MethodGet, "/courses/abc", "", adminToken},
		{"delete course", http.MethodDelete, "/courses/abc", "", adminToken},
		{"update result", http.MethodPut, "/results/abc", `{"grade":"A"}`, lecturerToken},
		{"course roster", http.MethodGet, "/courses/abc/registrations", "", lecturerToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, tt.method, tt.path, tt.body, tt.token)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	// no statement ever reaches the database
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoutes_RegistrationUnknownCourse(t *testing.T) {
	router, mock, tokens := newTestRouter(t)

	studentToken, err := tokens.Issue(models.Account{ID: 1, Role: models.RoleStudent})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id FROM students").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
	mock.ExpectQuery("INSERT INTO registrations").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "registrations_course_id_fkey"})

	rec := doJSON(t, router, http.MethodPost, "/registrations",
		`{"course_id":404}`, studentToken)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"course not found"}`, rec.Body.String())
}

func TestRoutes_DuplicateRegistration(t *testing.T) {
	router, mock, tokens := newTestRouter(t)

	studentToken, err := tokens.Issue(models.Account{ID: 1, Role: models.RoleStudent})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id FROM students").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
	mock.ExpectQuery("INSERT INTO registrations").
		WillReturnError(duplicateErr())

	rec := doJSON(t, router, http.MethodPost, "/registrations",
		`{"course_id":3}`, studentToken)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"already registered for this course"}`, rec.Body.String())
}

func TestRoutes_CourseCRUD(t *testing.T) {
	router, mock, tokens := newTestRouter(t)

	adminToken, err := tokens.Issue(models.Account{ID: 3, Role: models.RoleAdmin})
	require.NoError(t, err)

	t.Run("create", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO courses").
			WithArgs("CS101", "Intro to Computing", 5, nil).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).
				AddRow(int64(3), time.Now()))

		rec := doJSON(t, router, http.MethodPost, "/courses",
			`{"code":"CS101","title":"Intro to Computing","credits":5}`, adminToken)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"CS101"`)
	})

	t.Run("duplicate code", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO courses").
			WillReturnError(duplicateErr())

		rec := doJSON(t, router, http.MethodPost, "/courses",
			`{"code":"CS101","title":"Intro to Computing","credits":5}`, adminToken)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get missing is 404", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM courses").
			WillReturnError(sqlNoRows())

		rec := doJSON(t, router, http.MethodGet, "/courses/99", "", adminToken)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
