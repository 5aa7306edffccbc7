package handlers

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/vaughan-dsouza/AcadGo/internal/auth"
	"github.com/vaughan-dsouza/AcadGo/internal/logger"
	"github.com/vaughan-dsouza/AcadGo/internal/middleware"
	"github.com/vaughan-dsouza/AcadGo/internal/models"
	"github.com/vaughan-dsouza/AcadGo/internal/utils"
)

type AuthHandler struct {
	db     *sqlx.DB
	store  *auth.Store
	tokens *auth.TokenManager
	log    *logger.Logger
}

func NewAuthHandler(db *sqlx.DB, store *auth.Store, tokens *auth.TokenManager, log *logger.Logger) *AuthHandler {
	return &AuthHandler{db: db, store: store, tokens: tokens, log: log}
}

// ----------- Request/Response DTOs -------------

type registerReq struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	Token string      `json:"token"`
	ID    int64       `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// -------------- REGISTER ----------------------

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	account, err := h.store.Register(r.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		utils.Error(w, err)
		return
	}

	h.log.Info("account registered", "account_id", account.ID, "role", account.Role)

	// Account serializes without the hash (json:"-")
	utils.JSON(w, http.StatusCreated, account)
}

// -------------- LOGIN ------------------------

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	account, err := h.store.VerifyCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.Error(w, err)
		return
	}

	token, err := h.tokens.Issue(account)
	if err != nil {
		h.log.Error("failed to issue token", "account_id", account.ID, "error", err.Error())
		utils.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	utils.JSON(w, http.StatusOK, loginResp{
		Token: token,
		ID:    account.ID,
		Email: account.Email,
		Role:  account.Role,
	})
}

// -------------- ME (protected) ----------------

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		utils.Error(w, auth.ErrMissingToken)
		return
	}

	var account models.Account
	err := h.db.GetContext(r.Context(), &account, `
		SELECT id, email, role, created_at
		FROM accounts
		WHERE id = $1
	`, identity.ID)

	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, account)
}
