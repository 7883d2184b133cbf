// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/mergington/internal/auth"
	"github.com/hitoshi/mergington/internal/middleware"
	"github.com/hitoshi/mergington/internal/model"
)

// maxLoginBodyBytes はログインリクエストボディの上限。
const maxLoginBodyBytes = 4 << 10

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Login(ctx context.Context, username, password string) (*model.Session, error)
	Logout(ctx context.Context, token string) error
	CurrentSession(ctx context.Context, token string) auth.SessionStatus
}

// AuthHandler は教員ログイン関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// loginRequest はログインリクエストのボディ。
// フィールドの欠落を検出するためポインタで受ける。
type loginRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// loginResponse はログイン成功時のレスポンス。
type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// sessionResponse はセッション状態のレスポンス。未認証の場合はauthenticatedのみを返す。
type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	Role          string `json:"role,omitempty"`
}

// Login は認証情報を検証し、Bearerトークンを発行する。
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxLoginBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("Request body must be a JSON object"))
		return
	}
	if req.Username == nil || req.Password == nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("username and password are required"))
		return
	}

	session, err := h.service.Login(r.Context(), *req.Username, *req.Password)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:    session.Token,
		Username: session.Username,
		Role:     session.Role,
	})
}

// Logout はセッションを破棄する。セッションミドルウェアの内側で呼ばれる。
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewLoginRequiredError())
		return
	}

	if err := h.service.Logout(r.Context(), middleware.TokenFromContext(r.Context())); err != nil {
		slog.Error("failed to logout", slog.String("error", err.Error()))
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out " + username})
}

// Session は現在のセッション状態を返す。トークンが無効でもエラーにはしない。
// GET /auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	status := h.service.CurrentSession(r.Context(), middleware.TokenFromContext(r.Context()))
	writeJSON(w, http.StatusOK, sessionResponse{
		Authenticated: status.Authenticated,
		Username:      status.Username,
		Role:          status.Role,
	})
}
