package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/mergington/internal/middleware"
	"github.com/hitoshi/mergington/internal/model"
)

// EnrollmentServiceInterface はアクティビティハンドラーが必要とするサービスインターフェース。
type EnrollmentServiceInterface interface {
	ListActivities(ctx context.Context) ([]*model.Activity, error)
	Signup(ctx context.Context, token, activityName, email string) (string, error)
	Unregister(ctx context.Context, token, activityName, email string) (string, error)
}

// ActivityHandler はアクティビティ一覧と名簿操作のHTTPハンドラー。
type ActivityHandler struct {
	service EnrollmentServiceInterface
}

// NewActivityHandler はActivityHandlerを生成する。
func NewActivityHandler(service EnrollmentServiceInterface) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// activityResponse はアクティビティ1件分のレスポンス。名前はキーとして外側に置く。
type activityResponse struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// activityCatalogResponse はアクティビティ名をキーとするJSONオブジェクトとしてエンコードされる。
// mapと異なり、カタログの並び順を保つ。
type activityCatalogResponse []*model.Activity

// MarshalJSON はjson.Marshalerを実装する。
func (c activityCatalogResponse) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.Name)
		if err != nil {
			return nil, err
		}
		participants := a.Participants
		if participants == nil {
			participants = []string{}
		}
		value, err := json.Marshal(activityResponse{
			Description:     a.Description,
			Schedule:        a.Schedule,
			MaxParticipants: a.MaxParticipants,
			Participants:    participants,
		})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ListActivities は全アクティビティを名簿付きで返す。
// GET /activities
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.service.ListActivities(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activityCatalogResponse(activities))
}

// Signup は生徒をアクティビティに登録する。
// POST /activities/{name}/signup?email=xxx
func (h *ActivityHandler) Signup(w http.ResponseWriter, r *http.Request) {
	name := activityNameParam(r)

	msg, err := h.service.Signup(r.Context(), middleware.TokenFromContext(r.Context()), name, r.URL.Query().Get("email"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

// Unregister は生徒をアクティビティから外す。
// DELETE /activities/{name}/unregister?email=xxx
func (h *ActivityHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	name := activityNameParam(r)

	msg, err := h.service.Unregister(r.Context(), middleware.TokenFromContext(r.Context()), name, r.URL.Query().Get("email"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

// activityNameParam はURLパスからアクティビティ名を取り出す。
// chiはRawPathが設定されている場合にエスケープ済みの値を返すため、その場合はデコードする。
// デコードできない値はそのまま返し、セッション検証と存在確認はサービスに委ねる。
func activityNameParam(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name
	}
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}
