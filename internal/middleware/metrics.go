package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// StatusRecorder はHTTPレスポンスの記録先。metrics.Collectorが実装する。
type StatusRecorder interface {
	RecordHTTPStatus(route string, statusCode int)
}

// unmatchedRoute はルーティングに一致しなかったリクエストのラベル。
const unmatchedRoute = "unmatched"

// NewMetricsMiddleware はルートパターン・ステータスコード別にレスポンスを記録するミドルウェアを返す。
// ラベルには実際のパスではなくchiのルートパターンを使い、アクティビティ名などで系列が増えないようにする。
func NewMetricsMiddleware(recorder StatusRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			route := unmatchedRoute
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			recorder.RecordHTTPStatus(route, rec.statusCode)
		})
	}
}
