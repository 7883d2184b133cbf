package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/mergington/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionResolver   middleware.SessionResolver
	CORSAllowedOrigin string
	Logger            *slog.Logger
	// StatusRecorder がnilの場合はHTTPレスポンスを記録しない。
	StatusRecorder middleware.StatusRecorder

	// 認証
	AuthService AuthServiceInterface

	// アクティビティ
	EnrollmentService EnrollmentServiceInterface

	// StaticDir が空の場合は/static/を配信しない。
	StaticDir string
	// MetricsHandler がnilの場合は/metricsを公開しない。
	MetricsHandler http.Handler
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Logging → Recovery → Metrics → SecurityHeaders → CORS → BearerToken
//
// 変更系ルートとログアウトは、さらにSessionMiddlewareの内側に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.StatusRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.StatusRecorder))
	}
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewBearerTokenMiddleware())

	authHandler := NewAuthHandler(deps.AuthService)
	activityHandler := NewActivityHandler(deps.EnrollmentService)

	// --- 認証不要のルート ---

	r.Get("/", RedirectToIndex)
	r.Get("/health", Health)
	if deps.StaticDir != "" {
		r.Handle("/static/*", NewStaticHandler(deps.StaticDir))
	}
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.Get("/activities", activityHandler.ListActivities)
	r.Post("/auth/login", authHandler.Login)
	r.Get("/auth/session", authHandler.Session)

	// --- 認証が必要なルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionResolver))

		r.Post("/auth/logout", authHandler.Logout)

		r.Route("/activities/{name}", func(r chi.Router) {
			r.Post("/signup", activityHandler.Signup)
			r.Delete("/unregister", activityHandler.Unregister)
		})
	})

	return r
}
