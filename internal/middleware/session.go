// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/mergington/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

var (
	// tokenContextKey はリクエストコンテキストにBearerトークンを格納するためのキー。
	tokenContextKey = contextKey("bearer_token")
	// usernameContextKey はリクエストコンテキストに認証済み教員名を格納するためのキー。
	usernameContextKey = contextKey("username")
)

// SessionResolver はトークンの検証に必要なインターフェース。
// auth.Serviceが実装する。
type SessionResolver interface {
	RequireSession(ctx context.Context, token string) (string, error)
}

// BearerToken はAuthorizationヘッダーからBearerトークンを取り出す。
// スキームは大文字小文字を区別しない。Bearer以外のスキームや空トークンは未指定として扱う。
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// NewBearerTokenMiddleware はAuthorizationヘッダーのトークンをコンテキストに注入するミドルウェアを返す。
// 検証は行わず、トークンがなくてもリクエストを拒否しない。
func NewBearerTokenMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithToken(r.Context(), token)))
		})
	}
}

// NewSessionMiddleware はトークンを検証し、認証済み教員名をコンテキストに注入するミドルウェアを返す。
// 未認証リクエストには401 Unauthorizedを統一エラーフォーマットで返す。
func NewSessionMiddleware(resolver SessionResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromContext(r.Context())
			if token == "" {
				token = BearerToken(r)
			}

			username, err := resolver.RequireSession(r.Context(), token)
			if err != nil {
				var apiErr *model.APIError
				if errors.As(err, &apiErr) {
					WriteErrorResponse(w, http.StatusUnauthorized, apiErr)
					return
				}
				slog.Error("failed to resolve session",
					slog.String("error", err.Error()),
				)
				WriteInternalServerError(w)
				return
			}

			setLoggedUsername(r.Context(), username)
			ctx := ContextWithToken(r.Context(), token)
			ctx = ContextWithUsername(ctx, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromContext はリクエストコンテキストからBearerトークンを取得する。未指定の場合は空文字列を返す。
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}

// ContextWithToken はコンテキストにBearerトークンを注入する。
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

// UsernameFromContext はリクエストコンテキストから教員名を取得する。
// セッションミドルウェアを通過したリクエストでのみ有効。
func UsernameFromContext(ctx context.Context) (string, error) {
	username, ok := ctx.Value(usernameContextKey).(string)
	if !ok || username == "" {
		return "", fmt.Errorf("username not found in context")
	}
	return username, nil
}

// ContextWithUsername はコンテキストに教員名を注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameContextKey, username)
}
