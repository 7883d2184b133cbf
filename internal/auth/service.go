// Package auth は教員ログインとセッショントークンの管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/mergington/internal/metrics"
	"github.com/hitoshi/mergington/internal/model"
	"github.com/hitoshi/mergington/internal/repository"
)

// tokenBytes はセッショントークンの乱数バイト長。
const tokenBytes = 32

// maxTokenAttempts はトークン衝突時の再生成回数の上限。
const maxTokenAttempts = 3

// CredentialLookup は認証情報の参照に必要なインターフェース。
// credential.Storeが実装する。
type CredentialLookup interface {
	Lookup(username string) (password string, ok bool)
}

// SessionStatus は GET /auth/session の応答内容を表す。
type SessionStatus struct {
	Authenticated bool
	Username      string
	Role          string
}

// Service はログイン・ログアウト・トークン検証のビジネスロジックを提供する。
type Service struct {
	credentials CredentialLookup
	sessionRepo repository.SessionRepository
	metrics     metrics.MetricsCollector
	now         func() time.Time
	randRead    func([]byte) (int, error)
}

// NewService はServiceを生成する。metricsがnilの場合は記録しない。
func NewService(
	credentials CredentialLookup,
	sessionRepo repository.SessionRepository,
	m metrics.MetricsCollector,
) *Service {
	if m == nil {
		m = metrics.Noop{}
	}
	return &Service{
		credentials: credentials,
		sessionRepo: sessionRepo,
		metrics:     m,
		now:         time.Now,
		randRead:    rand.Read,
	}
}

// Login は認証情報を検証し、新しいセッションを発行する。
// 未登録ユーザーとパスワード不一致は区別せず、どちらもINVALID_CREDENTIALSを返す。
func (s *Service) Login(ctx context.Context, username, password string) (*model.Session, error) {
	if !s.verify(username, password) {
		s.metrics.RecordLogin(false)
		slog.Warn("login rejected", slog.String("username", username))
		return nil, model.NewInvalidCredentialsError()
	}

	session, err := s.createSession(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.metrics.RecordLogin(true)
	s.refreshSessionGauge(ctx)
	slog.Info("teacher logged in", slog.String("username", username))
	return session, nil
}

// Resolve はトークンに対応するユーザー名を返す。副作用はない。
func (s *Service) Resolve(ctx context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}
	session, err := s.sessionRepo.FindByToken(ctx, token)
	if err != nil {
		return "", false, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return "", false, nil
	}
	return session.Username, true, nil
}

// RequireSession は変更系操作の唯一の認可ゲート。
// トークン未指定・無効の場合はUNAUTHENTICATEDを返す。
func (s *Service) RequireSession(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", model.NewLoginRequiredError()
	}
	username, ok, err := s.Resolve(ctx, token)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", model.NewInvalidSessionError()
	}
	return username, nil
}

// Logout はセッションを破棄する。存在しないトークンに対してもエラーにならない。
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.sessionRepo.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.refreshSessionGauge(ctx)
	slog.Info("teacher logged out")
	return nil
}

// CurrentSession はトークンのセッション状態を返す。エラーにはならない。
func (s *Service) CurrentSession(ctx context.Context, token string) SessionStatus {
	username, ok, err := s.Resolve(ctx, token)
	if err != nil {
		slog.Error("failed to resolve session", slog.String("error", err.Error()))
		return SessionStatus{}
	}
	if !ok {
		return SessionStatus{}
	}
	return SessionStatus{Authenticated: true, Username: username, Role: model.RoleAdmin}
}

// verify はパスワードを定数時間で比較する。
// 未登録ユーザーでも比較を行い、応答時間からユーザーの存在を推測されにくくする。
// 空パスワードで登録された教員はログイン不可として扱う。
func (s *Service) verify(username, password string) bool {
	stored, ok := s.credentials.Lookup(username)
	if !ok || stored == "" {
		ok = false
		stored = "\x00"
	}
	match := subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
	return ok && match
}

// createSession はトークンを生成しセッションを登録する。
// 既存トークンと衝突した場合は再生成する。
func (s *Service) createSession(ctx context.Context, username string) (*model.Session, error) {
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token, err := s.generateToken()
		if err != nil {
			return nil, fmt.Errorf("failed to generate token: %w", err)
		}

		session := &model.Session{
			Token:     token,
			Username:  username,
			Role:      model.RoleAdmin,
			CreatedAt: s.now(),
		}

		err = s.sessionRepo.Create(ctx, session)
		if errors.Is(err, repository.ErrSessionExists) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to save session: %w", err)
		}
		return session, nil
	}

	return nil, fmt.Errorf("token collision after %d attempts", maxTokenAttempts)
}

// generateToken は暗号的に安全なURLセーフのトークンを生成する。
func (s *Service) generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := s.randRead(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (s *Service) refreshSessionGauge(ctx context.Context) {
	n, err := s.sessionRepo.Count(ctx)
	if err != nil {
		slog.Error("failed to count sessions", slog.String("error", err.Error()))
		return
	}
	s.metrics.SetActiveSessions(n)
}
