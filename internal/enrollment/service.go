// Package enrollment は認証済み教員による名簿操作（登録・登録解除）を提供する。
// 認証とアクティビティ変更を結び付ける唯一の層であり、
// 認証に失敗した場合はリポジトリに一切触れない。
package enrollment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hitoshi/mergington/internal/metrics"
	"github.com/hitoshi/mergington/internal/model"
	"github.com/hitoshi/mergington/internal/repository"
)

// 操作ラベル
const (
	OpSignup     = "signup"
	OpUnregister = "unregister"
)

// SessionGate はセッション検証のインターフェース。auth.Serviceが実装する。
type SessionGate interface {
	RequireSession(ctx context.Context, token string) (string, error)
}

// EmailValidator はメールアドレス検証のインターフェース。
type EmailValidator interface {
	Valid(email string) bool
}

// Service は名簿操作のビジネスロジックを提供する。
type Service struct {
	gate      SessionGate
	repo      repository.ActivityRepository
	validator EmailValidator
	metrics   metrics.MetricsCollector
}

// NewService はServiceを生成する。metricsがnilの場合は記録しない。
func NewService(
	gate SessionGate,
	repo repository.ActivityRepository,
	validator EmailValidator,
	m metrics.MetricsCollector,
) *Service {
	if m == nil {
		m = metrics.Noop{}
	}
	return &Service{
		gate:      gate,
		repo:      repo,
		validator: validator,
		metrics:   m,
	}
}

// ListActivities は全アクティビティを名簿付きで返す。認証は不要。
func (s *Service) ListActivities(ctx context.Context) ([]*model.Activity, error) {
	activities, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

// Signup は生徒をアクティビティに登録し、確認メッセージを返す。
func (s *Service) Signup(ctx context.Context, token, activityName, email string) (string, error) {
	admin, err := s.authorize(ctx, OpSignup, token, email)
	if err != nil {
		return "", err
	}

	if _, err := s.repo.AddParticipant(ctx, activityName, email); err != nil {
		return "", s.fail(ctx, OpSignup, activityName, err)
	}

	s.metrics.RecordEnrollment(OpSignup, metrics.ResultSuccess)
	slog.Info("student signed up",
		slog.String("admin", admin),
		slog.String("activity", activityName),
		slog.String("email", email),
	)
	return fmt.Sprintf("%s signed up %s for %s", admin, email, activityName), nil
}

// Unregister は生徒をアクティビティから登録解除し、確認メッセージを返す。
func (s *Service) Unregister(ctx context.Context, token, activityName, email string) (string, error) {
	admin, err := s.authorize(ctx, OpUnregister, token, email)
	if err != nil {
		return "", err
	}

	if _, err := s.repo.RemoveParticipant(ctx, activityName, email); err != nil {
		return "", s.fail(ctx, OpUnregister, activityName, err)
	}

	s.metrics.RecordEnrollment(OpUnregister, metrics.ResultSuccess)
	slog.Info("student unregistered",
		slog.String("admin", admin),
		slog.String("activity", activityName),
		slog.String("email", email),
	)
	return fmt.Sprintf("%s unregistered %s from %s", admin, email, activityName), nil
}

// authorize はセッション検証とメールアドレス検証を行い、操作する教員名を返す。
// 登録解除では既存名簿の値と照合するため形式検証は行わない。
func (s *Service) authorize(ctx context.Context, op, token, email string) (string, error) {
	admin, err := s.gate.RequireSession(ctx, token)
	if err != nil {
		s.recordFailure(op, err)
		return "", err
	}

	if email == "" {
		err := model.NewInvalidRequestError("email query parameter is required")
		s.recordFailure(op, err)
		return "", err
	}
	if op == OpSignup && !s.validator.Valid(email) {
		err := model.NewInvalidEmailError(email)
		s.recordFailure(op, err)
		return "", err
	}

	return admin, nil
}

// fail はリポジトリのセンチネルエラーをAPIErrorに変換し、失敗を記録する。
func (s *Service) fail(ctx context.Context, op, activityName string, err error) error {
	var mapped error
	switch {
	case errors.Is(err, repository.ErrActivityNotFound):
		mapped = model.NewActivityNotFoundError(activityName)
	case errors.Is(err, repository.ErrAlreadyEnrolled):
		mapped = model.NewAlreadyEnrolledError()
	case errors.Is(err, repository.ErrNotEnrolled):
		mapped = model.NewNotEnrolledError()
	case errors.Is(err, repository.ErrActivityFull):
		capacity := 0
		if a, getErr := s.repo.Get(ctx, activityName); getErr == nil {
			capacity = a.MaxParticipants
		}
		mapped = model.NewActivityFullError(capacity)
	default:
		mapped = fmt.Errorf("failed to %s: %w", op, err)
	}

	s.recordFailure(op, mapped)
	return mapped
}

func (s *Service) recordFailure(op string, err error) {
	result := model.ErrCodeInternal
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		result = apiErr.Code
	}
	s.metrics.RecordEnrollment(op, result)
}
