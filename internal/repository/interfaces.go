// Package repository はデータ保持のインターフェースとインメモリ実装を定義する。
// 状態はプロセス存続中のみ保持し、永続化は行わない。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/mergington/internal/model"
)

// リポジトリ層のセンチネルエラー。サービス層でAPIErrorに変換する。
var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrAlreadyEnrolled  = errors.New("participant already enrolled")
	ErrNotEnrolled      = errors.New("participant not enrolled")
	ErrActivityFull     = errors.New("activity is full")
	ErrSessionExists    = errors.New("session token already exists")
)

// ActivityRepository はアクティビティと参加者名簿のインターフェース。
// アクティビティ自体は起動時に固定され、実行時に変化するのは名簿のみ。
type ActivityRepository interface {
	// List は全アクティビティをカタログ順で返す。戻り値はコピーであり、変更しても内部状態に影響しない。
	List(ctx context.Context) ([]*model.Activity, error)

	// Get は指定名のアクティビティを返す。見つからない場合はErrActivityNotFoundを返す。
	Get(ctx context.Context, name string) (*model.Activity, error)

	// AddParticipant は名簿の末尾にメールアドレスを追加する。
	// 存在確認・重複確認・定員確認と追加はアトミックに行う。
	AddParticipant(ctx context.Context, name, email string) (*model.Activity, error)

	// RemoveParticipant は名簿からメールアドレスを1件削除する。
	RemoveParticipant(ctx context.Context, name, email string) (*model.Activity, error)
}

// SessionRepository はセッションテーブルのインターフェース。
type SessionRepository interface {
	// Create はセッションを登録する。同一トークンが存在する場合はErrSessionExistsを返す。
	Create(ctx context.Context, session *model.Session) error
	// FindByToken は指定トークンのセッションを取得する。見つからない場合はnilを返す。
	FindByToken(ctx context.Context, token string) (*model.Session, error)
	// DeleteByToken は指定トークンのセッションを削除する。存在しない場合も成功する。
	DeleteByToken(ctx context.Context, token string) error
	// Count は有効なセッション数を返す。
	Count(ctx context.Context) (int, error)
}
