package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/hitoshi/mergington/internal/model"
)

// MemoryActivityRepo はインメモリのアクティビティリポジトリ。
// 規模が小さいため、全名簿を単一のRWMutexで保護する。
type MemoryActivityRepo struct {
	mu              sync.RWMutex
	order           []string
	activities      map[string]*model.Activity
	enforceCapacity bool
}

// MemoryActivityOption はMemoryActivityRepoの生成オプション。
type MemoryActivityOption func(*MemoryActivityRepo)

// WithCapacityEnforcement は定員チェックの有効/無効を設定する。デフォルトは有効。
func WithCapacityEnforcement(enabled bool) MemoryActivityOption {
	return func(r *MemoryActivityRepo) {
		r.enforceCapacity = enabled
	}
}

// NewMemoryActivityRepo はシードカタログからリポジトリを生成する。
// 各アクティビティは検証され、名前の重複はエラーとなる。
func NewMemoryActivityRepo(seed []*model.Activity, opts ...MemoryActivityOption) (*MemoryActivityRepo, error) {
	r := &MemoryActivityRepo{
		order:           make([]string, 0, len(seed)),
		activities:      make(map[string]*model.Activity, len(seed)),
		enforceCapacity: true,
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, a := range seed {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("invalid seed activity: %w", err)
		}
		if _, dup := r.activities[a.Name]; dup {
			return nil, fmt.Errorf("duplicate activity name: %q", a.Name)
		}
		r.order = append(r.order, a.Name)
		r.activities[a.Name] = a.Clone()
	}

	return r, nil
}

// List は全アクティビティのコピーをカタログ順で返す。
func (r *MemoryActivityRepo) List(_ context.Context) ([]*model.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Activity, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.activities[name].Clone())
	}
	return result, nil
}

// Get は指定名のアクティビティのコピーを返す。
func (r *MemoryActivityRepo) Get(_ context.Context, name string) (*model.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.activities[name]
	if !ok {
		return nil, ErrActivityNotFound
	}
	return a.Clone(), nil
}

// AddParticipant は名簿にメールアドレスを追加し、更新後のコピーを返す。
// 重複チェックは定員チェックより先に行う。
func (r *MemoryActivityRepo) AddParticipant(_ context.Context, name, email string) (*model.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[name]
	if !ok {
		return nil, ErrActivityNotFound
	}
	if a.HasParticipant(email) {
		return nil, ErrAlreadyEnrolled
	}
	if r.enforceCapacity && a.IsFull() {
		return nil, ErrActivityFull
	}

	a.Participants = append(a.Participants, email)
	return a.Clone(), nil
}

// RemoveParticipant は名簿からメールアドレスを1件削除し、更新後のコピーを返す。
// 残りの参加者の順序は維持される。
func (r *MemoryActivityRepo) RemoveParticipant(_ context.Context, name, email string) (*model.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[name]
	if !ok {
		return nil, ErrActivityNotFound
	}
	idx := slices.Index(a.Participants, email)
	if idx < 0 {
		return nil, ErrNotEnrolled
	}

	a.Participants = slices.Delete(a.Participants, idx, idx+1)
	return a.Clone(), nil
}

// compile-time interface check
var _ ActivityRepository = (*MemoryActivityRepo)(nil)
