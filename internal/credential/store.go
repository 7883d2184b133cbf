// Package credential は教員の認証情報（ユーザー名→パスワード）を提供する。
// 起動時に1回だけ読み込み、以降は読み取り専用として扱う。
package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
)

// fileFormat は認証情報ファイルの構造。
//
//	{"teachers": {"teacher1": "pw1", ...}}
type fileFormat struct {
	Teachers map[string]string `json:"teachers"`
}

// Store はイミュータブルな認証情報ストア。
type Store struct {
	passwords map[string]string
}

// NewStore は渡されたマップのコピーを保持するStoreを生成する。
func NewStore(passwords map[string]string) *Store {
	m := make(map[string]string, len(passwords))
	maps.Copy(m, passwords)
	return &Store{passwords: m}
}

// Load は指定パスの認証情報ファイルを読み込む。
// ファイルが存在しない場合は空のStoreを返す（全ログインが拒否される）。
// 読み込みやJSONの解析に失敗した場合はエラーを返す。
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("credential file not found, all logins will be rejected",
			slog.String("path", path),
		)
		return NewStore(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse credential file %s: %w", path, err)
	}

	slog.Info("credentials loaded",
		slog.String("path", path),
		slog.Int("teachers", len(f.Teachers)),
	)
	return NewStore(f.Teachers), nil
}

// Lookup はユーザー名に対応するパスワードを返す。
func (s *Store) Lookup(username string) (string, bool) {
	pw, ok := s.passwords[username]
	return pw, ok
}

// Len は登録されている教員数を返す。
func (s *Store) Len() int {
	return len(s.passwords)
}
