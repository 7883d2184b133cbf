// Package catalog はアクティビティのシードカタログを読み込む。
// 既定ではバイナリに埋め込んだseed.jsonを使用する。
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hitoshi/mergington/internal/model"
	"github.com/hitoshi/mergington/internal/security"
)

//go:embed seed.json
var seedJSON []byte

// entry はカタログファイル中の1アクティビティ。
type entry struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

type document struct {
	Activities []entry `json:"activities"`
}

// Load はカタログを読み込み、検証済みのアクティビティ一覧を返す。
// pathが空の場合は埋め込みシードを使用する。
// 説明文とスケジュールはsanitizerでマークアップを除去する。
func Load(path string, sanitizer security.TextSanitizer) ([]*model.Activity, error) {
	data := seedJSON
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file: %w", err)
		}
		data = b
	}
	return Parse(data, sanitizer)
}

// Parse はJSON形式のカタログを解析する。
func Parse(data []byte, sanitizer security.TextSanitizer) ([]*model.Activity, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(doc.Activities) == 0 {
		return nil, fmt.Errorf("catalog contains no activities")
	}

	seen := make(map[string]struct{}, len(doc.Activities))
	activities := make([]*model.Activity, 0, len(doc.Activities))
	for _, e := range doc.Activities {
		a := &model.Activity{
			Name:            e.Name,
			Description:     sanitizer.Sanitize(e.Description),
			Schedule:        sanitizer.Sanitize(e.Schedule),
			MaxParticipants: e.MaxParticipants,
			Participants:    e.Participants,
		}
		if a.Participants == nil {
			a.Participants = []string{}
		}
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[a.Name]; dup {
			return nil, fmt.Errorf("duplicate activity name: %q", a.Name)
		}
		seen[a.Name] = struct{}{}
		activities = append(activities, a)
	}

	return activities, nil
}
