package model

import (
	"errors"
	"fmt"
	"slices"
)

// Activity は課外活動とその参加者名簿を表す。
// Participantsは登録順を保持し、同一メールアドレスは1度しか現れない。
type Activity struct {
	Name            string
	Description     string
	Schedule        string
	MaxParticipants int
	Participants    []string
}

// HasParticipant は指定メールアドレスが名簿に含まれるかを返す。
func (a *Activity) HasParticipant(email string) bool {
	return slices.Contains(a.Participants, email)
}

// IsFull は名簿が定員に達しているかを返す。
func (a *Activity) IsFull() bool {
	return len(a.Participants) >= a.MaxParticipants
}

// Clone は名簿を含むディープコピーを返す。
func (a *Activity) Clone() *Activity {
	c := *a
	c.Participants = slices.Clone(a.Participants)
	if c.Participants == nil {
		c.Participants = []string{}
	}
	return &c
}

// Validate はシードカタログ読み込み時のスキーマ検証を行う。
func (a *Activity) Validate() error {
	if a.Name == "" {
		return errors.New("activity name is required")
	}
	if a.MaxParticipants <= 0 {
		return fmt.Errorf("activity %q: max_participants must be positive, got %d", a.Name, a.MaxParticipants)
	}
	seen := make(map[string]struct{}, len(a.Participants))
	for _, p := range a.Participants {
		if p == "" {
			return fmt.Errorf("activity %q: empty participant email", a.Name)
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("activity %q: duplicate participant %q", a.Name, p)
		}
		seen[p] = struct{}{}
	}
	if len(a.Participants) > a.MaxParticipants {
		return fmt.Errorf("activity %q: %d participants exceed capacity %d",
			a.Name, len(a.Participants), a.MaxParticipants)
	}
	return nil
}
