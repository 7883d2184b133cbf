package model

import "testing"

func TestActivity_Validate(t *testing.T) {
	tests := []struct {
		name    string
		a       Activity
		wantErr bool
	}{
		{"valid", Activity{Name: "Chess Club", MaxParticipants: 2, Participants: []string{"a@x.edu"}}, false},
		{"empty roster", Activity{Name: "Chess Club", MaxParticipants: 1}, false},
		{"missing name", Activity{MaxParticipants: 1}, true},
		{"zero capacity", Activity{Name: "Chess Club"}, true},
		{"negative capacity", Activity{Name: "Chess Club", MaxParticipants: -3}, true},
		{"duplicate participant", Activity{Name: "Chess Club", MaxParticipants: 5, Participants: []string{"a@x.edu", "a@x.edu"}}, true},
		{"empty participant", Activity{Name: "Chess Club", MaxParticipants: 5, Participants: []string{""}}, true},
		{"over capacity", Activity{Name: "Chess Club", MaxParticipants: 1, Participants: []string{"a@x.edu", "b@x.edu"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.a.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestActivity_IsFull(t *testing.T) {
	a := Activity{Name: "Math Club", MaxParticipants: 2, Participants: []string{"a@x.edu"}}
	if a.IsFull() {
		t.Error("IsFull() = true, want false")
	}

	a.Participants = append(a.Participants, "b@x.edu", "c@x.edu")
	if !a.IsFull() {
		t.Error("IsFull() = false, want true")
	}
}

func TestActivity_Clone_DoesNotShareRoster(t *testing.T) {
	a := &Activity{Name: "Art Club", MaxParticipants: 3, Participants: []string{"a@x.edu"}}
	c := a.Clone()
	c.Participants[0] = "changed@x.edu"
	c.Participants = append(c.Participants, "b@x.edu")

	if a.Participants[0] != "a@x.edu" || len(a.Participants) != 1 {
		t.Errorf("original roster mutated: %v", a.Participants)
	}
	if !a.HasParticipant("a@x.edu") {
		t.Error("HasParticipant(a@x.edu) = false, want true")
	}
}

func TestActivity_Clone_NilRosterBecomesEmpty(t *testing.T) {
	a := &Activity{Name: "Art Club", MaxParticipants: 3}
	if c := a.Clone(); c.Participants == nil {
		t.Error("expected non-nil empty roster on clone")
	}
}

func TestAPIError_Error(t *testing.T) {
	err := NewAlreadyEnrolledError()
	want := "[ALREADY_ENROLLED] Student is already signed up"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
