package domain

import (
	"errors"
	"testing"
	"time"
)

func TestQuestionValidate(t *testing.T) {
	valid := Question{ID: 1, Text: "Find V.", Difficulty: DifficultyEasy, Type: TypeNumerical}

	tests := []struct {
		name    string
		mutate  func(q *Question)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Question) {}},
		{name: "missing id", mutate: func(q *Question) { q.ID = 0 }, wantErr: true},
		{name: "blank text", mutate: func(q *Question) { q.Text = "  " }, wantErr: true},
		{name: "unknown difficulty", mutate: func(q *Question) { q.Difficulty = "expert" }, wantErr: true},
		{name: "unknown type", mutate: func(q *Question) { q.Type = "essay" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := valid
			tt.mutate(&q)
			err := q.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidQuestion) {
					t.Fatalf("Validate() error = %v, want ErrInvalidQuestion", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestQuestionHasTag(t *testing.T) {
	q := Question{Tags: []string{"power", "energy"}}
	if !q.HasTag("energy") {
		t.Error("expected energy tag")
	}
	if q.HasTag("ohms-law") {
		t.Error("unexpected ohms-law tag")
	}
}

func TestThemeToggle(t *testing.T) {
	if got := ThemeDark.Toggle(); got != ThemeLight {
		t.Errorf("dark.Toggle() = %q, want light", got)
	}
	if got := ThemeLight.Toggle(); got != ThemeDark {
		t.Errorf("light.Toggle() = %q, want dark", got)
	}
	if got := ThemeLight.Toggle().Toggle(); got != ThemeLight {
		t.Errorf("double toggle = %q, want light", got)
	}
}

func TestDeviceIdle(t *testing.T) {
	now := time.Now()
	d := Device{LastSeenAt: now.Add(-2 * time.Hour)}
	if got := d.Idle(now); got != 2*time.Hour {
		t.Errorf("Idle() = %v, want 2h", got)
	}
	d.LastSeenAt = now.Add(time.Minute)
	if got := d.Idle(now); got != 0 {
		t.Errorf("Idle() with future last-seen = %v, want 0", got)
	}
}

func TestDeviceThemeOr(t *testing.T) {
	var missing *Device
	if got := missing.ThemeOr(ThemeDark); got != ThemeDark {
		t.Errorf("nil device ThemeOr = %q, want dark", got)
	}
	d := &Device{}
	if got := d.ThemeOr(ThemeLight); got != ThemeLight {
		t.Errorf("no preference ThemeOr = %q, want light", got)
	}
	d.Theme = ThemeLight
	if got := d.ThemeOr(ThemeDark); got != ThemeLight {
		t.Errorf("stored ThemeOr = %q, want light", got)
	}
}
