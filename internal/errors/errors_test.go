package errors

import (
	"fmt"
	"testing"
)

func TestIsAlreadyMarked(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "conflict with already_marked code",
			err:  &ConflictError{Code: CodeAlreadyMarked, Message: "already marked done today"},
			want: true,
		},
		{
			name: "wrapped conflict",
			err:  fmt.Errorf("store: %w", &ConflictError{Code: CodeAlreadyMarked, Message: "already marked done today"}),
			want: true,
		},
		{
			name: "conflict with another code",
			err:  &ConflictError{Code: CodeHasHabits, Message: "cannot delete subcategory with habits"},
			want: false,
		},
		{
			name: "conflict with no code",
			err:  &ConflictError{Message: "something conflicted"},
			want: false,
		},
		{
			name: "unrelated error",
			err:  fmt.Errorf("network down"),
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAlreadyMarked(tt.err); got != tt.want {
				t.Errorf("IsAlreadyMarked() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsAlreadyDone(t *testing.T) {
	err := &AlreadyDoneError{HabitID: "h1", Day: "2026-03-01"}
	if !IsAlreadyDone(err) {
		t.Error("IsAlreadyDone() = false for AlreadyDoneError")
	}
	if !IsAlreadyDone(fmt.Errorf("guard: %w", err)) {
		t.Error("IsAlreadyDone() = false for wrapped AlreadyDoneError")
	}
	if IsAlreadyDone(&ConflictError{Code: CodeAlreadyMarked}) {
		t.Error("IsAlreadyDone() = true for a store conflict")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(&NotFoundError{Entity: "habit", ID: "h1"}) {
		t.Error("IsNotFound() = false for NotFoundError")
	}
	if IsNotFound(fmt.Errorf("other")) {
		t.Error("IsNotFound() = true for unrelated error")
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", &ValidationError{Field: "habit name", Reason: "must not be blank"}, "invalid habit name: must not be blank"},
		{"not found", &NotFoundError{Entity: "category", ID: "c1"}, "category not found: c1"},
		{"conflict", &ConflictError{Code: CodeHasHabits, Message: "cannot delete subcategory with habits"}, "cannot delete subcategory with habits"},
		{"invalid state", &InvalidStateError{Message: "cannot edit a completed habit"}, "cannot edit a completed habit"},
		{"already done", &AlreadyDoneError{HabitID: "h1", Day: "2026-03-01"}, "habit h1 already marked done on 2026-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	if got := Format(fmt.Errorf("boom")); got != "Error: boom" {
		t.Errorf("Format() = %q", got)
	}
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty", got)
	}
	if got := Formatf("bad %s", "input"); got != "Error: bad input" {
		t.Errorf("Formatf() = %q", got)
	}
}
