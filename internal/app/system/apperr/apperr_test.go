package apperr

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{"empty", &ValidationError{}, "validation failed"},
		{"one", &ValidationError{Violations: []FieldViolation{{Field: "name", Description: "Name is required."}}}, "Name is required."},
		{"two", &ValidationError{Violations: []FieldViolation{
			{Field: "name", Description: "Name is required."},
			{Field: "description", Description: "Description must be at most 128 characters."},
		}}, "Name is required.; Description must be at most 128 characters."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPredicates_SeeThroughWrapping(t *testing.T) {
	v := fmt.Errorf("create user: %w", Invalid("name", "user name must be unique"))
	nf := fmt.Errorf("describe: %w", NotFound("team", "t1"))
	ioe := fmt.Errorf("persist: %w", &IOError{Op: "write", Path: "db/users.json", Err: os.ErrPermission})

	if !IsValidation(v) || IsNotFound(v) || IsIO(v) {
		t.Errorf("validation predicates wrong for %v", v)
	}
	if !IsNotFound(nf) || IsValidation(nf) || IsIO(nf) {
		t.Errorf("not-found predicates wrong for %v", nf)
	}
	if !IsIO(ioe) || IsValidation(ioe) || IsNotFound(ioe) {
		t.Errorf("io predicates wrong for %v", ioe)
	}
	if !errors.Is(ioe, os.ErrPermission) {
		t.Error("IOError should unwrap to its cause")
	}
}

func TestNotFoundError_Message(t *testing.T) {
	if got := NotFound("board", "b-1").Error(); got != "board not found: b-1" {
		t.Errorf("Error() = %q", got)
	}
}
