package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/starpipe/errors"
)

type rewriteSettings struct {
	Placeholder string `mapstructure:"placeholder" validate:"required,starident"`
	TempPrefix  string `mapstructure:"temp_prefix" validate:"required,starident,nefield=Placeholder"`
	Workers     int    `mapstructure:"workers" validate:"min=1,max=64"`
}

func TestValidateStruct_Valid(t *testing.T) {
	s := rewriteSettings{Placeholder: "_", TempPrefix: "__pipe", Workers: 4}
	if err := ValidateStruct(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		settings  rewriteSettings
		wantField string
		wantMsg   string
	}{
		{"missing placeholder", rewriteSettings{TempPrefix: "t", Workers: 1}, "placeholder", "is required"},
		{"keyword placeholder", rewriteSettings{Placeholder: "lambda", TempPrefix: "t", Workers: 1}, "placeholder", "Starlark identifier"},
		{"bad prefix", rewriteSettings{Placeholder: "_", TempPrefix: "1x", Workers: 1}, "temp_prefix", "Starlark identifier"},
		{"same names", rewriteSettings{Placeholder: "_", TempPrefix: "_", Workers: 1}, "temp_prefix", "must differ"},
		{"too few workers", rewriteSettings{Placeholder: "_", TempPrefix: "t", Workers: 0}, "workers", "at least 1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateStruct(tc.settings)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Fatalf("expected INVALID_CONFIG, got %v", err)
			}
			appErr, _ := errors.AsAppError(err)
			fields, ok := appErr.Details["fields"].([]FieldError)
			if !ok {
				t.Fatalf("expected fields detail, got %#v", appErr.Details)
			}
			found := false
			for _, f := range fields {
				if f.Field == tc.wantField && strings.Contains(f.Message, tc.wantMsg) {
					found = true
				}
			}
			if !found {
				t.Errorf("expected %s %q in %+v", tc.wantField, tc.wantMsg, fields)
			}
		})
	}
}

func TestValidator_Collects(t *testing.T) {
	v := New().
		Name("marker", " ").
		Name("placeholder", "not").
		Distinct("temp_prefix", "x", "placeholder", "x").
		Range("workers", 100, 1, 64)

	if !v.HasErrors() {
		t.Fatal("expected errors")
	}
	if got := len(v.Errors()); got != 4 {
		t.Fatalf("expected 4 errors, got %d: %+v", got, v.Errors())
	}
	err := v.Validate()
	if err.Code != errors.ErrCodeInvalidConfig {
		t.Errorf("expected INVALID_CONFIG, got %s", err.Code)
	}
	if err.ExitCode != errors.ExitInvalidConfig {
		t.Errorf("expected exit %d, got %d", errors.ExitInvalidConfig, err.ExitCode)
	}
	if !strings.Contains(err.Message, "workers: must be between 1 and 64") {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestValidator_NoErrors(t *testing.T) {
	v := New().Name("marker", "pipe").Name("placeholder", "_").Range("workers", 2, 1, 64)
	if err := v.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("TempPrefix"); got != "temp_prefix" {
		t.Errorf("expected temp_prefix, got %s", got)
	}
}
