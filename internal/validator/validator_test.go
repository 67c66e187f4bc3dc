package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	Register()
}

func TestValidators(t *testing.T) {
	type payload struct {
		Type  string `binding:"line_type"`
		Sort  string `binding:"omitempty,sort_mode"`
		Label string `binding:"not_blank"`
	}

	tests := []struct {
		name  string
		in    payload
		valid bool
	}{
		{"valid", payload{Type: "income", Sort: "label", Label: "Rent"}, true},
		{"type_trimmed", payload{Type: " expense ", Label: "Rent"}, true},
		{"bad_type", payload{Type: "transfer", Label: "Rent"}, false},
		{"bad_sort", payload{Type: "income", Sort: "date", Label: "Rent"}, false},
		{"blank_label", payload{Type: "income", Label: "   "}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(tt.in)
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid {
				if _, ok := err.(validator.ValidationErrors); !ok {
					t.Errorf("expected validation errors, got %v", err)
				}
			}
		})
	}
}
