package contentsync

import (
	"errors"
	"testing"

	"github.com/advocatechambers/lawsite/internal/domain/models"
)

func TestValidate_Defaults(t *testing.T) {
	for _, sec := range models.AllSections() {
		if err := Validate(sec, models.DefaultSection(sec)); err != nil {
			t.Errorf("Validate(%s default) = %v, want nil", sec, err)
		}
	}
}

func TestValidate_Settings(t *testing.T) {
	tests := []struct {
		name      string
		settings  models.SettingsContent
		wantField string
	}{
		{"valid", models.SettingsContent{InquiryFee: 0, Currency: "INR"}, ""},
		{"lowercase currency", models.SettingsContent{Currency: "inr"}, "currency"},
		{"bad admin email", models.SettingsContent{Currency: "INR", AdminEmail: "nope"}, "adminEmail"},
		{"credentials", models.SettingsContent{Currency: "INR", AdminEmail: "admin@firm.example", AdminPassword: "hash"}, ""},
		{"password without email", models.SettingsContent{Currency: "INR", AdminPassword: "hash"}, "adminEmail"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(models.SectionSettings, &tt.settings)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestValidate_PracticeAreaSlug(t *testing.T) {
	areas := &models.PracticeAreasContent{Items: []models.PracticeAreaItem{
		{ID: "Criminal Law", Title: "Criminal Law"},
	}}
	err := Validate(models.SectionPracticeAreas, areas)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Validate() = %v, want ErrValidation", err)
	}
	if got := err.Error(); got == "" {
		t.Error("empty error message")
	}
}

func TestValidate_Ratings(t *testing.T) {
	for _, rating := range []int{0, 6, -1} {
		content := &models.TestimonialsContent{Items: []models.TestimonialItem{{ID: 1, Name: "A", Rating: rating}}}
		if err := Validate(models.SectionTestimonials, content); !errors.Is(err, ErrValidation) {
			t.Errorf("rating %d: Validate() = %v, want ErrValidation", rating, err)
		}
	}
	for rating := models.MinRating; rating <= models.MaxRating; rating++ {
		content := &models.TestimonialsContent{Items: []models.TestimonialItem{{ID: 1, Name: "A", Rating: rating}}}
		if err := Validate(models.SectionTestimonials, content); err != nil {
			t.Errorf("rating %d: Validate() = %v, want nil", rating, err)
		}
	}
}
