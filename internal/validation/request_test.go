package validation

import (
	"errors"
	"strings"
	"testing"

	"cellar-registry/internal/models"
	errs "cellar-registry/pkg/errors"
)

func TestValidateEntityName(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"valid", "Barolo", false},
		{"min length", "Ao", false},
		{"accented", "Château Margaux", false},
		{"empty", "", true},
		{"spaces only", "   ", true},
		{"single char", "B", true},
		{"too long", strings.Repeat("a", 201), true},
		{"max length ok", strings.Repeat("a", 200), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidateEntityName(c.in)
			if (err != nil) != c.wantErr {
				t.Fatalf("ValidateEntityName(%q) err = %v, wantErr %v", c.in, err, c.wantErr)
			}
		})
	}
}

func TestValidateVintage(t *testing.T) {
	cases := []struct {
		name    string
		in      *models.Vintage
		wantErr bool
	}{
		{"nil passes", nil, false},
		{"non-vintage passes", &models.Vintage{NonVintage: true}, false},
		{"plausible year", &models.Vintage{Year: 2015}, false},
		{"lower bound", &models.Vintage{Year: 1800}, false},
		{"upper bound", &models.Vintage{Year: 2100}, false},
		{"too old", &models.Vintage{Year: 1799}, true},
		{"too far out", &models.Vintage{Year: 2101}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidateVintage(c.in)
			if (err != nil) != c.wantErr {
				t.Fatalf("ValidateVintage(%+v) err = %v, wantErr %v", c.in, err, c.wantErr)
			}
		})
	}
}

func TestValidateCheckRequestKind(t *testing.T) {
	err := ValidateCheckRequest(&models.CheckRequest{Kind: "grape", Name: "Nebbiolo"})
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if !strings.Contains(err.Error(), "grape") {
		t.Fatalf("message should name the bad kind: %v", err)
	}
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}
