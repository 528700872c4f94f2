// Package validation checks caller-supplied input before any corpus work
// happens. Messages here are safe to surface verbatim.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"cellar-registry/internal/constants"
	"cellar-registry/internal/models"
	errs "cellar-registry/pkg/errors"
)

// ValidateEntityName validates an entity name shared by checks and creates.
func ValidateEntityName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValidation("validation.ValidateEntityName", "name is required", nil)
	}
	if utf8.RuneCountInString(name) < constants.MinNameChars {
		return errs.NewValidation("validation.ValidateEntityName",
			fmt.Sprintf("name must be at least %d characters", constants.MinNameChars), nil)
	}
	if utf8.RuneCountInString(name) > constants.MaxNameChars {
		return errs.NewValidation("validation.ValidateEntityName",
			fmt.Sprintf("name must be at most %d characters", constants.MaxNameChars), nil)
	}
	return nil
}

// ValidateVintage rejects years outside the plausible range. The
// non-vintage marker always passes.
func ValidateVintage(v *models.Vintage) error {
	if v == nil || v.NonVintage {
		return nil
	}
	if v.Year < constants.MinVintageYear || v.Year > constants.MaxVintageYear {
		return errs.NewValidation("validation.ValidateVintage",
			fmt.Sprintf("vintage year must be between %d and %d", constants.MinVintageYear, constants.MaxVintageYear), nil)
	}
	return nil
}

// ValidateCheckRequest validates a duplicate-check request: name present
// and sane, kind known, vintage plausible when given.
func ValidateCheckRequest(req *models.CheckRequest) error {
	if err := ValidateEntityName(req.Name); err != nil {
		return err
	}
	if !req.Kind.Valid() {
		return errs.NewValidation("validation.ValidateCheckRequest",
			fmt.Sprintf("unknown entity kind %q", string(req.Kind)), nil)
	}
	if req.Context != nil {
		if err := ValidateVintage(req.Context.VintageYear); err != nil {
			return err
		}
	}
	return nil
}
