// Package domain validation built on go-playground/validator/v10 with
// portal-specific custom validators.
package domain

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with portal-specific validators.
type Validator struct {
	validator *validator.Validate
}

// NewValidator creates a validation instance with the custom portal
// validators registered.
func NewValidator() *Validator {
	validate := validator.New()

	_ = validate.RegisterValidation("bundle_id", validateBundleIDCustom)
	_ = validate.RegisterValidation("profile_kind", validateProfileKindCustom)
	_ = validate.RegisterValidation("distribution_method", validateDistributionMethodCustom)
	_ = validate.RegisterValidation("profile_status", validateProfileStatusCustom)

	return &Validator{
		validator: validate,
	}
}

// Validate validates a struct using the registered validators.
func (v *Validator) Validate(s interface{}) error {
	return v.validator.Struct(s)
}

// ValidateVar validates a single variable using the specified tag.
func (v *Validator) ValidateVar(field interface{}, tag string) error {
	return v.validator.Var(field, tag)
}

// Bundle ids are reverse-DNS identifiers such as "com.example.app".
// Wildcard ids ("com.example.*") are accepted; the portal resolves them.
var bundleIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]*(\.[A-Za-z0-9][A-Za-z0-9-]*)*(\.\*)?$`)

func validateBundleIDCustom(fl validator.FieldLevel) bool {
	bundleID := fl.Field().String()
	if bundleID == "" {
		return true // Empty values handled by 'required' tag
	}
	return bundleIDPattern.MatchString(bundleID)
}

func validateProfileKindCustom(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := ParseProfileKind(value)
	return err == nil
}

func validateDistributionMethodCustom(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, ok := kindForMethod(strings.ToLower(value))
	return ok
}

func validateProfileStatusCustom(fl validator.FieldLevel) bool {
	switch ProfileStatus(fl.Field().String()) {
	case StatusActive, StatusExpired, StatusInvalid, "":
		return true
	}
	return false
}
