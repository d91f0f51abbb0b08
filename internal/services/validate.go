package services

import (
	"net/mail"
	"slices"
	"strings"

	"github.com/rajat93105-cell/pbl-project/internal/models"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

func validateEmail(email, domain string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return validationError("value is not a valid email address")
	}
	if !strings.HasSuffix(email, domain) {
		return validationError("Email must be a valid MUJ email ending with %s", domain)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return validationError("Password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return validationError("Name must not be empty")
	}
	return nil
}

func validateCategory(category string) error {
	if !slices.Contains(models.Categories, category) {
		return validationError("Category must be one of: %s", strings.Join(models.Categories, ", "))
	}
	return nil
}

func validateCondition(condition string) error {
	if !slices.Contains(models.Conditions, condition) {
		return validationError("Condition must be one of: %s", strings.Join(models.Conditions, ", "))
	}
	return nil
}

func validatePrice(price float64) error {
	if !(price > 0) {
		return validationError("Price must be greater than 0")
	}
	return nil
}

func validateImages(images []string) error {
	if len(images) == 0 {
		return validationError("At least one image is required")
	}
	return nil
}

// validateProductInput applies every static rule to a create request.
func validateProductInput(in models.ProductInput) error {
	if err := validateName(in.Name); err != nil {
		return err
	}
	if err := validateCategory(in.Category); err != nil {
		return err
	}
	if err := validatePrice(in.Price); err != nil {
		return err
	}
	if err := validateCondition(in.Condition); err != nil {
		return err
	}
	return validateImages(in.Images)
}

// validateProductUpdate applies the same rules to the fields that are set.
func validateProductUpdate(up models.ProductUpdate) error {
	if up.Name != nil {
		if err := validateName(*up.Name); err != nil {
			return err
		}
	}
	if up.Category != nil {
		if err := validateCategory(*up.Category); err != nil {
			return err
		}
	}
	if up.Price != nil {
		if err := validatePrice(*up.Price); err != nil {
			return err
		}
	}
	if up.Condition != nil {
		if err := validateCondition(*up.Condition); err != nil {
			return err
		}
	}
	if up.Images != nil {
		if err := validateImages(*up.Images); err != nil {
			return err
		}
	}
	return nil
}
