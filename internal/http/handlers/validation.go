package handlers

import (
	"strings"
)

type ProductValidationError struct {
	Field       string `json:"field,omitempty"`
	Description string `json:"description"`
}

func validateRow(r csvRow) []ProductValidationError {
	errs := []ProductValidationError{}
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, ProductValidationError{Field: "Name", Description: "Name is required"})
	}
	if r.Price <= 0 {
		errs = append(errs, ProductValidationError{Field: "Price", Description: "Price must be greater than zero"})
	}
	return errs
}
