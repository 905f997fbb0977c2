package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rogerio-castellano/vending-fleet/internal/auth"
	"github.com/rogerio-castellano/vending-fleet/internal/vending"
)

func GetRoleFromContext(r *http.Request) (string, error) {
	authorization := r.Header.Get("Authorization")

	_, claims, err := auth.TokenClaims(authorization)
	if err != nil {
		return "", err
	}

	if role, ok := claims["role"].(string); ok {
		return role, nil
	}
	return "", nil
}

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

// purchaseErrorStatus maps the purchase outcomes onto HTTP statuses.
// Persistence failures come back as 502 so clients can tell them apart
// from business outcomes.
func purchaseErrorStatus(err error) int {
	switch {
	case errors.Is(err, vending.ErrInvalidLocation):
		return http.StatusBadRequest
	case errors.Is(err, vending.ErrNoProduct),
		errors.Is(err, vending.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, vending.ErrSoldOut),
		errors.Is(err, vending.ErrItemInactive):
		return http.StatusConflict
	case errors.Is(err, vending.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case vending.IsValidation(err):
		return http.StatusConflict
	}
	return http.StatusBadGateway
}
