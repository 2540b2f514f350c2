package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates opaque IDs for request correlation.
type Generator interface {
	NewID() (string, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewID returns a time-ordered UUIDv7 so ids sort roughly by arrival.
func (g *UUIDGenerator) NewID() (string, error) {
	v, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return v.String(), nil
}

// Valid reports whether raw is a well-formed UUID, used to accept inbound request ids.
func Valid(raw string) bool {
	return uuid.Validate(raw) == nil
}
