package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput wraps every validation failure so transports can map
	// it to a client error.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRoadmapAlreadyApproved rejects generating a new roadmap over an
	// approved one.
	ErrRoadmapAlreadyApproved = errors.New("goal already has an approved roadmap")

	// ErrNoPhases rejects scheduling a roadmap that has no phases.
	ErrNoPhases = errors.New("roadmap has no phases")
)

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

func formatValidationErrors(errs []error) error {
	var b strings.Builder
	fmt.Fprintf(&b, "phase file validation failed (%d errors):", len(errs))
	for _, e := range errs {
		b.WriteString("\n  - " + e.Error())
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, b.String())
}
