package transform_test

import (
	"errors"
	"testing"

	"lutforge/internal/cube"
	"lutforge/internal/services"
	"lutforge/internal/transform"
)

func TestValidateRequiresAtLeastOneCube(t *testing.T) {
	err := transform.Parameters{}.Validate()
	if err == nil {
		t.Fatal("expected error when no cube is configured")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestValidateOpacityBounds(t *testing.T) {
	base := transform.Parameters{Primary: cube.Identity(2)}

	for _, opacity := range []float64{-0.1, 1.1} {
		p := base
		p.PrimaryOpacity = opacity
		if err := p.Validate(); err == nil {
			t.Fatalf("expected error for primary opacity %v", opacity)
		}
	}
	for _, opacity := range []float64{0, 0.5, 1} {
		p := base
		p.PrimaryOpacity = opacity
		if err := p.Validate(); err != nil {
			t.Fatalf("opacity %v: unexpected error %v", opacity, err)
		}
	}
}

func TestValidateWhiteBalanceRange(t *testing.T) {
	p := transform.Parameters{Primary: cube.Identity(2), PrimaryOpacity: 1}

	p.WhiteBalanceShift = transform.MaxWhiteBalanceShift + 1
	if err := p.Validate(); err == nil {
		t.Fatal("expected error above shift range")
	}
	p.WhiteBalanceShift = transform.MinWhiteBalanceShift - 1
	if err := p.Validate(); err == nil {
		t.Fatal("expected error below shift range")
	}
	p.WhiteBalanceShift = transform.MinWhiteBalanceShift
	if err := p.Validate(); err != nil {
		t.Fatalf("boundary shift: unexpected error %v", err)
	}
}

func TestValidateSecondaryOnlyIsAllowed(t *testing.T) {
	p := transform.Parameters{Secondary: cube.Identity(2), SecondaryOpacity: 1}
	if err := p.Validate(); err != nil {
		t.Fatalf("secondary-only parameters: %v", err)
	}
}
