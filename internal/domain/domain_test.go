package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestTransientFetchErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("refresh: %w", &TransientFetchError{Symbol: "ETH", Err: cause})

	var tfe *TransientFetchError
	if !errors.As(err, &tfe) {
		t.Fatalf("expected TransientFetchError in chain, got %v", err)
	}
	if tfe.Symbol != "ETH" {
		t.Errorf("unexpected symbol: %s", tfe.Symbol)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be reachable through Unwrap")
	}
	if got := tfe.Error(); got != "fetch price for ETH: connection refused" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestConfigErrorf(t *testing.T) {
	err := ConfigErrorf("unknown topic %d", 999)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if err.Error() != "configuration error: unknown topic 999" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
