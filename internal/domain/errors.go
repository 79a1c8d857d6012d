package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnparseableID se devuelve cuando un market_id no tiene el formato
	// {oracle}_{event_id}_{participant}.
	ErrUnparseableID = errors.New("unparseable market id")

	// ErrAlreadyResolved se devuelve cuando el servicio rechaza el resolve porque
	// el mercado ya estaba resuelto (otra ejecución o un admin llegó antes).
	ErrAlreadyResolved = errors.New("market already resolved")

	// ErrLockHeld se devuelve cuando otra ejecución ya tiene el lock.
	ErrLockHeld = errors.New("lock already held")
)

// ParseError describe por qué un market_id no pudo decodificarse.
type ParseError struct {
	MarketID string
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %q: %s", ErrUnparseableID, e.MarketID, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrUnparseableID
}
