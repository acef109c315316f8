package domain

import (
	"errors"
	"fmt"
)

var (
	ErrStoreUnavailable = errors.New("counter store unavailable")
	ErrSerialization    = errors.New("counter value is not a decimal integer")

	// ErrCounterMissing é reportado pelo store como indisponibilidade.
	ErrCounterMissing = fmt.Errorf("%w: counter does not exist", ErrStoreUnavailable)
)

func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

func IsSerializationError(err error) bool {
	return errors.Is(err, ErrSerialization)
}

// ErrorKind devolve um rótulo curto para uso em campos de log.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsSerializationError(err):
		return "serialization"
	case IsStoreUnavailable(err):
		return "store_unavailable"
	default:
		return "unknown"
	}
}
