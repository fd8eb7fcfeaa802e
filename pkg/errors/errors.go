// Package errors defines the domain error taxonomy for scribe.
//
// Four sentinel errors cover the failure categories of a processing run:
// configuration errors fail fast before any work, source-read errors abort
// a run before extraction, extraction degradation is absorbed by the
// pipeline, and persistence errors are the only category in which a
// fully-extracted run ends in overall failure. Typed sentinels enable
// consistent errors.Is() checks across packages.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration indicates a missing or invalid connection string,
	// credential, or other construction-time requirement.
	ErrConfiguration = errors.New("configuration error")

	// ErrValidation indicates invalid caller input, such as an empty
	// meeting name or an unknown meeting type.
	ErrValidation = errors.New("validation error")

	// ErrSourceRead indicates the transcript source could not be read.
	ErrSourceRead = errors.New("source read error")

	// ErrExtractionDegraded indicates a completion-service call failed or
	// returned unparseable output. The pipeline treats the category as an
	// empty result and continues.
	ErrExtractionDegraded = errors.New("extraction degraded")

	// ErrPersistence indicates the meeting transaction failed. The run is
	// rolled back in full and the error surfaces to the caller.
	ErrPersistence = errors.New("persistence error")
)

// IsConfiguration reports whether any error in err's chain is ErrConfiguration.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsValidation reports whether any error in err's chain is ErrValidation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsSourceRead reports whether any error in err's chain is ErrSourceRead.
func IsSourceRead(err error) bool {
	return errors.Is(err, ErrSourceRead)
}

// IsExtractionDegraded reports whether any error in err's chain is ErrExtractionDegraded.
func IsExtractionDegraded(err error) bool {
	return errors.Is(err, ErrExtractionDegraded)
}

// IsPersistence reports whether any error in err's chain is ErrPersistence.
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}

// Validation wraps err so it matches ErrValidation.
func Validation(msg string, err error) error {
	return wrap(ErrValidation, msg, err)
}

// Configuration wraps err so it matches ErrConfiguration, with a caller context message.
func Configuration(msg string, err error) error {
	return wrap(ErrConfiguration, msg, err)
}

// SourceRead wraps err so it matches ErrSourceRead.
func SourceRead(msg string, err error) error {
	return wrap(ErrSourceRead, msg, err)
}

// Degraded wraps err so it matches ErrExtractionDegraded.
func Degraded(msg string, err error) error {
	return wrap(ErrExtractionDegraded, msg, err)
}

// Persistence wraps err so it matches ErrPersistence.
func Persistence(msg string, err error) error {
	return wrap(ErrPersistence, msg, err)
}

func wrap(sentinel error, msg string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", sentinel, msg)
	}
	return fmt.Errorf("%w: %s: %w", sentinel, msg, err)
}
