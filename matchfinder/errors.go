package matchfinder

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Create. They wrap ErrParameterViolation so
// callers can test with errors.Is(err, matchfinder.ErrParameterViolation)
// without caring which specific check failed.
var (
	// ErrParameterViolation is the class of error returned when Config
	// contains an invalid combination of fields.
	ErrParameterViolation = errors.New("matchfinder: invalid configuration")

	// ErrHistorySizeTooLarge is returned when HistorySize is zero or
	// exceeds the design maximum (see maxHistorySize).
	ErrHistorySizeTooLarge = fmt.Errorf("%w: history size too large", ErrParameterViolation)

	// ErrHashWidthOutOfRange is returned when NumHashBytes is not in [2,5].
	ErrHashWidthOutOfRange = fmt.Errorf("%w: numHashBytes must be in [2,5]", ErrParameterViolation)

	// ErrCutValueInvalid is returned when CutValue is not positive.
	ErrCutValueInvalid = fmt.Errorf("%w: cutValue must be positive", ErrParameterViolation)

	// ErrMatchMaxLenInvalid is returned when MatchMaxLen is zero.
	ErrMatchMaxLenInvalid = fmt.Errorf("%w: matchMaxLen must be positive", ErrParameterViolation)

	// ErrAllocation names the allocation-failure error class. No function
	// in this package returns it: Create allocates the window and
	// dictionary backing arrays with make, and a failed allocation there
	// is not reported as an error.
	ErrAllocation = errors.New("matchfinder: allocation failure")

	// ErrDictionaryTooLate is returned by LoadDictionary once Init,
	// AvailableBytes, GetMatches or Skip has read input or advanced the
	// cursor past the Finder's initial position.
	ErrDictionaryTooLate = errors.New("matchfinder: LoadDictionary called after matching began")

	// ErrDictionaryTooLarge is returned by LoadDictionary when dict does
	// not fit in the window's backing buffer.
	ErrDictionaryTooLarge = errors.New("matchfinder: dictionary larger than the window buffer")
)

// ErrUpstreamRead wraps an error from Config's ByteSource. Once a Finder
// latches this error, every subsequent GetMatches returns it unchanged
// (via errors.Is) with no matches, and Skip becomes a no-op returning the
// same error.
type ErrUpstreamRead struct {
	Err error
}

func (e *ErrUpstreamRead) Error() string {
	return fmt.Sprintf("matchfinder: upstream read failed: %v", e.Err)
}

func (e *ErrUpstreamRead) Unwrap() error {
	return e.Err
}
