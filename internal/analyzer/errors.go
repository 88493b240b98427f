package analyzer

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode indicates the raw bytes are not a readable JPEG image
	ErrDecode = errors.New("image decode failed")

	// ErrInvalidImage indicates a decoded image with zero width or height
	ErrInvalidImage = errors.New("invalid image")

	// ErrInvalidBand indicates a color band whose bounds are inverted or whose name is empty
	ErrInvalidBand = errors.New("invalid color band")
)

// DecodeError carries the decoder's cause. errors.Is(err, ErrDecode) holds for every DecodeError.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", ErrDecode, e.Cause)
	}
	return ErrDecode.Error()
}

// Is reports whether target is ErrDecode
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// Unwrap returns the underlying decoder error
func (e *DecodeError) Unwrap() error {
	return e.Cause
}
