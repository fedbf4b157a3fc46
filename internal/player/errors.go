package player

import (
	"fmt"

	"emperror.dev/errors"
)

var (
	// ErrAssetMissing is returned by Load when there is no audio source.
	ErrAssetMissing = errors.New("audio asset missing")
	// ErrNoTrack is returned by operations that need a loaded track.
	ErrNoTrack = errors.New("no track loaded")
)

// DecodeCode classifies why audio data could not be decoded.
type DecodeCode int

const (
	CodeUnsupportedFormat DecodeCode = iota + 1
	CodeCorrupt
	CodeEmptyStream
	CodeStreamError
)

func (c DecodeCode) String() string {
	switch c {
	case CodeUnsupportedFormat:
		return "unsupported format"
	case CodeCorrupt:
		return "corrupt data"
	case CodeEmptyStream:
		return "empty stream"
	case CodeStreamError:
		return "stream error"
	default:
		return "unknown"
	}
}

// DecodeError reports audio data the decoder could not parse.
type DecodeError struct {
	Code    DecodeCode
	Message string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode failed (%d, %s): %s", e.Code, e.Code, e.Message)
}

// IsDecodeError reports whether err carries a *DecodeError and returns it.
func IsDecodeError(err error) (*DecodeError, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
