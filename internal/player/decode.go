package player

import (
	"bytes"
	"fmt"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"github.com/gabriel-vasile/mimetype"
)

type container int

const (
	containerUnknown container = iota
	containerMP3
	containerWAV
	containerFLAC
	containerVorbis
)

func (c container) String() string {
	switch c {
	case containerMP3:
		return "mp3"
	case containerWAV:
		return "wav"
	case containerFLAC:
		return "flac"
	case containerVorbis:
		return "ogg"
	default:
		return "unknown"
	}
}

// sniff identifies the audio container from the leading bytes of data.
func sniff(data []byte) (container, string) {
	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		switch {
		case m.Is("audio/mpeg"):
			return containerMP3, detected.String()
		case m.Is("audio/wav"):
			return containerWAV, detected.String()
		case m.Is("audio/flac"):
			return containerFLAC, detected.String()
		case m.Is("audio/ogg"), m.Is("application/ogg"):
			return containerVorbis, detected.String()
		}
	}
	return containerUnknown, detected.String()
}

// memFile lets an in-memory buffer stand in for an open file so decoders
// keep their seek support.
type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

// decode turns raw bytes into a seekable stream. Every failure is reported
// as a *DecodeError.
func decode(data []byte) (s beep.StreamSeekCloser, format beep.Format, err error) {
	kind, mime := sniff(data)

	// Some decoders panic on truncated headers instead of returning an error.
	defer func() {
		if r := recover(); r != nil {
			s, format = nil, beep.Format{}
			err = &DecodeError{Code: CodeCorrupt, Message: fmt.Sprintf("%s decoder: %v", kind, r)}
		}
	}()

	f := memFile{bytes.NewReader(data)}
	switch kind {
	case containerMP3:
		s, format, err = mp3.Decode(f)
	case containerWAV:
		s, format, err = wav.Decode(f)
	case containerFLAC:
		s, format, err = flac.Decode(f)
	case containerVorbis:
		s, format, err = vorbis.Decode(f)
	default:
		return nil, beep.Format{}, &DecodeError{
			Code:    CodeUnsupportedFormat,
			Message: fmt.Sprintf("unsupported audio format %s", mime),
		}
	}
	if err != nil {
		return nil, beep.Format{}, &DecodeError{Code: CodeCorrupt, Message: err.Error()}
	}
	if s.Len() <= 0 || format.SampleRate <= 0 {
		_ = s.Close()
		return nil, beep.Format{}, &DecodeError{Code: CodeEmptyStream, Message: fmt.Sprintf("%s stream has no samples", kind)}
	}
	return s, format, nil
}
