package player

import (
	"bytes"
	"path"
	"strings"

	"github.com/dhowden/tag"
	"github.com/faiface/beep"
)

// Track describes the currently loaded audio resource.
type Track struct {
	Name     string
	Title    string
	Artist   string
	Duration float64 // seconds
	Format   beep.Format
}

// DisplayTitle returns "Artist - Title" when both tags are present, the
// title alone, or the asset name without its extension.
func (t *Track) DisplayTitle() string {
	if t == nil {
		return ""
	}
	switch {
	case t.Title != "" && t.Artist != "":
		return t.Artist + " - " + t.Title
	case t.Title != "":
		return t.Title
	default:
		return strings.TrimSuffix(t.Name, path.Ext(t.Name))
	}
}

func newTrack(name string, data []byte, format beep.Format, samples int) *Track {
	t := &Track{
		Name:     name,
		Duration: format.SampleRate.D(samples).Seconds(),
		Format:   format,
	}
	// Tags are optional; WAV files usually carry none.
	if md, err := tag.ReadFrom(bytes.NewReader(data)); err == nil {
		t.Title = strings.TrimSpace(md.Title())
		t.Artist = strings.TrimSpace(md.Artist())
	}
	return t
}
