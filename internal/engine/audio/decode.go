package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// ErrUnsupportedFormat is returned for file extensions with no decoder.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Formats lists the supported file extensions.
var Formats = []string{".wav", ".ogg", ".mp3"}

// Decode picks a decoder from name's extension and decodes rc.
// The returned streamer owns rc and closes it.
func Decode(rc io.ReadCloser, name string) (beep.StreamSeekCloser, beep.Format, error) {
	var (
		s      beep.StreamSeekCloser
		format beep.Format
		err    error
	)

	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".wav":
		s, format, err = wav.Decode(rc)
	case ".ogg":
		s, format, err = vorbis.Decode(rc)
	case ".mp3":
		s, format, err = mp3.Decode(rc)
	default:
		rc.Close()
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		rc.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", name, err)
	}
	return s, format, nil
}

// DecodeFile opens and decodes the file at path.
func DecodeFile(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}
	return Decode(f, path)
}
