package asset

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"

	"github.com/gogpu/gg"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/webp" // register decoder
)

// decode turns the bytes of a resource into the value stored for its kind.
func decode(kind Kind, data []byte) (any, error) {
	switch kind {
	case KindImage:
		return DecodeImage(bytes.NewReader(data))
	case KindAudio:
		return DecodeAudio(bytes.NewReader(data))
	case KindText:
		return string(data), nil
	case KindBlob:
		return data, nil
	default:
		return nil, fmt.Errorf("unknown kind %s", kind)
	}
}

// DecodeImage decodes PNG, JPEG, GIF, BMP or WebP data into an image buffer.
func DecodeImage(r io.Reader) (*gg.ImageBuf, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	buf := gg.ImageBufFromImage(img)
	if buf == nil {
		return nil, fmt.Errorf("decode image: unsupported %s layout", format)
	}
	return buf, nil
}

// DecodeAudio decodes WAV data into an in-memory buffer that can be
// streamed any number of times.
func DecodeAudio(r io.Reader) (*beep.Buffer, error) {
	s, format, err := wav.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}
	defer s.Close()
	buf := beep.NewBuffer(format)
	buf.Append(s)
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}
	return buf, nil
}
