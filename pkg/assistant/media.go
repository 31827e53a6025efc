package assistant

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"
	"mime"
	"path/filepath"
	"strings"

	"github.com/sunshineplan/imgconv"
)

// downscale shrinks a PNG so it covers at most maxMP megapixels, keeping the
// aspect ratio. Images already within budget, or maxMP <= 0, pass through.
func downscale(data []byte, maxMP float64) ([]byte, error) {
	if maxMP <= 0 {
		return data, nil
	}

	img, err := imgconv.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	currentMP := float64(width*height) / 1_000_000.0
	if currentMP <= maxMP {
		return data, nil
	}

	ratio := math.Sqrt(maxMP / currentMP)
	resized := imgconv.Resize(img, &imgconv.ResizeOption{
		Width:  max(1, int(float64(width)*ratio)),
		Height: max(1, int(float64(height)*ratio)),
	})

	var buf bytes.Buffer
	if err := imgconv.Write(&buf, resized, &imgconv.FormatOption{Format: imgconv.PNG}); err != nil {
		return nil, fmt.Errorf("error encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func pngDataURL(data []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}

// audioFormat maps a MIME type ("audio/mpeg", "audio/wav; codecs=1") or a file
// extension to the format name chat completion APIs accept.
func audioFormat(mimeOrExt string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(mimeOrExt))
	if strings.HasPrefix(s, ".") {
		if t := mime.TypeByExtension(s); t != "" {
			s = t
		} else {
			s = "audio/" + strings.TrimPrefix(s, ".")
		}
	}
	if mt, _, err := mime.ParseMediaType(s); err == nil {
		s = mt
	}

	switch strings.TrimPrefix(s, "audio/") {
	case "mp3", "mpeg", "mpeg3", "x-mpeg-3":
		return "mp3", nil
	case "wav", "wave", "x-wav", "vnd.wave":
		return "wav", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedAudio, mimeOrExt)
}

func audioFormatForPath(path string) (string, error) {
	return audioFormat(filepath.Ext(path))
}
