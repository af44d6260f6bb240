package images

import (
	"net/http"
	"strings"
)

// Format is an accepted image type.
type Format string

const (
	FormatJPEG Format = "image/jpeg"
	FormatPNG  Format = "image/png"
	FormatWebP Format = "image/webp"
)

var formats = []Format{FormatJPEG, FormatPNG, FormatWebP}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	switch f {
	case FormatJPEG:
		return "jpg"
	case FormatPNG:
		return "png"
	case FormatWebP:
		return "webp"
	}
	return ""
}

// ContentType returns the MIME type.
func (f Format) ContentType() string {
	return string(f)
}

// DetectFormat sniffs data and reports whether it is an accepted type.
// The declared content type of an upload is ignored.
func DetectFormat(data []byte) (Format, bool) {
	ct := http.DetectContentType(data)
	for _, f := range formats {
		if ct == string(f) {
			return f, true
		}
	}
	return "", false
}

func formatFromName(name string) (Format, bool) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return "", false
	}
	ext := name[i+1:]
	for _, f := range formats {
		if f.Ext() == ext {
			return f, true
		}
	}
	return "", false
}
