package s3

import (
	"github.com/h2non/filetype"
	"github.com/samber/lo"

	ierr "github.com/flexprice/invoicer/internal/errors"
)

// MaxImageBytes is the upload limit for logos
const MaxImageBytes = 5 << 20

// ImageTypes are the MIME types every renderer can embed
var ImageTypes = []string{"image/png", "image/jpeg", "image/gif"}

// File is an upload candidate
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Extension sniffs the file extension from the content
func (f *File) Extension() string {
	kind, err := filetype.Match(f.Data)
	if err != nil || kind == filetype.Unknown {
		return "bin"
	}
	return kind.Extension
}

// ValidateImage checks the upload rules for logos: content sniffed as an
// embeddable image and at most maxBytes long. A zero maxBytes means
// MaxImageBytes. The declared content type is replaced by the sniffed one.
func ValidateImage(f *File, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = MaxImageBytes
	}
	if f == nil || len(f.Data) == 0 {
		return ierr.NewError("file is empty").
			WithHint("Please choose an image to upload").
			Mark(ierr.ErrValidation)
	}
	if int64(len(f.Data)) > maxBytes {
		return ierr.NewErrorf("file is %d bytes, limit is %d", len(f.Data), maxBytes).
			WithHintf("Images must be at most %d MB", maxBytes>>20).
			WithReportableDetails(map[string]any{
				"size":  len(f.Data),
				"limit": maxBytes,
			}).
			Mark(ierr.ErrValidation)
	}

	kind, err := filetype.Match(f.Data)
	if err != nil || !lo.Contains(ImageTypes, kind.MIME.Value) {
		return ierr.NewErrorf("unsupported file type %q", kind.MIME.Value).
			WithHint("Logos must be PNG, JPEG or GIF images").
			WithReportableDetails(map[string]any{
				"declared_type": f.ContentType,
				"allowed":       ImageTypes,
			}).
			Mark(ierr.ErrValidation)
	}
	f.ContentType = kind.MIME.Value
	return nil
}
