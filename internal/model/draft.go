package model

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validation failures for a new movie, in the order they are checked.
var (
	ErrFieldsRequired  = errors.New("all fields are required")
	ErrImageRequired   = errors.New("cover image is required")
	ErrInvalidDuration = errors.New("duration must be a positive number")
)

var validate = validator.New()

// NewMovieDraft is the form state of the creator view.  The cover image is
// held separately in CoverImage and never travels inside the draft.
type NewMovieDraft struct {
	Name        string  `form:"name" validate:"required"`
	Director    string  `form:"director" validate:"required"`
	Rating      float64 `form:"rating" validate:"required"`
	Description string  `form:"description" validate:"required"`
	ReleaseDate string  `form:"releaseDate" validate:"required"`
	Duration    int     `form:"duration" validate:"required"`
}

// Validate checks the draft and the attached image.  The first failing
// rule wins: required fields, then the image, then the duration.
func (d NewMovieDraft) Validate(img *CoverImage) error {
	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return ErrFieldsRequired
		}
		return fmt.Errorf("validate draft: %w", err)
	}
	if img.Empty() {
		return ErrImageRequired
	}
	if d.Duration <= 0 {
		return ErrInvalidDuration
	}
	return nil
}

// CoverImage is the binary payload attached to a new movie.
type CoverImage struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Empty reports whether no image is attached.
func (img *CoverImage) Empty() bool {
	return img == nil || len(img.Data) == 0
}

// DataURL renders the payload as a data: URL.  It backs both the local
// preview and the hidden field that keeps the image across a failed submit.
func (img *CoverImage) DataURL() string {
	if img.Empty() {
		return ""
	}
	ct := img.ContentType
	if ct == "" {
		ct = http.DetectContentType(img.Data)
	}
	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// ParseDataURL reverses DataURL.  The filename is not part of a data URL and
// is supplied by the caller.
func ParseDataURL(raw, filename string) (*CoverImage, error) {
	rest, ok := strings.CutPrefix(raw, "data:")
	if !ok {
		return nil, errors.New("not a data url")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, errors.New("malformed data url")
	}
	ct, isB64 := strings.CutSuffix(meta, ";base64")
	if !isB64 {
		return nil, errors.New("data url is not base64")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data url: %w", err)
	}
	if filename == "" {
		filename = "cover"
	}
	return &CoverImage{Filename: filename, ContentType: ct, Data: data}, nil
}

// EditDraft holds the four fields the editor may change.  Name and ID are
// not part of it.
type EditDraft struct {
	Director    string  `json:"director" form:"director"`
	Rating      float64 `json:"rating" form:"rating"`
	Description string  `json:"description" form:"description"`
	Duration    int     `json:"duration" form:"duration"`
}

// DraftOf copies the editable fields of m.
func DraftOf(m Movie) EditDraft {
	return EditDraft{
		Director:    m.Director,
		Rating:      m.Rating,
		Description: m.Description,
		Duration:    m.Duration,
	}
}

// Apply returns m with the draft's fields patched in.
func (d EditDraft) Apply(m Movie) Movie {
	m.Director = d.Director
	m.Rating = d.Rating
	m.Description = d.Description
	m.Duration = d.Duration
	return m
}
