package model

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullDraft() NewMovieDraft {
	return NewMovieDraft{
		Name:        "Dune",
		Director:    "Denis Villeneuve",
		Rating:      8.5,
		Description: "Spice.",
		ReleaseDate: "2021-10-22",
		Duration:    155,
	}
}

func someImage() *CoverImage {
	return &CoverImage{Filename: "dune.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
}

func TestNewMovieDraftValidate(t *testing.T) {
	assert.NoError(t, fullDraft().Validate(someImage()))

	blanks := []func(*NewMovieDraft){
		func(d *NewMovieDraft) { d.Name = "" },
		func(d *NewMovieDraft) { d.Director = "" },
		func(d *NewMovieDraft) { d.Rating = 0 },
		func(d *NewMovieDraft) { d.Description = "" },
		func(d *NewMovieDraft) { d.ReleaseDate = "" },
		func(d *NewMovieDraft) { d.Duration = 0 },
	}
	for _, blank := range blanks {
		d := fullDraft()
		blank(&d)
		assert.ErrorIs(t, d.Validate(someImage()), ErrFieldsRequired)
	}
}

func TestNewMovieDraftValidateOrder(t *testing.T) {
	// Missing fields win over a missing image.
	d := fullDraft()
	d.Director = ""
	assert.ErrorIs(t, d.Validate(nil), ErrFieldsRequired)

	// Missing image wins over a bad duration.
	d = fullDraft()
	d.Duration = -5
	assert.ErrorIs(t, d.Validate(nil), ErrImageRequired)
	assert.ErrorIs(t, d.Validate(&CoverImage{}), ErrImageRequired)

	assert.ErrorIs(t, d.Validate(someImage()), ErrInvalidDuration)
}

func TestValidationErrorsAreLowercase(t *testing.T) {
	for _, err := range []error{ErrFieldsRequired, ErrImageRequired, ErrInvalidDuration} {
		msg := err.Error()
		assert.True(t, unicode.IsLower(rune(msg[0])), msg)
		assert.False(t, strings.HasSuffix(msg, "!"), msg)
	}
}

func TestDataURLRoundTrip(t *testing.T) {
	img := someImage()
	raw := img.DataURL()
	assert.Equal(t, "data:image/png;base64,iVBORw==", raw)

	back, err := ParseDataURL(raw, "dune.png")
	require.NoError(t, err)
	assert.Equal(t, img, back)

	_, err = ParseDataURL("http://example.com/x.png", "")
	assert.Error(t, err)
	_, err = ParseDataURL("data:image/png,plain", "")
	assert.Error(t, err)

	assert.Equal(t, "", (*CoverImage)(nil).DataURL())
}

func TestEditDraftApply(t *testing.T) {
	m := Movie{ID: "abc", Name: "Dune", Director: "D", Rating: 8, Description: "x", ReleaseDate: "2021-10-22", Duration: 155, CoverImage: "uploads/dune.png"}
	d := EditDraft{Director: "Denis", Rating: 9.1, Description: "y", Duration: 156}

	got := d.Apply(m)
	assert.Equal(t, "abc", got.ID)
	assert.Equal(t, "Dune", got.Name)
	assert.Equal(t, "2021-10-22", got.ReleaseDate)
	assert.Equal(t, "uploads/dune.png", got.CoverImage)
	assert.Equal(t, d, DraftOf(got))
	// the original is untouched
	assert.Equal(t, "D", m.Director)
}

func TestCoverURL(t *testing.T) {
	m := Movie{CoverImage: "uploads/dune.png"}
	assert.Equal(t, "http://localhost:3000/uploads/dune.png", m.CoverURL("http://localhost:3000/"))
	assert.Equal(t, "http://localhost:3000/uploads/dune.png", m.CoverURL("http://localhost:3000"))
	assert.Equal(t, "http://localhost:3000/api/placeholder/300/450", Movie{}.CoverURL("http://localhost:3000/"))
}
