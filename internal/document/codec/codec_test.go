package codec

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/magiconair/properties"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document"
)

func date(y int, m time.Month, d, hh, mm int) *time.Time {
	t := time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
	return &t
}

func TestLayoutFor(t *testing.T) {
	cases := []struct {
		pattern string
		want    string
	}{
		{"mm-dd-yyyy", "04-02-2006"},
		{"MM-dd-yyyy", "01-02-2006"},
		{"yyyy-MM-dd'T'HH:mm:ss", "2006-01-02T15:04:05"},
		{"dd.MM.yy", "02.01.06"},
		{"EEE, d MMM yyyy hh:mm a", "Mon, 2 Jan 2006 03:04 PM"},
		{"HH:mm:ss.SSS", "15:04:05.000"},
		{"yyyy-MM-dd'T'HH:mmXXX", "2006-01-02T15:04-07:00"},
		{"''yyyy''", "'2006'"},
	}
	for _, tc := range cases {
		got, err := layoutFor(tc.pattern)
		require.NoError(t, err, tc.pattern)
		assert.Equal(t, tc.want, got, tc.pattern)
	}
}

func TestLayoutForRejects(t *testing.T) {
	for _, p := range []string{"", "yyyy-QQ", "yyyy 'Jan'", "'unterminated", "ddd-MM", "ss SSS", "yyyy1"} {
		_, err := layoutFor(p)
		assert.Error(t, err, p)
	}
}

func TestDefaultPatternKeepsLiteralFormat(t *testing.T) {
	c := MustNew("")
	require.Equal(t, DefaultDatePattern, c.Pattern())

	// minute-of-hour, day-of-month, year: the month does not survive.
	require.Equal(t, "00-15-2024", c.FormatDate(*date(2024, time.March, 15, 0, 0)))
	require.Equal(t, "07-31-2023", c.FormatDate(*date(2023, time.December, 31, 9, 7)))

	got, err := c.ParseDate("00-15-2024")
	require.NoError(t, err)
	require.True(t, got.Equal(*date(2024, time.January, 15, 0, 0)), "got %s", got)
}

func TestSameDateAtPatternResolution(t *testing.T) {
	c := MustNew(DefaultDatePattern)
	assert.True(t, c.SameDate(*date(2024, time.March, 15, 0, 0), *date(2024, time.January, 15, 0, 0)))
	assert.False(t, c.SameDate(*date(2024, time.January, 15, 0, 0), *date(2024, time.January, 16, 0, 0)))

	iso := MustNew("yyyy-MM-dd")
	assert.True(t, iso.SameDate(*date(2024, time.March, 15, 10, 0), *date(2024, time.March, 15, 23, 59)))
	assert.False(t, iso.SameDate(*date(2024, time.March, 15, 0, 0), *date(2024, time.January, 15, 0, 0)))
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	c := MustNew(DefaultDatePattern)
	cases := []struct {
		name   string
		file   string
		author string
	}{
		{"plain", "report final.pdf", "Zoë Müller 李"},
		{"leading space", " lead.txt", " Alice"},
		{"several leading spaces", "   x.bin", "  Bob  "},
		{"leading tab", "\tnotes.txt", "\tCarol"},
		{"separator characters", "a = b: c.txt", "#!=:"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := document.Metadata{
				ID:         "6f1c2a8e-3a43-4c35-9a57-6a0f5b6b7e11",
				FileName:   tc.file,
				AuthorName: tc.author,
				UploadDate: date(2024, time.January, 15, 0, 0),
			}
			data, err := c.Marshal(in)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(string(data), "#"))
			require.Contains(t, string(data), "00-15-2024")

			out, err := c.Unmarshal(data)
			require.NoError(t, err)
			if diff := cmp.Diff(in, out); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMarshalEscapesLeadingSpace(t *testing.T) {
	c := MustNew(DefaultDatePattern)
	data, err := c.Marshal(document.Metadata{ID: "id-3", FileName: " lead.txt", AuthorName: " Alice", UploadDate: date(2024, time.January, 2, 0, 5)})
	require.NoError(t, err)
	require.Contains(t, string(data), "file-name = \\ lead.txt\n")
	require.Contains(t, string(data), "author-name = \\ Alice\n")
	require.Contains(t, string(data), "uuid = id-3\n")
}

func TestEncodeKeys(t *testing.T) {
	c := MustNew(DefaultDatePattern)
	p, err := c.Encode(document.Metadata{ID: "id-1", FileName: "a.txt", UploadDate: date(2024, time.January, 2, 0, 5)})
	require.NoError(t, err)

	v, ok := p.Get(KeyUUID)
	require.True(t, ok)
	require.Equal(t, "id-1", v)
	v, _ = p.Get(KeyFileName)
	require.Equal(t, "a.txt", v)
	v, _ = p.Get(KeyUploadDate)
	require.Equal(t, "05-02-2024", v)

	_, ok = p.Get(KeyAuthor)
	require.False(t, ok, "empty author must be omitted")
}

func TestEncodeRequiresUploadDate(t *testing.T) {
	c := MustNew(DefaultDatePattern)
	_, err := c.Marshal(document.Metadata{ID: "id-2", FileName: "a.txt"})
	require.Error(t, err)

	var encErr *EncodingError
	require.True(t, errors.As(err, &encErr))
	require.Equal(t, "id-2", encErr.ID)
	require.ErrorIs(t, err, ErrMissingUploadDate)
}

func TestDecodeLeavesBadDateAbsent(t *testing.T) {
	c := MustNew(DefaultDatePattern)
	m, err := c.Unmarshal([]byte("uuid=id-3\nfile-name=x.bin\nauthor-name=Bob\ndocument-date=not-a-date\n"))
	require.NoError(t, err)
	require.Equal(t, "id-3", m.ID)
	require.Equal(t, "x.bin", m.FileName)
	require.Equal(t, "Bob", m.AuthorName)
	require.Nil(t, m.UploadDate)
}

func TestUnmarshalUnicodeEscapes(t *testing.T) {
	c := MustNew(DefaultDatePattern)
	m, err := c.Unmarshal([]byte("#FileUpload meta data\nuuid=id-5\nauthor-name=Zo\\u00eb\nfile-name=a\\:b.txt\n"))
	require.NoError(t, err)
	require.Equal(t, "Zoë", m.AuthorName)
	require.Equal(t, "a:b.txt", m.FileName)
}

func TestDecodeMissingKeys(t *testing.T) {
	c := MustNew(DefaultDatePattern)
	m := c.Decode(properties.NewProperties())
	require.Equal(t, document.Metadata{}, m)
}

func TestUnmarshalDoesNotExpandValues(t *testing.T) {
	c := MustNew(DefaultDatePattern)
	m, err := c.Unmarshal([]byte("uuid=id-4\nauthor-name=${author-name}\n"))
	require.NoError(t, err)
	require.Equal(t, "${author-name}", m.AuthorName)
}

func TestWithLocation(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)
	c := MustNew("yyyy-MM-dd HH:mm", WithLocation(berlin))
	require.Equal(t, "2024-01-15 01:30", c.FormatDate(time.Date(2024, time.January, 15, 0, 30, 0, 0, time.UTC)))

	got, err := c.ParseDate("2024-01-15 01:30")
	require.NoError(t, err)
	require.True(t, got.Equal(time.Date(2024, time.January, 15, 0, 30, 0, 0, time.UTC)))
}
