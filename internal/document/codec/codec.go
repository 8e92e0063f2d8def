// Package codec converts document metadata to and from the flat key/value
// record stored next to each document.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/magiconair/properties"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/pkg/logger"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/pkg/metrics"
)

// Record keys.
const (
	KeyUUID       = "uuid"
	KeyAuthor     = "author-name"
	KeyFileName   = "file-name"
	KeyUploadDate = "document-date"
)

// DefaultDatePattern is the on-disk date pattern. In SimpleDateFormat terms
// "mm" is minute-of-hour, not month; the literal pattern is kept so existing
// records stay readable.
const DefaultDatePattern = "mm-dd-yyyy"

const header = "document metadata"

var ErrMissingUploadDate = errors.New("upload date is required")

// EncodingError reports a metadata record that cannot be encoded.
type EncodingError struct {
	ID  string
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode metadata %s: %v", e.ID, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// Codec encodes and decodes metadata records using a fixed date pattern.
type Codec struct {
	pattern string
	layout  string
	loc     *time.Location
}

type Option func(*Codec)

// WithLocation sets the zone dates are formatted and parsed in. Default UTC.
func WithLocation(loc *time.Location) Option {
	return func(c *Codec) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// New returns a Codec for the given date pattern. An empty pattern selects
// DefaultDatePattern.
func New(pattern string, opts ...Option) (*Codec, error) {
	if pattern == "" {
		pattern = DefaultDatePattern
	}
	layout, err := layoutFor(pattern)
	if err != nil {
		return nil, err
	}
	c := &Codec{pattern: pattern, layout: layout, loc: time.UTC}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// MustNew is like New but panics on an invalid pattern.
func MustNew(pattern string, opts ...Option) *Codec {
	c, err := New(pattern, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Codec) Pattern() string { return c.pattern }

func (c *Codec) FormatDate(t time.Time) string {
	return t.In(c.loc).Format(c.layout)
}

func (c *Codec) ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(c.layout, s, c.loc)
}

// SameDate reports whether a and b are equal at the resolution of the pattern.
func (c *Codec) SameDate(a, b time.Time) bool {
	return c.FormatDate(a) == c.FormatDate(b)
}

// Encode maps m onto the four record keys. The author is omitted when empty.
func (c *Codec) Encode(m document.Metadata) (*properties.Properties, error) {
	if m.UploadDate == nil {
		return nil, &EncodingError{ID: m.ID, Err: ErrMissingUploadDate}
	}
	p := properties.NewProperties()
	p.DisableExpansion = true
	kv := [][2]string{{KeyUUID, m.ID}, {KeyFileName, m.FileName}}
	if m.AuthorName != "" {
		kv = append(kv, [2]string{KeyAuthor, m.AuthorName})
	}
	kv = append(kv, [2]string{KeyUploadDate, c.FormatDate(*m.UploadDate)})
	for _, e := range kv {
		if _, _, err := p.Set(e[0], e[1]); err != nil {
			return nil, &EncodingError{ID: m.ID, Err: err}
		}
	}
	return p, nil
}

// Decode reads a metadata record. Missing keys leave fields empty and an
// unparseable date is logged and dropped; Decode itself never fails.
func (c *Codec) Decode(p *properties.Properties) document.Metadata {
	var m document.Metadata
	m.ID, _ = p.Get(KeyUUID)
	m.FileName, _ = p.Get(KeyFileName)
	m.AuthorName, _ = p.Get(KeyAuthor)
	if s, ok := p.Get(KeyUploadDate); ok {
		t, err := c.ParseDate(s)
		if err != nil {
			metrics.DecodeWarnings.Inc()
			logger.Warnf("metadata %s: cannot parse date %q with pattern %s: %v", m.ID, s, c.pattern, err)
		} else {
			m.UploadDate = &t
		}
	}
	return m
}

// Marshal renders m as UTF-8 properties text. Records written with \uXXXX
// escapes are read back the same way by Unmarshal.
func (c *Codec) Marshal(m document.Metadata) ([]byte, error) {
	p, err := c.Encode(m)
	if err != nil {
		return nil, err
	}
	var body bytes.Buffer
	if _, err := p.Write(&body, properties.UTF8); err != nil {
		return nil, &EncodingError{ID: m.ID, Err: err}
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "#%s\n", header)
	for _, line := range strings.SplitAfter(body.String(), "\n") {
		buf.WriteString(escapeLeadingSpace(line))
	}
	return buf.Bytes(), nil
}

// escapeLeadingSpace escapes the first character of a value that starts with
// a space. The loader skips unescaped whitespace after the separator; tabs
// and form feeds are already written as \t and \f.
func escapeLeadingSpace(line string) string {
	key, value, ok := strings.Cut(line, " = ")
	if !ok || !strings.HasPrefix(value, " ") {
		return line
	}
	return key + " = \\" + value
}

// Unmarshal parses properties text and decodes it. It fails only when data is
// not a valid properties document.
func (c *Codec) Unmarshal(data []byte) (document.Metadata, error) {
	l := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := l.LoadBytes(data)
	if err != nil {
		return document.Metadata{}, fmt.Errorf("parse metadata: %w", err)
	}
	return c.Decode(p), nil
}
