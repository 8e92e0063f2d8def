package document

import (
	"time"

	"github.com/google/uuid"
)

// Metadata describes a stored document without its content. ID is both the
// primary key and the name of the record the document is persisted under.
type Metadata struct {
	ID         string     `json:"uuid"`
	FileName   string     `json:"fileName"`
	AuthorName string     `json:"authorName,omitempty"`
	UploadDate *time.Time `json:"uploadDate,omitempty"`
}

// Document is a metadata record plus the raw file bytes.
type Document struct {
	Metadata
	Content []byte `json:"-"`
}

// NewID returns a fresh random identifier in canonical UUID form.
func NewID() string {
	return uuid.NewString()
}

// NewMetadata builds a metadata record with a newly generated ID.
func NewMetadata(fileName, author string, uploadDate *time.Time) Metadata {
	return Metadata{
		ID:         NewID(),
		FileName:   fileName,
		AuthorName: author,
		UploadDate: uploadDate,
	}
}

// NewDocument builds a document with a newly generated ID.
func NewDocument(content []byte, fileName, author string, uploadDate *time.Time) *Document {
	return &Document{
		Metadata: NewMetadata(fileName, author, uploadDate),
		Content:  content,
	}
}

// Meta returns the metadata projection of d.
func (d *Document) Meta() Metadata {
	return d.Metadata
}

// EnsureID assigns a generated ID when m has none and returns the ID in use.
func (m *Metadata) EnsureID() string {
	if m.ID == "" {
		m.ID = NewID()
	}
	return m.ID
}
