package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document/codec"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/pkg/logger"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/pkg/metrics"
)

// MetadataFileName is the fixed name of the metadata record inside each
// document record.
const MetadataFileName = "metadata.properties"

// Store persists one record per document, named by the document ID, holding
// the content file and the metadata file. It takes no locks: two inserts
// with different IDs never touch the same record, and a reader racing an
// insert of the same ID may see content without metadata.
type Store struct {
	backend Backend
	codec   *codec.Codec
}

func NewStore(b Backend, c *codec.Codec) *Store {
	return &Store{backend: b, codec: c}
}

// Codec returns the codec used for metadata records.
func (s *Store) Codec() *codec.Codec { return s.codec }

// Insert writes doc.Content and then its metadata. An ID is assigned when
// doc has none. Content and metadata are two separate writes; a failure in
// between leaves a record without metadata.
func (s *Store) Insert(ctx context.Context, doc *document.Document) (err error) {
	start := time.Now()
	defer func() { observe("insert", start, outcome(err)) }()

	id := doc.EnsureID()
	if err := checkName(id); err != nil {
		return fmt.Errorf("document id: %w", err)
	}
	if err := checkFileName(doc.FileName); err != nil {
		return fmt.Errorf("document %s file name: %w", id, err)
	}
	// encode first so a record that cannot be encoded leaves nothing behind
	meta, err := s.codec.Marshal(doc.Metadata)
	if err != nil {
		return err
	}
	if err := s.backend.CreateRecord(ctx, id); err != nil {
		return s.fail("create record", id, err)
	}
	if err := s.backend.WriteFile(ctx, id, doc.FileName, doc.Content); err != nil {
		return s.fail("write content", id, err)
	}
	if err := s.backend.WriteFile(ctx, id, MetadataFileName, meta); err != nil {
		return s.fail("write metadata", id, err)
	}
	logger.Debugf("inserted document %s (%s, %d bytes)", id, doc.FileName, len(doc.Content))
	return nil
}

// Load returns the document stored under id, or (nil, nil) when no record
// exists for it.
func (s *Store) Load(ctx context.Context, id string) (doc *document.Document, err error) {
	start := time.Now()
	defer func() {
		if err == nil && doc == nil {
			observe("load", start, metrics.OutcomeNotFound)
			return
		}
		observe("load", start, outcome(err))
	}()

	if checkName(id) != nil {
		return nil, nil
	}
	ok, err := s.backend.RecordExists(ctx, id)
	if err != nil {
		return nil, s.fail("stat record", id, err)
	}
	if !ok {
		return nil, nil
	}
	raw, err := s.backend.ReadFile(ctx, id, MetadataFileName)
	if err != nil {
		return nil, s.fail("read metadata", id, err)
	}
	meta, err := s.codec.Unmarshal(raw)
	if err != nil {
		return nil, s.fail("decode metadata", id, err)
	}
	if err := checkFileName(meta.FileName); err != nil {
		return nil, s.fail("read content", id, err)
	}
	content, err := s.backend.ReadFile(ctx, id, meta.FileName)
	if err != nil {
		return nil, s.fail("read content", id, err)
	}
	return &document.Document{Metadata: meta, Content: content}, nil
}

// ListIdentifiers returns the name of every record. Order is whatever the
// backend enumerates in and is not stable.
func (s *Store) ListIdentifiers(ctx context.Context) ([]string, error) {
	ids, err := s.backend.ListRecords(ctx)
	if err != nil {
		return nil, s.fail("list records", "*", err)
	}
	return ids, nil
}

// ReadMetadata returns the raw metadata record stored under id.
func (s *Store) ReadMetadata(ctx context.Context, id string) ([]byte, error) {
	if err := checkName(id); err != nil {
		return nil, &StorageError{Op: "read metadata", ID: id, Err: err}
	}
	raw, err := s.backend.ReadFile(ctx, id, MetadataFileName)
	if err != nil {
		return nil, &StorageError{Op: "read metadata", ID: id, Err: err}
	}
	return raw, nil
}

func (s *Store) fail(op, id string, err error) error {
	serr := &StorageError{Op: op, ID: id, Err: err}
	logger.Errorf("%v", serr)
	return serr
}

func outcome(err error) string {
	if err != nil {
		return metrics.OutcomeError
	}
	return metrics.OutcomeOK
}

func observe(op string, start time.Time, result string) {
	metrics.Operations.WithLabelValues(op, result).Inc()
	metrics.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// IsStorageError reports whether err is or wraps a *StorageError.
func IsStorageError(err error) bool {
	var serr *StorageError
	return errors.As(err, &serr)
}
