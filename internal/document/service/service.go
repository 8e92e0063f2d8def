package service

import (
	"context"
	"time"

	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document/codec"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document/query"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document/repository"
)

// Service defines the document operations used by the handler layer and
// implemented remotely by pkg/client. Lookups by ID return (nil, nil) when
// no document exists.
type Service interface {
	Save(ctx context.Context, doc *document.Document) (document.Metadata, error)
	FindFileUploads(ctx context.Context, author *string, date *time.Time) ([]document.Metadata, error)
	GetFileUploadFile(ctx context.Context, id string) ([]byte, error)
	Load(ctx context.Context, id string) (*document.Document, error)
}

// New returns a Service over store and engine.
func New(store *repository.Store, engine *query.Engine) Service {
	return &storeService{store: store, engine: engine, now: time.Now}
}

// NewMemoryService returns a Service backed by the in-memory backend.
func NewMemoryService(c *codec.Codec) Service {
	store := repository.NewStore(repository.NewMemory(), c)
	return New(store, query.New(store, c))
}

type storeService struct {
	store  *repository.Store
	engine *query.Engine
	now    func() time.Time
}

// Save stamps the current time on documents without an upload date.
func (s *storeService) Save(ctx context.Context, doc *document.Document) (document.Metadata, error) {
	if doc.UploadDate == nil {
		now := s.now()
		doc.UploadDate = &now
	}
	if err := s.store.Insert(ctx, doc); err != nil {
		return document.Metadata{}, err
	}
	return doc.Meta(), nil
}

func (s *storeService) FindFileUploads(ctx context.Context, author *string, date *time.Time) ([]document.Metadata, error) {
	return s.engine.Find(ctx, query.Filter{Author: author, Date: date})
}

func (s *storeService) GetFileUploadFile(ctx context.Context, id string) ([]byte, error) {
	doc, err := s.store.Load(ctx, id)
	if err != nil || doc == nil {
		return nil, err
	}
	if doc.Content == nil {
		return []byte{}, nil
	}
	return doc.Content, nil
}

func (s *storeService) Load(ctx context.Context, id string) (*document.Document, error) {
	return s.store.Load(ctx, id)
}
