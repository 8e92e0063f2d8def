package repository

import (
	"context"

	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/storage"
)

// MinIO stores each file as the object <id>/<name>. Records are implied by
// their objects, so CreateRecord has nothing to do.
type MinIO struct {
	objects *storage.MinIOStorage
}

func NewMinIO(s *storage.MinIOStorage) *MinIO {
	return &MinIO{objects: s}
}

func (m *MinIO) CreateRecord(context.Context, string) error { return nil }

func (m *MinIO) RecordExists(ctx context.Context, id string) (bool, error) {
	return m.objects.HasPrefix(ctx, recordPrefix(id))
}

func (m *MinIO) WriteFile(ctx context.Context, id, name string, data []byte) error {
	contentType := "application/octet-stream"
	if name == MetadataFileName {
		contentType = "text/plain; charset=utf-8"
	}
	return m.objects.Put(ctx, objectKey(id, name), data, contentType)
}

func (m *MinIO) ReadFile(ctx context.Context, id, name string) ([]byte, error) {
	return m.objects.Get(ctx, objectKey(id, name))
}

func (m *MinIO) ListRecords(ctx context.Context) ([]string, error) {
	return m.objects.Prefixes(ctx)
}
