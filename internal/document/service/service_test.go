package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document/codec"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document/query"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document/repository"
)

func TestSaveFindAndFetch(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService(codec.MustNew(""))
	d := time.Date(2024, time.May, 1, 8, 45, 0, 0, time.UTC)

	meta, err := svc.Save(ctx, document.NewDocument([]byte("abc"), "a.txt", "Alice", &d))
	require.NoError(t, err)
	require.NotEmpty(t, meta.ID)
	require.Equal(t, "a.txt", meta.FileName)

	author := "Alice"
	found, err := svc.FindFileUploads(ctx, &author, &d)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, meta.ID, found[0].ID)

	data, err := svc.GetFileUploadFile(ctx, meta.ID)
	require.NoError(t, err)
	require.Equal(t, "abc", string(data))

	doc, err := svc.Load(ctx, meta.ID)
	require.NoError(t, err)
	require.Equal(t, "Alice", doc.AuthorName)
}

func TestSaveStampsUploadDate(t *testing.T) {
	c := codec.MustNew("yyyy-MM-dd HH:mm")
	store := repository.NewStore(repository.NewMemory(), c)
	fixed := time.Date(2023, time.December, 24, 18, 0, 0, 0, time.UTC)
	svc := &storeService{store: store, engine: query.New(store, c), now: func() time.Time { return fixed }}

	meta, err := svc.Save(context.Background(), document.NewDocument([]byte("x"), "x.bin", "", nil))
	require.NoError(t, err)
	require.NotNil(t, meta.UploadDate)
	require.True(t, fixed.Equal(*meta.UploadDate))
}

func TestMissingDocument(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService(codec.MustNew(""))

	data, err := svc.GetFileUploadFile(ctx, document.NewID())
	require.NoError(t, err)
	require.Nil(t, data)

	doc, err := svc.Load(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, doc)
}

func TestEmptyContentIsNotMissing(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService(codec.MustNew(""))
	meta, err := svc.Save(ctx, document.NewDocument(nil, "empty.txt", "", nil))
	require.NoError(t, err)

	data, err := svc.GetFileUploadFile(ctx, meta.ID)
	require.NoError(t, err)
	require.NotNil(t, data)
	require.Empty(t, data)
}
