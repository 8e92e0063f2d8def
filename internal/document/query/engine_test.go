package query

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document/codec"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document/repository"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/pkg/metrics"
)

var (
	d1 = time.Date(2024, time.March, 9, 10, 15, 0, 0, time.UTC)
	d2 = time.Date(2024, time.March, 10, 10, 20, 0, 0, time.UTC)
)

type fixture struct {
	root   string
	store  *repository.Store
	engine *Engine
	ids    map[string]string
}

// newFixture stores one document per (author, date) pair.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	root := t.TempDir()
	fsys, err := repository.NewFileSystem(root)
	require.NoError(t, err)
	c := codec.MustNew(codec.DefaultDatePattern)
	f := &fixture{root: root, store: repository.NewStore(fsys, c), ids: map[string]string{}}
	f.engine = New(f.store, c)

	for _, author := range []string{"Alice", "Bob"} {
		for i, d := range []time.Time{d1, d2} {
			d := d
			doc := document.NewDocument([]byte(author), author+".txt", author, &d)
			require.NoError(t, f.store.Insert(ctx, doc))
			f.ids[author+[]string{"1", "2"}[i]] = doc.ID
		}
	}
	return f
}

func ids(ms []document.Metadata) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ID)
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func TestFindGrid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"author", Filter{Author: ptr("Alice")}, []string{"Alice1", "Alice2"}},
		{"date", Filter{Date: ptr(d1)}, []string{"Alice1", "Bob1"}},
		{"author and date", Filter{Author: ptr("Bob"), Date: ptr(d2)}, []string{"Bob2"}},
		{"none", Filter{}, []string{"Alice1", "Alice2", "Bob1", "Bob2"}},
		{"unknown author", Filter{Author: ptr("Carol")}, nil},
		{"author is case sensitive", Filter{Author: ptr("alice")}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.engine.Find(ctx, tc.filter)
			require.NoError(t, err)
			require.NotNil(t, got)
			want := make([]string, 0, len(tc.want))
			for _, k := range tc.want {
				want = append(want, f.ids[k])
			}
			require.ElementsMatch(t, want, ids(got))
		})
	}
}

func TestFindDateMatchesAtPatternResolution(t *testing.T) {
	f := newFixture(t)
	// same minute, day and year as d1; the default pattern carries no month
	probe := time.Date(2024, time.July, 9, 3, 15, 42, 0, time.UTC)
	got, err := f.engine.Find(context.Background(), Filter{Date: &probe})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{f.ids["Alice1"], f.ids["Bob1"]}, ids(got))
}

func TestFindSkipsUnreadableRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, os.Mkdir(filepath.Join(f.root, "no-metadata"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(f.root, "broken"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.root, "broken", repository.MetadataFileName),
		[]byte("uuid = broken\nfile-name = \\uZZZZ\n"), 0o644))

	before := testutil.ToFloat64(metrics.ScanSkipped)
	got, err := f.engine.Find(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, got, 4)
	require.Equal(t, before+2, testutil.ToFloat64(metrics.ScanSkipped))
}

func TestFindKeepsRecordWithMalformedDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dir := filepath.Join(f.root, "baddate")
	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, repository.MetadataFileName),
		[]byte("uuid = baddate\nfile-name = x.txt\nauthor-name = Alice\ndocument-date = not-a-date\n"), 0o644))

	all, err := f.engine.Find(ctx, Filter{Author: ptr("Alice")})
	require.NoError(t, err)
	require.Contains(t, ids(all), "baddate")
	for _, m := range all {
		if m.ID == "baddate" {
			require.Nil(t, m.UploadDate)
		}
	}

	byDate, err := f.engine.Find(ctx, Filter{Date: ptr(d1)})
	require.NoError(t, err)
	require.NotContains(t, ids(byDate), "baddate")
}

func TestFindEmptyStore(t *testing.T) {
	c := codec.MustNew("")
	e := New(repository.NewStore(repository.NewMemory(), c), c)
	got, err := e.Find(context.Background(), Filter{Author: ptr("Alice")})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

type failingSource struct{}

func (failingSource) ListIdentifiers(context.Context) ([]string, error) {
	return nil, errors.New("root unavailable")
}

func (failingSource) ReadMetadata(context.Context, string) ([]byte, error) {
	return nil, errors.New("unreachable")
}

func TestFindEnumerationFailure(t *testing.T) {
	e := New(failingSource{}, codec.MustNew(""))
	got, err := e.Find(context.Background(), Filter{})
	require.Error(t, err)
	require.Nil(t, got)
	require.Contains(t, err.Error(), "root unavailable")
}
