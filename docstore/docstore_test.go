package docstore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	ctx := context.Background()
	out := make(map[string]Backend)

	fb, err := NewFileBackend(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	out[DriverFile] = fb

	sb, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "db", "quill.db"))
	require.NoError(t, err)
	out[DriverSQLite] = sb

	mr := miniredis.RunT(t)
	rb, err := NewRedisBackend(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	out[DriverRedis] = rb

	if url := os.Getenv("QUILL_TEST_DATABASE_URL"); url != "" {
		pb, err := NewPostgresBackend(ctx, url)
		require.NoError(t, err)
		_, err = pb.db.ExecContext(ctx, `DELETE FROM documents`)
		require.NoError(t, err)
		out[DriverPostgres] = pb
	}

	t.Cleanup(func() {
		for _, b := range out {
			b.Close()
		}
	})
	return out
}

func TestBackendContract(t *testing.T) {
	for driver, b := range backends(t) {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()

			_, err := b.Load(ctx, "posts")
			assert.ErrorIs(t, err, ErrNotExist)

			require.NoError(t, b.Save(ctx, "posts", []byte(`[{"id":"1"}]`)))
			got, err := b.Load(ctx, "posts")
			require.NoError(t, err)
			assert.Equal(t, `[{"id":"1"}]`, string(got))

			require.NoError(t, b.Save(ctx, "posts", []byte("[]\n")))
			got, err = b.Load(ctx, "posts")
			require.NoError(t, err)
			assert.Equal(t, "[]\n", string(got), "save replaces the whole document")

			_, err = b.Load(ctx, "profile")
			assert.ErrorIs(t, err, ErrNotExist, "documents are independent")

			assert.Error(t, b.Save(ctx, "../escape", []byte("x")))
			_, err = b.Load(ctx, "Bad Name")
			assert.Error(t, err)
		})
	}
}

func TestBackendConcurrentSaves(t *testing.T) {
	for driver, b := range backends(t) {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			var wg sync.WaitGroup
			for i := range 8 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					body := []byte{'[', byte('0' + i), ']'}
					assert.NoError(t, b.Save(ctx, "categories", body))
				}()
			}
			wg.Wait()
			got, err := b.Load(ctx, "categories")
			require.NoError(t, err)
			assert.Len(t, got, 3, "a load never sees a torn write")
		})
	}
}

func TestFileBackendLayout(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	require.NoError(t, err)
	require.NoError(t, b.Save(context.Background(), "profile", []byte("{}\n")))

	data, err := os.ReadFile(filepath.Join(dir, "profile.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	b, err := Open(ctx, Options{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, b)

	b, err = Open(ctx, Options{Driver: DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "q.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLBackend{}, b)
	require.NoError(t, b.Close())

	_, err = Open(ctx, Options{Driver: "mongo"})
	assert.ErrorContains(t, err, "unknown driver")

	_, err = Open(ctx, Options{Driver: DriverFile})
	assert.Error(t, err)
}
