package blobstore

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a store backed by a throwaway on-disk database so
// concurrent access in tests exercises the same pooling behaviour as real use.
func setupTestStore(t *testing.T) *Store {
	store := NewStore(filepath.Join(t.TempDir(), "blobs.db"))
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPutGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	t.Run("round-trips blob data byte-identically", func(t *testing.T) {
		data := []byte{0x00, 0x01, 0xFF, 0xFE, 'p', 'n', 'g'}
		id, err := store.Put(ctx, File{Name: "front.png", ContentType: "image/png", Data: data})
		require.NoError(t, err)
		require.NotEmpty(t, id)

		blob, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, data, blob.Data)
		assert.Equal(t, "front.png", blob.Name)
		assert.Equal(t, "image/png", blob.ContentType)
		assert.Equal(t, int64(len(data)), blob.Size)
	})

	t.Run("generates distinct ids for identical content", func(t *testing.T) {
		file := File{Name: "same.txt", ContentType: "text/plain", Data: []byte("same")}
		id1, err := store.Put(ctx, file)
		require.NoError(t, err)
		id2, err := store.Put(ctx, file)
		require.NoError(t, err)
		assert.NotEqual(t, id1, id2)
	})

	t.Run("get of unknown id returns not found", func(t *testing.T) {
		_, err := store.Get(ctx, "no-such-id")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})
}

func TestPutAll(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	t.Run("returns ids in input order", func(t *testing.T) {
		files := make([]File, 8)
		for i := range files {
			files[i] = File{
				Name:        fmt.Sprintf("photo-%d.jpg", i),
				ContentType: "image/jpeg",
				Data:        []byte(fmt.Sprintf("payload-%d", i)),
			}
		}

		ids, err := store.PutAll(ctx, files)
		require.NoError(t, err)
		require.Len(t, ids, len(files))

		for i, id := range ids {
			blob, err := store.Get(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, files[i].Name, blob.Name)
			assert.Equal(t, files[i].Data, blob.Data)
		}
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		ids, err := store.PutAll(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestDelete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	t.Run("removes a stored blob", func(t *testing.T) {
		id, err := store.Put(ctx, File{Name: "gone.txt", Data: []byte("x")})
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, id))

		_, err = store.Get(ctx, id)
		assert.True(t, IsNotFound(err))
	})

	t.Run("is idempotent for unknown ids", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "never-existed"))
	})
}

func TestDeleteMany(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	t.Run("removes the whole batch", func(t *testing.T) {
		var ids []string
		for i := 0; i < 3; i++ {
			id, err := store.Put(ctx, File{Name: fmt.Sprintf("doc-%d", i), Data: []byte("d")})
			require.NoError(t, err)
			ids = append(ids, id)
		}

		require.NoError(t, store.DeleteMany(ctx, ids))

		for _, id := range ids {
			_, err := store.Get(ctx, id)
			assert.True(t, IsNotFound(err), "blob %s should be gone", id)
		}
	})

	t.Run("tolerates absent ids in the batch", func(t *testing.T) {
		id, err := store.Put(ctx, File{Name: "keep-company", Data: []byte("d")})
		require.NoError(t, err)

		require.NoError(t, store.DeleteMany(ctx, []string{id, "already-gone"}))

		_, err = store.Get(ctx, id)
		assert.True(t, IsNotFound(err))
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		assert.NoError(t, store.DeleteMany(ctx, nil))
	})
}

func TestDeleteAll(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 4; i++ {
		id, err := store.Put(ctx, File{Name: fmt.Sprintf("f-%d", i), Data: []byte("d")})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	require.NoError(t, store.DeleteAll(ctx))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	for _, id := range ids {
		_, err := store.Get(ctx, id)
		assert.True(t, IsNotFound(err))
	}
}

func TestLazyInit(t *testing.T) {
	t.Run("concurrent first use shares one initialization", func(t *testing.T) {
		store := setupTestStore(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		errs := make([]error, 10)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = store.Put(ctx, File{Name: fmt.Sprintf("init-%d", i), Data: []byte("x")})
			}(i)
		}
		wg.Wait()

		for _, err := range errs {
			assert.NoError(t, err)
		}

		n, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(10), n)
	})

	t.Run("open failure is sticky and surfaced", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), "missing-dir", "sub", "blobs.db"))
		t.Cleanup(func() { store.Close() })
		ctx := context.Background()

		_, err := store.Put(ctx, File{Name: "x", Data: []byte("x")})
		require.Error(t, err)

		_, err = store.Get(ctx, "anything")
		assert.Error(t, err)
	})
}
