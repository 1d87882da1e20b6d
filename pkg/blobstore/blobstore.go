// Package blobstore provides the binary half of rentbook's dual-store
// persistence layer: opaque blobs (property photos, uploaded documents,
// transaction receipts) in a local SQLite database, keyed by generated ids.
//
// The store knows nothing about the records that reference its blobs; keeping
// the two sides consistent is the keeper layer's job. Ids are UUIDs, handed
// out by Put - callers embed them in their records as foreign keys.
//
// The database handle is opened lazily on first use and shared for the life
// of the process; concurrent first callers share a single initialization.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned by Get when no blob exists for the requested id.
// Use IsNotFound() to check for it.
var ErrNotFound = errors.New("blob not found")

// Blob is one stored binary object plus the metadata the upload carried.
type Blob struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Data        []byte    `gorm:"type:blob" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// File is the input to Put and PutAll: a named byte payload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Store is a SQLite-backed blob store. The zero value is not usable; create
// one with NewStore. Safe for concurrent use.
type Store struct {
	path string

	once    sync.Once
	db      *gorm.DB
	openErr error
}

// NewStore creates a blob store that will persist to the SQLite database at
// path. The database is not opened until first use.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// handle opens the database on first use. sync.Once guarantees concurrent
// first callers share one initialization; the open error is sticky.
func (s *Store) handle() (*gorm.DB, error) {
	s.once.Do(func() {
		db, err := gorm.Open(sqlite.Open(s.path), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			s.openErr = fmt.Errorf("failed to open blob database: %w", err)
			return
		}
		// SQLite allows one writer at a time; a single pooled connection
		// serializes concurrent puts instead of surfacing SQLITE_BUSY.
		sqlDB, err := db.DB()
		if err != nil {
			s.openErr = fmt.Errorf("failed to access blob database pool: %w", err)
			return
		}
		sqlDB.SetMaxOpenConns(1)

		if err := db.AutoMigrate(&Blob{}); err != nil {
			s.openErr = fmt.Errorf("failed to migrate blob schema: %w", err)
			return
		}
		s.db = db
	})
	return s.db, s.openErr
}

// Close closes the underlying database connection if it was ever opened.
// Implements io.Closer.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Put stores one blob and returns its freshly generated id. The id is a UUID,
// collision-resistant across the store's lifetime.
func (s *Store) Put(ctx context.Context, file File) (string, error) {
	db, err := s.handle()
	if err != nil {
		return "", err
	}

	blob := Blob{
		ID:          uuid.New().String(),
		Name:        file.Name,
		ContentType: file.ContentType,
		Size:        int64(len(file.Data)),
		Data:        file.Data,
		CreatedAt:   time.Now().UTC(),
	}

	if err := db.WithContext(ctx).Create(&blob).Error; err != nil {
		return "", fmt.Errorf("failed to store blob %q: %w", file.Name, err)
	}

	return blob.ID, nil
}

// PutAll stores a batch of blobs concurrently and returns their ids in the
// same order as the inputs. If any put fails the whole batch is rejected with
// the first error; blobs already stored stay stored (no rollback). Callers
// should validate inputs up front to keep that inconsistency window small.
func (s *Store) PutAll(ctx context.Context, files []File) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	// Open once up front so the workers never race the first initialization
	// against a failing path.
	if _, err := s.handle(); err != nil {
		return nil, err
	}

	ids := make([]string, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(i int, file File) {
			defer wg.Done()
			ids[i], errs[i] = s.Put(ctx, file)
		}(i, file)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("batch upload failed: %w", err)
		}
	}

	return ids, nil
}

// Get retrieves a blob by id. Returns ErrNotFound (check with IsNotFound) if
// no blob exists for the id; a missing blob is an expected condition, not a
// failure of the store.
func (s *Store) Get(ctx context.Context, id string) (*Blob, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var blob Blob
	if err := db.WithContext(ctx).First(&blob, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read blob %q: %w", id, err)
	}

	return &blob, nil
}

// Delete removes one blob. Idempotent: deleting a nonexistent id is not an
// error.
func (s *Store) Delete(ctx context.Context, id string) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	if err := db.WithContext(ctx).Delete(&Blob{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete blob %q: %w", id, err)
	}
	return nil
}

// DeleteMany removes a batch of blobs in a single transaction. Either the
// whole batch is removed or, if the transaction fails, none of it is - there
// is no early abort on an individual id, and absent ids are skipped silently.
func (s *Store) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	db, err := s.handle()
	if err != nil {
		return err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&Blob{}, "id IN ?", ids).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete %d blobs: %w", len(ids), err)
	}
	return nil
}

// DeleteAll empties the store. Used by the reset-all-data operation.
func (s *Store) DeleteAll(ctx context.Context) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	if err := db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Blob{}).Error; err != nil {
		return fmt.Errorf("failed to empty blob store: %w", err)
	}
	return nil
}

// Count reports how many blobs are stored. Mostly useful in tests and the
// admin view.
func (s *Store) Count(ctx context.Context) (int64, error) {
	db, err := s.handle()
	if err != nil {
		return 0, err
	}

	var n int64
	if err := db.WithContext(ctx).Model(&Blob{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count blobs: %w", err)
	}
	return n, nil
}

// IsNotFound returns true if the error indicates a missing blob.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
