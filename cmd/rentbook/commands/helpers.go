package commands

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/rentbook/rentbook/internal/config"
	"github.com/rentbook/rentbook/internal/keeper"
	"github.com/rentbook/rentbook/internal/printer"
	"github.com/rentbook/rentbook/pkg/blobstore"
	"github.com/rentbook/rentbook/pkg/recordstore"
)

// openKeeper builds the keeper from configuration and verifies the record
// store is reachable. The returned cleanup closes both stores.
func openKeeper(ctx context.Context) (*keeper.Keeper, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	records, err := recordstore.NewStore(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cfg.Namespace)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create record store: %w", err)
	}

	if err := records.Ping(ctx); err != nil {
		records.Close()
		return nil, nil, printer.Error(
			"cannot reach the record store",
			fmt.Sprintf("Redis at %s did not respond: %v", cfg.Redis.Addr, err),
			[]string{
				"Start Redis, or point rentbook at a running instance:",
				fmt.Sprintf("  RENTBOOK_REDIS_ADDR=host:port rentbook ... (current: %s)", cfg.Redis.Addr),
			},
		)
	}

	blobs := blobstore.NewStore(cfg.BlobDB)

	cleanup := func() {
		records.Close()
		blobs.Close()
	}
	return keeper.New(records, blobs), cleanup, nil
}

// readUpload loads a local file into a blob-store upload, inferring the
// content type from the extension.
func readUpload(path string) (blobstore.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return blobstore.File{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return blobstore.File{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// readUploads loads a batch of local files, validating all of them before any
// upload starts so a bad path cannot fail a half-stored batch.
func readUploads(paths []string) ([]blobstore.File, error) {
	files := make([]blobstore.File, 0, len(paths))
	for _, path := range paths {
		file, err := readUpload(path)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}
