package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/intertext/blobstore"
)

// Publish writes d to store under name. The extension for f and c is
// appended unless name already carries it. The blob is aborted on error,
// so a failed export never leaves a partial object. It returns the blob name.
func Publish(ctx context.Context, store blobstore.BlobStore, name string, d *Document, f Format, c Compression) (string, error) {
	if ext := Extension(f, c); !strings.HasSuffix(name, ext) {
		name += ext
	}

	w, err := store.Create(ctx, name)
	if err != nil {
		return "", fmt.Errorf("export: create %s: %w", name, err)
	}
	if err := WriteCompressed(w, d, f, c); err != nil {
		_ = w.Abort()
		return "", fmt.Errorf("export: write %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("export: close %s: %w", name, err)
	}
	return name, nil
}
