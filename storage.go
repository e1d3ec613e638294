package metagenomisc

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

// IsGoogleStoragePath reports whether path points into a Google Storage
// bucket.
func IsGoogleStoragePath(path string) bool {
	return strings.HasPrefix(path, "gs://")
}

func splitGoogleStoragePath(path string) (bucketName, pathName string, err error) {
	pathParts := strings.SplitN(strings.TrimPrefix(path, "gs://"), "/", 2)
	if len(pathParts) != 2 || pathParts[1] == "" {
		return "", "", fmt.Errorf("Tried to split your google storage path into 2 parts, but got %d: %v", len(pathParts), pathParts)
	}

	return pathParts[0], pathParts[1], nil
}

// MaybeOpenFromGoogleStorage opens path for reading, from Google Storage if it
// is a gs:// path and client is set, and from the local disk otherwise. The
// size of the file is returned too.
func MaybeOpenFromGoogleStorage(path string, client *storage.Client) (io.ReadCloser, int64, error) {
	if client != nil && IsGoogleStoragePath(path) {
		bucketName, pathName, err := splitGoogleStoragePath(path)
		if err != nil {
			return nil, 0, err
		}

		r, err := client.Bucket(bucketName).Object(pathName).NewReader(context.Background())
		if err != nil {
			return nil, 0, pfx.Err(fmt.Errorf("%s: %s", path, err))
		}

		return r, r.Attrs.Size, nil
	}

	f, err := os.Open(ExpandHome(path))
	if err != nil {
		return nil, 0, pfx.Err(err)
	}
	fstat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, pfx.Err(err)
	}

	return f, fstat.Size(), nil
}

// MaybeCreateOnGoogleStorage opens path for writing, on Google Storage if it
// is a gs:// path and client is set. Local parent directories are created as
// needed. Nothing is guaranteed to be written until Close returns without
// error.
func MaybeCreateOnGoogleStorage(path string, client *storage.Client) (io.WriteCloser, error) {
	if client != nil && IsGoogleStoragePath(path) {
		bucketName, pathName, err := splitGoogleStoragePath(path)
		if err != nil {
			return nil, err
		}

		return client.Bucket(bucketName).Object(pathName).NewWriter(context.Background()), nil
	}

	path = ExpandHome(path)
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, pfx.Err(err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return f, nil
}

// ReadAllMaybeCompressed returns the decompressed contents of a local or
// gs:// file.
func ReadAllMaybeCompressed(path string, client *storage.Client) ([]byte, error) {
	f, _, err := MaybeOpenFromGoogleStorage(path, client)
	if err != nil {
		return nil, err
	}

	r, _, err := MaybeDecompressReadCloser(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %s", path, err))
	}

	return b, nil
}
