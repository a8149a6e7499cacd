package asset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/erraggy/openapix/internal/fileutil"
	"github.com/erraggy/openapix/oaserrors"
)

// hashPrefixLen is the number of hash characters included in file names.
const hashPrefixLen = 16

// FileStore writes assets into a local staging directory.
//
// Files are named "<id>.<hash prefix><ext>", so identical content maps to
// the same file and re-staging it is a no-op.
type FileStore struct {
	Dir string
}

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// Put implements Store.
func (s *FileStore) Put(ctx context.Context, obj Object) (*Asset, error) {
	if err := ValidateID(obj.ID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, &oaserrors.AssetError{ID: obj.ID, Location: s.Dir, Cause: err}
	}

	hash := Hash(obj.Data)
	name := fmt.Sprintf("%s.%s%s", obj.ID, hash[:hashPrefixLen], Extension(obj.ContentType))
	dir := filepath.Clean(s.Dir)
	path := filepath.Join(dir, name)

	a := &Asset{
		ID:          obj.ID,
		Key:         name,
		Hash:        hash,
		Size:        int64(len(obj.Data)),
		Location:    path,
		ContentType: obj.ContentType,
	}

	if err := fileutil.RejectSymlink(path); err != nil {
		return nil, &oaserrors.AssetError{ID: obj.ID, Location: path, Message: "refusing to write", Cause: err}
	}
	if existing, err := os.ReadFile(path); err == nil && Hash(existing) == hash {
		return a, nil
	}

	if err := os.MkdirAll(dir, fileutil.OwnerDirectory); err != nil {
		return nil, &oaserrors.AssetError{ID: obj.ID, Location: dir, Message: "failed to create directory", Cause: err}
	}
	if err := fileutil.WriteFile(path, obj.Data); err != nil {
		return nil, &oaserrors.AssetError{ID: obj.ID, Location: path, Message: "failed to write file", Cause: err}
	}
	return a, nil
}

var _ Store = (*FileStore)(nil)
