package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/chim712/shuttle-roid-TestServer/module/catalog/domain"
	"github.com/chim712/shuttle-roid-TestServer/module/catalog/internal/repository/source"
)

var _ source.DocumentReader = (*Reader)(nil)

type Reader struct {
	dir string
}

func NewReader(dir string) *Reader {
	return &Reader{dir: dir}
}

func (r *Reader) ReadDocument(_ context.Context, doc domain.Document) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(r.dir, string(doc)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", doc, domain.ErrSourceNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", doc, err)
	}
	return data, nil
}
