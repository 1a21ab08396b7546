package source

import (
	"context"

	"github.com/chim712/shuttle-roid-TestServer/module/catalog/domain"
)

// DocumentReader returns the raw bytes of a catalog document. Implementations
// must not cache: edits to the backing store are visible on the next call.
type DocumentReader interface {
	ReadDocument(ctx context.Context, doc domain.Document) ([]byte, error)
}
