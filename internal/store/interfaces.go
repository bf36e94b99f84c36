package store

import "context"

// MaxGroupSize is the destination's ceiling on writes per atomic commit.
const MaxGroupSize = 500

type WriteMode int

const (
	// WriteSet replaces the whole document.
	WriteSet WriteMode = iota
	// WriteMerge merges the given fields into the existing document.
	WriteMerge
)

type Write struct {
	Path string
	Data map[string]interface{}
	Mode WriteMode
}

// SourceStore is the read surface of the tree-shaped store. ReadAll returns
// the raw node at path, or nil when nothing is stored there.
type SourceStore interface {
	ReadAll(ctx context.Context, path string) (interface{}, error)
	Close() error
}

// DestinationStore is the document/collection store. Document paths have an
// even number of segments ("devices/d1"), collection paths an odd number.
type DestinationStore interface {
	SetDocument(ctx context.Context, path string, data map[string]interface{}) error
	UpdateFields(ctx context.Context, path string, data map[string]interface{}) error
	DeleteMapKeys(ctx context.Context, path, field string, keys []string) error
	CommitGroup(ctx context.Context, writes []Write) error
	GetDocument(ctx context.Context, path string) (map[string]interface{}, error)
	ListDocuments(ctx context.Context, collection string) (map[string]map[string]interface{}, error)
	ListDocumentIDs(ctx context.Context, collection string) ([]string, error)
	ReadCount(ctx context.Context, collection string) (int, error)
	ReadSubcollectionCount(ctx context.Context, parent, name string) (int, error)
	Close() error
}
