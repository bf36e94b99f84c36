package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const countAlias = "all"

// FirestoreStore is the document store the application migrates to.
type FirestoreStore struct {
	client *firestore.Client
}

var _ DestinationStore = (*FirestoreStore)(nil)

func NewFirestoreStore(ctx context.Context, projectID, credentialsFile string) (*FirestoreStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

func (f *FirestoreStore) doc(path string) (*firestore.DocumentRef, error) {
	if !isDocumentPath(path) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	ref := f.client.Doc(path)
	if ref == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return ref, nil
}

func (f *FirestoreStore) collection(path string) (*firestore.CollectionRef, error) {
	if !isCollectionPath(path) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	ref := f.client.Collection(path)
	if ref == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return ref, nil
}

func (f *FirestoreStore) SetDocument(ctx context.Context, path string, data map[string]interface{}) error {
	ref, err := f.doc(path)
	if err != nil {
		return err
	}
	_, err = ref.Set(ctx, data)
	return err
}

func (f *FirestoreStore) UpdateFields(ctx context.Context, path string, data map[string]interface{}) error {
	ref, err := f.doc(path)
	if err != nil {
		return err
	}
	_, err = ref.Set(ctx, data, firestore.MergeAll)
	return err
}

func (f *FirestoreStore) DeleteMapKeys(ctx context.Context, path, field string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	ref, err := f.doc(path)
	if err != nil {
		return err
	}
	updates := make([]firestore.Update, 0, len(keys))
	for _, k := range keys {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{field, k}, Value: firestore.Delete})
	}
	_, err = ref.Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

// CommitGroup submits writes as one atomic batch.
func (f *FirestoreStore) CommitGroup(ctx context.Context, writes []Write) error {
	if len(writes) > MaxGroupSize {
		return fmt.Errorf("%w: %d writes", ErrGroupTooLarge, len(writes))
	}
	if len(writes) == 0 {
		return nil
	}
	batch := f.client.Batch()
	for _, w := range writes {
		ref, err := f.doc(w.Path)
		if err != nil {
			return err
		}
		if w.Mode == WriteMerge {
			batch.Set(ref, w.Data, firestore.MergeAll)
			continue
		}
		batch.Set(ref, w.Data)
	}
	_, err := batch.Commit(ctx)
	return err
}

func (f *FirestoreStore) GetDocument(ctx context.Context, path string) (map[string]interface{}, error) {
	ref, err := f.doc(path)
	if err != nil {
		return nil, err
	}
	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return snap.Data(), nil
}

func (f *FirestoreStore) ListDocuments(ctx context.Context, collection string) (map[string]map[string]interface{}, error) {
	ref, err := f.collection(collection)
	if err != nil {
		return nil, err
	}
	iter := ref.Documents(ctx)
	defer iter.Stop()

	out := make(map[string]map[string]interface{})
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, err)
		}
		out[snap.Ref.ID] = snap.Data()
	}
	return out, nil
}

// ListDocumentIDs lists document ids without fetching their fields.
func (f *FirestoreStore) ListDocumentIDs(ctx context.Context, collection string) ([]string, error) {
	ref, err := f.collection(collection)
	if err != nil {
		return nil, err
	}
	iter := ref.DocumentRefs(ctx)

	var ids []string
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list ids in %s: %w", collection, err)
		}
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

// ReadCount uses a server-side count aggregation instead of streaming documents.
func (f *FirestoreStore) ReadCount(ctx context.Context, collection string) (int, error) {
	ref, err := f.collection(collection)
	if err != nil {
		return 0, err
	}
	res, err := ref.NewAggregationQuery().WithCount(countAlias).Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	v, ok := res[countAlias].(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("count %s: unexpected aggregation result %T", collection, res[countAlias])
	}
	return int(v.GetIntegerValue()), nil
}

func (f *FirestoreStore) ReadSubcollectionCount(ctx context.Context, parent, name string) (int, error) {
	return f.ReadCount(ctx, Join(parent, name))
}

func (f *FirestoreStore) Close() error {
	return f.client.Close()
}
