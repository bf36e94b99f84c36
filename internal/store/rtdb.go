package store

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

// RTDBSource reads the legacy realtime database tree.
type RTDBSource struct {
	client *db.Client
}

func NewRTDBSource(ctx context.Context, databaseURL, credentialsFile string) (*RTDBSource, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: databaseURL}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("init realtime database client: %w", err)
	}
	return &RTDBSource{client: client}, nil
}

func (s *RTDBSource) ReadAll(ctx context.Context, path string) (interface{}, error) {
	var node interface{}
	if err := s.client.NewRef(path).Get(ctx, &node); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return node, nil
}

func (s *RTDBSource) Close() error { return nil }
