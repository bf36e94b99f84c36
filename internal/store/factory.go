package store

import (
	"context"
	"energymon/internal/providers"
	"energymon/internal/snapshot"
	"energymon/internal/structures"
	"fmt"
)

// NewSource opens the source store selected by conf.Source.Kind.
func NewSource(conf *structures.Config, fm *snapshot.FileManager, logger providers.Logger) (SourceStore, func(), error) {
	var (
		src SourceStore
		err error
	)
	switch conf.Source.Kind {
	case "rtdb":
		src, err = NewRTDBSource(context.Background(), conf.Source.DatabaseURL, conf.Source.CredentialsFile)
	case "file":
		src, err = NewFileSource(fm, conf.Source.ExportFile)
	default:
		err = fmt.Errorf("unknown source kind %q", conf.Source.Kind)
	}
	if err != nil {
		return nil, nil, err
	}
	logger.Infof(providers.TypeApp, "Source store: %s", conf.Source.Kind)
	return src, func() { _ = src.Close() }, nil
}

// NewDestination opens the destination store selected by conf.Destination.Kind.
func NewDestination(conf *structures.Config, logger providers.Logger) (DestinationStore, func(), error) {
	var (
		dst DestinationStore
		err error
	)
	switch conf.Destination.Kind {
	case "firestore":
		dst, err = NewFirestoreStore(context.Background(), conf.Destination.ProjectID, conf.Destination.CredentialsFile)
	case "memory":
		logger.Warnf(providers.TypeApp, "Destination is in-memory, nothing will be persisted")
		dst = NewMemoryDestination()
	default:
		err = fmt.Errorf("unknown destination kind %q", conf.Destination.Kind)
	}
	if err != nil {
		return nil, nil, err
	}
	logger.Infof(providers.TypeApp, "Destination store: %s", conf.Destination.Kind)
	return dst, func() {
		if err := dst.Close(); err != nil {
			logger.Errorf(providers.TypeApp, "Closing destination store: %s", err)
		}
	}, nil
}
