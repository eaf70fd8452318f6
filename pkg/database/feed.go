package database

import (
	"context"
	"errors"
	"os"

	"github.com/travigo/journeyplanner/pkg/dataimporter/formats/gtfs"
)

var ErrReadOnlyStore = errors.New("store is read only")

// FeedStore serves a GTFS feed directory or zip directly, without a database
type FeedStore struct {
	Path string
}

func OpenFeed(path string) (*FeedStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	return &FeedStore{Path: path}, nil
}

func (f *FeedStore) LoadSchedule(ctx context.Context) (*gtfs.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return gtfs.ParsePath(f.Path)
}

func (f *FeedStore) SaveSchedule(ctx context.Context, schedule *gtfs.Schedule) error {
	return ErrReadOnlyStore
}

func (f *FeedStore) Close() error {
	return nil
}
