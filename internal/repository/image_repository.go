package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/anime-shed/moon-schumann-dashboard/internal/logger"
	"github.com/anime-shed/moon-schumann-dashboard/internal/lunar"
	"github.com/anime-shed/moon-schumann-dashboard/internal/storage"
	"github.com/sirupsen/logrus"
)

// ImageSchumannRepository implements SchumannRepository over an ImageFetcher and a SnapshotStore
type ImageSchumannRepository struct {
	fetcher   storage.ImageFetcher
	snapshots *storage.SnapshotStore
	imageURL  string
	timeout   time.Duration
	now       func() time.Time
}

// NewSchumannRepository creates a repository reading imageURL through fetcher.
// A nil snapshot store skips persistence.
func NewSchumannRepository(fetcher storage.ImageFetcher, snapshots *storage.SnapshotStore, imageURL string, timeout time.Duration) *ImageSchumannRepository {
	return &ImageSchumannRepository{
		fetcher:   fetcher,
		snapshots: snapshots,
		imageURL:  imageURL,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Fetch retrieves the image once and overwrites the snapshot file
func (r *ImageSchumannRepository) Fetch(ctx context.Context) (*Snapshot, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	data, err := r.fetcher.FetchImage(ctx, r.imageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	snap := &Snapshot{
		Data:      data,
		Source:    r.imageURL,
		FetchedAt: r.now(),
	}

	if r.snapshots != nil {
		if err := r.snapshots.Save(data); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSnapshotUnavailable, err)
		}
		snap.Path = r.snapshots.Path()
	}

	logger.WithFields(logrus.Fields{
		"source": r.imageURL,
		"bytes":  len(data),
	}).Debug("Schumann image fetched")

	return snap, nil
}

// HTTPLunarRepository implements LunarRepository over a lunar.DataFetcher
type HTTPLunarRepository struct {
	fetcher lunar.DataFetcher
}

// NewLunarRepository creates a lunar repository
func NewLunarRepository(fetcher lunar.DataFetcher) *HTTPLunarRepository {
	return &HTTPLunarRepository{fetcher: fetcher}
}

// Fetch retrieves and parses the lunar page for city
func (r *HTTPLunarRepository) Fetch(ctx context.Context, city string) (*lunar.Data, error) {
	data, err := r.fetcher.Fetch(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return data, nil
}
