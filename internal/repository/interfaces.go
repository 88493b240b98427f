package repository

import (
	"context"
	"time"

	"github.com/anime-shed/moon-schumann-dashboard/internal/lunar"
)

// SchumannRepository fetches the current Schumann spectrogram
type SchumannRepository interface {
	// Fetch downloads the image and replaces the local snapshot
	Fetch(ctx context.Context) (*Snapshot, error)
}

// LunarRepository fetches lunar phase data for a city slug
type LunarRepository interface {
	Fetch(ctx context.Context, city string) (*lunar.Data, error)
}

// Snapshot is one fetched Schumann image
type Snapshot struct {
	Data      []byte
	Source    string
	Path      string
	FetchedAt time.Time
}
