package factory

import (
	"fmt"

	"github.com/anime-shed/moon-schumann-dashboard/internal/analyzer"
	"github.com/anime-shed/moon-schumann-dashboard/internal/config"
	"github.com/anime-shed/moon-schumann-dashboard/internal/lunar"
	"github.com/anime-shed/moon-schumann-dashboard/internal/storage"
)

// StorageType represents the image source backends
type StorageType string

const (
	// HTTPStorage fetches the image over HTTP(S)
	HTTPStorage StorageType = config.ImageSourceHTTP
	// AzureStorage reads the image from Azure Blob Storage
	AzureStorage StorageType = config.ImageSourceAzure
)

// StorageFactory creates image fetchers
type StorageFactory interface {
	CreateStorage(storageType StorageType) (storage.ImageFetcher, error)
}

type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a storage factory bound to cfg
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

// CreateStorage creates a storage implementation based on the specified type
func (f *storageFactory) CreateStorage(storageType StorageType) (storage.ImageFetcher, error) {
	switch storageType {
	case HTTPStorage:
		return storage.NewHTTPImageFetcher(storage.HTTPFetcherOptions{
			Timeout:            f.cfg.ImageFetchTimeout,
			MaxBytes:           f.cfg.MaxImageBytes,
			InsecureSkipVerify: f.cfg.InsecureSkipVerify,
		}), nil
	case AzureStorage:
		return storage.NewAzureImageFetcher(
			f.cfg.AzureStorageAccount,
			f.cfg.AzureStorageKey,
			f.cfg.AzureContainer,
			f.cfg.AzureBlob,
			f.cfg.MaxImageBytes,
		)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// AnalyzerFactory creates color analyzers
type AnalyzerFactory interface {
	CreateAnalyzer(workers int) analyzer.ImageAnalyzer
}

type analyzerFactory struct{}

func NewAnalyzerFactory() AnalyzerFactory {
	return &analyzerFactory{}
}

// CreateAnalyzer returns a pooled analyzer; workers == 0 sizes the pool to the CPU count
func (f *analyzerFactory) CreateAnalyzer(workers int) analyzer.ImageAnalyzer {
	return analyzer.NewImageAnalyzer(analyzer.DefaultOptions().WithWorkers(workers))
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	cfg             *config.Config
	AnalyzerFactory AnalyzerFactory
	StorageFactory  StorageFactory
}

func NewComponentFactory(cfg *config.Config) *ComponentFactory {
	return &ComponentFactory{
		cfg:             cfg,
		AnalyzerFactory: NewAnalyzerFactory(),
		StorageFactory:  NewStorageFactory(cfg),
	}
}

// ImageFetcher returns the fetcher selected by IMAGE_SOURCE
func (f *ComponentFactory) ImageFetcher() (storage.ImageFetcher, error) {
	return f.StorageFactory.CreateStorage(StorageType(f.cfg.ImageSource))
}

// Analyzer returns the analyzer sized by ANALYZER_WORKERS
func (f *ComponentFactory) Analyzer() analyzer.ImageAnalyzer {
	return f.AnalyzerFactory.CreateAnalyzer(f.cfg.AnalyzerWorkers)
}

// LunarFetcher returns the lunar page scraper
func (f *ComponentFactory) LunarFetcher() lunar.DataFetcher {
	return lunar.NewHTTPFetcher(f.cfg.LunarBaseURL, f.cfg.LunarSiteURL, f.cfg.LunarFetchTimeout)
}

// Bands loads COLOR_BANDS_FILE, or the built-in bands when unset
func (f *ComponentFactory) Bands() ([]analyzer.ColorBand, error) {
	return analyzer.LoadBands(f.cfg.BandsFile)
}
