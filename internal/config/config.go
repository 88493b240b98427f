package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/anime-shed/moon-schumann-dashboard/internal/analyzer"
)

// Image sources
const (
	ImageSourceHTTP  = "http"
	ImageSourceAzure = "azure"
)

// City is a selectable lunar page; Slug is the URL path segment
type City struct {
	Slug  string
	Label string
}

type Config struct {
	Host              string
	Port              string
	RequestTimeout    time.Duration
	ImageFetchTimeout time.Duration
	LunarFetchTimeout time.Duration

	SchumannImageURL string
	LunarBaseURL     string
	LunarSiteURL     string
	SnapshotDir      string

	DefaultCity string
	Cities      []City

	BandsFile       string
	Sections        analyzer.SectionOptions
	AnalyzerWorkers int

	ImageSource         string
	AzureStorageAccount string
	AzureStorageKey     string
	AzureContainer      string
	AzureBlob           string

	MaxImageBytes      int64
	InsecureSkipVerify bool
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:              getEnvOrDefault("HOST", "0.0.0.0"),
		Port:              getEnvOrDefault("PORT", "8080"),
		RequestTimeout:    parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		ImageFetchTimeout: parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		LunarFetchTimeout: parseDurationOrDefault("LUNAR_FETCH_TIMEOUT", 15*time.Second),

		SchumannImageURL: getEnvOrDefault("SCHUMANN_IMAGE_URL", "https://images.weserv.nl/?url=sosrff.tsu.ru/new/shm.jpg"),
		LunarBaseURL:     getEnvOrDefault("LUNAR_BASE_URL", "https://www.timeanddate.com/moon/phases/canada/"),
		LunarSiteURL:     getEnvOrDefault("LUNAR_SITE_URL", "https://www.timeanddate.com"),
		SnapshotDir:      getEnvOrDefault("SNAPSHOT_DIR", "./temp"),

		DefaultCity: strings.ToLower(strings.TrimSpace(getEnvOrDefault("DEFAULT_CITY", "campbellton"))),

		BandsFile:       strings.TrimSpace(os.Getenv("COLOR_BANDS_FILE")),
		AnalyzerWorkers: int(parseIntOrDefault("ANALYZER_WORKERS", 0)),

		ImageSource:         strings.ToLower(strings.TrimSpace(getEnvOrDefault("IMAGE_SOURCE", ImageSourceHTTP))),
		AzureStorageAccount: os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureStorageKey:     os.Getenv("AZURE_STORAGE_KEY"),
		AzureContainer:      os.Getenv("AZURE_CONTAINER"),
		AzureBlob:           os.Getenv("AZURE_BLOB"),

		MaxImageBytes:      parseIntOrDefault("MAX_IMAGE_BYTES", 10*1024*1024), // 10MB
		InsecureSkipVerify: parseBoolOrDefault("INSECURE_SKIP_VERIFY", false),
	}

	cities, err := ParseCities(getEnvOrDefault("CITIES",
		"campbellton:Campbellton,toronto:Toronto,vancouver:Vancouver,montreal:Montreal,calgary:Calgary"))
	if err != nil {
		return nil, err
	}
	cfg.Cities = cities

	sections := analyzer.DefaultSectionOptions()
	sections.Count = int(parseIntOrDefault("SCHUMANN_SECTIONS", int64(sections.Count)))
	if v := strings.TrimSpace(os.Getenv("SECTION_START")); v != "" {
		if sections.Start, err = analyzer.ParseClock(v); err != nil {
			return nil, fmt.Errorf("invalid SECTION_START: %w", err)
		}
	}
	if v := strings.TrimSpace(os.Getenv("SECTION_END")); v != "" {
		if sections.End, err = analyzer.ParseClock(v); err != nil {
			return nil, fmt.Errorf("invalid SECTION_END: %w", err)
		}
	}
	cfg.Sections = sections

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values for consistency
func (c *Config) Validate() error {
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxImageBytes <= 0 {
		return fmt.Errorf("MAX_IMAGE_BYTES must be > 0 (got %d)", c.MaxImageBytes)
	}
	if c.RequestTimeout <= 0 || c.ImageFetchTimeout <= 0 || c.LunarFetchTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, image=%s, lunar=%s)",
			c.RequestTimeout, c.ImageFetchTimeout, c.LunarFetchTimeout)
	}
	if c.AnalyzerWorkers < 0 {
		return fmt.Errorf("ANALYZER_WORKERS must be >= 0 (got %d)", c.AnalyzerWorkers)
	}
	if c.Sections.Count < 1 {
		return fmt.Errorf("SCHUMANN_SECTIONS must be >= 1 (got %d)", c.Sections.Count)
	}
	if c.Sections.Start > c.Sections.End {
		return fmt.Errorf("SECTION_START must not be after SECTION_END")
	}
	if len(c.Cities) == 0 {
		return fmt.Errorf("CITIES must list at least one city")
	}
	found := false
	for _, city := range c.Cities {
		if city.Slug == c.DefaultCity {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("DEFAULT_CITY %q is not in CITIES", c.DefaultCity)
	}

	switch c.ImageSource {
	case ImageSourceHTTP:
		if strings.TrimSpace(c.SchumannImageURL) == "" {
			return fmt.Errorf("SCHUMANN_IMAGE_URL is required for the http image source")
		}
	case ImageSourceAzure:
		if c.AzureStorageAccount == "" || c.AzureStorageKey == "" {
			return fmt.Errorf("AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY are required for the azure image source")
		}
		if c.AzureContainer == "" || c.AzureBlob == "" {
			return fmt.Errorf("AZURE_CONTAINER and AZURE_BLOB are required for the azure image source")
		}
	default:
		return fmt.Errorf("invalid IMAGE_SOURCE: %q (want %q or %q)", c.ImageSource, ImageSourceHTTP, ImageSourceAzure)
	}
	return nil
}

// ParseCities reads "slug:Label,slug:Label". A missing label defaults to the slug.
func ParseCities(value string) ([]City, error) {
	var cities []City
	seen := make(map[string]bool)
	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		slug, label, _ := strings.Cut(entry, ":")
		slug = strings.ToLower(strings.TrimSpace(slug))
		label = strings.TrimSpace(label)
		if slug == "" {
			return nil, fmt.Errorf("invalid CITIES entry: %q", entry)
		}
		if seen[slug] {
			return nil, fmt.Errorf("duplicate city in CITIES: %q", slug)
		}
		seen[slug] = true
		if label == "" {
			label = slug
		}
		cities = append(cities, City{Slug: slug, Label: label})
	}
	return cities, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}
