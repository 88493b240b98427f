package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// AzureImageFetcher reads the Schumann image from Azure Blob Storage. The image URL has the
// form azblob://<container>/<blob>; an empty URL falls back to the configured default blob.
type AzureImageFetcher struct {
	client           *azblob.Client
	defaultContainer string
	defaultBlob      string
	maxBytes         int64
}

// NewAzureImageFetcher creates a fetcher authenticated with a shared account key
func NewAzureImageFetcher(accountName, accountKey, container, blob string, maxBytes int64) (*AzureImageFetcher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("azure client: %w", err)
	}

	if maxBytes <= 0 {
		maxBytes = 10 * 1024 * 1024
	}
	return &AzureImageFetcher{
		client:           client,
		defaultContainer: container,
		defaultBlob:      blob,
		maxBytes:         maxBytes,
	}, nil
}

// FetchImage downloads the blob addressed by imageURL
func (s *AzureImageFetcher) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	containerName, blobName, err := s.locate(imageURL)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	return readLimited(resp.Body, s.maxBytes)
}

func (s *AzureImageFetcher) locate(imageURL string) (string, string, error) {
	return ParseBlobURL(imageURL, s.defaultContainer, s.defaultBlob)
}

// ParseBlobURL splits azblob://container/path/to/blob into container and blob names
func ParseBlobURL(imageURL, defaultContainer, defaultBlob string) (string, string, error) {
	if imageURL == "" {
		if defaultContainer == "" || defaultBlob == "" {
			return "", "", fmt.Errorf("no blob configured")
		}
		return defaultContainer, defaultBlob, nil
	}

	parsed, err := url.Parse(imageURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid blob URL: %w", err)
	}
	if parsed.Scheme != "azblob" {
		return "", "", fmt.Errorf("invalid blob URL scheme %q", parsed.Scheme)
	}

	blobName := strings.TrimPrefix(parsed.Path, "/")
	if parsed.Host == "" || blobName == "" {
		return "", "", fmt.Errorf("blob URL must name a container and a blob: %q", imageURL)
	}
	return parsed.Host, blobName, nil
}
