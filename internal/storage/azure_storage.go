package storage

import (
	"context"
	"fmt"
	"image"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// AzureScheme prefixes blob locations: az://container/path/to/blob
const AzureScheme = "az"

// BlobStorage reads and writes images in Azure blob storage
type BlobStorage interface {
	ImageFetcher
	ImageSink
}

type azureStorage struct {
	client    *azblob.Client
	container string
	encoding  Encoding
}

// NewAzureStorage authenticates with a shared key. container is the default
// destination for stored images.
func NewAzureStorage(accountName, accountKey, container string, encoding Encoding) (BlobStorage, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid azure credentials: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure client: %w", err)
	}

	return &azureStorage{client: client, container: container, encoding: encoding}, nil
}

// ParseBlobLocation splits az://container/blob into its parts
func ParseBlobLocation(location string) (container, blob string, err error) {
	parsed, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("invalid blob location: %w", err)
	}
	if parsed.Scheme != AzureScheme {
		return "", "", fmt.Errorf("blob location must use %s:// (got %q)", AzureScheme, location)
	}
	blob = strings.TrimPrefix(parsed.Path, "/")
	if parsed.Host == "" || blob == "" {
		return "", "", fmt.Errorf("blob location must name a container and a blob: %q", location)
	}
	return parsed.Host, blob, nil
}

func (s *azureStorage) FetchImage(ctx context.Context, location string) (image.Image, error) {
	container, blob, err := ParseBlobLocation(location)
	if err != nil {
		return nil, err
	}

	// Download blob to stream
	downloadResponse, err := s.client.DownloadStream(ctx, container, blob, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}

	retryReader := downloadResponse.Body
	defer retryReader.Close()

	return Decode(retryReader)
}

func (s *azureStorage) Store(ctx context.Context, name string, img image.Image) (string, error) {
	data, err := s.encoding.Bytes(img)
	if err != nil {
		return "", err
	}

	if _, err := s.client.UploadBuffer(ctx, s.container, name, data, nil); err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	return fmt.Sprintf("%s://%s/%s", AzureScheme, s.container, name), nil
}
