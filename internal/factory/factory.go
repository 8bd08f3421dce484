package factory

import (
	"fmt"

	"github.com/anime-shed/image-enhancer-go/internal/analyzer"
	"github.com/anime-shed/image-enhancer-go/internal/config"
	"github.com/anime-shed/image-enhancer-go/internal/enhancer"
	"github.com/anime-shed/image-enhancer-go/internal/storage"
)

// StorageType represents different types of storage backends
type StorageType string

const (
	// LocalStorage for the local file system
	LocalStorage StorageType = config.BackendLocal
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = config.BackendAzure
	// S3Storage for Amazon S3
	S3Storage StorageType = config.BackendS3
)

// EnhancerFactory creates enhancers
type EnhancerFactory interface {
	CreateEnhancer() *enhancer.Enhancer
}

// StorageFactory creates storage implementations
type StorageFactory interface {
	// CreateSink creates the output sink for a backend
	CreateSink(storageType StorageType) (storage.ImageSink, error)
	// CreateBlobStorage returns nil without error when Azure is not configured
	CreateBlobStorage() (storage.BlobStorage, error)
	// Encoding returns the configured output encoding
	Encoding() storage.Encoding
}

// enhancerFactory implements EnhancerFactory
type enhancerFactory struct {
	cfg *config.Config
}

// NewEnhancerFactory creates a new enhancer factory
func NewEnhancerFactory(cfg *config.Config) EnhancerFactory {
	return &enhancerFactory{cfg: cfg}
}

// CreateEnhancer applies the analysis settings from config to the reference options
func (f *enhancerFactory) CreateEnhancer() *enhancer.Enhancer {
	opts := enhancer.DefaultOptions()
	opts.Analysis = opts.Analysis.WithNormalization(analyzer.ParseNormalization(f.cfg.Normalization))
	opts.Filters.RealScaling = f.cfg.RealScaling
	return enhancer.New(opts)
}

// storageFactory implements StorageFactory
type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

func (f *storageFactory) Encoding() storage.Encoding {
	return storage.Encoding{
		Format:      f.cfg.Output.Format,
		JPEGQuality: f.cfg.Output.JPEGQuality,
	}
}

// CreateSink creates a sink based on the specified type
func (f *storageFactory) CreateSink(storageType StorageType) (storage.ImageSink, error) {
	switch storageType {
	case LocalStorage:
		return storage.NewLocalSink(f.cfg.Output.Dir, f.Encoding()), nil
	case AzureStorage:
		blob, err := f.CreateBlobStorage()
		if err != nil {
			return nil, err
		}
		if blob == nil {
			return nil, fmt.Errorf("azure storage requires AZURE_ACCOUNT_NAME and AZURE_ACCOUNT_KEY")
		}
		return blob, nil
	case S3Storage:
		return storage.NewS3Sink(f.cfg.S3.Bucket, f.cfg.S3.Region, f.Encoding())
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

func (f *storageFactory) CreateBlobStorage() (storage.BlobStorage, error) {
	if !f.cfg.Azure.Enabled() {
		return nil, nil
	}
	return storage.NewAzureStorage(f.cfg.Azure.AccountName, f.cfg.Azure.AccountKey, f.cfg.Azure.Container, f.Encoding())
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	EnhancerFactory EnhancerFactory
	StorageFactory  StorageFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config) *ComponentFactory {
	return &ComponentFactory{
		EnhancerFactory: NewEnhancerFactory(cfg),
		StorageFactory:  NewStorageFactory(cfg),
	}
}
