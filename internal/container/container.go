package container

import (
	"fmt"
	"net/http"

	"github.com/anime-shed/image-enhancer-go/internal/config"
	"github.com/anime-shed/image-enhancer-go/internal/factory"
	"github.com/anime-shed/image-enhancer-go/internal/logger"
	"github.com/anime-shed/image-enhancer-go/internal/observer"
	"github.com/anime-shed/image-enhancer-go/internal/repository"
	"github.com/anime-shed/image-enhancer-go/internal/service"
	"github.com/anime-shed/image-enhancer-go/internal/storage"
	"github.com/anime-shed/image-enhancer-go/internal/transport"
	"github.com/anime-shed/image-enhancer-go/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config             *config.Config
	imageRepository    repository.ImageRepository
	enhancementService service.EnhancementService
	metrics            *observer.MetricsObserver
	handler            http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	components := factory.NewComponentFactory(cfg)

	sink, err := components.StorageFactory.CreateSink(factory.StorageType(cfg.Output.Backend))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s sink: %w", cfg.Output.Backend, err)
	}

	fetchers := repository.Fetchers{
		Local: storage.NewLocalImageFetcher(),
		HTTP:  storage.NewHTTPImageFetcher(cfg.ImageFetchTimeout),
	}
	blob, err := components.StorageFactory.CreateBlobStorage()
	if err != nil {
		return nil, fmt.Errorf("failed to create blob storage: %w", err)
	}
	if blob != nil {
		fetchers.Blob = blob
	}

	namer := repository.OutputNamer{
		Prefix:    cfg.Output.Prefix,
		Suffix:    cfg.Output.Suffix,
		Extension: components.StorageFactory.Encoding().Extension(),
	}
	validator := validation.NewLocationValidator().WithLocalPaths(cfg.AllowLocalPaths)
	imageRepository := repository.NewLocationRepository(fetchers, sink, namer, validator)

	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	enhancementService := service.NewEnhancementService(
		imageRepository,
		components.EnhancerFactory.CreateEnhancer(),
		events,
		service.Options{
			FetchTimeout:   cfg.ImageFetchTimeout,
			EnhanceTimeout: cfg.EnhanceTimeout,
			Workers:        cfg.Workers,
		},
	)

	return &Container{
		config:             cfg,
		imageRepository:    imageRepository,
		enhancementService: enhancementService,
		metrics:            metrics,
		handler:            transport.NewHandler(enhancementService, metrics, cfg),
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Service returns the enhancement service
func (c *Container) Service() service.EnhancementService {
	return c.enhancementService
}

// Metrics returns the event counters
func (c *Container) Metrics() *observer.MetricsObserver {
	return c.metrics
}
