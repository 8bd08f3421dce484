package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// EnhancementEvent represents an enhancement pipeline event
type EnhancementEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	Location       string                 `json:"location"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of enhancement event
type EventType string

const (
	// EnhancementStarted when an image enters the pipeline
	EnhancementStarted EventType = "enhancement_started"
	// EnhancementCompleted when the enhanced image has been stored
	EnhancementCompleted EventType = "enhancement_completed"
	// EnhancementFailed when loading, enhancing or storing fails
	EnhancementFailed EventType = "enhancement_failed"
	// ImageFetched when the input image is loaded
	ImageFetched EventType = "image_fetched"
	// ImageFetchFailed when the input image cannot be loaded
	ImageFetchFailed EventType = "image_fetch_failed"
	// FilterApplied when a corrective filter fires; Metadata["filter"] names it
	FilterApplied EventType = "filter_applied"
	// StretchDegenerate when the contrast stretch is skipped
	StretchDegenerate EventType = "stretch_degenerate"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event EnhancementEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event EnhancementEvent)
}

// LoggingObserver logs enhancement events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles enhancement events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event EnhancementEvent) {
	fields := logrus.Fields{
		"event_type": event.EventType,
		"location":   event.Location,
		"success":    event.Success,
	}
	if event.ProcessingTime > 0 {
		fields["processing_time"] = event.ProcessingTime
	}

	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}

	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case EnhancementStarted:
		entry.Debug("Image enhancement started")
	case EnhancementCompleted:
		entry.Info("Image enhancement completed")
	case EnhancementFailed:
		entry.Error("Image enhancement failed")
	case ImageFetched:
		entry.Debug("Image fetched successfully")
	case ImageFetchFailed:
		entry.Error("Image fetch failed")
	case FilterApplied:
		entry.Debug("Corrective filter applied")
	case StretchDegenerate:
		entry.Warn("Contrast stretch skipped: degenerate histogram")
	default:
		entry.Info("Enhancement event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver collects counters from enhancement events
type MetricsObserver struct {
	mu                  sync.RWMutex
	totalEnhancements   int64
	successful          int64
	failed              int64
	degenerate          int64
	filters             map[string]int64
	totalProcessingTime time.Duration
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{filters: make(map[string]int64)}
}

// OnEvent handles enhancement events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event EnhancementEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case EnhancementStarted:
		o.totalEnhancements++
	case EnhancementCompleted:
		o.successful++
		o.totalProcessingTime += event.ProcessingTime
	case EnhancementFailed:
		o.failed++
	case FilterApplied:
		if name, ok := event.Metadata["filter"].(string); ok {
			o.filters[name]++
		}
	case StretchDegenerate:
		o.degenerate++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current metrics
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avgProcessingTime := time.Duration(0)
	if o.successful > 0 {
		avgProcessingTime = o.totalProcessingTime / time.Duration(o.successful)
	}

	filters := make(map[string]int64, len(o.filters))
	for name, count := range o.filters {
		filters[name] = count
	}

	return map[string]interface{}{
		"total_enhancements":      o.totalEnhancements,
		"successful_enhancements": o.successful,
		"failed_enhancements":     o.failed,
		"degenerate_histograms":   o.degenerate,
		"filters_applied":         filters,
		"total_processing_time":   o.totalProcessingTime.String(),
		"avg_processing_time":     avgProcessingTime.String(),
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers delivers the event to every observer in subscription order
// before returning, so counters are current once a request completes.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event EnhancementEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	for _, obs := range observers {
		p.notify(ctx, obs, event)
	}
}

func (p *EventPublisher) notify(ctx context.Context, obs Observer, event EnhancementEvent) {
	defer func() {
		if r := recover(); r != nil {
			// Log panic but don't crash the application
			logrus.WithField("observer", obs.GetObserverName()).
				WithField("panic", r).
				Error("Observer panicked while handling event")
		}
	}()
	obs.OnEvent(ctx, event)
}
