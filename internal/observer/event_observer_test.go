package observer

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type panickingObserver struct{}

func (panickingObserver) OnEvent(ctx context.Context, event EnhancementEvent) { panic("boom") }
func (panickingObserver) GetObserverName() string                            { return "panicking" }

func TestMetricsObserver_Counts(t *testing.T) {
	metrics := NewMetricsObserver()
	publisher := NewEventPublisher()
	publisher.Subscribe(metrics)
	ctx := context.Background()

	publisher.NotifyObservers(ctx, EnhancementEvent{EventType: EnhancementStarted})
	publisher.NotifyObservers(ctx, EnhancementEvent{EventType: FilterApplied, Metadata: map[string]interface{}{"filter": "denoise"}})
	publisher.NotifyObservers(ctx, EnhancementEvent{EventType: StretchDegenerate})
	publisher.NotifyObservers(ctx, EnhancementEvent{EventType: EnhancementCompleted, ProcessingTime: 2 * time.Second})
	publisher.NotifyObservers(ctx, EnhancementEvent{EventType: EnhancementStarted})
	publisher.NotifyObservers(ctx, EnhancementEvent{EventType: EnhancementFailed})

	m := metrics.GetMetrics()
	if m["total_enhancements"] != int64(2) || m["successful_enhancements"] != int64(1) || m["failed_enhancements"] != int64(1) {
		t.Errorf("Unexpected counters: %v", m)
	}
	if m["degenerate_histograms"] != int64(1) {
		t.Errorf("Expected one degenerate histogram, got %v", m["degenerate_histograms"])
	}
	if filters := m["filters_applied"].(map[string]int64); filters["denoise"] != 1 {
		t.Errorf("Expected one denoise, got %v", filters)
	}
	if m["avg_processing_time"] != "2s" {
		t.Errorf("Expected 2s average, got %v", m["avg_processing_time"])
	}
}

func TestMetricsObserver_ConcurrentEvents(t *testing.T) {
	metrics := NewMetricsObserver()
	publisher := NewEventPublisher()
	publisher.Subscribe(metrics)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			publisher.NotifyObservers(context.Background(), EnhancementEvent{EventType: EnhancementStarted})
		}()
	}
	wg.Wait()

	if got := metrics.GetMetrics()["total_enhancements"]; got != int64(50) {
		t.Errorf("Expected 50, got %v", got)
	}
}

func TestEventPublisher_PanicIsolated(t *testing.T) {
	metrics := NewMetricsObserver()
	publisher := NewEventPublisher()
	publisher.Subscribe(panickingObserver{})
	publisher.Subscribe(metrics)

	publisher.NotifyObservers(context.Background(), EnhancementEvent{EventType: EnhancementStarted})

	if got := metrics.GetMetrics()["total_enhancements"]; got != int64(1) {
		t.Errorf("Expected later observers to still run, got %v", got)
	}
}

func TestEventPublisher_Unsubscribe(t *testing.T) {
	metrics := NewMetricsObserver()
	publisher := NewEventPublisher()
	publisher.Subscribe(metrics)
	publisher.Unsubscribe(metrics)

	publisher.NotifyObservers(context.Background(), EnhancementEvent{EventType: EnhancementStarted})

	if got := metrics.GetMetrics()["total_enhancements"]; got != int64(0) {
		t.Errorf("Expected no events after unsubscribe, got %v", got)
	}
}

func TestLoggingObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	NewLoggingObserver(logger).OnEvent(context.Background(), EnhancementEvent{
		EventType:    EnhancementFailed,
		Location:     "input/1.jpg",
		ErrorMessage: "decode failed",
	})

	out := buf.String()
	for _, want := range []string{"level=error", "location=input/1.jpg", `error="decode failed"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in %q", want, out)
		}
	}
}
