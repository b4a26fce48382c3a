package handlers

import (
	"testing"
	"time"

	"envel/internal/services"

	"github.com/labstack/echo/v4"
)

// noopMetrics keeps handler tests off the global prometheus registry
type noopMetrics struct{}

func (noopMetrics) IncrementCounter(name string, tags map[string]string)        {}
func (noopMetrics) RecordProcessingTime(name string, duration time.Duration)    {}
func (noopMetrics) RecordGauge(name string, value float64, tags map[string]string) {}

var _ services.MetricsRecorderInterface = noopMetrics{}

func mustMonth(t *testing.T, value string) time.Time {
	t.Helper()
	month, err := time.Parse("2006-01", value)
	if err != nil {
		t.Fatalf("bad month %q: %v", value, err)
	}
	return month.UTC()
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}
