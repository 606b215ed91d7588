package health_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/pdutra/ec2-chatops/internal/health"
	"github.com/prometheus/client_golang/prometheus"
)

func newTestChecker(deps map[string]health.Pinger) (*health.Checker, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return health.NewChecker(deps, slog.Default(), reg), reg
}

func TestLiveness_AlwaysUp(t *testing.T) {
	c, _ := newTestChecker(map[string]health.Pinger{
		"postgres": health.PingerFunc(func(context.Context) error { return errors.New("db down") }),
	})

	result := c.Liveness(context.Background())
	if result.Status != "up" {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	if result.Checks != nil {
		t.Fatalf("expected no checks, got %v", result.Checks)
	}
}

func TestReadiness_AllUp(t *testing.T) {
	c, reg := newTestChecker(map[string]health.Pinger{
		"postgres": health.PingerFunc(func(context.Context) error { return nil }),
		"ec2":      health.PingerFunc(func(context.Context) error { return nil }),
	})

	result := c.Readiness(context.Background())
	if result.Status != "up" {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	for _, name := range []string{"postgres", "ec2"} {
		check, ok := result.Checks[name]
		if !ok {
			t.Fatalf("missing %s check", name)
		}
		if check.Status != "up" {
			t.Fatalf("expected %s up, got %s", name, check.Status)
		}
		if g := gaugeValue(t, reg, name); g != 1 {
			t.Fatalf("expected %s gauge 1, got %f", name, g)
		}
	}
}

func TestReadiness_OneDownTakesTheWholeResultDown(t *testing.T) {
	c, reg := newTestChecker(map[string]health.Pinger{
		"postgres": health.PingerFunc(func(context.Context) error { return nil }),
		"ec2":      health.PingerFunc(func(context.Context) error { return errors.New("throttled") }),
	})

	result := c.Readiness(context.Background())
	if result.Status != "down" {
		t.Fatalf("expected status down, got %s", result.Status)
	}
	if result.Checks["postgres"].Status != "up" {
		t.Fatal("healthy dependency must still report up")
	}
	ec2 := result.Checks["ec2"]
	if ec2.Status != "down" || ec2.Error == "" {
		t.Fatalf("ec2 check = %+v", ec2)
	}
	if g := gaugeValue(t, reg, "ec2"); g != 0 {
		t.Fatalf("expected ec2 gauge 0, got %f", g)
	}
}

func TestReadinessHandler_StatusCodes(t *testing.T) {
	up, _ := newTestChecker(map[string]health.Pinger{
		"postgres": health.PingerFunc(func(context.Context) error { return nil }),
	})
	down, _ := newTestChecker(map[string]health.Pinger{
		"postgres": health.PingerFunc(func(context.Context) error { return errors.New("refused") }),
	})

	rec := httptest.NewRecorder()
	up.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/readyz", nil))
	if rec.Code != 200 {
		t.Fatalf("up handler returned %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	down.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/readyz", nil))
	if rec.Code != 503 {
		t.Fatalf("down handler returned %d", rec.Code)
	}
}

func gaugeValue(t *testing.T, reg *prometheus.Registry, depLabel string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != "chatops_health_check_up" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "dependency" && lp.GetValue() == depLabel {
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric chatops_health_check_up{dependency=%q} not found", depLabel)
	return 0
}
