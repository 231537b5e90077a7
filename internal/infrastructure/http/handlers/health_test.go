package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

func serve(t *testing.T, h echo.HandlerFunc) (*httptest.ResponseRecorder, readinessResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var body readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec, body
}

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness_NoDependencies(t *testing.T) {
	rec, body := serve(t, NewReadinessHandler(nil).Readiness)
	if rec.Code != http.StatusOK || body.Status != "ok" {
		t.Fatalf("expected ok/200, got %s/%d", body.Status, rec.Code)
	}
}

func TestReadiness_RedisUp(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	rec, body := serve(t, NewReadinessHandler(map[string]Pinger{"redis": RedisPinger(rdb)}).Readiness)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body.Dependencies["redis"].Status != "ok" {
		t.Fatalf("expected redis ok, got %+v", body.Dependencies["redis"])
	}
}

func TestReadiness_Degraded(t *testing.T) {
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })
	up := PingFunc(func(context.Context) error { return nil })

	rec, body := serve(t, NewReadinessHandler(map[string]Pinger{"mongodb": down, "redis": up}).Readiness)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if body.Status != "degraded" {
		t.Fatalf("expected degraded, got %s", body.Status)
	}
	if got := body.Dependencies["mongodb"]; got.Status != "unhealthy" || got.Error != "connection refused" {
		t.Fatalf("unexpected mongodb status: %+v", got)
	}
	if body.Dependencies["redis"].Status != "ok" {
		t.Fatalf("expected redis ok")
	}
}
