package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakePinger struct{ err error }

func (f fakePinger) PingCtx(ctx context.Context) error { return f.err }

func TestHandlerHealthy(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler(fakePinger{})(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "healthy" || body["database"] != "up" {
		t.Fatalf("body = %v", body)
	}
}

func TestHandlerUnhealthy(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler(fakePinger{err: errors.New("down")})(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["status"] != "unhealthy" || body["database"] != "down" {
		t.Fatalf("body = %v", body)
	}
}
