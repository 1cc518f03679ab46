package server

import (
	"context"
	"net/http"
	"testing"
)

func TestNetHTTPServerAccessors(t *testing.T) {
	mux := http.NewServeMux()
	srv := netHTTPServer{srv: &http.Server{Addr: ":9999", Handler: mux}}

	if got := srv.Addr(); got != ":9999" {
		t.Fatalf("expected addr :9999, got %s", got)
	}
	if srv.Handler() == nil {
		t.Fatalf("expected handler")
	}
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
