package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestSurfacesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"kind":"CONFLICT","code":409,"message":"window overlaps"}`))
	}))
	defer srv.Close()
	apiFlag = srv.URL

	_, err := request(http.MethodPost, "/api/berths", []byte(`{}`))
	if err == nil {
		t.Fatal("expected error for 409 response")
	}
	if !strings.Contains(err.Error(), "http 409") || !strings.Contains(err.Error(), "window overlaps") {
		t.Fatalf("error should carry status and server body, got %v", err)
	}
}

func TestDoGetReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ships" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"ships":[],"count":0}`))
	}))
	defer srv.Close()
	apiFlag = srv.URL

	body, err := doGet("/api/ships")
	if err != nil {
		t.Fatalf("doGet: %v", err)
	}
	if !strings.Contains(body, `"count":0`) {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestResourceCommandsRegistered(t *testing.T) {
	want := []string{"ships", "ports", "berths", "voyages", "cargo", "warehouses", "tasks", "reports"}
	have := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Fatalf("command %q not registered", name)
		}
	}
}
