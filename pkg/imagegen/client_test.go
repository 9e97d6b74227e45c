package imagegen

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	data, contentType, err := c.Generate(context.Background(), "a rose on fire", "blackwork")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if string(data) != "png-bytes" {
		t.Errorf("unexpected body: %q", data)
	}
	if contentType != "image/png" {
		t.Errorf("content type = %q, want image/png", contentType)
	}
	if !strings.HasPrefix(gotPath, "/prompt/") {
		t.Errorf("path = %q, want /prompt/ prefix", gotPath)
	}
	if !strings.Contains(gotPath, "blackwork") {
		t.Errorf("style not folded into prompt: %q", gotPath)
	}
	if !strings.Contains(gotQuery, "nologo=true") {
		t.Errorf("query = %q, missing nologo", gotQuery)
	}
}

func TestGenerateNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	if _, _, err := c.Generate(context.Background(), "a rose", ""); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestGenerateEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	if _, _, err := c.Generate(context.Background(), "a rose", ""); err == nil {
		t.Fatal("expected error on empty body")
	}
}
