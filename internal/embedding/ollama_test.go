package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewOllamaProvider_Defaults(t *testing.T) {
	provider := NewOllamaProvider()

	if provider.baseURL != DefaultOllamaURL {
		t.Errorf("baseURL = %s, want %s", provider.baseURL, DefaultOllamaURL)
	}
	if provider.model != DefaultModel {
		t.Errorf("model = %s, want %s", provider.model, DefaultModel)
	}
	if provider.dimensions != DefaultDimensions {
		t.Errorf("dimensions = %d, want %d", provider.dimensions, DefaultDimensions)
	}
}

func TestNewOllamaProvider_WithOptions(t *testing.T) {
	provider := NewOllamaProvider(
		WithBaseURL("http://custom:8080"),
		WithModel("custom-model"),
		WithDimensions(768),
		WithTimeout(60*time.Second),
	)

	if provider.baseURL != "http://custom:8080" {
		t.Errorf("baseURL = %s, want http://custom:8080", provider.baseURL)
	}
	if provider.ModelName() != "custom-model" {
		t.Errorf("ModelName() = %s, want custom-model", provider.ModelName())
	}
	if provider.Dimensions() != 768 {
		t.Errorf("Dimensions() = %d, want 768", provider.Dimensions())
	}
	if provider.client.Timeout != 60*time.Second {
		t.Errorf("timeout = %v, want %v", provider.client.Timeout, 60*time.Second)
	}
}

func TestOllamaProvider_Embed(t *testing.T) {
	vec := []float32{0.1, 0.2, 0.3}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != apiPathEmbeddings {
			t.Errorf("path = %s, want %s", r.URL.Path, apiPathEmbeddings)
		}
		var req ollamaEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Prompt != "some abstract" {
			t.Errorf("prompt = %q, want %q", req.Prompt, "some abstract")
		}
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Embedding: vec})
	}))
	defer srv.Close()

	provider := NewOllamaProvider(WithBaseURL(srv.URL), WithDimensions(3))

	emb, err := provider.Embed(context.Background(), "some abstract")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if emb.Dimensions() != 3 {
		t.Errorf("Dimensions() = %d, want 3", emb.Dimensions())
	}
	for i := range vec {
		if emb.Vector[i] != vec[i] {
			t.Errorf("Vector[%d] = %f, want %f", i, emb.Vector[i], vec[i])
		}
	}
}

func TestOllamaProvider_Embed_DimensionMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Embedding: []float32{0.1, 0.2}})
	}))
	defer srv.Close()

	provider := NewOllamaProvider(WithBaseURL(srv.URL), WithDimensions(3))

	_, err := provider.Embed(context.Background(), "text")
	if err == nil {
		t.Fatal("Embed() error = nil, want dimension mismatch")
	}
	if !strings.Contains(err.Error(), "got 2, want 3") {
		t.Errorf("Embed() error = %v, want dimension detail", err)
	}
}

func TestOllamaProvider_Embed_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	provider := NewOllamaProvider(WithBaseURL(srv.URL))

	_, err := provider.Embed(context.Background(), "text")
	if err == nil {
		t.Fatal("Embed() error = nil, want server error")
	}
	if !strings.Contains(err.Error(), "status 500") {
		t.Errorf("Embed() error = %v, want status 500 detail", err)
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	provider := NewOllamaProvider(WithBaseURL(srv.URL))
	if err := provider.IsAvailable(context.Background()); err != nil {
		t.Errorf("IsAvailable() error = %v", err)
	}

	srv.Close()
	if err := provider.IsAvailable(context.Background()); err == nil {
		t.Error("IsAvailable() error = nil after server closed")
	}
}
