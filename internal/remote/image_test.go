package remote_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/kwheeler/snailmail/internal/remote"
)

func TestFetchImageSpoolsToTempFile(t *testing.T) {
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02, 0x03}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/images/5" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q, want Bearer tok", got)
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(payload)
	})
	client, _ := newTestClient(t, handler, "tok")

	handle, err := client.FetchImage(context.Background(), 5)
	if err != nil {
		t.Fatalf("FetchImage: %v", err)
	}
	defer handle.Release()

	if handle.ContentType != "image/jpeg" {
		t.Errorf("content type = %q, want image/jpeg", handle.ContentType)
	}
	if !strings.HasSuffix(handle.Path, ".jpg") {
		t.Errorf("path = %q, want .jpg suffix", handle.Path)
	}

	data, err := os.ReadFile(handle.Path)
	if err != nil {
		t.Fatalf("reading spooled file: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("spooled bytes do not match the response body")
	}
}

func TestFetchImageWithoutTokenFailsFast(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request reached server without a token")
	})
	client, _ := newTestClient(t, handler, "")

	_, err := client.FetchImage(context.Background(), 1)
	var aerr *remote.AuthError
	if !errors.As(err, &aerr) {
		t.Fatalf("got %v, want AuthError", err)
	}
}

func TestFetchImageNotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]string{"detail": "Image not found"})
	})
	client, _ := newTestClient(t, handler, "tok")

	_, err := client.FetchImage(context.Background(), 99)
	var nf *remote.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("got %v, want NotFoundError", err)
	}
}

func TestFetchImageErrorDetail(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusForbidden, map[string]string{"detail": "Not your mail"})
	})
	client, _ := newTestClient(t, handler, "tok")

	_, err := client.FetchImage(context.Background(), 3)
	var ferr *remote.FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("got %v, want FetchError", err)
	}
	if ferr.Message != "Not your mail" {
		t.Errorf("message = %q, want server detail", ferr.Message)
	}
	if ferr.Status != http.StatusForbidden {
		t.Errorf("status = %d", ferr.Status)
	}
}

func TestFetchImageErrorFallback(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client, _ := newTestClient(t, handler, "tok")

	_, err := client.FetchImage(context.Background(), 3)
	var ferr *remote.FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("got %v, want FetchError", err)
	}
	if ferr.Message != "Failed to load image" {
		t.Errorf("message = %q, want generic fallback", ferr.Message)
	}
}

func TestReleaseRemovesFileExactlyOnce(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png bytes"))
	})
	client, _ := newTestClient(t, handler, "tok")

	handle, err := client.FetchImage(context.Background(), 1)
	if err != nil {
		t.Fatalf("FetchImage: %v", err)
	}

	if err := handle.Release(); err != nil {
		t.Fatalf("first Release: %v", err)
	}
	if _, err := os.Stat(handle.Path); !os.IsNotExist(err) {
		t.Errorf("spooled file still exists after Release: %v", err)
	}

	// A second Release must not attempt a fresh removal.
	if err := handle.Release(); err != nil {
		t.Fatalf("second Release: %v", err)
	}
}
