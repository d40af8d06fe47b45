package blob

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
)

func TestObjectKey(t *testing.T) {
	if got := ObjectKey("u1", "1234", "abc", "image/jpeg"); got != "u1/1234/abc.jpg" {
		t.Fatalf("got %q", got)
	}
	if got := ObjectKey("u1", "1234", "abc", "image/png"); got != "u1/1234/abc.png" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeDataURL(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("img-bytes"))
	contentType, data, err := DecodeDataURL("data:image/jpeg;base64," + payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if contentType != "image/jpeg" {
		t.Fatalf("content type = %q", contentType)
	}
	if string(data) != "img-bytes" {
		t.Fatalf("data = %q", data)
	}
}

func TestDecodeDataURLRejectsBadInput(t *testing.T) {
	cases := []string{
		"",
		"plain text",
		"data:image/gif;base64,aGk=",
		"data:image/jpeg;base64,%%%not-base64%%%",
	}
	for _, in := range cases {
		if _, _, err := DecodeDataURL(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := newLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("store init failed: %v", err)
	}
	ctx := context.Background()

	if err := store.Put(ctx, "u1/1234/abc.jpg", "image/jpeg", []byte("img")); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	url, err := store.URL(ctx, "u1/1234/abc.jpg")
	if err != nil {
		t.Fatalf("url failed: %v", err)
	}
	if url != "/proofs/u1/1234/abc.jpg" {
		t.Fatalf("url = %q", url)
	}

	data, err := os.ReadFile(filepath.Join(store.Dir(), "u1", "1234", "abc.jpg"))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "img" {
		t.Fatalf("data = %q", data)
	}

	if err := store.Delete(ctx, "u1/1234/abc.jpg"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	// Deleting again is not an error.
	if err := store.Delete(ctx, "u1/1234/abc.jpg"); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := newLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("store init failed: %v", err)
	}
	if err := store.Put(context.Background(), "../outside.jpg", "image/jpeg", []byte("x")); err == nil {
		t.Fatal("expected traversal rejection")
	}
	if _, err := store.URL(context.Background(), "/etc/passwd"); err == nil {
		t.Fatal("expected absolute key rejection")
	}
}
