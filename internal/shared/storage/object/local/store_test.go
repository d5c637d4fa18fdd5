package local

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveOpenRemoveRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	payload := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, bytes.Repeat([]byte{0x00}, 64)...)

	key, size, mime, err := store.Save(ctx, "acct-1", "avatar.png", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len(payload)) {
		t.Fatalf("expected size %d, got %d", len(payload), size)
	}
	if mime != "image/png" {
		t.Fatalf("expected image/png, got %s", mime)
	}
	if strings.Contains(key, "acct-1") {
		t.Fatalf("storage key must not embed the raw account id: %s", key)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("stored bytes differ from input")
	}

	if err := store.Remove(ctx, key); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := store.Open(ctx, key); err == nil {
		t.Fatalf("expected Open to fail after Remove")
	}
	if err := store.Remove(ctx, key); err != nil {
		t.Fatalf("Remove of missing object should be a no-op, got %v", err)
	}
}

func TestSaveRejectsTraversalNames(t *testing.T) {
	store := New(t.TempDir())

	if _, _, _, err := store.Save(context.Background(), "acct-1", "../escape.png", strings.NewReader("x")); err == nil {
		t.Fatalf("expected error for traversal file name")
	}
}

func TestOpenRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir())

	for _, key := range []string{"../secret", "/etc/passwd"} {
		if _, err := store.Open(context.Background(), key); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}
