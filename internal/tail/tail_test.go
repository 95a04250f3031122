package tail

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/containerd/log"
	"github.com/google/go-cmp/cmp"

	"github.com/teamdman/winhandle/internal/rawio"
)

const testTimeout = 5 * time.Second

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func appendFile(t *testing.T, p, content string) {
	t.Helper()
	f, err := os.OpenFile(p, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
}

// collect reads chunks until want bytes have arrived.
func collect(t *testing.T, tl *Tailer, want int) []Chunk {
	t.Helper()
	var (
		chunks []Chunk
		got    int
	)
	for got < want {
		select {
		case c, ok := <-tl.Chunks():
			if !ok {
				t.Fatalf("chunks closed after %d of %d bytes: %v", got, want, tl.Err())
			}
			chunks = append(chunks, c)
			got += len(c.Data)
		case <-time.After(testTimeout):
			t.Fatalf("timed out after %d of %d bytes", got, want)
		}
	}
	return chunks
}

func TestFollowFromStart(t *testing.T) {
	p := writeFile(t, "hello\n")
	tl, err := Follow(context.Background(), Config{Path: p})
	if err != nil {
		t.Fatal(err)
	}
	defer tl.Close()

	got := collect(t, tl, 6)
	if diff := cmp.Diff([]Chunk{{Offset: 0, Data: []byte("hello\n")}}, got); diff != "" {
		t.Fatalf("existing content mismatch (-want +got):\n%s", diff)
	}

	appendFile(t, p, "world\n")
	got = collect(t, tl, 6)
	if diff := cmp.Diff([]Chunk{{Offset: 6, Data: []byte("world\n")}}, got); diff != "" {
		t.Fatalf("appended content mismatch (-want +got):\n%s", diff)
	}
}

func TestFollowFromEnd(t *testing.T) {
	p := writeFile(t, "old content\n")
	tl, err := Follow(context.Background(), Config{Path: p, Start: FromEnd})
	if err != nil {
		t.Fatal(err)
	}
	defer tl.Close()

	appendFile(t, p, "new")
	got := collect(t, tl, 3)
	if diff := cmp.Diff([]Chunk{{Offset: 12, Data: []byte("new")}}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestChunkSizeSplitsReads(t *testing.T) {
	p := writeFile(t, "0123456789")
	tl, err := Follow(context.Background(), Config{Path: p, ChunkSize: 4})
	if err != nil {
		t.Fatal(err)
	}
	defer tl.Close()

	want := []Chunk{
		{Offset: 0, Data: []byte("0123")},
		{Offset: 4, Data: []byte("4567")},
		{Offset: 8, Data: []byte("89")},
	}
	if diff := cmp.Diff(want, collect(t, tl, 10)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestTruncationResetsOffset(t *testing.T) {
	p := writeFile(t, "0123456789")
	f, err := rawio.Open(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	tl := &Tailer{f: f, chunk: DefaultChunkSize, offset: 10, chunks: make(chan Chunk, 4)}
	ctx := context.Background()
	entry := log.G(ctx)

	if err := os.Truncate(p, 3); err != nil {
		t.Fatal(err)
	}
	if err := tl.readNew(ctx, entry); err != nil {
		t.Fatal(err)
	}
	if tl.offset != 3 || len(tl.chunks) != 0 {
		t.Fatalf("expected offset 3 and no chunks, got %d and %d", tl.offset, len(tl.chunks))
	}

	appendFile(t, p, "xy")
	if err := tl.readNew(ctx, entry); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Chunk{Offset: 3, Data: []byte("xy")}, <-tl.chunks); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestCloseEndsChunks(t *testing.T) {
	p := writeFile(t, "")
	tl, err := Follow(context.Background(), Config{Path: p})
	if err != nil {
		t.Fatal(err)
	}
	if err := tl.Close(); err != nil {
		t.Fatal(err)
	}
	if _, ok := <-tl.Chunks(); ok {
		t.Fatal("expected chunks to be closed")
	}
	if tl.Err() != nil {
		t.Fatalf("unexpected error %v", tl.Err())
	}
	if err := tl.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestFollowMissingFile(t *testing.T) {
	if _, err := Follow(context.Background(), Config{Path: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
