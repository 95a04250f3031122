package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "winhandle.toml")
	data := `
log_level = "debug"

[watch]
backend = "fsnotify"
buffer = 4

[read]
length = 4096
chunk_size = 1048576

[retry]
timeout = "30s"
`
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		LogLevel: "debug",
		Watch:    WatchConfig{Backend: "fsnotify", Buffer: 4},
		Read:     ReadConfig{Length: 4096, ChunkSize: 1048576},
		Retry:    RetryConfig{Timeout: "30s"},
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if d := c.RetryTimeout(); d != 30*time.Second {
		t.Fatalf("unexpected retry timeout %s", d)
	}
	if n := len(c.WatchOptions()); n != 2 {
		t.Fatalf("expected buffer and backend options, got %d", n)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	c, err := parse([]byte("[read]\nlength = 16\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.Read.Length = 16
	if diff := cmp.Diff(want, c); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatal(err)
	}
	if d := Default().RetryTimeout(); d != 0 {
		t.Fatalf("expected retries disabled by default, got %s", d)
	}
}

func TestValidateRejects(t *testing.T) {
	for _, tc := range []struct {
		name string
		data string
		key  string
	}{
		{"level", `log_level = "loud"`, "log_level"},
		{"backend", "[watch]\nbackend = \"polling\"", "watch.backend"},
		{"buffer", "[watch]\nbuffer = -1", "watch.buffer"},
		{"length", "[read]\nlength = -5", "read.length"},
		{"chunk", "[read]\nchunk_size = -1", "read.chunk_size"},
		{"timeout", "[retry]\ntimeout = \"soon\"", "retry.timeout"},
		{"negative timeout", "[retry]\ntimeout = \"-1s\"", "retry.timeout"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parse([]byte(tc.data))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.key) {
				t.Fatalf("expected error to name %s, got %v", tc.key, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected an error")
	}
}

func TestMalformedFile(t *testing.T) {
	if _, err := parse([]byte("log_level = ")); err == nil {
		t.Fatal("expected a parse error")
	}
}
