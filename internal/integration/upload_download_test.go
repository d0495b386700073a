package integration

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/sir_venger/file_upload/internal/app/webhttp"
	"github.com/sir_venger/file_upload/internal/models"
	"github.com/sir_venger/file_upload/internal/storage"
	"github.com/sir_venger/file_upload/pkg/storageclient"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/errgroup"
)

func newServer(t *testing.T) (*httptest.Server, *storage.FileSystem) {
	t.Helper()
	log := zaptest.NewLogger(t)

	fs := storage.NewFileSystem(filepath.Join(t.TempDir(), "upload-dir"), storage.Options{MaxBytes: 8 << 20, Logger: log})
	if err := fs.Init(context.Background()); err != nil {
		t.Fatal(err)
	}

	h, _, err := webhttp.NewServer(webhttp.Deps{Storage: fs, Logger: log, MaxUploadBytes: 8 << 20})
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return srv, fs
}

func Test_UploadDownload_Integrity(t *testing.T) {
	srv, _ := newServer(t)
	cli := storageclient.New()
	ctx := context.Background()

	payload := bytes.Repeat([]byte{0xA1, 0xB2, 0xC3, 0xD4}, 1<<18) // ~1MB
	want := sha256.Sum256(payload)

	res, err := cli.Upload(ctx, srv.URL, "payload.bin", bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if res.Name != "payload.bin" || res.Size != int64(len(payload)) {
		t.Fatalf("unexpected upload result %+v", res)
	}

	rc, err := cli.Download(ctx, srv.URL, "payload.bin")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	got, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		t.Fatal(err)
	}
	gh := sha256.Sum256(got)
	if hex.EncodeToString(gh[:]) != hex.EncodeToString(want[:]) {
		t.Fatalf("sha mismatch")
	}
}

func Test_UploadList_DistinctNames(t *testing.T) {
	srv, _ := newServer(t)
	cli := storageclient.New()
	ctx := context.Background()

	names := []string{"c.txt", "a.txt", "b b.txt", "отчёт.txt"}
	var eg errgroup.Group
	for _, n := range names {
		n := n
		eg.Go(func() error {
			_, err := cli.Upload(ctx, srv.URL, n, bytes.NewReader([]byte(n)), int64(len(n)))
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		t.Fatalf("upload: %v", err)
	}

	links, err := cli.List(ctx, srv.URL)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(links) != len(names) {
		t.Fatalf("got %d links, want %d", len(links), len(names))
	}

	// каждая ссылка из листинга открывается и отдаёт исходные данные
	for _, l := range links {
		rc, err := cli.Download(ctx, srv.URL, l.Name)
		if err != nil {
			t.Fatalf("download %q: %v", l.Name, err)
		}
		b, _ := io.ReadAll(rc)
		_ = rc.Close()
		if string(b) != l.Name {
			t.Fatalf("content of %q is %q", l.Name, b)
		}
	}
}

func Test_Upload_Rejected(t *testing.T) {
	srv, fs := newServer(t)
	cli := storageclient.New()
	ctx := context.Background()

	_, err := cli.Upload(ctx, srv.URL, "../../etc/passwd", bytes.NewReader([]byte("root")), 4)
	var se *storageclient.StatusError
	if !errors.As(err, &se) || se.Code != 400 {
		t.Fatalf("expected 400 for traversal, got %v", err)
	}

	_, err = cli.Upload(ctx, srv.URL, "empty.txt", bytes.NewReader(nil), 0)
	if !errors.As(err, &se) || se.Code != 400 {
		t.Fatalf("expected 400 for empty file, got %v", err)
	}

	names, err := fs.LoadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 0 {
		t.Fatalf("nothing should be stored, got %v", names)
	}
}

func Test_Download_NotFound(t *testing.T) {
	srv, _ := newServer(t)

	_, err := storageclient.New().Download(context.Background(), srv.URL, "does-not-exist.txt")
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
