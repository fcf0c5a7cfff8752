package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestWriteThenReadRoundTrip(t *testing.T) {
	fs := New()
	data := bytes.Repeat([]byte("abcdefg\n"), 100) // spans several blocks
	if err := fs.WriteFile("prog", data); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := fs.ReadFile("prog")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("read back %d bytes, want %d", len(got), len(data))
	}
}

func TestOpenCreateTruncatesExisting(t *testing.T) {
	fs := New()
	if err := fs.WriteFile("a", bytes.Repeat([]byte{'x'}, 3*BlockSize)); err != nil {
		t.Fatalf("write: %v", err)
	}
	before := fs.FreeBlocks()
	if err := fs.WriteFile("a", []byte("short")); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if fs.FreeBlocks() != before+2 {
		t.Fatalf("free blocks = %d, want %d", fs.FreeBlocks(), before+2)
	}
	got, _ := fs.ReadFile("a")
	if string(got) != "short" {
		t.Fatalf("got %q", got)
	}
}

func TestListKeepsSlotOrder(t *testing.T) {
	fs := New()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := fs.WriteFile(name, nil); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	if err := fs.Remove("alpha"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := fs.WriteFile("beta", nil); err != nil {
		t.Fatalf("create beta: %v", err)
	}
	var names []string
	for _, f := range fs.List() {
		names = append(names, f.String())
	}
	want := []string{"zeta", "beta", "mid"}
	if fmt.Sprint(names) != fmt.Sprint(want) {
		t.Fatalf("list = %v, want %v", names, want)
	}
}

func TestNameErrors(t *testing.T) {
	fs := New()
	if _, err := fs.OpenCreate("elevenchars"); !errors.Is(err, ErrNameTooLong) {
		t.Fatalf("expected ErrNameTooLong, got %v", err)
	}
	if _, err := fs.OpenRead("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := fs.OpenCreate(""); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestDirectoryFull(t *testing.T) {
	fs := New()
	for i := 0; i < MaxFiles; i++ {
		if err := fs.WriteFile(fmt.Sprintf("f%d", i), nil); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	if _, err := fs.OpenCreate("extra"); !errors.Is(err, ErrDirectoryFull) {
		t.Fatalf("expected ErrDirectoryFull, got %v", err)
	}
	// rewriting an existing name still works
	if err := fs.WriteFile("f0", []byte("ok")); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
}

func TestTooManyOpen(t *testing.T) {
	fs := New()
	for i := 0; i < MaxOpen; i++ {
		if _, err := fs.OpenCreate(fmt.Sprintf("f%d", i)); err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
	}
	if _, err := fs.OpenCreate("one_more"); !errors.Is(err, ErrTooManyOpen) {
		t.Fatalf("expected ErrTooManyOpen, got %v", err)
	}
	if len(fs.List()) != MaxOpen {
		t.Fatalf("failed open must not create a record")
	}
}

func TestWriteLimits(t *testing.T) {
	fs := New()
	h, err := fs.OpenCreate("big")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := fs.Write(h, make([]byte, MaxFileBytes+1)); !errors.Is(err, ErrFileTooBig) {
		t.Fatalf("expected ErrFileTooBig, got %v", err)
	}
	if err := fs.Write(h, make([]byte, MaxFileBytes)); err != nil {
		t.Fatalf("max-size write: %v", err)
	}
	_ = fs.Close(h)

	// 255 blocks, 64 per file: three full files leave 63.
	for i := 0; i < 2; i++ {
		if err := fs.WriteFile(fmt.Sprintf("big%d", i), make([]byte, MaxFileBytes)); err != nil {
			t.Fatalf("fill %d: %v", i, err)
		}
	}
	free := fs.FreeBlocks()
	if free != NumBlocks-3*MaxFileBlocks {
		t.Fatalf("free = %d", free)
	}
	if err := fs.WriteFile("last", make([]byte, MaxFileBytes)); !errors.Is(err, ErrOutOfSpace) {
		t.Fatalf("expected ErrOutOfSpace, got %v", err)
	}
	if fs.FreeBlocks() != free {
		t.Fatalf("failed write leaked blocks")
	}
}

func TestReadHandleSemantics(t *testing.T) {
	fs := New()
	if err := fs.WriteFile("f", []byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}
	h, err := fs.OpenRead("f")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := fs.Write(h, []byte("x")); !errors.Is(err, ErrNotWritable) {
		t.Fatalf("expected ErrNotWritable, got %v", err)
	}
	buf := make([]byte, 3)
	n, err := fs.Read(h, buf)
	if err != nil || n != 3 || string(buf) != "hel" {
		t.Fatalf("first read = %d %q %v", n, buf[:n], err)
	}
	n, _ = fs.Read(h, buf)
	if string(buf[:n]) != "lo" {
		t.Fatalf("second read = %q", buf[:n])
	}
	if _, err := fs.Read(h, buf); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
	if _, err := fs.OpenCreate("f"); !errors.Is(err, ErrAlreadyOpen) {
		t.Fatalf("expected ErrAlreadyOpen, got %v", err)
	}
	if err := fs.Close(h); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := fs.Close(h); !errors.Is(err, ErrBadHandle) {
		t.Fatalf("expected ErrBadHandle, got %v", err)
	}
}

func TestSnapshotRestore(t *testing.T) {
	fs := New()
	_ = fs.WriteFile("one", []byte("1"))
	_ = fs.WriteFile("two", bytes.Repeat([]byte{'2'}, BlockSize+1))
	_ = fs.Remove("one")
	_ = fs.WriteFile("three", []byte("333"))

	img := fs.Snapshot()
	restored := New()
	if err := restored.Restore(img); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if fmt.Sprint(restored.List()) != fmt.Sprint(fs.List()) {
		t.Fatalf("listing differs after restore")
	}
	got, _ := restored.ReadFile("two")
	if len(got) != BlockSize+1 {
		t.Fatalf("two has %d bytes", len(got))
	}
	if restored.FreeBlocks() != fs.FreeBlocks() {
		t.Fatalf("free blocks differ")
	}
}

func TestRestoreRejectsSharedBlocks(t *testing.T) {
	fs := New()
	_ = fs.WriteFile("keep", []byte("k"))
	name, _ := ParseFilename("x")
	other, _ := ParseFilename("y")
	img := Image{Files: []ImageFile{
		{Slot: 0, Name: name, Size: 1, Blocks: []ImageBlock{{Index: 4, Data: []byte{'a'}}}},
		{Slot: 1, Name: other, Size: 1, Blocks: []ImageBlock{{Index: 4, Data: []byte{'b'}}}},
	}}
	if err := fs.Restore(img); !errors.Is(err, ErrCorruptImage) {
		t.Fatalf("expected ErrCorruptImage, got %v", err)
	}
	if got, _ := fs.ReadFile("keep"); string(got) != "k" {
		t.Fatalf("failed restore modified the file system")
	}
}

type failingWrites struct{ *FileSystem }

func (failingWrites) Write(Handle, []byte) error { return ErrOutOfSpace }

func TestWriteFileClosesHandleOnFailure(t *testing.T) {
	fs := New()
	if err := WriteFile(failingWrites{fs}, "a", []byte("x")); !errors.Is(err, ErrOutOfSpace) {
		t.Fatalf("expected ErrOutOfSpace, got %v", err)
	}
	if err := fs.WriteFile("a", []byte("ok")); err != nil {
		t.Fatalf("rewrite after failed write: %v", err)
	}
}
