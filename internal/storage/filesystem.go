// Package storage implements the fixed-capacity block file system the desktop
// reads programs from and saves edited text into.
//
// Everything is sized at compile time: a directory table of MaxFiles records,
// NumBlocks data blocks of BlockSize bytes, and at most MaxOpen open handles.
// Files are enumerated in directory-slot order, never sorted.
package storage

import (
	"io"
)

const (
	MaxOpen       = 16
	BlockSize     = 256
	NumBlocks     = 255
	MaxFileBlocks = 64
	MaxFileBytes  = MaxFileBlocks * BlockSize
	MaxFiles      = 30
)

// Handle identifies an open file.
type Handle int

type entry struct {
	used   bool
	name   Filename
	size   int
	blocks []int
}

type openFile struct {
	inUse bool
	slot  int
	write bool
	pos   int
}

// FileSystem is not safe for concurrent use; the desktop drives it from a
// single loop.
type FileSystem struct {
	blocks [NumBlocks][BlockSize]byte
	inUse  [NumBlocks]bool
	dir    [MaxFiles]entry
	open   [MaxOpen]openFile
}

func New() *FileSystem {
	return &FileSystem{}
}

// OpenCreate opens name for writing, creating it if needed. An existing file
// is truncated.
func (fs *FileSystem) OpenCreate(name string) (Handle, error) {
	fn, err := ParseFilename(name)
	if err != nil {
		return -1, err
	}
	h, err := fs.freeHandle()
	if err != nil {
		return -1, err
	}
	slot, ok := fs.lookup(fn)
	if ok {
		if fs.isOpen(slot) {
			return -1, ErrAlreadyOpen
		}
		fs.truncate(slot)
	} else {
		slot = -1
		for i := range fs.dir {
			if !fs.dir[i].used {
				slot = i
				break
			}
		}
		if slot < 0 {
			return -1, ErrDirectoryFull
		}
		fs.dir[slot] = entry{used: true, name: fn}
	}
	fs.open[h] = openFile{inUse: true, slot: slot, write: true}
	return h, nil
}

// OpenRead opens an existing file for sequential reading.
func (fs *FileSystem) OpenRead(name string) (Handle, error) {
	fn, err := ParseFilename(name)
	if err != nil {
		return -1, err
	}
	slot, ok := fs.lookup(fn)
	if !ok {
		return -1, ErrNotFound
	}
	for _, of := range fs.open {
		if of.inUse && of.slot == slot && of.write {
			return -1, ErrAlreadyOpen
		}
	}
	h, err := fs.freeHandle()
	if err != nil {
		return -1, err
	}
	fs.open[h] = openFile{inUse: true, slot: slot}
	return h, nil
}

// Write appends p to the file. The write is all-or-nothing: a write that would
// exceed the per-file limit or the free block pool changes nothing.
func (fs *FileSystem) Write(h Handle, p []byte) error {
	of, err := fs.handle(h)
	if err != nil {
		return err
	}
	if !of.write {
		return ErrNotWritable
	}
	e := &fs.dir[of.slot]
	end := e.size + len(p)
	if end > MaxFileBytes {
		return ErrFileTooBig
	}
	need := blocksFor(end) - len(e.blocks)
	if need > fs.freeBlocks() {
		return ErrOutOfSpace
	}
	for ; need > 0; need-- {
		e.blocks = append(e.blocks, fs.allocBlock())
	}
	for i, b := range p {
		off := e.size + i
		fs.blocks[e.blocks[off/BlockSize]][off%BlockSize] = b
	}
	e.size = end
	of.pos = end
	return nil
}

// Read fills p from the current position and returns io.EOF once the file is
// exhausted.
func (fs *FileSystem) Read(h Handle, p []byte) (int, error) {
	of, err := fs.handle(h)
	if err != nil {
		return 0, err
	}
	if of.write {
		return 0, ErrNotReadable
	}
	e := &fs.dir[of.slot]
	if of.pos >= e.size {
		return 0, io.EOF
	}
	n := 0
	for n < len(p) && of.pos < e.size {
		p[n] = fs.blocks[e.blocks[of.pos/BlockSize]][of.pos%BlockSize]
		n++
		of.pos++
	}
	return n, nil
}

func (fs *FileSystem) Close(h Handle) error {
	if _, err := fs.handle(h); err != nil {
		return err
	}
	fs.open[h] = openFile{}
	return nil
}

// List returns the directory records in slot order.
func (fs *FileSystem) List() []Filename {
	out := make([]Filename, 0, MaxFiles)
	for _, e := range fs.dir {
		if e.used {
			out = append(out, e.name)
		}
	}
	return out
}

// Remove deletes a closed file and releases its blocks.
func (fs *FileSystem) Remove(name string) error {
	fn, err := ParseFilename(name)
	if err != nil {
		return err
	}
	slot, ok := fs.lookup(fn)
	if !ok {
		return ErrNotFound
	}
	if fs.isOpen(slot) {
		return ErrAlreadyOpen
	}
	fs.truncate(slot)
	fs.dir[slot] = entry{}
	return nil
}

// ReadFile reads a whole file through a read handle.
func (fs *FileSystem) ReadFile(name string) ([]byte, error) {
	return ReadFile(fs, name)
}

// WriteFile replaces the contents of name, creating it if needed.
func (fs *FileSystem) WriteFile(name string, data []byte) error {
	return WriteFile(fs, name, data)
}

// FreeBlocks reports how many data blocks are unallocated.
func (fs *FileSystem) FreeBlocks() int {
	return fs.freeBlocks()
}

func (fs *FileSystem) handle(h Handle) (*openFile, error) {
	if h < 0 || int(h) >= MaxOpen || !fs.open[h].inUse {
		return nil, ErrBadHandle
	}
	return &fs.open[h], nil
}

func (fs *FileSystem) freeHandle() (Handle, error) {
	for i := range fs.open {
		if !fs.open[i].inUse {
			return Handle(i), nil
		}
	}
	return -1, ErrTooManyOpen
}

func (fs *FileSystem) lookup(fn Filename) (int, bool) {
	for i, e := range fs.dir {
		if e.used && e.name == fn {
			return i, true
		}
	}
	return -1, false
}

func (fs *FileSystem) isOpen(slot int) bool {
	for _, of := range fs.open {
		if of.inUse && of.slot == slot {
			return true
		}
	}
	return false
}

func (fs *FileSystem) truncate(slot int) {
	e := &fs.dir[slot]
	for _, b := range e.blocks {
		fs.inUse[b] = false
		fs.blocks[b] = [BlockSize]byte{}
	}
	e.blocks = nil
	e.size = 0
}

func (fs *FileSystem) freeBlocks() int {
	n := 0
	for _, used := range fs.inUse {
		if !used {
			n++
		}
	}
	return n
}

// allocBlock assumes the caller checked freeBlocks.
func (fs *FileSystem) allocBlock() int {
	for i, used := range fs.inUse {
		if !used {
			fs.inUse[i] = true
			return i
		}
	}
	return -1
}

func blocksFor(size int) int {
	return (size + BlockSize - 1) / BlockSize
}
