package storage

// Image is a point-in-time copy of the file system used for persistence.
type Image struct {
	Files []ImageFile
}

// ImageFile is one directory record together with its block contents, in
// file order.
type ImageFile struct {
	Slot   int
	Name   Filename
	Size   int
	Blocks []ImageBlock
}

type ImageBlock struct {
	Index int
	Data  []byte
}

// Snapshot copies every stored file. Open handles are not part of the image.
func (fs *FileSystem) Snapshot() Image {
	var img Image
	for slot, e := range fs.dir {
		if !e.used {
			continue
		}
		f := ImageFile{Slot: slot, Name: e.name, Size: e.size}
		for _, b := range e.blocks {
			data := make([]byte, BlockSize)
			copy(data, fs.blocks[b][:])
			f.Blocks = append(f.Blocks, ImageBlock{Index: b, Data: data})
		}
		img.Files = append(img.Files, f)
	}
	return img
}

// Restore replaces the file system contents with img and closes every handle.
// Nothing changes if img is inconsistent.
func (fs *FileSystem) Restore(img Image) error {
	var next FileSystem
	for _, f := range img.Files {
		if f.Slot < 0 || f.Slot >= MaxFiles || next.dir[f.Slot].used || f.Name.IsZero() {
			return ErrCorruptImage
		}
		if f.Size < 0 || f.Size > MaxFileBytes || len(f.Blocks) != blocksFor(f.Size) {
			return ErrCorruptImage
		}
		if _, dup := next.lookup(f.Name); dup {
			return ErrCorruptImage
		}
		e := entry{used: true, name: f.Name, size: f.Size}
		for _, b := range f.Blocks {
			if b.Index < 0 || b.Index >= NumBlocks || next.inUse[b.Index] || len(b.Data) > BlockSize {
				return ErrCorruptImage
			}
			next.inUse[b.Index] = true
			copy(next.blocks[b.Index][:], b.Data)
			e.blocks = append(e.blocks, b.Index)
		}
		next.dir[f.Slot] = e
	}
	*fs = next
	return nil
}
