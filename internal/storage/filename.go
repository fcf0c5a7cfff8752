package storage

import "bytes"

// MaxFilenameBytes is the width of a directory record name.
const MaxFilenameBytes = 10

// Filename is a fixed-width, zero-padded directory record name.
type Filename [MaxFilenameBytes]byte

// ParseFilename packs name into a record. Names longer than the record are
// rejected rather than truncated so two long names can never collide.
func ParseFilename(name string) (Filename, error) {
	var f Filename
	if name == "" {
		return f, ErrEmptyName
	}
	if len(name) > MaxFilenameBytes {
		return f, ErrNameTooLong
	}
	copy(f[:], name)
	return f, nil
}

func (f Filename) String() string {
	if i := bytes.IndexByte(f[:], 0); i >= 0 {
		return string(f[:i])
	}
	return string(f[:])
}

func (f Filename) IsZero() bool {
	return f == Filename{}
}
