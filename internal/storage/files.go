package storage

import (
	"errors"
	"io"
)

// Store is the handle-level API of a FileSystem.
type Store interface {
	OpenCreate(name string) (Handle, error)
	OpenRead(name string) (Handle, error)
	Write(h Handle, p []byte) error
	Read(h Handle, p []byte) (int, error)
	Close(h Handle) error
}

// ReadFile drains name through a read handle on s.
func ReadFile(s Store, name string) ([]byte, error) {
	h, err := s.OpenRead(name)
	if err != nil {
		return nil, err
	}
	defer s.Close(h)
	out := make([]byte, 0, BlockSize)
	buf := make([]byte, BlockSize)
	for {
		n, err := s.Read(h, buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) || (err == nil && n == 0) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// WriteFile replaces name with data through a write handle on s. A failed
// write still closes the handle.
func WriteFile(s Store, name string, data []byte) error {
	h, err := s.OpenCreate(name)
	if err != nil {
		return err
	}
	if len(data) > 0 {
		if err := s.Write(h, data); err != nil {
			_ = s.Close(h)
			return err
		}
	}
	return s.Close(h)
}
