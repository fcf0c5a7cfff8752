package storage

import "errors"

var (
	ErrEmptyName     = errors.New("file name is empty")
	ErrNameTooLong   = errors.New("file name too long")
	ErrDirectoryFull = errors.New("directory full")
	ErrNotFound      = errors.New("file not found")
	ErrTooManyOpen   = errors.New("too many open files")
	ErrBadHandle     = errors.New("bad file handle")
	ErrNotWritable   = errors.New("file not open for writing")
	ErrNotReadable   = errors.New("file not open for reading")
	ErrAlreadyOpen   = errors.New("file already open")
	ErrOutOfSpace    = errors.New("disk full")
	ErrFileTooBig    = errors.New("file too big")
	ErrCorruptImage  = errors.New("corrupt disk image")
)
