package midg

import (
	"errors"
	"image"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// Check reports whether the file at path starts with a valid header. Only the
// header is read. Files too short to hold a header are invalid rather than an
// error; the returned error is reserved for failures to stat, open or read
// the file.
func Check(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if info.Size() < MinFileSize {
		return false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	var b [HeaderSize]byte
	if _, err := io.ReadFull(f, b[:]); err != nil {
		return false, err
	}

	return Valid(b[:]), nil
}

// File is an open MIDG container with a validated header.
type File struct {
	Header Header

	data    []byte
	mmapped bool
}

// Open maps the file at path read-only and validates its header. If mmap is
// unavailable the file is read into memory instead. The returned file must be
// closed to release any mapping.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := info.Size()
	if size < MinFileSize {
		return nil, ErrShortHeader
	}
	if size > int64(int(^uint(0)>>1)) {
		return nil, errors.New("midg: file too large to map")
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		mf, err := newFile(data, true)
		if err != nil {
			_ = unix.Munmap(data)
			return nil, err
		}
		return mf, nil
	}

	return OpenReaderAt(f, size)
}

// OpenReaderAt reads size bytes from r and validates the header.
func OpenReaderAt(r io.ReaderAt, size int64) (*File, error) {
	if size < MinFileSize {
		return nil, ErrShortHeader
	}
	data := make([]byte, size)
	n, err := r.ReadAt(data, 0)
	if n < len(data) {
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return newFile(data, false)
}

func newFile(data []byte, mmapped bool) (*File, error) {
	h, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}
	return &File{
		Header:  h,
		data:    data,
		mmapped: mmapped,
	}, nil
}

// Payload returns the bytes following the header. The slice is only valid
// until Close.
func (f *File) Payload() []byte {
	if f == nil || len(f.data) < HeaderSize {
		return nil
	}
	return f.data[HeaderSize:]
}

// Image decodes the base level of the payload.
func (f *File) Image() (image.Image, error) {
	return decodePayload(f.Header, f.Payload())
}

// Close releases the file contents and any mapping.
func (f *File) Close() error {
	if f == nil || f.data == nil {
		return nil
	}
	var err error
	if f.mmapped {
		err = unix.Munmap(f.data)
	}
	f.data = nil
	f.mmapped = false
	return err
}
