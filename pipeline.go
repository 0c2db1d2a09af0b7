package midg

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Extension is the file extension the scanner looks for.
const Extension = ".midg"

func (s *Scanner) findFiles(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories
			if file != base && info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !strings.EqualFold(filepath.Ext(file), Extension) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

// inspect reads the whole file once, hashing it while keeping the first
// HeaderSize bytes for validation.
func inspect(file string) (Entry, error) {
	f, err := os.Open(file)
	if err != nil {
		return Entry{}, err
	}
	defer f.Close()

	h := sha1.New()
	var head [HeaderSize]byte
	n, err := io.ReadFull(io.TeeReader(f, h), head[:])
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return Entry{}, err
	}
	rest, err := io.Copy(h, f)
	if err != nil {
		return Entry{}, err
	}

	e := Entry{
		Path: file,
		SHA1: fmt.Sprintf("%X", h.Sum(nil)),
		Size: int64(n) + rest,
	}

	hdr, err := DecodeHeader(head[:n])
	if err != nil {
		e.Reason = err.Error()
		return e, nil
	}
	e.Valid = true
	e.Header = hdr
	e.DataSize = hdr.DataSize()
	return e, nil
}

func (s *Scanner) fileWorker(ctx context.Context, scanID string, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			e, err := inspect(file)
			if err != nil {
				errc <- err
				return
			}
			e.ScanID = scanID

			if !e.Valid {
				s.logger.Printf("Invalid container \"%s\": %s\n", file, e.Reason)
			} else if e.Size-HeaderSize < int64(e.DataSize) {
				s.logger.Printf("Short payload in \"%s\", have %d bytes, want %d\n", file, e.Size-HeaderSize, e.DataSize)
			}

			if err := s.catalog.AddEntry(e); err != nil {
				errc <- err
				return
			}

			select {
			case <-ctx.Done():
				return
			default:
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks path, validates every container below it and records the
// results. It returns the identifier of the scan in the catalog.
func (s *Scanner) Scan(ctx context.Context, path string) (string, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	scanID, err := s.catalog.BeginScan(dir)
	if err != nil {
		return "", err
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := s.findFiles(ctx, dir)
	if err != nil {
		return "", err
	}
	errcList = append(errcList, errc)

	workers := s.Workers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		errc, err := s.fileWorker(ctx, scanID, files)
		if err != nil {
			return "", err
		}
		errcList = append(errcList, errc)
	}

	if err := waitForPipeline(errcList...); err != nil {
		return "", err
	}
	return scanID, nil
}
