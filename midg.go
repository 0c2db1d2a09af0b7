/*
Package midg is a library for the MIDG tagged image container.

A container starts with a 16 byte header holding a signature, the base
dimensions, a flag byte, a mipmap count, an advisory color count and a
checksum over those fields. The header is validated before any pixel data is
trusted. The uncompressed base level follows it in row-major order.
*/
package midg

import "log"

const defaultWorkers = 10

// Scanner walks directory trees and records every container it finds in a
// Catalog.
type Scanner struct {
	catalog *Catalog
	logger  *log.Logger

	// Workers is the number of files validated concurrently.
	Workers int
}

func New(catalog *Catalog, logger *log.Logger) *Scanner {
	return &Scanner{
		catalog: catalog,
		logger:  logger,
		Workers: defaultWorkers,
	}
}
