package midg

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Catalog records the outcome of scanning directories for MIDG containers.
type Catalog struct {
	db *sql.DB
}

// Entry is a single scanned file.
type Entry struct {
	Path     string
	ScanID   string
	SHA1     string
	Size     int64
	Valid    bool
	Reason   string
	Header   Header
	DataSize uint64
}

func NewCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS scan (id TEXT PRIMARY KEY NOT NULL, root TEXT NOT NULL, started INTEGER NOT NULL)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS container (id INTEGER PRIMARY KEY NOT NULL, path TEXT NOT NULL UNIQUE, scan_id TEXT NOT NULL, sha1 TEXT NOT NULL, size INTEGER NOT NULL, valid INTEGER NOT NULL, reason TEXT, width INTEGER, height INTEGER, flags INTEGER, mipmaps INTEGER, unique_colors INTEGER, checksum INTEGER, data_size INTEGER, FOREIGN KEY(scan_id) REFERENCES scan(id))"); err != nil {
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// BeginScan registers a new scan of root and returns its identifier.
func (c *Catalog) BeginScan(root string) (string, error) {
	id := uuid.NewString()
	if _, err := c.db.Exec("INSERT INTO scan (id, root, started) VALUES (?, ?, ?)", id, root, time.Now().Unix()); err != nil {
		return "", err
	}
	return id, nil
}

// AddEntry records e, replacing any earlier entry for the same path.
func (c *Catalog) AddEntry(e Entry) error {
	var reason sql.NullString
	if e.Reason != "" {
		reason.String, reason.Valid = e.Reason, true
	}
	if _, err := c.db.Exec("INSERT OR REPLACE INTO container (path, scan_id, sha1, size, valid, reason, width, height, flags, mipmaps, unique_colors, checksum, data_size) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		e.Path, e.ScanID, e.SHA1, e.Size, e.Valid, reason,
		e.Header.Width, e.Header.Height, uint8(e.Header.Flags), e.Header.MipmapCount, e.Header.UniqueColors, e.Header.Checksum, int64(e.DataSize)); err != nil {
		return err
	}
	return nil
}

const entryColumns = "path, scan_id, sha1, size, valid, reason, width, height, flags, mipmaps, unique_colors, checksum, data_size"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(s rowScanner) (Entry, error) {
	var (
		e        Entry
		reason   sql.NullString
		flags    uint8
		dataSize int64
	)
	if err := s.Scan(&e.Path, &e.ScanID, &e.SHA1, &e.Size, &e.Valid, &reason,
		&e.Header.Width, &e.Header.Height, &flags, &e.Header.MipmapCount, &e.Header.UniqueColors, &e.Header.Checksum, &dataSize); err != nil {
		return Entry{}, err
	}
	e.Reason = reason.String
	e.Header.Flags = Flags(flags)
	if e.Valid {
		e.Header.Signature = Signature
	}
	e.DataSize = uint64(dataSize)
	return e, nil
}

// FindByPath returns the entry for path, or nil if it has not been scanned.
func (c *Catalog) FindByPath(path string) (*Entry, error) {
	e, err := scanEntry(c.db.QueryRow("SELECT "+entryColumns+" FROM container WHERE path = ?", path))
	switch err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return &e, nil
	default:
		return nil, err
	}
}

// Entries returns every entry recorded by the given scan, ordered by path.
func (c *Catalog) Entries(scanID string) ([]Entry, error) {
	rows, err := c.db.Query("SELECT "+entryColumns+" FROM container WHERE scan_id = ? ORDER BY path", scanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
