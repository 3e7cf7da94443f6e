// Package badgervolume implements volume.Volume on top of a BadgerDB
// key-value store, for single-binary durable deployments with no host
// filesystem. Each logical path (content and sidecar metadata alike) is
// stored as one Badger entry; a parallel "d:" index tracks which paths are
// directories so ReadDir can enumerate immediate children by key prefix.
package badgervolume

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/toshio/canistorage/pkg/volume"
)

func errNotExist(path string) error {
	return fmt.Errorf("badgervolume: %s: %w", path, volume.ErrNotExist)
}

const (
	prefixFile = "f:" // f:<path> -> file content
	prefixDir  = "d:" // d:<path> -> empty marker, path is a directory
)

func keyFile(path string) []byte { return []byte(prefixFile + path) }
func keyDir(path string) []byte  { return []byte(prefixDir + path) }

// Volume stores every Volume entry as a Badger key/value pair.
type Volume struct {
	db *badger.DB
}

// Open opens (creating if necessary) a BadgerDB database at dir.
func Open(dir string) (*Volume, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLoggingLevel(badger.WARNING))
	if err != nil {
		return nil, fmt.Errorf("badgervolume: open: %w", err)
	}
	v := &Volume{db: db}
	if err := v.ensureRoot(); err != nil {
		db.Close()
		return nil, err
	}
	return v, nil
}

func (v *Volume) ensureRoot() error {
	return v.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(keyDir("/"))
		if err == nil {
			return nil
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		return txn.Set(keyDir("/"), nil)
	})
}

// Close releases the underlying Badger database.
func (v *Volume) Close() error {
	return v.db.Close()
}

// badgerFile is an in-memory buffer backing a single read or write, flushed
// to Badger on Close for writes.
type badgerFile struct {
	v      *Volume
	path   string
	buf    *bytes.Reader
	writeBuf []byte
	writing  bool
}

func (f *badgerFile) Read(p []byte) (int, error) {
	if f.writing {
		return 0, fmt.Errorf("badgervolume: file opened for writing")
	}
	return f.buf.Read(p)
}

func (f *badgerFile) Write(p []byte) (int, error) {
	if !f.writing {
		return 0, fmt.Errorf("badgervolume: file opened for reading")
	}
	f.writeBuf = append(f.writeBuf, p...)
	return len(p), nil
}

func (f *badgerFile) Seek(offset int64, whence int) (int64, error) {
	if f.writing {
		return 0, fmt.Errorf("badgervolume: seek unsupported while writing")
	}
	return f.buf.Seek(offset, whence)
}

func (f *badgerFile) Close() error {
	if !f.writing {
		return nil
	}
	return f.v.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyFile(f.path), f.writeBuf)
	})
}

// Open implements volume.Volume.
func (v *Volume) Open(_ context.Context, path string) (volume.File, error) {
	var data []byte
	err := v.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyFile(path))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = append([]byte(nil), val...)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, errNotExist(path)
	}
	if err != nil {
		return nil, err
	}
	return &badgerFile{v: v, path: path, buf: bytes.NewReader(data)}, nil
}

// Create implements volume.Volume.
func (v *Volume) Create(_ context.Context, path string) (volume.File, error) {
	return &badgerFile{v: v, path: path, writing: true, writeBuf: []byte{}}, nil
}

// Remove implements volume.Volume.
func (v *Volume) Remove(_ context.Context, path string) error {
	return v.db.Update(func(txn *badger.Txn) error {
		_, fileErr := txn.Get(keyFile(path))
		if fileErr != nil && fileErr != badger.ErrKeyNotFound {
			return fileErr
		}
		_, dirErr := txn.Get(keyDir(path))
		if dirErr != nil && dirErr != badger.ErrKeyNotFound {
			return dirErr
		}
		if fileErr == badger.ErrKeyNotFound && dirErr == badger.ErrKeyNotFound {
			return errNotExist(path)
		}
		if err := txn.Delete(keyFile(path)); err != nil {
			return err
		}
		return txn.Delete(keyDir(path))
	})
}

// Rename implements volume.Volume.
func (v *Volume) Rename(_ context.Context, oldPath, newPath string) error {
	return v.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(keyFile(oldPath))
		if err != nil {
			return err
		}
		var data []byte
		if err := item.Value(func(val []byte) error {
			data = append([]byte(nil), val...)
			return nil
		}); err != nil {
			return err
		}
		if err := txn.Set(keyFile(newPath), data); err != nil {
			return err
		}
		return txn.Delete(keyFile(oldPath))
	})
}

// ReadDir implements volume.Volume.
func (v *Volume) ReadDir(_ context.Context, path string) ([]volume.DirEntry, error) {
	childPrefix := []byte(childPrefixOf(path))
	seen := map[string]volume.FileType{}

	err := v.db.View(func(txn *badger.Txn) error {
		if _, err := txn.Get(keyDir(path)); err != nil {
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		for _, prefix := range [][]byte{
			append([]byte(prefixDir), childPrefix...),
			append([]byte(prefixFile), childPrefix...),
		} {
			it := txn.NewIterator(opts)
			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				name := string(it.Item().Key()[len(prefix):])
				if name == "" || strings.Contains(name, "/") {
					continue
				}
				typ := volume.TypeRegular
				if bytes.HasPrefix(it.Item().Key(), []byte(prefixDir)) {
					typ = volume.TypeDirectory
				}
				seen[name] = typ
			}
			it.Close()
		}
		return nil
	})
	if err == badger.ErrKeyNotFound {
		return nil, errNotExist(path)
	}
	if err != nil {
		return nil, err
	}

	entries := make([]volume.DirEntry, 0, len(seen))
	for name, typ := range seen {
		entries = append(entries, volume.DirEntry{Name: name, Type: typ})
	}
	return entries, nil
}

// Stat implements volume.Volume.
func (v *Volume) Stat(_ context.Context, path string) (volume.FileType, error) {
	var typ volume.FileType
	found := false
	err := v.db.View(func(txn *badger.Txn) error {
		if _, err := txn.Get(keyDir(path)); err == nil {
			typ, found = volume.TypeDirectory, true
			return nil
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		if _, err := txn.Get(keyFile(path)); err == nil {
			typ, found = volume.TypeRegular, true
			return nil
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, errNotExist(path)
	}
	return typ, nil
}

// Mkdir implements volume.Volume.
func (v *Volume) Mkdir(_ context.Context, path string) error {
	return v.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(keyFile(path)); err == nil {
			return fmt.Errorf("badgervolume: %s exists and is not a directory", path)
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		return txn.Set(keyDir(path), nil)
	})
}

func childPrefixOf(path string) string {
	if path == "/" {
		return "/"
	}
	return path + "/"
}

var _ volume.Volume = (*Volume)(nil)
var _ io.ReadWriteCloser = (*badgerFile)(nil)
