// Package store persists volume configuration: the auto-create list kept in
// a preference database, and the marker file written into each volume.
package store

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

const openTimeout = 2 * time.Second

// Preferences is a namespaced key-value preference store backed by bbolt.
// The database is opened per call so several processes can take turns.
type Preferences struct {
	path      string
	namespace []byte
}

// NewPreferences creates a preference store at path using namespace as bucket name
func NewPreferences(path, namespace string) *Preferences {
	return &Preferences{
		path:      path,
		namespace: []byte(namespace),
	}
}

// Path returns the database file location
func (p *Preferences) Path() string {
	return p.path
}

// Get returns the value stored under key, or nil if unset
func (p *Preferences) Get(key string) ([]byte, error) {
	if _, err := os.Stat(p.path); os.IsNotExist(err) {
		return nil, nil
	}

	var value []byte
	err := p.withDB(true, func(tx *bolt.Tx) error {
		bucket := tx.Bucket(p.namespace)
		if bucket == nil {
			return nil
		}
		if v := bucket.Get([]byte(key)); v != nil {
			value = append([]byte(nil), v...)
		}
		return nil
	})
	return value, err
}

// Set stores value under key, replacing any previous value
func (p *Preferences) Set(key string, value []byte) error {
	return p.withDB(false, func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(p.namespace)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), value)
	})
}

// Delete removes key
func (p *Preferences) Delete(key string) error {
	return p.withDB(false, func(tx *bolt.Tx) error {
		bucket := tx.Bucket(p.namespace)
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(key))
	})
}

func (p *Preferences) withDB(readOnly bool, fn func(tx *bolt.Tx) error) error {
	if !readOnly {
		if err := os.MkdirAll(filepath.Dir(p.path), 0700); err != nil {
			return errors.Wrap(err, "failed to create preferences directory")
		}
	}

	db, err := bolt.Open(p.path, 0600, &bolt.Options{Timeout: openTimeout, ReadOnly: readOnly})
	if err != nil {
		return errors.Wrapf(err, "failed to open preferences %s", p.path)
	}
	defer db.Close()

	if readOnly {
		return db.View(fn)
	}
	return db.Update(fn)
}
