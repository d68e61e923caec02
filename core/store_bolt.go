package core

import (
	"bytes"

	bolt "go.etcd.io/bbolt"
)

var recordsBucket = []byte("records")

// BoltStore is a durable KVStore backed by a single bbolt file, for
// deployments that need records to survive a process restart. All keys live
// in one bucket; the seed-derived key prefixes (campaign:, task:, ...)
// already partition the namespace.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens (creating if absent) a bbolt database at path and
// ensures the records bucket exists.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(recordsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

// Close releases the underlying file handle.
func (b *BoltStore) Close() error {
	return b.db.Close()
}

func (b *BoltStore) Set(key, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(recordsBucket).Put(key, value)
	})
}

func (b *BoltStore) Get(key []byte) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(recordsBucket).Get(key)
		if v == nil {
			return ErrKeyNotFound
		}
		out = append(out, v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *BoltStore) Delete(key []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(recordsBucket).Delete(key)
	})
}

func (b *BoltStore) Iterator(prefix []byte) Iterator {
	var keys, values [][]byte
	_ = b.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(recordsBucket).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			kc := append([]byte(nil), k...)
			vc := append([]byte(nil), v...)
			keys = append(keys, kc)
			values = append(values, vc)
		}
		return nil
	})
	return &memIterator{keys: keys, values: values, index: -1}
}
