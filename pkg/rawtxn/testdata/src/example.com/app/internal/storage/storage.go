package storage

import bolt "go.etcd.io/bbolt"

func open(db *bolt.DB) error {
	return db.Update(func(*bolt.Tx) error { return nil })
}
