package a

import bolt "go.etcd.io/bbolt"

type wrapper struct {
	db *bolt.DB
}

// Begin is not a bbolt method.
func (w *wrapper) Begin() {}

func f(db *bolt.DB) {
	tx, _ := db.Begin(true) // want `bbolt transaction opened outside internal/storage`
	_ = tx.Commit()

	_ = db.Update(func(*bolt.Tx) error { return nil }) // want `bbolt transaction opened outside internal/storage`
	_ = db.View(func(*bolt.Tx) error { return nil })   // want `bbolt transaction opened outside internal/storage`
	_ = db.Batch(func(*bolt.Tx) error { return nil })  // want `bbolt transaction opened outside internal/storage`

	w := &wrapper{db: db}
	w.Begin()
	_ = w.db.View(nil) // want `bbolt transaction opened outside internal/storage`

	_ = db.Path()
	_ = db.Close()

	view := db.View // method values are not calls
	_ = view
}
