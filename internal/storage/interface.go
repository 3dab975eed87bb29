package storage

// StorageInterface is the snapshot archive contract. The scheduled refresher
// writes timestamped trend snapshots through it; nothing in the request path
// depends on it.
type StorageInterface interface {
	Store(filename string, data []byte) error
	Retrieve(filename string) ([]byte, error)
	List(prefix string) ([]string, error)
	Delete(filename string) error
}
