package comprobante

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	comprobanteBucketName = "comprobantes"
	referenceBucketName   = "used_references"
)

// DB defines the persistence operations for comprobantes and for the
// set of reference codes consumed by approved receipts.
type DB interface {
	// SaveComprobante saves a comprobante to the database
	SaveComprobante(c *Comprobante) error

	// GetComprobante retrieves a comprobante by ID
	GetComprobante(id string) (*Comprobante, error)

	// ListComprobantes returns all comprobantes
	ListComprobantes() ([]*Comprobante, error)

	// DeleteComprobante removes a comprobante from the database
	DeleteComprobante(id string) error

	// MarkReferenceUsed records that an approved comprobante consumed a
	// reference code
	MarkReferenceUsed(reference, comprobanteID string) error

	// IsReferenceUsed reports whether a reference code was already
	// consumed by an approved comprobante
	IsReferenceUsed(reference string) (bool, error)

	// Close closes the database connection
	Close() error
}

// BoltDB implements the DB interface using BoltDB
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB creates a new BoltDB instance
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(comprobanteBucketName)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(referenceBucketName)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// SaveComprobante saves a comprobante to the database
func (b *BoltDB) SaveComprobante(c *Comprobante) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(comprobanteBucketName))
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshaling comprobante: %w", err)
		}
		return bucket.Put([]byte(c.ID), data)
	})
}

// GetComprobante retrieves a comprobante by ID
func (b *BoltDB) GetComprobante(id string) (*Comprobante, error) {
	var c *Comprobante
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(comprobanteBucketName))
		data := bucket.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("comprobante not found: %s", id)
		}
		return json.Unmarshal(data, &c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListComprobantes returns all comprobantes
func (b *BoltDB) ListComprobantes() ([]*Comprobante, error) {
	comprobantes := make([]*Comprobante, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(comprobanteBucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var c Comprobante
			if err := json.Unmarshal(v, &c); err != nil {
				return fmt.Errorf("unmarshaling comprobante: %w", err)
			}
			comprobantes = append(comprobantes, &c)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return comprobantes, nil
}

// DeleteComprobante removes a comprobante from the database
func (b *BoltDB) DeleteComprobante(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(comprobanteBucketName))
		return bucket.Delete([]byte(id))
	})
}

// MarkReferenceUsed records a consumed reference code. The comprobante
// ID is stored as the value for audit.
func (b *BoltDB) MarkReferenceUsed(reference, comprobanteID string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(referenceBucketName))
		return bucket.Put([]byte(reference), []byte(comprobanteID))
	})
}

// IsReferenceUsed reports whether a reference code was already consumed
func (b *BoltDB) IsReferenceUsed(reference string) (bool, error) {
	var used bool
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(referenceBucketName))
		used = bucket.Get([]byte(reference)) != nil
		return nil
	})
	if err != nil {
		return false, err
	}
	return used, nil
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
