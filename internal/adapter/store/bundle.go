package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"reviewsense/internal/domain"
)

var (
	bucketArtifacts = []byte("artifacts")
	bucketMeta      = []byte("meta")

	keyClassifier = []byte("model.json")
	keyVectorizer = []byte("vectorizer.json")
	keyManifest   = []byte("manifest")
)

var ErrMissingArtifact = errors.New("bundle is missing an artifact")

// Manifest records what a bundle holds.
type Manifest struct {
	Info     domain.ArtifactInfo `json:"info"`
	PackedAt time.Time           `json:"packed_at"`
}

// BundleStore keeps a classifier/vectorizer pair in a single bbolt file so a
// model can be shipped and versioned as one artifact.
type BundleStore struct {
	db *bbolt.DB
}

// OpenBundle opens or creates the bundle at path.
func OpenBundle(path string) (*BundleStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bundle: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketArtifacts, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &BundleStore{db: db}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenBundleReadOnly opens an existing bundle without write access.
func OpenBundleReadOnly(path string) (*BundleStore, error) {
	db, err := bbolt.Open(path, 0400, &bbolt.Options{ReadOnly: true, Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bundle: %w", err)
	}
	s := &BundleStore{db: db}

	check, err := s.CheckMigration()
	if err != nil {
		db.Close()
		return nil, err
	}
	if check.NeedsRebuild {
		db.Close()
		return nil, fmt.Errorf("bundle cannot be read: %s", check.Reason)
	}
	return s, nil
}

func (s *BundleStore) Close() error {
	return s.db.Close()
}

// Pack replaces the stored artifacts and manifest in one transaction.
func (s *BundleStore) Pack(classifierData, vectorizerData []byte, info domain.ArtifactInfo) error {
	manifest, err := json.Marshal(Manifest{Info: info, PackedAt: time.Now().UTC()})
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		artifacts := tx.Bucket(bucketArtifacts)
		if err := artifacts.Put(keyClassifier, classifierData); err != nil {
			return err
		}
		if err := artifacts.Put(keyVectorizer, vectorizerData); err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keyManifest, manifest)
	})
}

// Artifacts returns copies of the stored classifier and vectorizer payloads.
func (s *BundleStore) Artifacts() (classifierData, vectorizerData []byte, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketArtifacts)
		if b == nil {
			return ErrMissingArtifact
		}
		c := b.Get(keyClassifier)
		v := b.Get(keyVectorizer)
		if c == nil || v == nil {
			return ErrMissingArtifact
		}
		// bbolt values are only valid inside the transaction
		classifierData = append([]byte(nil), c...)
		vectorizerData = append([]byte(nil), v...)
		return nil
	})
	return classifierData, vectorizerData, err
}

// Manifest returns the metadata written by the last Pack.
func (s *BundleStore) Manifest() (*Manifest, error) {
	var m Manifest
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		if b == nil {
			return ErrMissingArtifact
		}
		data := b.Get(keyManifest)
		if data == nil {
			return ErrMissingArtifact
		}
		return json.Unmarshal(data, &m)
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}
