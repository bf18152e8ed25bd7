package store

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"go.etcd.io/bbolt"

	"reviewsense/internal/adapter/model"
)

const bundleVectorizer = `{"kind": "tfidf", "vocabulary": {"good": 0, "bad": 1}, "idf": [1.2, 1.4]}`

const bundleClassifier = `{"kind": "linear_svc", "classes": [0, 1], "coef": [[1.5, -1.5]], "intercept": [0.1]}`

func TestBundleStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.db")

	m, err := model.Parse([]byte(bundleClassifier), []byte(bundleVectorizer))
	if err != nil {
		t.Fatal(err)
	}

	s, err := OpenBundle(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Pack([]byte(bundleClassifier), []byte(bundleVectorizer), m.Info); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	ro, err := OpenBundleReadOnly(path)
	if err != nil {
		t.Fatal(err)
	}
	defer ro.Close()

	c, v, err := ro.Artifacts()
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := model.Parse(c, v)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Info.Fingerprint != m.Info.Fingerprint {
		t.Errorf("fingerprint changed: %s != %s", loaded.Info.Fingerprint, m.Info.Fingerprint)
	}

	manifest, err := ro.Manifest()
	if err != nil {
		t.Fatal(err)
	}
	if manifest.Info.Fingerprint != m.Info.Fingerprint {
		t.Errorf("manifest fingerprint = %s, want %s", manifest.Info.Fingerprint, m.Info.Fingerprint)
	}
	if manifest.Info.ClassifierKind != model.KindLinearSVC {
		t.Errorf("classifier kind = %s", manifest.Info.ClassifierKind)
	}
	if manifest.PackedAt.IsZero() {
		t.Error("expected packed_at to be set")
	}
}

func TestBundleStore_EmptyBundle(t *testing.T) {
	s, err := OpenBundle(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if _, _, err := s.Artifacts(); !errors.Is(err, ErrMissingArtifact) {
		t.Errorf("expected ErrMissingArtifact, got %v", err)
	}
	if _, err := s.Manifest(); !errors.Is(err, ErrMissingArtifact) {
		t.Errorf("expected ErrMissingArtifact, got %v", err)
	}

	version, err := s.SchemaVersion()
	if err != nil {
		t.Fatal(err)
	}
	if version != CurrentSchemaVersion {
		t.Errorf("schema version = %d, want %d", version, CurrentSchemaVersion)
	}
}

func TestBundleStore_NewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future.db")

	s, err := OpenBundle(path)
	if err != nil {
		t.Fatal(err)
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		data, _ := json.Marshal(CurrentSchemaVersion + 1)
		return tx.Bucket(bucketMeta).Put(keySchemaVersion, data)
	})
	if err != nil {
		t.Fatal(err)
	}

	check, err := s.CheckMigration()
	if err != nil {
		t.Fatal(err)
	}
	if !check.NeedsRebuild {
		t.Error("expected NeedsRebuild for a newer schema")
	}
	s.Close()

	if _, err := OpenBundleReadOnly(path); err == nil {
		t.Error("expected read-only open to reject a newer schema")
	}
}

func TestOpenBundleReadOnly_Missing(t *testing.T) {
	if _, err := OpenBundleReadOnly(filepath.Join(t.TempDir(), "absent.db")); err == nil {
		t.Error("expected error for missing bundle")
	}
}
