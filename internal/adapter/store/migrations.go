package store

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
)

// CurrentSchemaVersion is bumped on breaking changes to the bundle layout.
const CurrentSchemaVersion = 1

var keySchemaVersion = []byte("schema_version")

// MigrationResult describes the result of a migration check.
type MigrationResult struct {
	NeedsMigration bool
	NeedsRebuild   bool
	OldVersion     int
	NewVersion     int
	Reason         string
}

// SchemaVersion returns the stored schema version, or 0 for a fresh bundle.
func (s *BundleStore) SchemaVersion() (int, error) {
	var version int
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		if b == nil {
			return nil
		}
		data := b.Get(keySchemaVersion)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &version)
	})
	return version, err
}

// CheckMigration reports whether the bundle can be used by this binary.
func (s *BundleStore) CheckMigration() (*MigrationResult, error) {
	version, err := s.SchemaVersion()
	if err != nil {
		return nil, fmt.Errorf("failed to get schema version: %w", err)
	}

	result := &MigrationResult{
		OldVersion: version,
		NewVersion: CurrentSchemaVersion,
	}

	switch {
	case version == 0:
		result.NeedsMigration = true
		result.Reason = "initializing schema version"
	case version < CurrentSchemaVersion:
		result.NeedsMigration = true
		result.Reason = fmt.Sprintf("schema upgrade from v%d to v%d", version, CurrentSchemaVersion)
	case version > CurrentSchemaVersion:
		result.NeedsRebuild = true
		result.Reason = fmt.Sprintf("bundle created by newer version (v%d > v%d)", version, CurrentSchemaVersion)
	}

	return result, nil
}

// Migrate brings the bundle up to CurrentSchemaVersion.
func (s *BundleStore) Migrate() error {
	check, err := s.CheckMigration()
	if err != nil {
		return err
	}
	if check.NeedsRebuild {
		return fmt.Errorf("cannot migrate: %s", check.Reason)
	}
	if !check.NeedsMigration {
		return nil
	}

	data, err := json.Marshal(CurrentSchemaVersion)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMeta).Put(keySchemaVersion, data)
	})
}
