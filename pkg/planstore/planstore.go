// Package planstore persists generated plans to an embedded pebble KV
// store, zstd-compressing the JSON bytes before they're written --
// the §4 SUPPLEMENTED FEATURES replacement for the original's bare
// `save_topology_result` file write, using the teacher's actual
// storage engine instead.
//
// Grounded on pkg/kv/kv_db.go (NewKVDB, db.Set/db.Get with
// pebble.Sync, Close) and pkg/kv/zstd_compression.go (Compress/
// Decompress wrapping github.com/DataDog/zstd).
package planstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/DataDog/zstd"
	"github.com/cockroachdb/pebble"

	"meshplanner/domain"
	"meshplanner/pkg/meshmodel"
)

// Store is a thin wrapper over a pebble database holding plan-history
// entries keyed by filename.
type Store struct {
	db *pebble.DB
}

// Open opens (creating if necessary) the pebble database at dir.
func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, domain.WrapErrorf(err, domain.ErrInternalServerError, "opening plan store at %s", dir)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Filename returns the §6 "Persisted plans" filename convention:
// topology_<N>nodes_<YYYYMMDD>_<HHMMSS>.json.
func Filename(nodeCount int, at time.Time) string {
	return fmt.Sprintf("topology_%dnodes_%s.json", nodeCount, at.UTC().Format("20060102_150405"))
}

// Save compresses plan's JSON encoding with zstd and writes it under
// filename.
func (s *Store) Save(filename string, plan meshmodel.Plan) error {
	raw, err := json.Marshal(plan.Nodes)
	if err != nil {
		return domain.WrapErrorf(err, domain.ErrInternalServerError, "marshalling plan %s", filename)
	}

	var compressed []byte
	compressed, err = zstd.Compress(compressed, raw)
	if err != nil {
		return domain.WrapErrorf(err, domain.ErrInternalServerError, "compressing plan %s", filename)
	}

	if err := s.db.Set([]byte(filename), compressed, pebble.Sync); err != nil {
		return domain.WrapErrorf(err, domain.ErrInternalServerError, "writing plan %s", filename)
	}
	return nil
}

// Load decompresses and decodes the plan stored under filename.
func (s *Store) Load(filename string) (map[string]meshmodel.PlanNode, error) {
	val, closer, err := s.db.Get([]byte(filename))
	if err != nil {
		return nil, domain.WrapErrorf(err, domain.ErrNotFound, "plan %s not found", filename)
	}
	defer closer.Close()

	var raw []byte
	raw, err = zstd.Decompress(raw, val)
	if err != nil {
		return nil, domain.WrapErrorf(err, domain.ErrInternalServerError, "decompressing plan %s", filename)
	}

	var nodes map[string]meshmodel.PlanNode
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil, domain.WrapErrorf(err, domain.ErrInternalServerError, "unmarshalling plan %s", filename)
	}
	return nodes, nil
}
