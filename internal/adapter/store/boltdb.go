package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
	"navigator/internal/domain"
	"navigator/internal/port"
)

var (
	bucketMeta      = []byte("meta")
	bucketVectors   = []byte("vectors")
	bucketFragments = []byte("fragments")
	keyManifest     = []byte("manifest")
)

// BoltStore persists one index generation (manifest, vectors, fragments)
// in a single bbolt file. Generations are written to a temporary file in
// the target directory and renamed into place, so a reader never sees a
// partially written index.
type BoltStore struct {
	openTimeout time.Duration
}

func NewBoltStore() *BoltStore {
	return &BoltStore{openTimeout: time.Second}
}

type storedVector struct {
	ID     string    `json:"id"`
	Vector []float32 `json:"v"`
}

func positionKey(i int) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(i))
	return k
}

// Save writes a complete generation to path, replacing any previous one.
func (s *BoltStore) Save(path string, a *port.Artifacts) error {
	if err := checkParallel(a); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp index file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	db, err := bbolt.Open(tmpPath, 0600, &bbolt.Options{Timeout: s.openTimeout})
	if err != nil {
		return fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		meta, err := tx.CreateBucket(bucketMeta)
		if err != nil {
			return err
		}
		vectors, err := tx.CreateBucket(bucketVectors)
		if err != nil {
			return err
		}
		fragments, err := tx.CreateBucket(bucketFragments)
		if err != nil {
			return err
		}

		data, err := json.Marshal(a.Manifest)
		if err != nil {
			return err
		}
		if err := meta.Put(keyManifest, data); err != nil {
			return err
		}

		for i := range a.Vectors {
			key := positionKey(i)

			data, err := json.Marshal(storedVector{ID: a.IDs[i], Vector: a.Vectors[i]})
			if err != nil {
				return err
			}
			if err := vectors.Put(key, data); err != nil {
				return err
			}

			data, err = json.Marshal(a.Fragments[i])
			if err != nil {
				return err
			}
			if err := fragments.Put(key, data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to write index: %w", err)
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close index: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace index: %w", err)
	}
	committed = true
	return nil
}

// Load reads a generation written by Save. Missing, corrupt or
// desynchronized artifacts are reported as domain.ErrDataNotLoaded.
func (s *BoltStore) Load(path string) (*port.Artifacts, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataNotLoaded, err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{ReadOnly: true, Timeout: s.openTimeout})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrDataNotLoaded, path, err)
	}
	defer db.Close()

	a := &port.Artifacts{}
	err = db.View(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		vectors := tx.Bucket(bucketVectors)
		fragments := tx.Bucket(bucketFragments)
		if meta == nil || vectors == nil || fragments == nil {
			return errors.New("missing buckets")
		}

		data := meta.Get(keyManifest)
		if data == nil {
			return errors.New("missing manifest")
		}
		if err := json.Unmarshal(data, &a.Manifest); err != nil {
			return fmt.Errorf("manifest: %w", err)
		}

		a.Vectors = make([][]float32, 0, a.Manifest.Fragments)
		a.IDs = make([]string, 0, a.Manifest.Fragments)
		err := vectors.ForEach(func(k, v []byte) error {
			if binary.BigEndian.Uint64(k) != uint64(len(a.Vectors)) {
				return fmt.Errorf("vector key %x out of sequence", k)
			}
			var sv storedVector
			if err := json.Unmarshal(v, &sv); err != nil {
				return fmt.Errorf("vector %d: %w", len(a.Vectors), err)
			}
			a.Vectors = append(a.Vectors, sv.Vector)
			a.IDs = append(a.IDs, sv.ID)
			return nil
		})
		if err != nil {
			return err
		}

		a.Fragments = make([]domain.Fragment, 0, a.Manifest.Fragments)
		return fragments.ForEach(func(k, v []byte) error {
			if binary.BigEndian.Uint64(k) != uint64(len(a.Fragments)) {
				return fmt.Errorf("fragment key %x out of sequence", k)
			}
			var f domain.Fragment
			if err := json.Unmarshal(v, &f); err != nil {
				return fmt.Errorf("fragment %d: %w", len(a.Fragments), err)
			}
			a.Fragments = append(a.Fragments, f)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDataNotLoaded, path, err)
	}

	if err := checkParallel(a); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDataNotLoaded, path, err)
	}
	if err := CheckManifest(a); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDataNotLoaded, path, err)
	}

	return a, nil
}

// checkParallel verifies that vectors and fragments describe the same
// ordered sequence.
func checkParallel(a *port.Artifacts) error {
	if len(a.Vectors) != len(a.Fragments) || len(a.IDs) != len(a.Fragments) {
		return fmt.Errorf("index has %d vectors and %d ids but %d fragments", len(a.Vectors), len(a.IDs), len(a.Fragments))
	}
	for i, f := range a.Fragments {
		if f.ID != a.IDs[i] {
			return fmt.Errorf("position %d: vector id %s does not match fragment id %s", i, a.IDs[i], f.ID)
		}
	}
	return nil
}

var _ port.ArtifactStore = (*BoltStore)(nil)
