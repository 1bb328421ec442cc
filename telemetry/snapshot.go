package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/meshpaint/paint"
	"github.com/pthm-cable/meshpaint/scene"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the painted layout of a scene.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`

	Stats     paint.SessionStats `json:"stats"`
	Instances []InstanceState    `json:"instances"`
}

// InstanceState holds one instance's placement.
type InstanceState struct {
	Handle   uint64     `json:"handle"`
	Prefab   string     `json:"prefab"`
	Position [3]float64 `json:"position"`
	Rotation [4]float64 `json:"rotation"` // quaternion w, x, y, z
	Scale    float64    `json:"scale"`
	Parent   uint64     `json:"parent,omitempty"`
}

// NewSnapshot captures the given instances, leaving out any handle listed in
// skip (such as an uncommitted pending instance).
func NewSnapshot(seed int64, stats paint.SessionStats, instances []scene.InstanceView, skip ...paint.Handle) *Snapshot {
	s := &Snapshot{Version: SnapshotVersion, Seed: seed, Stats: stats}
	for _, v := range instances {
		if slices.Contains(skip, v.Handle) {
			continue
		}
		p, q := v.Transform.Position, quat.Number(v.Transform.Rotation)
		s.Instances = append(s.Instances, InstanceState{
			Handle:   uint64(v.Handle),
			Prefab:   string(v.Prefab),
			Position: [3]float64{p.X, p.Y, p.Z},
			Rotation: [4]float64{q.Real, q.Imag, q.Jmag, q.Kmag},
			Scale:    v.Transform.Scale,
			Parent:   uint64(v.Parent),
		})
	}
	return s
}

// Transform returns the instance placement.
func (is InstanceState) Transform() paint.Transform {
	return paint.Transform{
		Position: r3.Vec{X: is.Position[0], Y: is.Position[1], Z: is.Position[2]},
		Rotation: r3.Rotation(quat.Number{Real: is.Rotation[0], Imag: is.Rotation[1], Jmag: is.Rotation[2], Kmag: is.Rotation[3]}),
		Scale:    is.Scale,
	}
}

// Restore instantiates every snapshot instance into w. Parent links are
// remapped to the new handles. Links to objects outside the snapshot are
// passed through unchanged, so they only attach when w already holds that
// handle. Returns the new handles in snapshot order.
func (s *Snapshot) Restore(w *scene.World) ([]paint.Handle, error) {
	remap := make(map[uint64]paint.Handle, len(s.Instances))
	out := make([]paint.Handle, 0, len(s.Instances))
	for _, is := range s.Instances {
		h, err := w.Instantiate(paint.PrefabID(is.Prefab), is.Transform())
		if err != nil {
			return out, fmt.Errorf("restore instance %d: %w", is.Handle, err)
		}
		remap[is.Handle] = h
		out = append(out, h)
	}
	for i, is := range s.Instances {
		if is.Parent == 0 {
			continue
		}
		if p, ok := remap[is.Parent]; ok {
			w.Reparent(out[i], p)
			continue
		}
		w.Reparent(out[i], paint.Handle(is.Parent))
	}
	return out, nil
}

// SaveSnapshot writes a snapshot to disk as snapshot_<seed>_<instances>.json.
// An existing file is never replaced: later saves of the same name get a
// _2, _3, ... suffix. Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	base := fmt.Sprintf("snapshot_%d_%d", snapshot.Seed, len(snapshot.Instances))
	for n := 1; ; n++ {
		name := base + ".json"
		if n > 1 {
			name = fmt.Sprintf("%s_%d.json", base, n)
		}
		path := filepath.Join(dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create snapshot: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", fmt.Errorf("write snapshot: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("write snapshot: %w", err)
		}
		return path, nil
	}
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
