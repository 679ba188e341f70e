// Package prefs keeps planner UI preferences on disk between sessions.
package prefs

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

const (
	zoomKey  = "ui-zoom"
	popupKey = "ui-popup"
)

// Position is the top-left cell of the edit popup.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Store is a diskv-backed preference store. Values are JSON documents, one
// file per key.
type Store struct {
	d *diskv.Diskv
}

// Open returns a store rooted at basePath. The directory is created on the
// first write.
func Open(basePath string) *Store {
	return &Store{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      64 * 1024,
	})}
}

// Zoom returns the saved zoom level, or def when none is stored or the
// stored value is unreadable.
func (s *Store) Zoom(def float64) float64 {
	var z float64
	if !s.read(zoomKey, &z) || z <= 0 {
		return def
	}
	return z
}

func (s *Store) SetZoom(z float64) error {
	return s.write(zoomKey, z)
}

// PopupPosition returns the last saved popup position.
func (s *Store) PopupPosition() (Position, bool) {
	var p Position
	ok := s.read(popupKey, &p)
	return p, ok
}

func (s *Store) SetPopupPosition(p Position) error {
	return s.write(popupKey, p)
}

func (s *Store) read(key string, v any) bool {
	if !s.d.Has(key) {
		return false
	}
	b, err := s.d.Read(key)
	if err != nil {
		return false
	}
	return json.Unmarshal(b, v) == nil
}

func (s *Store) write(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := s.d.Write(key, b); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}
