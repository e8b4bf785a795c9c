// Package fontmetrics measures rendered text widths with an OpenType face.
package fontmetrics

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DPI at which one font point is one pixel.
const DPI = 72

// Measurer implements reveal.Measurer for one font at one size. Faces are
// not safe for concurrent use, so measurements are serialised; widths are
// cached per text.
type Measurer struct {
	mu    sync.Mutex
	face  font.Face
	cache map[string]float64
}

// New loads the font at path, or the built-in Go Regular face when path is
// empty.
func New(path string, size float64) (*Measurer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("font size must be > 0, got %v", size)
	}
	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		data = b
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     DPI,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	return &Measurer{face: face, cache: make(map[string]float64)}, nil
}

// MeasureWidth returns the advance width of text in pixels.
func (m *Measurer) MeasureWidth(text string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.cache[text]; ok {
		return w, nil
	}
	adv := font.MeasureString(m.face, text)
	w := float64(adv) / 64
	m.cache[text] = w
	return w, nil
}

func (m *Measurer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.face.Close()
}
