package notify

import "sync/atomic"

// Texture is a shared icon resource. The notification holding it only reads
// from it; disposal stays with whoever created it, so holders must check
// Valid before every use.
type Texture interface {
	Valid() bool
	Glyph() string
}

// SharedTexture is a caller-owned Texture. Dispose invalidates it for every
// notification still referencing it.
type SharedTexture struct {
	glyph    string
	disposed atomic.Bool
}

// NewSharedTexture wraps glyph in a disposable handle.
func NewSharedTexture(glyph string) *SharedTexture {
	return &SharedTexture{glyph: glyph}
}

func (t *SharedTexture) Valid() bool {
	return t != nil && !t.disposed.Load()
}

func (t *SharedTexture) Glyph() string {
	if !t.Valid() {
		return ""
	}
	return t.glyph
}

// Dispose releases the texture. Safe to call more than once.
func (t *SharedTexture) Dispose() {
	t.disposed.Store(true)
}
