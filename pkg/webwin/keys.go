package webwin

import (
	"sort"
	"strconv"

	"github.com/vango-dev/webdisplay/internal/errors"
)

// Session keys are decimal numbers drawn from [0, keySpace).
const (
	keySpace    = 0x100000
	keyAttempts = 1000
)

// HasKey reports whether key is issued on this window.
func (w *Window) HasKey(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.keys[key]
	return ok
}

// AddKey records that a client was launched with key, tagged with how it
// was started ("pid:<n>", an engine name or the launch target).
func (w *Window) AddKey(key, tag string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.pending, key)
	w.keys[key] = &launchRecord{tag: tag}
}

// KeyTag returns the launch tag recorded for key.
func (w *Window) KeyTag(key string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	rec, ok := w.keys[key]
	if !ok {
		return "", false
	}
	return rec.tag, true
}

// RemoveKey forgets key and returns its launch tag.
func (w *Window) RemoveKey(key string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	rec, ok := w.keys[key]
	if !ok {
		return "", false
	}
	delete(w.keys, key)
	return rec.tag, true
}

// Keys returns the issued keys in ascending numeric order.
func (w *Window) Keys() []string {
	w.mu.Lock()
	keys := make([]string, 0, len(w.keys))
	for k := range w.keys {
		keys = append(keys, k)
	}
	w.mu.Unlock()

	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		return a < b
	})
	return keys
}

// reserveKey draws a key not issued or reserved on this window. The
// reservation is invisible to HasKey until AddKey commits it.
func (w *Window) reserveKey(draw func(n int) int) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := 0; i < keyAttempts; i++ {
		key := strconv.Itoa(draw(keySpace))
		if _, ok := w.keys[key]; ok {
			continue
		}
		if _, ok := w.pending[key]; ok {
			continue
		}
		w.pending[key] = struct{}{}
		return key, nil
	}
	return "", errors.New(errors.CodeKeyGeneration).
		WithDetailf("window %d: %d attempts collided with %d issued keys", w.id, keyAttempts, len(w.keys))
}

// dropReservation releases a key reserved for a launch that failed.
func (w *Window) dropReservation(key string) {
	w.mu.Lock()
	delete(w.pending, key)
	w.mu.Unlock()
}

// claimKey marks an issued key as used by a connecting client. Keys are
// single-use: a second claim fails.
func (w *Window) claimKey(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return false
	}
	rec, ok := w.keys[key]
	if !ok || rec.used {
		return false
	}
	rec.used = true
	return true
}

// unclaimKey reverts claimKey when the upgrade did not complete.
func (w *Window) unclaimKey(key string) {
	w.mu.Lock()
	if rec, ok := w.keys[key]; ok {
		rec.used = false
	}
	w.mu.Unlock()
}
