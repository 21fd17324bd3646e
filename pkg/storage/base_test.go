package storage_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/evotext/evotext-go/pkg/storage"
)

func TestRecordIDDeterministic(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)

	a := storage.RecordID("what is a monad", "a monoid in the category of endofunctors", at)
	b := storage.RecordID("what is a monad", "a monoid in the category of endofunctors", at)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestRecordIDDistinguishesFields(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	base := storage.RecordID("content", "response", at)

	assert.NotEqual(t, base, storage.RecordID("content2", "response", at))
	assert.NotEqual(t, base, storage.RecordID("content", "response2", at))
	assert.NotEqual(t, base, storage.RecordID("content", "response", at.Add(time.Nanosecond)))
}

func TestRecordIDFieldBoundaries(t *testing.T) {
	// The separator keeps ("ab", "c") and ("a", "bc") from colliding.
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	assert.NotEqual(t,
		storage.RecordID("ab", "c", at),
		storage.RecordID("a", "bc", at))
}

func TestRecordIDNormalizesTimezone(t *testing.T) {
	utc := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	offset := utc.In(time.FixedZone("CET", 3600))

	assert.Equal(t,
		storage.RecordID("content", "response", utc),
		storage.RecordID("content", "response", offset))
}
