package hash

import "testing"

func TestSHA256Hasher_HashBytes(t *testing.T) {
	hasher := NewSHA256Hasher()

	t.Run("same content produces same hash", func(t *testing.T) {
		content := []byte(`{"name": "VFX Default"}`)
		if hasher.HashBytes(content) != hasher.HashBytes(append([]byte(nil), content...)) {
			t.Error("identical content produced different hashes")
		}
	})

	t.Run("different content has different hashes", func(t *testing.T) {
		if hasher.HashBytes([]byte("content A")) == hasher.HashBytes([]byte("content B")) {
			t.Error("different content produced same hash")
		}
	})

	t.Run("empty content", func(t *testing.T) {
		// SHA-256 of empty string is a known value
		expectedEmptyHash := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
		if got := hasher.HashBytes(nil); got != expectedEmptyHash {
			t.Errorf("empty hash incorrect: got %s, want %s", got, expectedEmptyHash)
		}
	})
}

func TestFakeHasher(t *testing.T) {
	hasher := NewFakeHasher()

	t.Run("returns default hash for unknown content", func(t *testing.T) {
		if got := hasher.HashBytes([]byte("anything")); got != "fakehash" {
			t.Errorf("expected default hash 'fakehash', got: %s", got)
		}
	})

	t.Run("returns configured hash for known content", func(t *testing.T) {
		hasher.SetHash("abc", "custom-hash-123")
		if got := hasher.HashBytes([]byte("abc")); got != "custom-hash-123" {
			t.Errorf("expected custom-hash-123, got: %s", got)
		}
	})
}
