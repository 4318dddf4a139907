package schnorr

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/sr/bjj"
	"github.com/f3rmion/sr/digest"
	"github.com/f3rmion/sr/group"
	"github.com/f3rmion/sr/random"
	"github.com/f3rmion/sr/ristretto"
	"github.com/f3rmion/sr/secp256k1"
)

var update = flag.Bool("update", false, "rewrite golden files in testdata")

func groups() []group.Group {
	return []group.Group{ristretto.New(), &bjj.BJJ{}, secp256k1.New()}
}

func hashes() []digest.Backend {
	return []digest.Backend{digest.SHA512(), digest.Blake2b512(), digest.SHA3_512()}
}

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(opts...)
	require.NoError(t, err)
	return e
}

// forEachEngine runs fn against every combination of group and hash.
func forEachEngine(t *testing.T, fn func(t *testing.T, e *Engine)) {
	for _, g := range groups() {
		for _, h := range hashes() {
			t.Run(g.Name()+"/"+h.Name(), func(t *testing.T) {
				fn(t, newEngine(t, WithGroup(g), WithHash(h)))
			})
		}
	}
}

// monotonicSeed returns the bytes 0x01, 0x02, ..., 0x20.
func monotonicSeed() []byte {
	seed := make([]byte, SeedSize)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	return seed
}

func deterministic(b byte) random.Source {
	var seed [32]byte
	for i := range seed {
		seed[i] = b
	}
	return random.NewDeterministic(seed)
}

// golden compares got with testdata/<name>.golden. Run with -update to
// rewrite the vectors.
func golden(t *testing.T, name string, got []byte) {
	t.Helper()
	if *update {
		require.NoError(t, os.MkdirAll("testdata", 0o755))
		require.NoError(t, os.WriteFile(goldenPath(name), []byte(hex.EncodeToString(got)+"\n"), 0o644))
		t.Logf("recorded %s", goldenPath(name))
		return
	}
	want, err := loadGolden(name)
	require.NoError(t, err)
	assert.Equal(t, want, hex.EncodeToString(got))
}

func goldenPath(name string) string {
	return filepath.Join("testdata", name+".golden")
}

func loadGolden(name string) (string, error) {
	b, err := os.ReadFile(goldenPath(name))
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w; run go test -update to record it", err)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
