// Package fingerprint computes stable digests over install-step definitions.
// A unit's fingerprint changes exactly when its step content or order
// changes; it is insensitive to the unit's name and paths so the install
// state survives cosmetic manifest edits.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"

	"github.com/arthur-debert/jtd/pkg/types"
)

// Prefix identifies the digest algorithm in rendered fingerprints.
const Prefix = "sha256:"

// Steps returns the fingerprint of a unit's pre- and post-install step lists.
// Deterministic and order-sensitive. Each step is length-prefixed and tagged
// with its stage so moving a step between stages, or splitting one step into
// two, cannot produce the same digest.
func Steps(unit types.Dotfile) string {
	h := sha256.New()
	writeStage(h, "pre", unit.PreInstall)
	writeStage(h, "post", unit.PostInstall)
	return Prefix + hex.EncodeToString(h.Sum(nil))
}

// Aggregate digests the step lists of an entire selection, in order. The
// trust gate keys stored decisions on this value so any edit to any step in
// the selection forces a fresh decision.
func Aggregate(units []types.Dotfile) string {
	h := sha256.New()
	for _, unit := range units {
		writeStage(h, "pre", unit.PreInstall)
		writeStage(h, "post", unit.PostInstall)
	}
	return Prefix + hex.EncodeToString(h.Sum(nil))
}

// Content returns the fingerprint of raw file bytes, used to detect local
// edits to placed files.
func Content(data []byte) string {
	sum := sha256.Sum256(data)
	return Prefix + hex.EncodeToString(sum[:])
}

func writeStage(h hash.Hash, stage string, steps []string) {
	for _, step := range steps {
		fmt.Fprintf(h, "%s\x00%d\x00%s\x00", stage, len(step), step)
	}
}
