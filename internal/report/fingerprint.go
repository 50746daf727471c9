// Package report renders an analysis Report to the supported output
// formats. The core only promises a stable Report value; everything about
// bytes on disk lives here.
package report

import (
	"encoding/hex"
	"fmt"

	"github.com/minio/highwayhash"

	"solvet.dev/pkg/solvet/internal/model"
)

// fingerprintKey is the fixed highwayhash key. Changing it invalidates
// every stored fingerprint, so it is part of the /v1 contract.
var fingerprintKey = []byte("solvet.fingerprint.v1...padding.")

// Fingerprint computes the stable dedupe key for one finding. The snippet
// keeps the key stable across pure line-number shifts elsewhere in the
// file while still distinguishing repeated patterns on different lines.
func Fingerprint(f model.Finding) string {
	payload := fmt.Sprintf("%s|%s|%d|%s",
		f.DetectorID, f.Location.File, f.Location.Line, f.Location.Snippet)

	sum := highwayhash.Sum64([]byte(payload), fingerprintKey)

	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(sum >> (56 - 8*i))
	}

	return hex.EncodeToString(buf[:])
}

// StampFingerprints fills in the fingerprint of every finding in place.
// Called once after the report is sorted, before rendering.
func StampFingerprints(r *model.Report) {
	for i := range r.Findings {
		r.Findings[i].Fingerprint = Fingerprint(r.Findings[i])
	}
}
