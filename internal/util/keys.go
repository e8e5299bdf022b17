package util

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// BundleKey is the storage key of a namespace's corpus bundle.
func BundleKey(namespace string) string {
	return "corpus:" + namespace + ":bundle"
}

// GenKey is the generation key of a namespace's loaded catalog.
func GenKey(namespace string) string {
	return "catalog:" + namespace
}

// Fingerprint returns a short, order-insensitive digest of weighted values,
// used to tell corpus revisions apart in logs.
func Fingerprint(values []string, weights []float64) string {
	rows := make([]string, len(values))
	for i, v := range values {
		w := 0.0
		if i < len(weights) {
			w = weights[i]
		}
		rows[i] = v + "=" + strconv.FormatFloat(w, 'g', -1, 64)
	}
	sort.Strings(rows)
	sum := sha256.Sum256([]byte(strings.Join(rows, "\n")))
	return hex.EncodeToString(sum[:8])
}
