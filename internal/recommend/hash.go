// Curatarr - Personalized Plex Recommendations
// Copyright 2026 Curatarr contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/curatarr/curatarr

package recommend

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// ProfileHash fingerprints a profile for cache invalidation. The
// serialization is canonical: categories in fixed order, keys sorted,
// weights rounded to three decimals so float jitter from fold order does
// not change the fingerprint. Returns a 16-hex-character digest.
func ProfileHash(c *Counters) string {
	var b strings.Builder

	for _, cat := range c.weightedCategories() {
		b.WriteString(cat.Name)
		b.WriteByte('{')
		keys := make([]string, 0, len(cat.M))
		for k := range cat.M {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "%s=%.3f;", k, cat.M[k])
		}
		b.WriteByte('}')
	}

	b.WriteString("collections{")
	collIDs := make([]int, 0, len(c.Collections))
	for id := range c.Collections {
		collIDs = append(collIDs, id)
	}
	sort.Ints(collIDs)
	for _, id := range collIDs {
		fmt.Fprintf(&b, "%d=%.3f;", id, c.Collections[id])
	}
	b.WriteByte('}')

	b.WriteString("tmdb{")
	tmdbIDs := make([]int, 0, len(c.TMDBIDs))
	for id := range c.TMDBIDs {
		tmdbIDs = append(tmdbIDs, id)
	}
	sort.Ints(tmdbIDs)
	for _, id := range tmdbIDs {
		fmt.Fprintf(&b, "%d;", id)
	}
	b.WriteByte('}')

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])[:16]
}
