package covers

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// Identity is the book identity a cover is keyed on. Title and author are
// used verbatim, exactly as they appear in the reading list: two rows that
// differ only in case or whitespace get different keys on purpose.
type Identity struct {
	Title  string
	Author string
	ISBN   string
}

// CacheKey derives the deterministic cache key for an identity.
//
// When an ISBN is present the key is the ISBN reduced to its digits, so
// "978-0-441-01359-3" and `="9780441013593"` land on the same file. Without
// an ISBN the key is the first 16 hex characters of md5("{title}-{author}").
// The truncation width is fixed for compatibility with existing cache
// directories.
func CacheKey(id Identity) string {
	if isbn := digitsOnly(id.ISBN); isbn != "" {
		return isbn
	}
	sum := md5.Sum([]byte(fmt.Sprintf("%s-%s", id.Title, id.Author)))
	return hex.EncodeToString(sum[:])[:16]
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
