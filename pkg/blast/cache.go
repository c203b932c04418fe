package blast

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"strings"
)

// Key describes one product we might not have to build again. Src is
// the file it is made from, Files are what gets written and Params are
// the settings used.
type Key struct {
	Src    string
	Files  []string
	Params string
}

// Cache decides whether a product can be reused.
type Cache interface {
	Fresh(k Key) bool
	Commit(k Key) error
}

// ExistCache only looks at file names. If the files are there, they are
// used, even if they came from some other input. This is the cheap and
// traditional behaviour.
type ExistCache struct{}

// Fresh says whether all the files exist.
func (ExistCache) Fresh(k Key) bool {
	if len(k.Files) == 0 {
		return false
	}
	for _, f := range k.Files {
		if _, err := os.Stat(f); err != nil {
			return false
		}
	}
	return true
}

// Commit does nothing.
func (ExistCache) Commit(Key) error { return nil }

// StampSuffix is added to the first product file name to get the
// name of its stamp.
const StampSuffix = ".stamp"

// StampCache keeps a digest of the source contents and parameters next
// to each product. A product is only fresh if its stamp matches.
type StampCache struct{}

func stampName(k Key) string { return k.Files[0] + StampSuffix }

// digest hashes the source file and the parameters.
func digest(k Key) (string, error) {
	h := sha256.New()
	fp, err := os.Open(k.Src)
	if err != nil {
		return "", err
	}
	defer fp.Close()
	if _, err := io.Copy(h, fp); err != nil {
		return "", err
	}
	io.WriteString(h, "\x00"+k.Params)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Fresh says whether the files exist and were made from this source
// with these parameters.
func (StampCache) Fresh(k Key) bool {
	if !(ExistCache{}).Fresh(k) {
		return false
	}
	old, err := os.ReadFile(stampName(k))
	if err != nil {
		return false
	}
	d, err := digest(k)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(old)) == d
}

// Commit writes the stamp.
func (StampCache) Commit(k Key) error {
	d, err := digest(k)
	if err != nil {
		return err
	}
	return os.WriteFile(stampName(k), []byte(d+"\n"), 0o644)
}
