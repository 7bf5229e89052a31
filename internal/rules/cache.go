package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"bashrs/internal/diag"
	"bashrs/internal/source"
)

// cacheSchemaVersion guards the on-disk payload shape; bumping it
// invalidates every existing entry without requiring a migration.
const cacheSchemaVersion uint16 = 1

// cachedDiagnostic is diag.Diagnostic's msgpack-friendly shape: spans are
// stored as line/col (portable across FileSets) rather than the FileID,
// which is only valid within one run.
type cachedDiagnostic struct {
	Severity   uint8
	Code       string
	Message    string
	StartLine  uint32
	StartCol   uint32
	EndLine    uint32
	EndCol     uint32
}

// cacheEntry is one on-disk cache record: keyed by the file's content hash
// and the active ruleset fingerprint, so edits to either invalidate it.
type cacheEntry struct {
	SchemaVersion   uint16
	ContentHash     [32]byte
	RulesetFingerprint string
	Diagnostics     []cachedDiagnostic
}

// Cache is a content-addressed, on-disk lint result cache. Deleting the
// cache directory never changes lint output, only speed: every entry is
// validated against the file's current content hash and the caller's
// ruleset fingerprint before being trusted.
type Cache struct {
	dir string
}

// OpenCache opens (creating if necessary) the on-disk cache directory,
// honoring XDG_CACHE_HOME the way the rest of the ecosystem does.
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("rules: resolve cache dir: %w", err)
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app, "lint")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("rules: create cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key [32]byte) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, hexKey[:2], hexKey+".mp")
}

// Get looks up a cached result for contentHash+fingerprint. A miss (entry
// absent, schema mismatch, hash/fingerprint mismatch, or corrupt payload)
// returns ok=false; corrupt is true only when the entry exists but cannot
// be opened or decoded, which the caller reports as CONFIG003 rather than
// treating as a hard failure.
func (c *Cache) Get(contentHash [32]byte, fingerprint string) (diags []cachedDiagnostic, ok bool, corrupt bool) {
	f, err := os.Open(c.pathFor(contentHash))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, false
		}
		return nil, false, true
	}
	defer f.Close()

	var entry cacheEntry
	if err := msgpack.NewDecoder(f).Decode(&entry); err != nil {
		return nil, false, true
	}
	if entry.SchemaVersion != cacheSchemaVersion || entry.ContentHash != contentHash || entry.RulesetFingerprint != fingerprint {
		return nil, false, false
	}
	return entry.Diagnostics, true, false
}

// Put stores diagnostics for contentHash+fingerprint, writing atomically
// (temp file in the same directory, then rename) so a concurrent reader
// never observes a partial write.
func (c *Cache) Put(contentHash [32]byte, fingerprint string, diags []cachedDiagnostic) error {
	entry := cacheEntry{
		SchemaVersion:      cacheSchemaVersion,
		ContentHash:        contentHash,
		RulesetFingerprint: fingerprint,
		Diagnostics:        diags,
	}
	path := c.pathFor(contentHash)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("rules: create cache subdir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "entry-*.tmp")
	if err != nil {
		return fmt.Errorf("rules: create temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := msgpack.NewEncoder(tmp).Encode(entry); err != nil {
		tmp.Close()
		return fmt.Errorf("rules: encode cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("rules: close temp cache file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// ContentHash hashes file content the same way source.FileSet does, so a
// cache key matches regardless of which FileSet instance loaded the file.
func ContentHash(content []byte) [32]byte {
	return sha256.Sum256(content)
}

// Lookup is Get plus rebasing: cached portable diagnostics come back as
// live diag.Diagnostic values addressed to fileID in the current run.
func (c *Cache) Lookup(fileID source.FileID, contentHash [32]byte, fingerprint string) (diags []diag.Diagnostic, ok bool, corrupt bool) {
	cached, ok, corrupt := c.Get(contentHash, fingerprint)
	if !ok {
		return nil, ok, corrupt
	}
	return rebase(fileID, cached), true, false
}

// Store is Put plus the inverse conversion from live diagnostics.
func (c *Cache) Store(fset *source.FileSet, contentHash [32]byte, fingerprint string, diags []diag.Diagnostic) error {
	return c.Put(contentHash, fingerprint, toCached(fset, diags))
}

// Fingerprint derives a stable identifier for an enabled rule set, used
// as half of the cache key so toggling rules invalidates prior entries.
func Fingerprint(enabled []Rule) string {
	h := sha256.New()
	for _, r := range enabled {
		h.Write([]byte(r.Code))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}

// toCached converts live diagnostics (valid only within the current
// FileSet) into their portable, line/col-addressed cache form.
func toCached(fset *source.FileSet, diags []diag.Diagnostic) []cachedDiagnostic {
	out := make([]cachedDiagnostic, len(diags))
	for i, d := range diags {
		sp := d.Primary
		out[i] = cachedDiagnostic{
			Severity:  uint8(d.Severity),
			Code:      d.Code.String(),
			Message:   d.Message,
			StartLine: sp.Start.Line,
			StartCol:  sp.Start.Col,
			EndLine:   sp.End.Line,
			EndCol:    sp.End.Col,
		}
	}
	return out
}

// rebase converts cached, portable diagnostics back into live diag.Diagnostic
// values addressed to fileID within the current FileSet/run.
func rebase(fileID source.FileID, cached []cachedDiagnostic) []diag.Diagnostic {
	out := make([]diag.Diagnostic, len(cached))
	for i, c := range cached {
		out[i] = diag.Diagnostic{
			Severity: diag.Severity(c.Severity),
			Code:     diag.Code(c.Code),
			Message:  c.Message,
			Primary: source.Span{
				File:  fileID,
				Start: source.Position{Line: c.StartLine, Col: c.StartCol},
				End:   source.Position{Line: c.EndLine, Col: c.EndCol},
			},
		}
	}
	return out
}
