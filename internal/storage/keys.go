package storage

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/wdg-platform/filestore/internal/utils"
)

// Zone selects the root prefix under which generated keys live.
type Zone string

const (
	ZoneTemp      Zone = "temps"
	ZonePermanent Zone = "uploaded"
)

const storedNameTokenBytes = 9

// KeyBuilder constructs collision-safe object keys. It performs no I/O; the
// time and token sources are injectable so key generation is deterministic
// under test.
type KeyBuilder struct {
	now   func() time.Time
	token func(n int) (string, error)
}

func NewKeyBuilder() *KeyBuilder {
	return &KeyBuilder{
		now:   time.Now,
		token: utils.GenerateSecureToken,
	}
}

// NewKeyBuilderWithSources is for tests that need reproducible names.
func NewKeyBuilderWithSources(now func() time.Time, token func(n int) (string, error)) *KeyBuilder {
	return &KeyBuilder{now: now, token: token}
}

// StoredFileName derives a unique stored name from the original one,
// preserving its extension: "<base>-<timestamp><token><ext>".
func (b *KeyBuilder) StoredFileName(originalFileName string) (string, error) {
	tok, err := b.token(storedNameTokenBytes)
	if err != nil {
		return "", fmt.Errorf("generate name token: %w", err)
	}
	ext := path.Ext(originalFileName)
	base := strings.TrimSuffix(path.Base(originalFileName), ext)
	stamp := b.now().UTC().Format("20060102150405")
	return fmt.Sprintf("%s-%s%s%s", base, stamp, tok, ext), nil
}

// BuildKey returns the full object key for a file in the given zone along
// with the stored name it generated:
// "<zone>/<tenant>/<module>/<stored-name>".
func (b *KeyBuilder) BuildKey(zone Zone, tenant, module, originalFileName string) (key string, storedName string, err error) {
	storedName, err = b.StoredFileName(originalFileName)
	if err != nil {
		return "", "", err
	}
	return JoinPath(string(zone), tenant, module, storedName), storedName, nil
}

// JoinPath joins key segments with exactly one separator between them, no
// matter how many slashes the callers left on either end. Empty segments are
// skipped.
func JoinPath(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s == "" {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "/")
}

// ZonePrefix returns "<zone>/<tenant>/<module>/", the prefix promotion
// operates under.
func ZonePrefix(zone Zone, tenant, module string) string {
	return JoinPath(string(zone), tenant, module) + "/"
}

// PermanentKeyFor rewrites a staging-zone key into its permanent-zone
// counterpart by swapping the root prefix. Keys not rooted in the staging
// zone are rejected.
func PermanentKeyFor(tempKey string) (string, error) {
	trimmed := strings.TrimPrefix(tempKey, string(ZoneTemp)+"/")
	if trimmed == tempKey {
		return "", fmt.Errorf("key %q is not rooted in the %s zone", tempKey, ZoneTemp)
	}
	return JoinPath(string(ZonePermanent), trimmed), nil
}

// LastSegment returns the final path element of an object key.
func LastSegment(key string) string {
	return path.Base(strings.TrimRight(key, "/"))
}
