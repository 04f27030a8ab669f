package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// KeyVersion is bumped whenever cached document shapes change, so stale
// entries from older binaries are never decoded.
const KeyVersion = "v1"

// Keyer names cache entries.
type Keyer interface {
	// LayoutKey names a single layout document.
	LayoutKey(layoutID string) string

	// PublicLayoutsKey names the list of public layouts.
	PublicLayoutsKey() string

	// OwnerLayoutsKey names the list of layouts owned by a user.
	OwnerLayoutsKey(ownerID string) string
}

// DefaultKeyer produces keys of the form "layout:v1:<id>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) LayoutKey(layoutID string) string {
	return fmt.Sprintf("layout:%s:%s", KeyVersion, layoutID)
}

func (DefaultKeyer) PublicLayoutsKey() string {
	return fmt.Sprintf("layouts:%s:public", KeyVersion)
}

// OwnerLayoutsKey hashes the owner id, which may contain provider prefixes
// and other characters unsuitable for keys.
func (DefaultKeyer) OwnerLayoutsKey(ownerID string) string {
	return fmt.Sprintf("layouts:%s:owner:%s", KeyVersion, Hash([]byte(ownerID))[:16])
}

// Hash returns the hex SHA-256 of data. It turns arbitrary ids into
// key- and file-name-safe strings.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
