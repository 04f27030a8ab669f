package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments (or test
// runs) can share one Redis without seeing each other's entries.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(layoutID string) string {
	return k.prefix + k.inner.LayoutKey(layoutID)
}

// PublicLayoutsKey generates a prefixed public list key.
func (k *ScopedKeyer) PublicLayoutsKey() string {
	return k.prefix + k.inner.PublicLayoutsKey()
}

// OwnerLayoutsKey generates a prefixed owner list key.
func (k *ScopedKeyer) OwnerLayoutsKey(ownerID string) string {
	return k.prefix + k.inner.OwnerLayoutsKey(ownerID)
}
