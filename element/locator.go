package element

// Locator references an element either by its ephemeral identity or by
// a selector path. Identity is preferred; the path is the fallback when
// the identity misses or predates the current parse.
type Locator struct {
	Identity string
	Path     SelectorPath
}

// IsZero reports whether the locator carries no reference at all.
func (l Locator) IsZero() bool {
	return l.Identity == "" && len(l.Path) == 0
}
