package element

// IdentityAttr is the attribute used to carry ephemeral identity
// markers in instrumented text.
const IdentityAttr = "data-domsync-id"

// voidTags are elements that never take a closing tag.
var voidTags = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoid reports whether tag is a void (self-closing) element name.
func IsVoid(tag string) bool {
	return voidTags[tag]
}

// excludedTags never receive identity markers.
var excludedTags = map[string]bool{
	"html":     true,
	"head":     true,
	"body":     true,
	"meta":     true,
	"title":    true,
	"script":   true,
	"style":    true,
	"link":     true,
	"base":     true,
	"noscript": true,
}

// Excluded reports whether tag is outside the set of identity-marked
// elements.
func Excluded(tag string) bool {
	return excludedTags[tag]
}
