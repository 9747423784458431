package shopify

import (
	"encoding/base64"
	"strings"
)

const gidPrefix = "gid://"

// EncodeID converts a URI-style identifier ("gid://shopify/ProductVariant/123")
// into the opaque base64 token the storefront API expects in mutation input.
// Identifiers not in URI form are passed through unchanged.
func EncodeID(id string) string {
	if !strings.HasPrefix(id, gidPrefix) {
		return id
	}
	return base64.StdEncoding.EncodeToString([]byte(id))
}

// DecodeID reverses EncodeID: base64 tokens that decode to a URI-style
// identifier are returned in URI form, everything else unchanged.
func DecodeID(id string) string {
	if strings.HasPrefix(id, gidPrefix) {
		return id
	}
	decoded, err := base64.StdEncoding.DecodeString(id)
	if err != nil || !strings.HasPrefix(string(decoded), gidPrefix) {
		return id
	}
	return string(decoded)
}

// NumericID extracts the trailing numeric segment of a variant identifier,
// the form cart permalinks are built from. Accepts either URI-style or
// base64-encoded identifiers; anything without a URI form is returned as is.
func NumericID(id string) string {
	gid := DecodeID(id)
	if !strings.HasPrefix(gid, gidPrefix) {
		return id
	}
	seg := gid[strings.LastIndex(gid, "/")+1:]
	if i := strings.IndexByte(seg, '?'); i >= 0 {
		seg = seg[:i]
	}
	return seg
}
