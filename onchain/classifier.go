package onchain

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"unicode/utf8"
)

const (
	// JSONDataURIPrefix marks token metadata embedded directly in the token URI.
	JSONDataURIPrefix = "data:application/json;base64,"

	base64Marker = "base64,"

	// ShortURILength is the number of characters of the raw token URI kept
	// in Result.ShortURI.
	ShortURILength = 64
)

// Classify inspects a raw token URI returned by a contract and decides
// where its metadata lives. It never fails: payloads that can't be decoded
// are reported as OffChain.
func Classify(tokenURI string) Result {
	t := OffChain
	if IsFullyOnChain(tokenURI) {
		t = FullyOnChain
	}
	return Result{
		ShortURI: ShortURI(tokenURI),
		Type:     t,
	}
}

// ShortURI returns at most the first ShortURILength characters of uri.
func ShortURI(uri string) string {
	if len(uri) <= ShortURILength {
		return uri
	}
	runes := []rune(uri)
	if len(runes) <= ShortURILength {
		return uri
	}
	return string(runes[:ShortURILength])
}

// IsFullyOnChain reports whether tokenURI carries base64 JSON metadata whose
// image is itself an inline base64 SVG document.
func IsFullyOnChain(tokenURI string) bool {
	_, encoded, found := strings.Cut(tokenURI, JSONDataURIPrefix)
	if !found {
		return false
	}
	decoded, ok := decodeBase64Text(encoded)
	if !ok {
		return false
	}
	metadata := map[string]any{}
	if err := json.Unmarshal([]byte(decoded), &metadata); err != nil {
		return false
	}
	image, _ := metadata["image"].(string)

	return !strings.HasPrefix(image, "http") &&
		strings.Contains(image, base64Marker) &&
		IsSVGImage(image)
}

// IsSVGImage reports whether the base64 payload following the first
// "base64," in data decodes to text containing an <svg> element.
func IsSVGImage(data string) bool {
	_, encoded, found := strings.Cut(data, base64Marker)
	if !found {
		return false
	}
	decoded, ok := decodeBase64Text(encoded)
	if !ok {
		return false
	}
	return strings.Contains(decoded, "<svg") && strings.Contains(decoded, "</svg>")
}

// decodeBase64Text decodes padded or unpadded standard base64 and requires
// the result to be valid UTF-8.
func decodeBase64Text(encoded string) (string, bool) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return "", false
		}
	}
	if !utf8.Valid(raw) {
		return "", false
	}
	return string(raw), true
}
