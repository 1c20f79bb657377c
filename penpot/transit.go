package penpot

import (
	"strings"
)

// The backend speaks a tagged-dictionary encoding over json
// ("transit+json"): dictionary keys carry a `~:` keyword marker and
// identifier values carry a `~u` uuid marker. Only the subset the
// update-file command needs is implemented here.

const keywordMarker = "~:"
const uuidMarker = "~u"

// identifier-carrying fields whose string values always get the uuid
// marker, even short synthetic test ids. The backend keys these
// structurally, not by shape-sniffing the string.
var uuidFields = map[string]bool{
	"id":       true,
	"pageId":   true,
	"frameId":  true,
	"parentId": true,
	"obj-id":   true,
}

// fields whose string values become keywords
var keywordValueFields = map[string]bool{
	"type": true,
	"attr": true,
}

// structural type names inside rich-text content trees that the
// backend requires as plain strings. A backend quirk, not a rule to
// extend.
var textContentTypes = map[string]bool{
	"root":          true,
	"paragraph-set": true,
	"paragraph":     true,
}

// EncodeChanges converts a change batch to the tagged wire encoding.
// Pure and idempotent: already-tagged keys and values pass through
// unchanged.
func EncodeChanges(changes []Change) []map[string]any {
	encoded := make([]map[string]any, len(changes))
	for i, change := range changes {
		encoded[i] = encodeDict(change)
	}
	return encoded
}

func encodeDict(obj map[string]any) map[string]any {
	encoded := map[string]any{}
	for key, value := range obj {
		encoded[encodeKey(key)] = encodeValue(bareKey(key), value)
	}
	return encoded
}

func encodeKey(key string) string {
	if strings.HasPrefix(key, keywordMarker) {
		return key
	}
	return keywordMarker + key
}

func bareKey(key string) string {
	return strings.TrimPrefix(key, keywordMarker)
}

func encodeValue(key string, value any) any {
	switch v := value.(type) {
	case map[string]any:
		return encodeDict(v)
	case Change:
		return encodeDict(v)
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = encodeValue(key, item)
		}
		return items
	case []map[string]any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = encodeDict(item)
		}
		return items
	case []string:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = encodeValue(key, item)
		}
		return items
	case string:
		if uuidFields[key] {
			if strings.HasPrefix(v, uuidMarker) {
				return v
			}
			return uuidMarker + v
		}
		if keywordValueFields[key] && !textContentTypes[v] {
			if strings.HasPrefix(v, keywordMarker) {
				return v
			}
			return keywordMarker + v
		}
		// names, text, content structure types stay plain strings
		return v
	default:
		// numbers, booleans, nil pass through
		return value
	}
}

// NormalizeResponse strips the wire markers from a decoded response so
// nothing tagged leaks past the client boundary. Keys lose the `~:`
// marker, string values lose the `~u` marker, nested structures are
// walked uniformly.
func NormalizeResponse(data any) any {
	switch v := data.(type) {
	case map[string]any:
		normalized := map[string]any{}
		for key, value := range v {
			normalized[bareKey(key)] = NormalizeResponse(value)
		}
		return normalized
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = NormalizeResponse(item)
		}
		return items
	case string:
		return strings.TrimPrefix(v, uuidMarker)
	default:
		return data
	}
}

// transitDictFromArray decodes the array map encoding
// ["^ ", k1, v1, k2, v2, ...] some endpoints respond with.
func transitDictFromArray(data []any) map[string]any {
	dict := map[string]any{}
	if len(data) == 0 {
		return dict
	}
	i := 0
	if marker, ok := data[0].(string); ok && marker == "^ " {
		i = 1
	}
	for ; i+1 < len(data); i += 2 {
		key, ok := data[i].(string)
		if !ok {
			continue
		}
		dict[key] = data[i+1]
	}
	return dict
}
