package gateway

// Document is a generic JSON object returned by the repository. Field names
// vary across server versions, so consumers probe it rather than binding it
// to a fixed struct.
type Document = map[string]any

// StringField returns a top-level string field, or "" when absent or not a
// string.
func StringField(doc Document, key string) string {
	if doc == nil {
		return ""
	}
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}

// BoolField returns a top-level bool field, defaulting to false.
func BoolField(doc Document, key string) bool {
	if doc == nil {
		return false
	}
	if v, ok := doc[key].(bool); ok {
		return v
	}
	return false
}

// Items returns the "items" array of a container or search response, or nil.
func Items(doc Document) []Document {
	raw, ok := doc["items"].([]any)
	if !ok {
		return nil
	}
	items := make([]Document, 0, len(raw))
	for _, entry := range raw {
		if item, ok := entry.(map[string]any); ok {
			items = append(items, item)
		}
	}
	return items
}

// IsContainer reports whether a summary document describes an item that can
// hold children. Folderish flags are preferred; the type check covers
// servers that omit them.
func IsContainer(doc Document) bool {
	if BoolField(doc, "is_folderish") {
		return true
	}
	switch StringField(doc, "@type") {
	case "Folder", "Collection", "Plone Site":
		return true
	}
	return false
}
