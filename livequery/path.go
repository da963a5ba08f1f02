package livequery

import (
	"fmt"
	"strings"
)

// ValidateCollectionPath checks a slash-separated store path. Collections
// live at odd segment counts ("orders", "users/42/orders"); even counts name
// documents. Subscribing to a document path would silently match nothing, so
// it is rejected up front as a development error.
func ValidateCollectionPath(path string) error {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return fmt.Errorf("livequery: empty collection path")
	}

	segments := strings.Split(trimmed, "/")
	for _, s := range segments {
		if s == "" {
			return fmt.Errorf("livequery: collection path %q has an empty segment", path)
		}
	}
	if len(segments)%2 == 0 {
		return fmt.Errorf("livequery: path %q has %d segments and names a document, not a collection", path, len(segments))
	}
	return nil
}

// collectionName returns the leaf collection of a validated path. Parent
// document segments select the scope filter, not the mongo namespace.
func collectionName(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	return segments[len(segments)-1]
}
