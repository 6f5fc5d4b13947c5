/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"fmt"
	"net/url"
	"strings"
)

// CollectionLink builds the reference of a collection.
func CollectionLink(database, collection string) string {
	return fmt.Sprintf("/dbs/%s/colls/%s", database, collection)
}

// ParseCollectionLink splits a collection link into database and collection.
func ParseCollectionLink(link string) (database, collection string, err error) {
	parts := strings.Split(strings.Trim(link, "/"), "/")
	if len(parts) != 4 || parts[0] != "dbs" || parts[2] != "colls" || parts[1] == "" || parts[3] == "" {
		return "", "", fmt.Errorf("malformed collection link %q", link)
	}
	return parts[1], parts[3], nil
}

// SelfLink builds a document reference from its collection link and key values.
// Key values are path-escaped so they may contain slashes.
func SelfLink(collectionLink string, keys ...string) string {
	escaped := make([]string, len(keys))
	for i, k := range keys {
		escaped[i] = url.PathEscape(k)
	}
	return collectionLink + "/docs/" + strings.Join(escaped, "/")
}

// ParseSelfLink splits a document reference into its collection link and key values.
func ParseSelfLink(selfLink string) (collectionLink string, keys []string, err error) {
	idx := strings.Index(selfLink, "/docs/")
	if idx < 0 {
		return "", nil, fmt.Errorf("malformed self link %q", selfLink)
	}
	collectionLink = selfLink[:idx]
	if _, _, err := ParseCollectionLink(collectionLink); err != nil {
		return "", nil, fmt.Errorf("malformed self link %q: %w", selfLink, err)
	}

	for _, part := range strings.Split(selfLink[idx+len("/docs/"):], "/") {
		k, err := url.PathUnescape(part)
		if err != nil || k == "" {
			return "", nil, fmt.Errorf("malformed self link %q", selfLink)
		}
		keys = append(keys, k)
	}
	return collectionLink, keys, nil
}
