package store

import "strings"

func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func isDocumentPath(path string) bool {
	n := len(splitPath(path))
	return n > 0 && n%2 == 0
}

func isCollectionPath(path string) bool {
	return len(splitPath(path))%2 == 1
}
