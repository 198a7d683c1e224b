// Package category defines report content types and their storage directories.
package category

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ContentType classifies a report. It determines the subdirectory of the
// reports root the report file lives in.
type ContentType string

const (
	YouTube ContentType = "youtube"
	Article ContentType = "article"
	Paper   ContentType = "paper"
	Other   ContentType = "other"
)

var dirs = map[ContentType]string{
	YouTube: "youtube",
	Article: "articles",
	Paper:   "papers",
	Other:   "other",
}

// All returns every content type in directory scan order.
func All() []ContentType {
	return []ContentType{YouTube, Article, Paper, Other}
}

// Dir returns the subdirectory name that holds reports of this type.
func (t ContentType) Dir() string {
	return dirs[t]
}

// Valid reports whether t is a known content type.
func (t ContentType) Valid() bool {
	_, ok := dirs[t]
	return ok
}

func (t ContentType) String() string {
	return string(t)
}

// Parse accepts either a content type name or its directory name.
func Parse(value string) (ContentType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if t := ContentType(normalized); t.Valid() {
		return t, nil
	}
	if t, ok := FromDir(normalized); ok {
		return t, nil
	}
	return "", fmt.Errorf("invalid content type: %q (valid values: youtube, article, paper, other)", value)
}

// FromDir maps a reports subdirectory name back to its content type.
func FromDir(name string) (ContentType, bool) {
	for t, dir := range dirs {
		if dir == name {
			return t, true
		}
	}
	return "", false
}

// Resolve determines the content type of a file from the first path element
// below root. Files outside root or outside a content-type directory yield false.
func Resolve(root, path string) (ContentType, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || strings.HasPrefix(rel, "../") || rel == ".." {
		return "", false
	}
	first, _, found := strings.Cut(rel, "/")
	if !found {
		return "", false
	}
	return FromDir(first)
}
