// internal/discover/walk.go
package discover

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Suffix selects source archives.
const Suffix = ".gz"

// Walk returns every regular file under root whose name ends in Suffix,
// sorted. The list is complete before the caller starts moving files, so
// archives relocated below root are not visited twice.
func Walk(root string, skip ...string) ([]string, error) {
	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		if s != "" {
			skipped[filepath.Clean(s)] = true
		}
	}
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipped[filepath.Clean(path)] {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && strings.HasSuffix(d.Name(), Suffix) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
