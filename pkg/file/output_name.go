package file

import (
	"path/filepath"
	"strings"
)

// OutputName replaces the extension of filename with ext (".webp" style).
// Only a final ".xxx" suffix counts as an extension; dotfiles keep their name.
func OutputName(filename, ext string) string {
	base := filename
	if e := filepath.Ext(filename); e != "" && len(e) < len(filename) && !strings.HasSuffix(filename, "/"+e) {
		base = strings.TrimSuffix(filename, e)
	}
	return base + ext
}
