package helpers

import (
	"path/filepath"
	"strings"
	"unicode"
)

var iconExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".svg":  true,
	".webp": true,
	".gif":  true,
}

// IsIconFile reports whether name has an image extension
func IsIconFile(name string) bool {
	return iconExtensions[strings.ToLower(filepath.Ext(name))]
}

// DisplayNameFromFilename derives a capability name from an icon file name:
// the extension is dropped, '-' and '_' become spaces and each word is
// title-cased. "bass-guitar.svg" becomes "Bass Guitar".
func DisplayNameFromFilename(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)

	words := strings.Fields(base)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
