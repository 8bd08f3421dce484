package repository

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// OutputNamer derives output file names: prefix + base name without
// extension + suffix + "." + extension.
type OutputNamer struct {
	Prefix    string
	Suffix    string
	Extension string
}

// Name returns the output name for an input location. For URLs and blob
// references the last path segment is used.
func (n OutputNamer) Name(location string) string {
	return n.Prefix + stem(location) + n.Suffix + "." + n.Extension
}

func stem(location string) string {
	base := ""
	if strings.Contains(location, "://") {
		if u, err := url.Parse(location); err == nil {
			base = path.Base(u.Path)
		}
	} else {
		base = filepath.Base(strings.ReplaceAll(location, `\`, "/"))
	}

	if base == "" || base == "." || base == "/" {
		return "image"
	}
	return strings.TrimSuffix(base, path.Ext(base))
}
