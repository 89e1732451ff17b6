package intake

import (
	"io"
	"strings"
)

// DocumentTypePrefix prefixes the form fields that override a file's
// category, e.g. documentType_scan01.pdf=passport.
const DocumentTypePrefix = "documentType_"

// File is one uploaded part. Field is the multipart field it arrived
// under and doubles as its category when no override is given.
type File struct {
	Field     string
	Name      string
	MediaType string
	Size      int64
	Open      func() (io.ReadCloser, error)
}

type Request struct {
	LinkID            string
	CounselorUsername string
	Files             []File
	// DocumentTypes maps an original file name to its category.
	DocumentTypes map[string]string
}

// category resolves the label for f: the per-file override when present,
// the field name otherwise.
func (r Request) category(f File) string {
	label := f.Field
	if override, ok := r.DocumentTypes[f.Name]; ok && strings.TrimSpace(override) != "" {
		label = override
	}
	return strings.ToLower(strings.TrimSpace(label))
}
