package metadata

import (
	"fmt"
	"strings"
)

// Inspector reads document information from a PDF file.
type Inspector interface {
	Inspect(filePath string) (*DocumentInfo, error)
}

// DocumentInfo contains the descriptive fields of a PDF.
type DocumentInfo struct {
	Title      string
	Author     string
	Subject    string
	Keywords   string
	Creator    string
	Producer   string
	PageCount  int
	PDFVersion string
}

// IsEmpty reports whether no descriptive field is set. Producer is ignored:
// every writer stamps it.
func (d *DocumentInfo) IsEmpty() bool {
	return d.Title == "" && d.Author == "" && d.Subject == "" &&
		d.Keywords == "" && d.Creator == ""
}

// String returns a multi-line listing of the fields.
func (d *DocumentInfo) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title:       %s\n", d.Title)
	fmt.Fprintf(&b, "Author:      %s\n", d.Author)
	fmt.Fprintf(&b, "Subject:     %s\n", d.Subject)
	fmt.Fprintf(&b, "Keywords:    %s\n", d.Keywords)
	fmt.Fprintf(&b, "Creator:     %s\n", d.Creator)
	fmt.Fprintf(&b, "Producer:    %s\n", d.Producer)
	fmt.Fprintf(&b, "Pages:       %d\n", d.PageCount)
	fmt.Fprintf(&b, "PDF version: %s", d.PDFVersion)
	return b.String()
}
