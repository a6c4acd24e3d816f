// Package export renders assembled project views as downloadable documents.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/utils"
	"github.com/yukikurage/project-management-api/internal/views"
)

// Supported formats
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// Exporter writes project views in a document format.
type Exporter interface {
	ContentType() string
	FileExtension() string
	Export(w io.Writer, projects []views.ProjectView) error
}

// ForFormat returns the exporter for format, matched case-insensitively.
func ForFormat(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSV:
		return NewCSVExporter(), nil
	case FormatPDF:
		return NewPDFExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q: must be csv or pdf", format)
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return constants.NotAvailable
	}
	return s
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return constants.NotAvailable
	}
	return t.UTC().Format(utils.DateLayout)
}

func updaterFields(p *views.ProjectView) (name, email, role string) {
	if p.UpdatedBy == nil {
		return constants.NotAvailable, constants.NotAvailable, constants.NotAvailable
	}
	role = constants.NotAvailable
	if p.UpdatedBy.Role != nil {
		role = string(*p.UpdatedBy.Role)
	}
	return orNA(p.UpdatedBy.Name), orNA(p.UpdatedBy.Email), role
}

func assigneeList(names []string) string {
	if len(names) == 0 {
		return constants.NotAvailable
	}
	return strings.Join(names, ", ")
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
