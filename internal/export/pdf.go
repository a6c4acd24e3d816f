package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/yukikurage/project-management-api/internal/views"
)

const (
	pdfLineHeight = 7.0
	pdfFont       = "Helvetica"
)

// PDFExporter renders one A4 page per project.
type PDFExporter struct{}

// NewPDFExporter creates a new PDFExporter
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

func (e *PDFExporter) ContentType() string   { return "application/pdf" }
func (e *PDFExporter) FileExtension() string { return FormatPDF }

// Export writes projects as a PDF document to w.
func (e *PDFExporter) Export(w io.Writer, projects []views.ProjectView) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Project Details", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if len(projects) == 0 {
		pdf.AddPage()
		heading(pdf, tr, "No projects found")
	}

	for i := range projects {
		pdf.AddPage()
		writeProject(pdf, tr, &projects[i])
	}

	return pdf.Output(w)
}

func heading(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetFont(pdfFont, "B", 16)
	pdf.CellFormat(0, 10, tr(text), "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func section(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	pdf.Ln(3)
	pdf.SetFont(pdfFont, "B", 12)
	pdf.CellFormat(0, pdfLineHeight, tr(text), "B", 1, "L", false, 0, "")
	pdf.SetFont(pdfFont, "", 10)
}

func line(pdf *fpdf.Fpdf, tr func(string) string, format string, args ...interface{}) {
	pdf.MultiCell(0, pdfLineHeight, tr(fmt.Sprintf(format, args...)), "", "L", false)
}

func writeProject(pdf *fpdf.Fpdf, tr func(string) string, p *views.ProjectView) {
	heading(pdf, tr, "Project: "+orNA(p.Name))

	section(pdf, tr, "Project Details")
	line(pdf, tr, "ID: %s", p.ID)
	line(pdf, tr, "Status: %d", p.Status)
	line(pdf, tr, "Archived: %t", p.Archived)
	line(pdf, tr, "Due Date: %s", formatDate(p.DueDate))
	line(pdf, tr, "Created At: %s", formatDate(p.CreatedAt))
	line(pdf, tr, "Updated At: %s", formatDate(p.UpdatedAt))

	section(pdf, tr, "Created By")
	line(pdf, tr, "Name: %s", orNA(p.CreatedBy.Name))
	line(pdf, tr, "Email: %s", orNA(p.CreatedBy.Email))
	line(pdf, tr, "Role: %s", orNA(string(p.CreatedBy.Role)))

	name, email, role := updaterFields(p)
	section(pdf, tr, "Updated By")
	line(pdf, tr, "Name: %s", name)
	line(pdf, tr, "Email: %s", email)
	line(pdf, tr, "Role: %s", role)

	section(pdf, tr, "Users")
	if len(p.Users) == 0 {
		line(pdf, tr, "No users")
	}
	for i, u := range p.Users {
		line(pdf, tr, "%d. %s (%s) - Role: %s", i+1, orNA(u.Name), orNA(u.Email), orNA(string(u.Role)))
	}

	section(pdf, tr, "Tasks")
	if len(p.Tasks) == 0 {
		line(pdf, tr, "No tasks")
	}
	for i, t := range p.Tasks {
		line(pdf, tr, "%d. Task Name: %s, Status: %d, Users: %s", i+1, orNA(t.Name), t.Status, assigneeList(t.Assignees))
	}
}
