package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/yukikurage/project-management-api/internal/views"
)

var csvHeader = []string{
	"Section",
	"Project ID",
	"Project Name", "Status", "Archived", "Due Date", "Created At", "Updated At",
	"Created By (Name)", "Created By (Email)", "Created By (Role)",
	"Updated By (Name)", "Updated By (Email)", "Updated By (Role)",
	"User Name", "User Email", "User Role",
	"Task Name", "Task Status", "Assigned Users",
}

// Column offsets into csvHeader.
const (
	colSection = iota
	colProjectID
	colProjectName
	colStatus
	colArchived
	colDueDate
	colCreatedAt
	colUpdatedAt
	colCreatedByName
	colCreatedByEmail
	colCreatedByRole
	colUpdatedByName
	colUpdatedByEmail
	colUpdatedByRole
	colUserName
	colUserEmail
	colUserRole
	colTaskName
	colTaskStatus
	colTaskAssignees
)

// CSVExporter writes one row per section: project details, creator,
// updater, then one row per member and per task. Columns a section does not
// use are left empty.
type CSVExporter struct{}

// NewCSVExporter creates a new CSVExporter
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

func (e *CSVExporter) ContentType() string   { return "text/csv; charset=utf-8" }
func (e *CSVExporter) FileExtension() string { return FormatCSV }

// Export writes projects as CSV to w.
func (e *CSVExporter) Export(w io.Writer, projects []views.ProjectView) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for i := range projects {
		for _, row := range projectRows(&projects[i]) {
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func projectRows(p *views.ProjectView) [][]string {
	newRow := func(section string) []string {
		row := make([]string, len(csvHeader))
		row[colSection] = section
		row[colProjectID] = p.ID
		return row
	}

	details := newRow("Project Details")
	details[colProjectName] = orNA(p.Name)
	details[colStatus] = itoa(p.Status)
	details[colArchived] = strconv.FormatBool(p.Archived)
	details[colDueDate] = formatDate(p.DueDate)
	details[colCreatedAt] = formatDate(p.CreatedAt)
	details[colUpdatedAt] = formatDate(p.UpdatedAt)

	creator := newRow("Created By")
	creator[colCreatedByName] = orNA(p.CreatedBy.Name)
	creator[colCreatedByEmail] = orNA(p.CreatedBy.Email)
	creator[colCreatedByRole] = orNA(string(p.CreatedBy.Role))

	updater := newRow("Updated By")
	updater[colUpdatedByName], updater[colUpdatedByEmail], updater[colUpdatedByRole] = updaterFields(p)

	rows := [][]string{details, creator, updater}

	for i, u := range p.Users {
		row := newRow("User " + itoa(i+1))
		row[colUserName] = orNA(u.Name)
		row[colUserEmail] = orNA(u.Email)
		row[colUserRole] = orNA(string(u.Role))
		rows = append(rows, row)
	}

	for i, t := range p.Tasks {
		row := newRow("Task " + itoa(i+1))
		row[colTaskName] = orNA(t.Name)
		row[colTaskStatus] = itoa(t.Status)
		row[colTaskAssignees] = assigneeList(t.Assignees)
		rows = append(rows, row)
	}

	return rows
}
