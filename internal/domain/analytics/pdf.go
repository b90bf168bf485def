package analytics

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// pageBreakAt mirrors the print area of an A4 page in mm; rows past this
// cursor start a fresh page.
const pageBreakAt = 260.0

func renderReportPDF(report *Report) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Employee Analytics Report")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", report.Period))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employees: %d", report.Summary.TotalEmployees))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Tasks: %d (%d completed)", report.Summary.TotalTasks, report.Summary.CompletedTasks))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Hours worked: %.2f", report.Summary.TotalHoursWorked))
	pdf.Ln(12)

	writeEmployeeTableHeader(pdf)
	for _, row := range report.Employees {
		if pdf.GetY() > pageBreakAt {
			pdf.AddPage()
			writeEmployeeTableHeader(pdf)
		}
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(45, 7, row.Name)
		pdf.Cell(30, 7, subRoleLabel(row))
		pdf.Cell(25, 7, fmt.Sprintf("%d", row.Tasks.Total))
		pdf.Cell(25, 7, fmt.Sprintf("%d", row.Tasks.Completed))
		pdf.Cell(30, 7, fmt.Sprintf("%.2f", row.Attendance.TotalHoursWorked))
		pdf.Cell(25, 7, fmt.Sprintf("%d", row.Attendance.AttendanceDays))
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeEmployeeTableHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(45, 7, "Employee")
	pdf.Cell(30, 7, "Department")
	pdf.Cell(25, 7, "Tasks")
	pdf.Cell(25, 7, "Completed")
	pdf.Cell(30, 7, "Hours")
	pdf.Cell(25, 7, "Days")
	pdf.Ln(8)
}

func renderComprehensivePDF(report *ComprehensiveReport) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Comprehensive Analytics Report")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", report.Period))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employees: %d", report.Summary.TotalEmployees))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Tasks: %d (%d completed)", report.Summary.TotalTasks, report.Summary.CompletedTasks))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Cards: %d (%d completed)", report.Summary.TotalCards, report.Summary.CompletedCards))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Hours worked: %.2f, tracked on cards: %.2f",
		report.Summary.TotalHoursWorked, report.Summary.TotalTrackedHours))
	pdf.Ln(12)

	writeComprehensiveTableHeader(pdf)
	for _, row := range report.Employees {
		if pdf.GetY() > pageBreakAt {
			pdf.AddPage()
			writeComprehensiveTableHeader(pdf)
		}
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(40, 7, row.Name)
		pdf.Cell(28, 7, subRoleLabel(row.EmployeeReport))
		pdf.Cell(22, 7, fmt.Sprintf("%d/%d", row.Tasks.Completed, row.Tasks.Total))
		pdf.Cell(22, 7, fmt.Sprintf("%d/%d", row.Cards.Completed, row.Cards.Total))
		pdf.Cell(28, 7, fmt.Sprintf("%.2f", row.Cards.TotalHours))
		pdf.Cell(28, 7, fmt.Sprintf("%.2f", row.Attendance.TotalHoursWorked))
		pdf.Ln(7)
	}

	if len(report.Lists) > 0 {
		pdf.Ln(8)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, "Board Breakdown")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
		for _, list := range report.Lists {
			if pdf.GetY() > pageBreakAt {
				pdf.AddPage()
			}
			pdf.Cell(0, 7, fmt.Sprintf("%s: %d cards, %d completed, %d min tracked",
				list.ListTitle, list.TotalCards, list.Completed, list.TotalMinutes))
			pdf.Ln(6)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeComprehensiveTableHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(40, 7, "Employee")
	pdf.Cell(28, 7, "Department")
	pdf.Cell(22, 7, "Tasks")
	pdf.Cell(22, 7, "Cards")
	pdf.Cell(28, 7, "Tracked (h)")
	pdf.Cell(28, 7, "Worked (h)")
	pdf.Ln(8)
}

func subRoleLabel(row EmployeeReport) string {
	if row.SubRole == nil {
		return "Unassigned"
	}
	return string(*row.SubRole)
}
