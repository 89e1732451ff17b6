package lead

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"eduportal/internal/domain"
)

const exportSheet = "Leads"

var exportHeader = []interface{}{
	"ID", "Name", "Email", "Phone", "Country", "Program", "Source",
	"Status", "Counselor", "Counselor Name", "Last Contact", "Documents", "Created At",
}

// Export renders every lead, newest first, as an xlsx workbook.
func (s *Service) Export(ctx context.Context) (*bytes.Buffer, error) {
	leads, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(exportSheet, 1, 1, bold); err != nil {
		return nil, err
	}

	for i := range leads {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := exportRow(&leads[i])
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f.WriteToBuffer()
}

func exportRow(l *domain.Lead) []interface{} {
	created := ""
	if !l.CreatedAt.IsZero() {
		created = l.CreatedAt.UTC().Format("2006-01-02 15:04")
	}
	return []interface{}{
		l.View().ID,
		l.Name,
		l.Email,
		l.Phone,
		l.Country,
		l.Program,
		l.Source,
		l.Status,
		l.Counselor,
		l.CounselorName,
		l.LastContact,
		len(l.Documents),
		created,
	}
}
