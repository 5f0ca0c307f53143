package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/helha/gdpr-app/internal/dto"
	"github.com/helha/gdpr-app/internal/repository"
)

// requiredImportColumns must appear in the CSV header. phone is optional.
var requiredImportColumns = []string{"company_name", "email"}

// ImportCSV creates the companies listed in r. Rows that fail parsing or validation are reported
// and skipped. Rows whose name or email already exists, ignoring case, are counted as skipped.
func (s *CompanyService) ImportCSV(ctx context.Context, r io.Reader) (*dto.ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, invalid("file", "csv file is empty")
		}
		return nil, invalid("file", "unreadable csv header: %v", err)
	}
	index, err := importHeaderIndex(header)
	if err != nil {
		return nil, err
	}

	summary := &dto.ImportSummary{Errors: make([]dto.ImportRowError, 0)}
	reject := func(row int, message string) {
		summary.Skipped++
		summary.Errors = append(summary.Errors, dto.ImportRowError{Row: row, Message: message})
	}

	rowNum := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			summary.Total++
			reject(rowNum, "malformed csv row: "+parseErr.Err.Error())
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", rowNum, err)
		}
		if blankRow(row) {
			continue
		}
		summary.Total++

		req := dto.CompanyRequest{
			CompanyName: column(row, index, "company_name"),
			Email:       column(row, index, "email"),
		}
		if phone := column(row, index, "phone"); phone != "" {
			req.Phone = &phone
		}

		params, err := s.params(req)
		if err != nil {
			reject(rowNum, err.Error())
			continue
		}
		switch err := s.checkUnique(ctx, 0, params); {
		case errors.Is(err, repository.ErrCompanyNameDuplicate), errors.Is(err, repository.ErrCompanyEmailDuplicate):
			summary.Skipped++
			continue
		case err != nil:
			return nil, fmt.Errorf("import row %d: %w", rowNum, err)
		}

		inserted, err := s.repo.InsertIfMissing(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("import row %d: %w", rowNum, err)
		}
		if inserted {
			summary.Inserted++
		} else {
			summary.Skipped++
		}
	}

	s.log.Info().Int("total", summary.Total).Int("inserted", summary.Inserted).Int("skipped", summary.Skipped).
		Msg("company csv imported")
	return summary, nil
}

func importHeaderIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	missing := make([]string, 0)
	for _, required := range requiredImportColumns {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, invalid("file", "missing required columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

func column(row []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
