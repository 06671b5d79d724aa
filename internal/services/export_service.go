package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"protocol-system/internal/dto"
	apperrors "protocol-system/pkg/errors"
)

const exportSheet = "Documents"

var exportHeaders = []interface{}{
	"ID", "Number", "Name", "Type", "Sector", "Created by", "Created at", "Modified at",
	"History entries", "Last action", "Last action at", "Observations",
}

type DocumentLister interface {
	ListAllDocuments(ctx context.Context, since *time.Time) ([]dto.DocumentDTO, error)
}

type ExportServiceInterface interface {
	ExportDocuments(ctx context.Context, since *time.Time, w io.Writer) error
}

type ExportService struct {
	documents DocumentLister
	logger    *zap.Logger
}

func NewExportService(documents DocumentLister, logger *zap.Logger) *ExportService {
	return &ExportService{documents: documents, logger: logger}
}

// ExportDocuments writes an xlsx workbook with one row per document.
func (s *ExportService) ExportDocuments(ctx context.Context, since *time.Time, w io.Writer) error {
	docs, err := s.documents.ListAllDocuments(ctx, since)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return apperrors.Internal(err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return apperrors.Internal(err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(exportSheet, "A1", "L1", style)
	}

	for i, doc := range docs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return apperrors.Internal(err)
		}
		row := documentRow(doc)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return apperrors.Internal(err)
		}
	}
	_ = f.SetColWidth(exportSheet, "B", "C", 25)
	_ = f.SetColWidth(exportSheet, "G", "H", 20)
	_ = f.SetColWidth(exportSheet, "L", "L", 50)

	if err := f.Write(w); err != nil {
		s.logger.Error("failed to write export workbook", zap.Error(err))
		return apperrors.Internal(fmt.Errorf("write workbook: %w", err))
	}
	s.logger.Info("documents exported", zap.Int("rows", len(docs)))
	return nil
}

func documentRow(doc dto.DocumentDTO) []interface{} {
	var lastAction, lastActionAt, observations string
	if n := len(doc.History); n > 0 {
		lastAction = doc.History[n-1].Action
		lastActionAt = doc.History[n-1].DateTime
	}
	if doc.Observations != nil {
		observations = *doc.Observations
	}
	return []interface{}{
		doc.ID, doc.Number, doc.Name, doc.Type, doc.Sector, doc.CreatedBy, doc.CreatedAt, doc.ModifiedAt,
		len(doc.History), lastAction, lastActionAt, observations,
	}
}
