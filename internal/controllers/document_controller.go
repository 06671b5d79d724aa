package controllers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"protocol-system/internal/dto"
	"protocol-system/internal/entities"
	"protocol-system/internal/services"
	"protocol-system/pkg/api"
	"protocol-system/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DocumentController struct {
	documentService services.DocumentServiceInterface
	exportService   services.ExportServiceInterface
	logger          *zap.Logger
}

func NewDocumentController(
	documentService services.DocumentServiceInterface,
	exportService services.ExportServiceInterface,
	logger *zap.Logger,
) *DocumentController {
	return &DocumentController{
		documentService: documentService,
		exportService:   exportService,
		logger:          logger,
	}
}

func (ctrl *DocumentController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *DocumentController) CreateDocument(c echo.Context) error {
	identity, err := identityOf(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	var payload dto.CreateDocumentDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	doc, err := ctrl.documentService.CreateDocument(c.Request().Context(), identity, payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, doc, "Document registered", http.StatusCreated)
}

func (ctrl *DocumentController) SendDocuments(c echo.Context) error {
	identity, err := identityOf(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	var payload dto.SendDocumentsDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	if err := ctrl.documentService.SendDocuments(c.Request().Context(), identity, payload.DocumentIDs, payload.TargetSector); err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, nil, fmt.Sprintf("Documents sent to %s", payload.TargetSector), http.StatusOK)
}

func (ctrl *DocumentController) AcceptDocument(c echo.Context) error {
	identity, err := identityOf(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	doc, err := ctrl.documentService.AcceptDocument(c.Request().Context(), identity, id)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, doc, "Document accepted", http.StatusOK)
}

// AcceptDocuments answers 200 even when some documents failed; the body
// lists each failure.
func (ctrl *DocumentController) AcceptDocuments(c echo.Context) error {
	identity, err := identityOf(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	var payload dto.AcceptDocumentsDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	result, err := ctrl.documentService.AcceptDocuments(c.Request().Context(), identity, payload.DocumentIDs)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, result,
		fmt.Sprintf("%d accepted, %d failed", len(result.Accepted), len(result.Failed)), http.StatusOK)
}

func (ctrl *DocumentController) RejectDocument(c echo.Context) error {
	return ctrl.resolveMovement(c, ctrl.documentService.RejectDocument, "Document rejected")
}

func (ctrl *DocumentController) CancelDocument(c echo.Context) error {
	return ctrl.resolveMovement(c, ctrl.documentService.CancelDocument, "Sending cancelled")
}

type movementResolver func(ctx context.Context, identity entities.Identity, id uint64, description string) (*dto.DocumentDTO, error)

func (ctrl *DocumentController) resolveMovement(c echo.Context, resolve movementResolver, message string) error {
	identity, err := identityOf(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	var payload dto.ResolveMovementDTO
	if c.Request().ContentLength != 0 {
		if err := bindAndValidate(c, &payload); err != nil {
			return ctrl.errorResponse(c, err)
		}
	}

	doc, err := resolve(c.Request().Context(), identity, id, payload.Description.String)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, doc, message, http.StatusOK)
}

func (ctrl *DocumentController) EditDocument(c echo.Context) error {
	identity, err := identityOf(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	var payload dto.UpdateDocumentDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	doc, err := ctrl.documentService.EditDocument(c.Request().Context(), identity, id, payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, doc, "Document updated", http.StatusOK)
}

func (ctrl *DocumentController) RequestDocument(c echo.Context) error {
	identity, err := identityOf(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	var payload dto.RequestDocumentDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	if err := ctrl.documentService.RequestDocument(c.Request().Context(), identity, id, payload.Reason); err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, nil, "Document requested", http.StatusCreated)
}

func (ctrl *DocumentController) DeleteDocument(c echo.Context) error {
	identity, err := identityOf(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	if err := ctrl.documentService.DeleteDocument(c.Request().Context(), identity, id); err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, nil, "Document deleted", http.StatusOK)
}

func (ctrl *DocumentController) GetDocument(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	doc, err := ctrl.documentService.GetDocument(c.Request().Context(), id)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, doc, "Document found", http.StatusOK)
}

func (ctrl *DocumentController) Dashboard(c echo.Context) error {
	identity, err := identityOf(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	dashboard, err := ctrl.documentService.ListDocumentsForDashboard(c.Request().Context(), identity)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, dashboard, "Dashboard loaded", http.StatusOK)
}

func (ctrl *DocumentController) ListDocuments(c echo.Context) error {
	since, err := sinceParam(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	docs, err := ctrl.documentService.ListAllDocuments(c.Request().Context(), since)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return api.SuccessList(c, "Documents loaded", docs)
}

func (ctrl *DocumentController) ExportDocuments(c echo.Context) error {
	since, err := sinceParam(c)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	var buf bytes.Buffer
	if err := ctrl.exportService.ExportDocuments(c.Request().Context(), since, &buf); err != nil {
		return ctrl.errorResponse(c, err)
	}

	fileName := fmt.Sprintf("documents_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
