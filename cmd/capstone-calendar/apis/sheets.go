package apis

import (
	"capstone-calendar-backend/cmd/capstone-calendar/apperr"
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
)

const maxWorkbookSize = 10 << 20

type IRowPreviewer interface {
	PreviewRow(req model.PreviewRequest) (*model.PreviewResult, error)
}

type IWorkbookImporter interface {
	ImportWorkbook(ctx context.Context, userID, sheetID, tabName string, r io.Reader) (*model.ImportReport, error)
}

type SheetsAPI struct {
	previewer IRowPreviewer
	importer  IWorkbookImporter
}

func NewSheetsAPI(previewer IRowPreviewer, importer IWorkbookImporter) *SheetsAPI {
	return &SheetsAPI{
		previewer: previewer,
		importer:  importer,
	}
}

func (a *SheetsAPI) Setup(g *echo.Group) {
	g.POST("/sheets/preview", a.preview)
	g.POST("/sheets/import", a.importWorkbook)
}

func (a *SheetsAPI) preview(c echo.Context) error {

	var req model.PreviewRequest
	if err := bind(c, &req); err != nil {
		return errorResponse(c, err)
	}

	result, err := a.previewer.PreviewRow(req)
	if err != nil {
		return errorResponse(c, err)
	}

	return success(c, result)
}

func (a *SheetsAPI) importWorkbook(c echo.Context) error {

	ctx := c.Request().Context()

	sheetID := c.FormValue("sheetId")
	tabName := c.FormValue("tabName")

	file, err := c.FormFile("file")
	if err != nil {
		return errorResponse(c, apperr.Validation("file is required"))
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".xlsx") {
		return errorResponse(c, apperr.Validation("only .xlsx files are supported"))
	}
	if file.Size > maxWorkbookSize {
		return errorResponse(c, apperr.Validation("file is larger than 10MB"))
	}

	f, err := file.Open()
	if err != nil {
		return errorResponse(c, apperr.Validation(err.Error()))
	}
	defer f.Close()

	report, err := a.importer.ImportWorkbook(ctx, currentUserID(c), sheetID, tabName, f)
	if err != nil {
		return errorResponse(c, err)
	}

	return success(c, report)
}
