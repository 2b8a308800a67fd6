package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/pfetrack/storage/kvrepos"
)

type backupApi struct {
	backup *kvrepos.Backup
}

func registerBackupAPI(g *echo.Group, jwt echo.MiddlewareFunc, backup *kvrepos.Backup) {
	api := backupApi{backup: backup}

	bg := g.Group("/backup", jwt, supervisorMiddleware())

	bg.GET("/export", api.export)
	bg.POST("/import", api.restore)
}

// Handlers

func (api *backupApi) export(ctx echo.Context) error {
	payload, err := api.backup.Export()
	if err != nil {
		return errors.Wrap(err, "exporting backup")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="pfetrack-backup.json"`)
	return ctx.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, []byte(payload))
}

// restore fails closed: a malformed payload writes nothing.
func (api *backupApi) restore(ctx echo.Context) error {
	var data ImportRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ImportRequest")
	}

	imported, err := api.backup.Import(data.Payload)
	if err != nil {
		return errors.Wrap(err, "importing backup")
	}
	if !imported {
		return ctx.JSON(http.StatusBadRequest, ImportResponse{Imported: false})
	}
	return ctx.JSON(http.StatusOK, ImportResponse{Imported: true})
}

type (
	ImportRequest struct {
		Payload string `json:"payload"`
	}

	ImportResponse struct {
		Imported bool `json:"imported"`
	}
)
