package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/pfetrack/core/project"
	"github.com/trezcool/pfetrack/core/tracksheet"
)

type sheetApi struct {
	svc     *tracksheet.Service
	projSvc *project.Service
}

func registerSheetAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *tracksheet.Service, projSvc *project.Service) {
	api := sheetApi{svc: svc, projSvc: projSvc}

	fg := g.Group("/fiches", jwt)

	fg.GET("/:projectID", api.retrieve)
	fg.PUT("/:projectID/checkpoints/:number/student", api.saveStudentInput)
	fg.PUT("/:projectID/checkpoints/:number/supervisor", api.saveSupervisorInput, supervisorMiddleware())
	fg.POST("/:projectID/checkpoints/:number/stamp", api.applyStamp, supervisorMiddleware())
	fg.POST("/:projectID/checkpoints/:number/visa", api.setVisa, headMiddleware())
	fg.PUT("/:projectID/final", api.saveFinalEvaluation, supervisorMiddleware())
}

// Handlers

// retrieve returns the project's fiche de suivi, building the default
// six-checkpoint sheet on first access.
func (api *sheetApi) retrieve(ctx echo.Context) error {
	proj, err := api.getAllowedProject(ctx)
	if err != nil {
		return err
	}

	sheet, err := api.svc.GetOrCreate(proj.ID, proj.StudentName, proj.Supervisor, proj.Title)
	if err != nil {
		return errors.Wrap(err, "getting or creating sheet")
	}
	return ctx.JSON(http.StatusOK, sheet)
}

func (api *sheetApi) saveStudentInput(ctx echo.Context) error {
	proj, err := api.getAllowedProject(ctx)
	if err != nil {
		return err
	}
	number, err := checkpointNumber(ctx)
	if err != nil {
		return err
	}

	var data tracksheet.StudentInput
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StudentInput")
	}

	sheet, err := api.svc.SaveStudentInput(proj.ID, number, data)
	if err != nil {
		return errors.Wrap(err, "saving student input")
	}
	return ctx.JSON(http.StatusOK, sheet)
}

func (api *sheetApi) saveSupervisorInput(ctx echo.Context) error {
	number, err := checkpointNumber(ctx)
	if err != nil {
		return err
	}

	var data tracksheet.SupervisorInput
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SupervisorInput")
	}

	sheet, err := api.svc.SaveSupervisorInput(ctx.Param("projectID"), number, data)
	if err != nil {
		return errors.Wrap(err, "saving supervisor input")
	}
	return ctx.JSON(http.StatusOK, sheet)
}

func (api *sheetApi) applyStamp(ctx echo.Context) error {
	number, err := checkpointNumber(ctx)
	if err != nil {
		return err
	}

	sheet, err := api.svc.ApplyStamp(ctx.Param("projectID"), number)
	if err != nil {
		return errors.Wrap(err, "applying stamp")
	}
	return ctx.JSON(http.StatusOK, sheet)
}

func (api *sheetApi) setVisa(ctx echo.Context) error {
	number, err := checkpointNumber(ctx)
	if err != nil {
		return err
	}

	sheet, err := api.svc.SetDepartmentVisa(ctx.Param("projectID"), number)
	if err != nil {
		return errors.Wrap(err, "setting department visa")
	}
	return ctx.JSON(http.StatusOK, sheet)
}

func (api *sheetApi) saveFinalEvaluation(ctx echo.Context) error {
	var data tracksheet.FinalEvaluation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to FinalEvaluation")
	}

	sheet, err := api.svc.SaveFinalEvaluation(ctx.Param("projectID"), data)
	if err != nil {
		return errors.Wrap(err, "saving final evaluation")
	}
	return ctx.JSON(http.StatusOK, sheet)
}

func (api *sheetApi) getAllowedProject(ctx echo.Context) (project.Project, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return project.Project{}, errors.Wrap(err, "getting context claims")
	}

	proj, err := api.projSvc.GetByID(ctx.Param("projectID"))
	if err != nil {
		return project.Project{}, errors.Wrap(err, "finding project by ID")
	}
	if !claims.IsSupervisor && proj.StudentID != claims.Subject {
		return project.Project{}, errHttpNotFound
	}
	return proj, nil
}

func checkpointNumber(ctx echo.Context) (int, error) {
	number, err := strconv.Atoi(ctx.Param("number"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid checkpoint number")
	}
	return number, nil
}
