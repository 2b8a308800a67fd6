package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/pfetrack/core/project"
)

type projectApi struct {
	svc      *project.Service
	validate *validator.Validate
}

func registerProjectAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *project.Service, validate *validator.Validate) {
	api := projectApi{svc: svc, validate: validate}

	pg := g.Group("/projects", jwt)

	pg.GET("", api.query, supervisorMiddleware())
	pg.POST("", api.create, headMiddleware())
	pg.GET("/me", api.retrieveMine)
	pg.GET("/:id", api.retrieve)

	pg.PUT("/:id/milestones", api.setMilestone)
	pg.POST("/:id/request-validation", api.requestValidation)
	pg.POST("/:id/complete", api.complete, supervisorMiddleware())
	pg.POST("/:id/sign", api.sign, supervisorMiddleware())
	pg.POST("/:id/sign-head", api.signHead, headMiddleware())

	pg.POST("/:id/journal", api.addJournalEntry)
	pg.POST("/:id/documents", api.addDocument)
	pg.DELETE("/:id/documents/:docID", api.removeDocument)
}

// Handlers

func (api *projectApi) query(ctx echo.Context) error {
	projects, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying projects")
	}
	return ctx.JSON(http.StatusOK, projects)
}

func (api *projectApi) create(ctx echo.Context) error {
	var data project.NewProject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProject")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	proj, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating project")
	}
	return ctx.JSON(http.StatusCreated, proj)
}

// retrieveMine returns the requesting student's project.
func (api *projectApi) retrieveMine(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	proj, err := api.svc.GetByStudent(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "finding project by student")
	}
	return ctx.JSON(http.StatusOK, proj)
}

func (api *projectApi) retrieve(ctx echo.Context) error {
	proj, err := api.getAllowedProject(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, proj)
}

func (api *projectApi) setMilestone(ctx echo.Context) error {
	proj, err := api.getAllowedProject(ctx)
	if err != nil {
		return err
	}

	var data MilestoneUpdateRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MilestoneUpdateRequest")
	}
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	proj, err = api.svc.SetMilestoneCompletion(proj.ID, data.Track, data.Milestone, data.Completion)
	if err != nil {
		return errors.Wrap(err, "setting milestone completion")
	}
	return ctx.JSON(http.StatusOK, proj)
}

func (api *projectApi) requestValidation(ctx echo.Context) error {
	proj, err := api.getAllowedProject(ctx)
	if err != nil {
		return err
	}
	proj, err = api.svc.RequestValidation(proj.ID)
	if err != nil {
		return errors.Wrap(err, "requesting validation")
	}
	return ctx.JSON(http.StatusOK, proj)
}

func (api *projectApi) complete(ctx echo.Context) error {
	proj, err := api.svc.Complete(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "completing project")
	}
	return ctx.JSON(http.StatusOK, proj)
}

func (api *projectApi) sign(ctx echo.Context) error {
	var data SignRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SignRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	proj, err := api.svc.SignBySupervisor(ctx.Param("id"), data.Signature, data.Stamp)
	if err != nil {
		return errors.Wrap(err, "signing project")
	}
	return ctx.JSON(http.StatusOK, proj)
}

func (api *projectApi) signHead(ctx echo.Context) error {
	var data SignRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SignRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	proj, err := api.svc.SignByHead(ctx.Param("id"), data.Signature, data.Stamp)
	if err != nil {
		return errors.Wrap(err, "signing project as head")
	}
	return ctx.JSON(http.StatusOK, proj)
}

func (api *projectApi) addJournalEntry(ctx echo.Context) error {
	proj, err := api.getAllowedProject(ctx)
	if err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	author := project.AuthorSupervisor
	if claims.IsStudent {
		author = project.AuthorStudent
	}

	var data JournalEntryRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to JournalEntryRequest")
	}
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	proj, err = api.svc.AddJournalEntry(proj.ID, author, data.Text)
	if err != nil {
		return errors.Wrap(err, "adding journal entry")
	}
	return ctx.JSON(http.StatusCreated, proj)
}

func (api *projectApi) addDocument(ctx echo.Context) error {
	proj, err := api.getAllowedProject(ctx)
	if err != nil {
		return err
	}

	var data project.NewDocument
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDocument")
	}
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	doc, err := api.svc.AddDocument(proj.ID, data)
	if err != nil {
		return errors.Wrap(err, "adding document")
	}
	return ctx.JSON(http.StatusCreated, doc)
}

func (api *projectApi) removeDocument(ctx echo.Context) error {
	proj, err := api.getAllowedProject(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.RemoveDocument(proj.ID, ctx.Param("docID")); err != nil {
		return errors.Wrap(err, "removing document")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// getAllowedProject loads the addressed project and enforces ownership:
// students may only touch their own project, supervisors any.
func (api *projectApi) getAllowedProject(ctx echo.Context) (project.Project, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return project.Project{}, errors.Wrap(err, "getting context claims")
	}

	proj, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return project.Project{}, errors.Wrap(err, "finding project by ID")
	}
	if !claims.IsSupervisor && proj.StudentID != claims.Subject {
		return project.Project{}, errHttpNotFound
	}
	return proj, nil
}

type (
	MilestoneUpdateRequest struct {
		Track      string `json:"track" validate:"required"`
		Milestone  string `json:"milestone" validate:"required"`
		Completion int    `json:"completion" validate:"min=0,max=100"`
	}

	SignRequest struct {
		Signature string `json:"signature" validate:"required"`
		Stamp     string `json:"stamp" validate:"required"`
	}

	JournalEntryRequest struct {
		Text string `json:"text" validate:"required"`
	}
)
