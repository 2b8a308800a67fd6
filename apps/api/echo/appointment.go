package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/pfetrack/core/appointment"
	"github.com/trezcool/pfetrack/core/user"
)

type appointmentApi struct {
	svc      *appointment.Service
	usrSvc   *user.Service
	validate *validator.Validate
}

func registerAppointmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *appointment.Service, usrSvc *user.Service, validate *validator.Validate) {
	api := appointmentApi{svc: svc, usrSvc: usrSvc, validate: validate}

	ag := g.Group("/appointments", jwt)

	ag.GET("", api.query, supervisorMiddleware())
	ag.GET("/me", api.queryMine)
	ag.GET("/slots", api.querySlots)
	ag.POST("", api.book)
	ag.POST("/:id/postpone", api.postpone, supervisorMiddleware())
	ag.POST("/:id/accept", api.accept, supervisorMiddleware())
	ag.POST("/:id/cancel", api.cancel)
}

// Handlers

func (api *appointmentApi) query(ctx echo.Context) error {
	appts, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying appointments")
	}
	return ctx.JSON(http.StatusOK, appts)
}

func (api *appointmentApi) queryMine(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	appts, err := api.svc.QueryByStudent(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying appointments by student")
	}
	return ctx.JSON(http.StatusOK, appts)
}

func (api *appointmentApi) querySlots(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, appointment.TimeSlots)
}

// book creates the appointment on behalf of the requesting student; the
// student identity comes from the token, never the payload.
func (api *appointmentApi) book(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data BookingRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BookingRequest")
	}
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	appt, err := api.svc.Book(appointment.NewAppointment{
		StudentID:   usr.ID,
		StudentName: usr.Name,
		Date:        data.Date,
		TimeSlot:    data.TimeSlot,
		Reason:      data.Reason,
	})
	if err != nil {
		return errors.Wrap(err, "booking appointment")
	}
	return ctx.JSON(http.StatusCreated, appt)
}

func (api *appointmentApi) postpone(ctx echo.Context) error {
	var data appointment.Postponement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Postponement")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	appt, err := api.svc.Postpone(ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "postponing appointment")
	}
	return ctx.JSON(http.StatusOK, appt)
}

func (api *appointmentApi) accept(ctx echo.Context) error {
	appt, err := api.svc.Accept(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "accepting appointment")
	}
	return ctx.JSON(http.StatusOK, appt)
}

// cancel is open to both sides: a student may withdraw their own request,
// a supervisor may cancel any.
func (api *appointmentApi) cancel(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	appt, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding appointment by ID")
	}
	if !claims.IsSupervisor && appt.StudentID != claims.Subject {
		return errHttpNotFound
	}

	appt, err = api.svc.Cancel(appt.ID)
	if err != nil {
		return errors.Wrap(err, "cancelling appointment")
	}
	return ctx.JSON(http.StatusOK, appt)
}

type BookingRequest struct {
	Date     string `json:"date" validate:"required"`
	TimeSlot string `json:"time_slot" validate:"required,timeslot"`
	Reason   string `json:"reason"`
}
