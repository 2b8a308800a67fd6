package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/pfetrack/core/notification"
)

type notificationApi struct {
	svc      *notification.Service
	validate *validator.Validate
}

func registerNotificationAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *notification.Service, validate *validator.Validate) {
	api := notificationApi{svc: svc, validate: validate}

	ng := g.Group("/notifications", jwt)

	ng.GET("", api.query, supervisorMiddleware())
	ng.GET("/me", api.queryMine)
	ng.POST("", api.publish, supervisorMiddleware())
	ng.POST("/reminders", api.generateReminders)
	ng.POST("/:id/deactivate", api.deactivate, supervisorMiddleware())
	ng.DELETE("/:id", api.purge, supervisorMiddleware())
	ng.DELETE("", api.clearAll, headMiddleware())
}

// Handlers

func (api *notificationApi) query(ctx echo.Context) error {
	notifs, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying notifications")
	}
	return ctx.JSON(http.StatusOK, notifs)
}

func (api *notificationApi) queryMine(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	notifs, err := api.svc.QueryForStudent(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying notifications for student")
	}
	return ctx.JSON(http.StatusOK, notifs)
}

func (api *notificationApi) publish(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data PublishRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PublishRequest")
	}
	if err = api.validate.Struct(&data); err != nil {
		return err
	}

	notif, err := api.svc.Publish(notification.NewNotification{
		Message:   data.Message,
		Author:    claims.Username,
		Kind:      data.Kind,
		StudentID: data.StudentID,
	})
	if err != nil {
		return errors.Wrap(err, "publishing notification")
	}
	return ctx.JSON(http.StatusCreated, notif)
}

// generateReminders inserts checkpoint reminders for the requesting
// student from the posted checkpoint schedule. Repeat calls are
// idempotent within the reminder window.
func (api *notificationApi) generateReminders(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data RemindersRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RemindersRequest")
	}

	schedule := make([]notification.UpcomingCheckpoint, 0, len(data.Schedule))
	for _, cp := range data.Schedule {
		schedule = append(schedule, notification.UpcomingCheckpoint{Number: cp.Number, Date: cp.Date})
	}

	inserted, err := api.svc.GenerateCheckpointReminders(claims.Subject, schedule, time.Now())
	if err != nil {
		return errors.Wrap(err, "generating reminders")
	}
	return ctx.JSON(http.StatusOK, RemindersResponse{Inserted: inserted})
}

func (api *notificationApi) deactivate(ctx echo.Context) error {
	if err := api.svc.Deactivate(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deactivating notification")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *notificationApi) purge(ctx echo.Context) error {
	if err := api.svc.Purge(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "purging notification")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *notificationApi) clearAll(ctx echo.Context) error {
	if err := api.svc.ClearAll(); err != nil {
		return errors.Wrap(err, "clearing notifications")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type (
	PublishRequest struct {
		Message   string `json:"message" validate:"required"`
		Kind      string `json:"kind" validate:"required"`
		StudentID string `json:"student_id"`
	}

	RemindersRequest struct {
		Schedule []struct {
			Number int    `json:"number"`
			Date   string `json:"date"`
		} `json:"schedule"`
	}

	RemindersResponse struct {
		Inserted int `json:"inserted"`
	}
)
