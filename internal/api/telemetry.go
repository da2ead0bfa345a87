package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/altreg/internal/store"
)

type (
	FieldValue struct {
		Field string        `json:"field"`
		Value store.Reading `json:"value"`
	}

	SetpointResponse struct {
		FieldCurrentLimit store.Reading `json:"fieldCurrentLimit"`
		FieldVoltageLimit store.Reading `json:"fieldVoltageLimit"`
		Enable            string        `json:"enable"`
		Contactor         bool          `json:"contactor"`
	}
)

func registerTelemetryEndpoints(rest *echo.Echo, deps Dependencies) {
	group := rest.Group("/telemetry")

	group.GET("/", func(c echo.Context) error {
		return c.JSONPretty(http.StatusOK, deps.Store.Snapshot(time.Now()), indentationChar)
	})
	group.GET("/:"+urlParamField+"/", func(c echo.Context) error {
		field := store.Field(c.Param(urlParamField))
		if !deps.Store.Has(field) {
			return returnNotFound(c, string(field))
		}
		return c.JSONPretty(http.StatusOK, &FieldValue{
			Field: string(field),
			Value: store.Reading(deps.Store.Read(field)),
		}, indentationChar)
	})

	rest.GET("/setpoint/", func(c echo.Context) error {
		sp := deps.Store.Setpoint
		return c.JSONPretty(http.StatusOK, &SetpointResponse{
			FieldCurrentLimit: store.Reading(sp.FieldCurrentLimit.Load()),
			FieldVoltageLimit: store.Reading(sp.FieldVoltageLimit.Load()),
			Enable:            sp.Enable.Load().String(),
			Contactor:         sp.Contactor.Load(),
		}, indentationChar)
	})
}
