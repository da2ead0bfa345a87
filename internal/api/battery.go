package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// BatteryRequest is a battery monitor reading. Omitted values are left untouched.
type BatteryRequest struct {
	Current *float64 `json:"current"`
	Voltage *float64 `json:"voltage"`
	Soc     *float64 `json:"soc"`
}

func registerBatteryEndpoints(rest *echo.Echo, deps Dependencies) {
	rest.POST("/battery/", func(c echo.Context) error {
		var request BatteryRequest
		if err := c.Bind(&request); err != nil {
			return returnBadRequest(c, err)
		}
		if request.Current == nil && request.Voltage == nil && request.Soc == nil {
			return returnBadRequest(c, errors.New("no battery values given"))
		}

		t := deps.Store.Telemetry
		if request.Current != nil {
			t.BatCurrent.Store(*request.Current)
		}
		if request.Voltage != nil {
			t.BatVoltage.Store(*request.Voltage)
		}
		if request.Soc != nil {
			t.BatSoc.Store(*request.Soc)
		}
		t.UpdateBleRate(time.Now())

		return c.NoContent(http.StatusNoContent)
	})
}
