package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/altreg/internal/controller"
	"github.com/markusressel/altreg/internal/events"
	"github.com/markusressel/altreg/internal/regulator"
	"github.com/markusressel/altreg/internal/ui"
	"github.com/qdm12/reprint"
)

type (
	RegulatorResponse struct {
		State      string           `json:"state"`
		Mode       string           `json:"mode"`
		Controller controller.State `json:"controller"`
		Stats      regulator.Stats  `json:"stats"`
	}

	ButtonRequest struct {
		Button string `json:"button"`
		Count  int    `json:"count"`
	}

	DeratingRequest struct {
		Factor *float64 `json:"factor"`
	}
)

func registerRegulatorEndpoints(rest *echo.Echo, deps Dependencies) {
	group := rest.Group("/regulator")

	group.GET("/", func(c echo.Context) error {
		data := reprint.This(RegulatorResponse{
			State:      deps.Machine.State().String(),
			Mode:       deps.Store.Mode.Get(),
			Controller: deps.Controller.State(),
			Stats:      deps.Machine.Stats(),
		})
		return c.JSONPretty(http.StatusOK, data, indentationChar)
	})

	group.POST("/button/", func(c echo.Context) error {
		var request ButtonRequest
		if err := c.Bind(&request); err != nil {
			return returnBadRequest(c, err)
		}
		kind, err := events.ParseButtonKind(request.Button)
		if err != nil {
			return returnBadRequest(c, err)
		}
		count := request.Count
		if count < 1 {
			count = 1
		}

		event := events.Button{Kind: kind, Count: count}
		// waits while the event bus is full
		if err := deps.Sender.Send(c.Request().Context(), event); err != nil {
			return returnError(c, err)
		}
		ui.Debug("Remote button press: %s", event)
		return c.NoContent(http.StatusAccepted)
	})

	group.PUT("/derating/", func(c echo.Context) error {
		var request DeratingRequest
		if err := c.Bind(&request); err != nil {
			return returnBadRequest(c, err)
		}
		if request.Factor == nil {
			return returnBadRequest(c, errors.New("missing factor"))
		}
		if err := deps.Controller.SetDeratingFactor(*request.Factor); err != nil {
			return returnBadRequest(c, err)
		}
		if deps.Persistence != nil {
			if err := deps.Persistence.SaveDeratingFactor(*request.Factor); err != nil {
				ui.Warning("Unable to persist derating factor: %v", err)
			}
		}
		return c.JSONPretty(http.StatusOK, deps.Controller.State(), indentationChar)
	})
}
