package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/markusressel/altreg/internal/controller"
	"github.com/markusressel/altreg/internal/events"
	"github.com/markusressel/altreg/internal/persistence"
	"github.com/markusressel/altreg/internal/regulator"
	"github.com/markusressel/altreg/internal/store"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	urlParamField    = "field"
	indentationChar  = "  "
	metricsSubsystem = "api"
)

type (
	Result struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}

	// Dependencies are the components exposed by the REST API.
	Dependencies struct {
		Store      *store.Store
		Machine    *regulator.Machine
		Controller *controller.Controller
		// Sender delivers button events to the state machine
		Sender events.Sender
		// Persistence is optional, operator settings are not stored if nil
		Persistence persistence.Persistence

		// Registerer and Gatherer default to the global prometheus registry
		Registerer prometheus.Registerer
		Gatherer   prometheus.Gatherer
	}
)

func CreateRestService(deps Dependencies) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	echoRest := echo.New()
	echoRest.HideBanner = true

	// Root level middleware
	echoRest.Pre(middleware.AddTrailingSlash())

	echoRest.Use(middleware.Secure())
	echoRest.Use(middleware.Recover())
	echoRest.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "altreg",
		Subsystem:  metricsSubsystem,
		Registerer: deps.Registerer,
	}))

	echoRest.GET("/alive/", isAlive)
	echoRest.GET("/metrics/", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: deps.Gatherer,
	}))

	registerTelemetryEndpoints(echoRest, deps)
	registerRegulatorEndpoints(echoRest, deps)
	registerBatteryEndpoints(echoRest, deps)

	return echoRest
}

// returns an empty "ok" answer
func isAlive(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// return a "not found" message
func returnNotFound(c echo.Context, id string) (err error) {
	return c.JSONPretty(http.StatusNotFound, &Result{
		Name:    "Not found",
		Message: "No item with id '" + id + "' found",
	}, indentationChar)
}

// return a "bad request" message
func returnBadRequest(c echo.Context, e error) (err error) {
	return c.JSONPretty(http.StatusBadRequest, &Result{
		Name:    "Bad Request",
		Message: e.Error(),
	}, indentationChar)
}

// return the error message of an error
func returnError(c echo.Context, e error) (err error) {
	return c.JSONPretty(http.StatusInternalServerError, &Result{
		Name:    "Unknown Error",
		Message: e.Error(),
	}, indentationChar)
}
