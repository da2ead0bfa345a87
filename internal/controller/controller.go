package controller

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/markusressel/altreg/internal/store"
	"github.com/markusressel/altreg/internal/ui"
	"github.com/markusressel/altreg/internal/util"
)

type Params struct {
	MaxFieldCurrent  float64
	MaxFieldVoltage  float64
	IdleFieldCurrent float64
	// RpmDerating scales the charging current with the rpm factor table
	RpmDerating bool
	Table       *RpmFactorTable
	TickRate    time.Duration
}

// State is a copy of the controller state.
type State struct {
	TargetFactor   float64 `json:"targetFactor"`
	DeratingFactor float64 `json:"deratingFactor"`
	IdleActive     bool    `json:"idleActive"`
	ChargingActive bool    `json:"chargingActive"`
	FieldCurrent   float64 `json:"fieldCurrent"`
}

// Controller turns the regulator state into a field current limit.
type Controller struct {
	params Params
	store  *store.Store

	mu             sync.Mutex
	targetFactor   float64
	deratingFactor float64
	idleActive     bool
	chargingActive bool
	fieldCurrent   float64
}

func New(s *store.Store, params Params) *Controller {
	return &Controller{
		params:         params,
		store:          s,
		deratingFactor: 1.0,
	}
}

// StartIdle excites the field with the idle current so the engine speed can be sensed.
func (c *Controller) StartIdle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.Setpoint.FieldVoltageLimit.Store(c.params.MaxFieldVoltage)
	c.store.Setpoint.Enable.Store(store.SetModeOn)
	c.idleActive = true
	c.chargingActive = false
	c.targetFactor = 0
}

// StartCharging adds the charging current on top of the idle current.
func (c *Controller) StartCharging() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.idleActive = true
	c.chargingActive = true
}

func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.idleActive = false
	c.chargingActive = false
	c.store.Setpoint.FieldVoltageLimit.Store(0)
	c.store.Setpoint.Enable.Store(store.SetModeOff)
}

// AdjustTargetFactor adds delta to the target factor, limited to [0, 1].
func (c *Controller) AdjustTargetFactor(delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.targetFactor = util.Coerce(c.targetFactor+delta, 0, 1)
}

func (c *Controller) SetDeratingFactor(factor float64) error {
	if math.IsNaN(factor) || factor < 0 || factor > 1 {
		return fmt.Errorf("derating factor must be within [0, 1], got %v", factor)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.deratingFactor = factor
	return nil
}

func (c *Controller) RpmFactor(rpm float64) float64 {
	if !c.params.RpmDerating || c.params.Table == nil {
		return 1.0
	}
	return c.params.Table.Factor(rpm)
}

// Update recomputes the field current limit and publishes it.
func (c *Controller) Update() float64 {
	rpmFactor := c.RpmFactor(c.store.Telemetry.Rpm.Load())

	c.mu.Lock()
	defer c.mu.Unlock()

	fieldCurrent := 0.0
	if c.idleActive {
		fieldCurrent += c.params.IdleFieldCurrent
	}
	if c.chargingActive {
		fieldCurrent += c.params.MaxFieldCurrent * rpmFactor * c.targetFactor * c.deratingFactor
	}
	c.fieldCurrent = fieldCurrent

	c.store.Setpoint.FieldCurrentLimit.Store(fieldCurrent)
	c.store.Telemetry.TargetFactor.Store(c.targetFactor)
	return fieldCurrent
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		TargetFactor:   c.targetFactor,
		DeratingFactor: c.deratingFactor,
		IdleActive:     c.idleActive,
		ChargingActive: c.chargingActive,
		FieldCurrent:   c.fieldCurrent,
	}
}

func (c *Controller) Run(ctx context.Context) error {
	ui.Info("Starting controller loop (tick rate %v)", c.params.TickRate)

	tick := time.NewTicker(c.params.TickRate)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
			c.Update()
		}
	}
}
