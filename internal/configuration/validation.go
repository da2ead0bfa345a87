package configuration

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slices"
)

// reserved 7-bit I2C addresses (general call, CBUS, high speed, 10-bit prefixes)
var reservedBusAddresses = []BusAddress{
	0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
	0x78, 0x79, 0x7a, 0x7b, 0x7c, 0x7d, 0x7e, 0x7f,
}

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	if config.EventBusSize <= 0 {
		return fmt.Errorf("eventBusSize must be > 0, was %d", config.EventBusSize)
	}

	validators := []func(*Configuration) error{
		validateRegulator,
		validateRpm,
		validatePps,
		validateTemperature,
		validateOutputs,
	}
	for _, validator := range validators {
		if err := validator(config); err != nil {
			return err
		}
	}
	return nil
}

func validateRegulator(config *Configuration) error {
	c := config.Regulator
	if c.MaxFieldCurrent <= 0 {
		return fmt.Errorf("regulator: maxFieldCurrent must be > 0, was %v", c.MaxFieldCurrent)
	}
	if c.MaxFieldVoltage <= 0 {
		return fmt.Errorf("regulator: maxFieldVoltage must be > 0, was %v", c.MaxFieldVoltage)
	}
	if c.IdleFieldCurrent < 0 || c.IdleFieldCurrent > c.MaxFieldCurrent {
		return fmt.Errorf("regulator: idleFieldCurrent must be in [0, maxFieldCurrent], was %v", c.IdleFieldCurrent)
	}
	if c.TargetStep <= 0 || c.TargetStep > 1 {
		return fmt.Errorf("regulator: targetStep must be in (0, 1], was %v", c.TargetStep)
	}
	if err := validateRate("regulator: controlTickRate", c.ControlTickRate); err != nil {
		return err
	}

	table := c.RpmTable
	if table.Min <= 0 {
		return fmt.Errorf("regulator: rpmTable.min must be > 0, was %v", table.Min)
	}
	if table.Min >= table.Max {
		return fmt.Errorf("regulator: rpmTable.min (%v) must be lower than rpmTable.max (%v)", table.Min, table.Max)
	}
	if table.Step <= 0 {
		return fmt.Errorf("regulator: rpmTable.step must be > 0, was %v", table.Step)
	}
	return nil
}

func validateRpm(config *Configuration) error {
	c := config.Rpm

	subConfigs := 0
	if c.File != nil {
		subConfigs++
	}
	if c.Can != nil {
		subConfigs++
	}
	if subConfigs > 1 {
		return errors.New("rpm: only one rpm source can be used")
	}
	if subConfigs <= 0 {
		return errors.New("rpm: source configuration is missing, use one of: file | can")
	}

	if c.LowThreshold <= 0 {
		return fmt.Errorf("rpm: lowThreshold must be > 0, was %v", c.LowThreshold)
	}
	if err := validateHysteresis("rpm", c.Hysteresis); err != nil {
		return err
	}
	if err := validateRate("rpm: pollingRate", c.PollingRate); err != nil {
		return err
	}

	if c.File != nil {
		if c.File.Path == "" {
			return errors.New("rpm: file.path is missing")
		}
		if c.PolePairs <= 0 {
			return fmt.Errorf("rpm: polePairs must be > 0, was %d", c.PolePairs)
		}
		if c.PulleyRatio <= 0 {
			return fmt.Errorf("rpm: pulleyRatio must be > 0, was %v", c.PulleyRatio)
		}
	}

	if c.Can != nil {
		if c.Can.Device == "" {
			return errors.New("rpm: can.device is missing")
		}
		// the speed is a 16 bit value within an 8 byte frame
		if c.Can.Offset < 0 || c.Can.Offset > 6 {
			return fmt.Errorf("rpm: can.offset must be in [0, 6], was %d", c.Can.Offset)
		}
		if c.Can.Scale <= 0 {
			return fmt.Errorf("rpm: can.scale must be > 0, was %v", c.Can.Scale)
		}
	}
	return nil
}

func validatePps(config *Configuration) error {
	c := config.Pps
	if c.Bus == "" {
		return errors.New("pps: bus is missing")
	}
	if c.Address > 0x7f {
		return fmt.Errorf("pps: address %s is not a 7-bit address", c.Address)
	}
	if slices.Contains(reservedBusAddresses, c.Address) {
		return fmt.Errorf("pps: address %s is reserved", c.Address)
	}
	if err := validateRate("pps: pollingRate", c.PollingRate); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("pps: timeout must not be negative, was %s", c.Timeout)
	}
	if c.BusTimeout < 0 {
		return fmt.Errorf("pps: busTimeout must not be negative, was %s", c.BusTimeout)
	}
	return nil
}

func validateTemperature(config *Configuration) error {
	c := config.Temperature

	if c.HwMon != nil && c.File != nil {
		return errors.New("temperature: only one temperature source can be used")
	}
	if !c.Enabled {
		return nil
	}
	if c.HwMon == nil && c.File == nil {
		return errors.New("temperature: source configuration is missing, use one of: hwmon | file")
	}
	if c.HwMon != nil && c.HwMon.Index <= 0 {
		return errors.New("temperature: invalid hwmon index, must be >= 1")
	}
	if c.File != nil && c.File.Path == "" {
		return errors.New("temperature: file.path is missing")
	}

	if err := validateRate("temperature: pollingRate", c.PollingRate); err != nil {
		return err
	}
	if err := validateHysteresis("temperature", c.Hysteresis); err != nil {
		return err
	}
	if c.Warning >= c.Overheated {
		return fmt.Errorf("temperature: warning (%v) must be lower than overheated (%v)", c.Warning, c.Overheated)
	}
	if err := validateFactor("temperature: derating.warning", c.Derating.Warning); err != nil {
		return err
	}
	return validateFactor("temperature: derating.overheated", c.Derating.Overheated)
}

func validateOutputs(config *Configuration) error {
	if config.Api.Enabled {
		if err := validatePort("api", config.Api.Port); err != nil {
			return err
		}
	}
	if config.Statistics.Enabled {
		if err := validatePort("statistics", config.Statistics.Port); err != nil {
			return err
		}
	}
	if config.Redis.Enabled {
		if config.Redis.Addr == "" {
			return errors.New("redis: addr is missing")
		}
		if err := validateRate("redis: publishRate", config.Redis.PublishRate); err != nil {
			return err
		}
	}
	if config.Status.Path != "" {
		if err := validateRate("status: rate", config.Status.Rate); err != nil {
			return err
		}
	}
	return nil
}

func validateRate(name string, rate time.Duration) error {
	if rate <= 0 {
		return fmt.Errorf("%s must be > 0, was %s", name, rate)
	}
	return nil
}

func validateHysteresis(name string, hysteresis float64) error {
	if hysteresis < 0 || hysteresis >= 1 {
		return fmt.Errorf("%s: hysteresis must be in [0, 1), was %v", name, hysteresis)
	}
	return nil
}

func validateFactor(name string, factor float64) error {
	if factor < 0 || factor > 1 {
		return fmt.Errorf("%s must be in [0, 1], was %v", name, factor)
	}
	return nil
}

func validatePort(name string, port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("%s: invalid port %d", name, port)
	}
	return nil
}
