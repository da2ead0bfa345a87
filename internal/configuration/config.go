package configuration

import (
	"os"
	"strings"
	"time"

	"github.com/markusressel/altreg/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

type Configuration struct {
	DbPath string `json:"dbPath"`

	// Capacity of the event bus between the monitors and the regulator
	EventBusSize int `json:"eventBusSize"`

	Regulator   RegulatorConfig   `json:"regulator"`
	Rpm         RpmConfig         `json:"rpm"`
	Pps         PpsConfig         `json:"pps"`
	Temperature TemperatureConfig `json:"temperature"`

	Api        ApiConfig        `json:"api"`
	Statistics StatisticsConfig `json:"statistics"`
	Redis      RedisConfig      `json:"redis"`
	Status     StatusConfig     `json:"status"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("altreg")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/altreg/")
	}

	// ALTREG_PPS_BUS overrides pps.bus
	viper.SetEnvPrefix("altreg")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("dbPath", "/etc/altreg/altreg.db")
	viper.SetDefault("eventBusSize", 10)

	viper.SetDefault("regulator.maxFieldCurrent", 3.0)
	viper.SetDefault("regulator.maxFieldVoltage", 20.0)
	viper.SetDefault("regulator.idleFieldCurrent", 1.0)
	viper.SetDefault("regulator.targetStep", 0.05)
	viper.SetDefault("regulator.controlTickRate", 100*time.Millisecond)
	viper.SetDefault("regulator.rpmDerating", false)
	viper.SetDefault("regulator.rpmTable.min", 500.0)
	viper.SetDefault("regulator.rpmTable.max", 4500.0)
	viper.SetDefault("regulator.rpmTable.step", 100.0)

	viper.SetDefault("rpm.lowThreshold", 500.0)
	viper.SetDefault("rpm.hysteresis", 0.05)
	viper.SetDefault("rpm.pollingRate", 100*time.Millisecond)
	viper.SetDefault("rpm.polePairs", 6)
	viper.SetDefault("rpm.pulleyRatio", 53.7/128.2)

	viper.SetDefault("pps.bus", "/dev/i2c-0")
	viper.SetDefault("pps.address", 0x35)
	viper.SetDefault("pps.pollingRate", 500*time.Millisecond)
	viper.SetDefault("pps.timeout", 1500*time.Millisecond)
	viper.SetDefault("pps.busTimeout", 100*time.Millisecond)

	viper.SetDefault("temperature.enabled", false)
	viper.SetDefault("temperature.pollingRate", 1*time.Second)
	viper.SetDefault("temperature.warning", 90.0)
	viper.SetDefault("temperature.overheated", 105.0)
	viper.SetDefault("temperature.hysteresis", 0.05)
	viper.SetDefault("temperature.derating.enabled", false)
	viper.SetDefault("temperature.derating.warning", 0.5)
	viper.SetDefault("temperature.derating.overheated", 0.0)

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.host", "localhost")
	viper.SetDefault("api.port", 9001)

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9000)

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.key", "altreg")
	viper.SetDefault("redis.publishRate", 1*time.Second)

	viper.SetDefault("status.path", "")
	viper.SetDefault("status.rate", 1*time.Second)
}

// DetectAndReadConfigFile reads the config file and returns its path.
func DetectAndReadConfigFile() string {
	if err := viper.ReadInConfig(); err != nil {
		// config file is required, so we fail here
		ui.Fatal("Error reading config file, %s", err)
	}
	// this is only populated _after_ ReadInConfig()
	return viper.ConfigFileUsed()
}

func LoadConfig() {
	// load default configuration values
	err := viper.Unmarshal(&CurrentConfig, viper.DecodeHook(DecodeHook()))
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
}

// ReadConfigFileIfPresent reads the config file if one is found and returns its path.
// Without a config file the defaults are used.
func ReadConfigFileIfPresent() string {
	if err := viper.ReadInConfig(); err != nil {
		ui.Debug("No config file read, using defaults: %v", err)
		return ""
	}
	return viper.ConfigFileUsed()
}
