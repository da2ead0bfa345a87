package configuration

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// BusAddress is a 7-bit bus address. It accepts integers and "0x35" style strings.
type BusAddress uint16

func (a BusAddress) String() string {
	return fmt.Sprintf("0x%02x", uint16(a))
}

// ParseBusAddress parses a decimal, hex ("0x") or octal ("0o") address.
func ParseBusAddress(text string) (BusAddress, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(text), 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid bus address %q: %w", text, err)
	}
	return BusAddress(value), nil
}

// DecodeHook returns the decode hooks used to unmarshal the configuration.
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		BusAddressHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// BusAddressHookFunc returns a mapstructure decode hook function for BusAddress.
func BusAddressHookFunc() mapstructure.DecodeHookFuncType {
	addressType := reflect.TypeOf(BusAddress(0))

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{}) (interface{}, error) {

		if t != addressType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return ParseBusAddress(v)
		case int:
			if v < 0 || v > 0xffff {
				return nil, fmt.Errorf("invalid bus address %d", v)
			}
			return BusAddress(v), nil
		case int64:
			if v < 0 || v > 0xffff {
				return nil, fmt.Errorf("invalid bus address %d", v)
			}
			return BusAddress(v), nil
		case float64:
			if v < 0 || v > 0xffff || v != float64(int(v)) {
				return nil, fmt.Errorf("invalid bus address %v", v)
			}
			return BusAddress(v), nil
		}
		return data, nil
	}
}
