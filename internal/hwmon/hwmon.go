package hwmon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/md14454/gosensors"
)

const (
	BusTypeIsa  = 1
	BusTypePci  = 2
	BusTypeAcpi = 5
)

// TempInput is a temperature input of a hwmon chip.
type TempInput struct {
	Label string `json:"label"`
	// Index is the 1-based position among the temperature inputs of the chip
	Index int    `json:"index"`
	Input string `json:"input"`
	Max   int    `json:"max"`
	Min   int    `json:"min"`
	Value float64
}

type Chip struct {
	Name       string
	Platform   string
	Path       string
	TempInputs []*TempInput
}

var platformRegex = regexp.MustCompile(`/platform/([^/]+)/`)

// GetChips returns all chips libsensors detects that have at least one temperature input.
func GetChips() []*Chip {
	gosensors.Init()
	defer gosensors.Cleanup()
	chips := gosensors.GetDetectedChips()

	var list []*Chip
	for i := 0; i < len(chips); i++ {
		chip := chips[i]

		identifier := computeIdentifier(chip)
		platform := findPlatform(chip.Path)
		if len(platform) <= 0 {
			platform = identifier
		}

		inputs := getTempInputs(chip)
		if len(inputs) <= 0 {
			continue
		}

		list = append(list, &Chip{
			Name:       identifier,
			Platform:   platform,
			Path:       chip.Path,
			TempInputs: inputs,
		})
	}

	return list
}

// FindTempInput returns the input with the given index on the first chip whose
// platform matches the platform regex.
func FindTempInput(chips []*Chip, platform string, index int) (*TempInput, error) {
	expr, err := regexp.Compile(platform)
	if err != nil {
		return nil, fmt.Errorf("invalid platform pattern %q: %w", platform, err)
	}

	for _, chip := range chips {
		if !expr.MatchString(chip.Platform) {
			continue
		}
		for _, input := range chip.TempInputs {
			if input.Index == index {
				return input, nil
			}
		}
	}
	return nil, errors.New("no hwmon temperature input matched platform " + platform)
}

func getTempInputs(chip gosensors.Chip) []*TempInput {
	var result []*TempInput

	features := chip.GetFeatures()
	for j := 0; j < len(features); j++ {
		feature := features[j]
		if feature.Type != gosensors.FeatureTypeTemp {
			continue
		}

		subfeatures := feature.GetSubFeatures()
		inputSubFeature, ok := getSubFeature(subfeatures, gosensors.SubFeatureTypeTempInput)
		if !ok {
			continue
		}

		max := -1
		if maxSubFeature, ok := getSubFeature(subfeatures, gosensors.SubFeatureTypeTempMax); ok {
			max = int(maxSubFeature.GetValue())
		}
		min := -1
		if minSubFeature, ok := getSubFeature(subfeatures, gosensors.SubFeatureTypeTempMin); ok {
			min = int(minSubFeature.GetValue())
		}

		result = append(result, &TempInput{
			Label: getLabel(chip.Path, inputSubFeature.Name),
			Index: len(result) + 1,
			Input: fmt.Sprintf("%s/%s", chip.Path, inputSubFeature.Name),
			Max:   max,
			Min:   min,
			Value: inputSubFeature.GetValue(),
		})
	}

	return result
}

func getSubFeature(subfeatures []gosensors.SubFeature, kind gosensors.SubFeatureType) (gosensors.SubFeature, bool) {
	for _, a := range subfeatures {
		if a.Type == kind {
			return a, true
		}
	}
	return gosensors.SubFeature{}, false
}

// getLabel read the label of a in/output of a device
func getLabel(devicePath string, input string) string {
	labelPath := strings.TrimSuffix(devicePath+"/"+input, "input") + "label"

	content, _ := os.ReadFile(labelPath)
	label := string(content)
	if len(label) <= 0 {
		_, label = filepath.Split(devicePath)
	}
	return strings.TrimSpace(label)
}

func getDeviceName(devicePath string) string {
	content, _ := os.ReadFile(devicePath + "/name")
	return strings.TrimSpace(string(content))
}

func computeIdentifier(chip gosensors.Chip) (name string) {
	name = chip.Prefix

	devicePath := chip.Path
	if len(name) <= 0 {
		name = getDeviceName(devicePath)
	}
	if len(name) <= 0 {
		_, name = filepath.Split(devicePath)
	}

	switch chip.Bus.Type {
	case BusTypeIsa:
		return fmt.Sprintf("%s-isa-%d%03x", name, chip.Bus.Nr, chip.Addr)
	case BusTypePci:
		return fmt.Sprintf("%s-pci-%d%03x", name, chip.Bus.Nr, chip.Addr)
	case BusTypeAcpi:
		return fmt.Sprintf("%s-acpi-%d", name, chip.Bus.Nr)
	default:
		return name
	}
}

func findPlatform(devicePath string) string {
	match := platformRegex.FindStringSubmatch(devicePath)
	if len(match) < 2 {
		return ""
	}
	return match[1]
}
