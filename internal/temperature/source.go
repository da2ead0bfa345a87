package temperature

import (
	"os/user"
	"path/filepath"
	"strings"

	"github.com/markusressel/altreg/internal/hwmon"
	"github.com/markusressel/altreg/internal/util"
)

// Source delivers temperature samples in degrees Celsius.
type Source interface {
	Read() (float64, error)
}

// FileSource reads a file holding milli-degrees Celsius, the hwmon convention.
type FileSource struct {
	Path string
}

func NewFileSource(path string) (*FileSource, error) {
	// resolve home dir path
	if strings.HasPrefix(path, "~") {
		currentUser, err := user.Current()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(currentUser.HomeDir, path[1:])
	}
	return &FileSource{Path: path}, nil
}

// NewHwmonSource looks up a temperature input of a hwmon chip.
func NewHwmonSource(platform string, index int) (*FileSource, error) {
	input, err := hwmon.FindTempInput(hwmon.GetChips(), platform, index)
	if err != nil {
		return nil, err
	}
	return &FileSource{Path: input.Input}, nil
}

func (s *FileSource) Read() (float64, error) {
	milliDegrees, err := util.ReadFloatFromFile(s.Path)
	if err != nil {
		return 0, err
	}
	return milliDegrees / 1000, nil
}
