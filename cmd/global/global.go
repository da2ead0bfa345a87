package global

var (
	CfgFile string
	NoColor bool
	NoStyle bool
	Verbose bool
	// Simulate replaces the power module bus with an in-process simulation
	Simulate bool
)
