package rpm

// Source delivers raw engine speed samples in revolutions per minute.
type Source interface {
	// Read returns the current engine speed. NaN means no value is available yet.
	Read() (float64, error)
}
