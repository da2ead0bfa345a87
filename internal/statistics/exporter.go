package statistics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "altreg"

// Register adds all collectors to registerer, stopping at the first failure.
func Register(registerer prometheus.Registerer, collectors ...prometheus.Collector) error {
	for _, collector := range collectors {
		if err := registerer.Register(collector); err != nil {
			return fmt.Errorf("unable to register %T: %w", collector, err)
		}
	}
	return nil
}
