package config

import (
	"fmt"
	"strconv"

	"github.com/kilianp07/ecmprep/core/model"
)

// HorizonConfig gives the modeling years either as an inclusive range or as
// an explicit list. Years wins when set.
type HorizonConfig struct {
	Start int      `json:"start"`
	End   int      `json:"end"`
	Years []string `json:"years"`
}

// Horizon returns the configured year labels.
func (c HorizonConfig) Horizon() model.Horizon {
	if len(c.Years) > 0 {
		return model.Horizon(c.Years)
	}
	return model.NewHorizon(c.Start, c.End)
}

// Validate rejects reversed ranges and non-numeric or unordered year lists.
func (c HorizonConfig) Validate() error {
	if len(c.Years) > 0 {
		prev := 0
		for i, y := range c.Years {
			v, err := strconv.Atoi(y)
			if err != nil {
				return fmt.Errorf("year %q is not numeric", y)
			}
			if i > 0 && v <= prev {
				return fmt.Errorf("years must be strictly increasing, got %s after %d", y, prev)
			}
			prev = v
		}
		return nil
	}
	if c.Start == 0 && c.End == 0 {
		return nil
	}
	if c.End < c.Start {
		return fmt.Errorf("end %d before start %d", c.End, c.Start)
	}
	return nil
}
