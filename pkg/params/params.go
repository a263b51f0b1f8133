// Package params decodes the literal key=value parameter maps of action
// elements into typed configuration structs.
package params

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Decode fills out (a struct pointer) from an action's parameter map.
// Values are strings in the definition; numeric and boolean struct
// fields are converted weakly, so "speed=0.2" decodes into a float64
// field tagged `mapstructure:"speed"`. Unknown keys are an error, so
// typos in definitions surface at bind time rather than silently.
func Decode(params map[string]string, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return fmt.Errorf("failed to build parameter decoder: %w", err)
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("failed to decode parameters: %w", err)
	}
	return nil
}
