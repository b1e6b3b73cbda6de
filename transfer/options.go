// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transfer

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Defaults for a transfer run. The queue is smaller than a typical source so
// that both sides are seen to park, and the consumer is the slower side.
const (
	DefaultCapacity     = 3
	DefaultProduceDelay = 100 * time.Millisecond
	DefaultConsumeDelay = 150 * time.Millisecond
)

// ErrInvalidOptions is returned for options that fail validation.
var ErrInvalidOptions = errors.New("transfer: invalid options")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Options configures a transfer run.
//
// YAML form (durations use Go syntax):
//
//	capacity: 3
//	produce_delay: 100ms
//	consume_delay: 150ms
type Options struct {
	// Queue capacity
	Capacity int `yaml:"capacity" validate:"gt=0"`

	// Pauses between consecutive items
	ProduceDelay time.Duration `yaml:"produce_delay" validate:"gte=0"`
	ConsumeDelay time.Duration `yaml:"consume_delay" validate:"gte=0"`
}

// DefaultOptions returns the default transfer options.
func DefaultOptions() Options {
	return Options{
		Capacity:     DefaultCapacity,
		ProduceDelay: DefaultProduceDelay,
		ConsumeDelay: DefaultConsumeDelay,
	}
}

// Validate reports whether o can drive a run.
// The returned error wraps ErrInvalidOptions.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(ErrInvalidOptions, err.Error())
	}
	return nil
}

// LoadOptions reads options from a YAML file. Keys missing from the file
// keep their defaults. An empty path returns the defaults.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	if path == "" {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, errors.Wrapf(err, "transfer: read options %s", path)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, errors.Wrapf(err, "transfer: parse options %s", path)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, errors.WithMessagef(err, "options file %s", path)
	}
	return opts, nil
}
