package cdnify

import (
	"net/url"
	"strings"

	"github.com/goji/param"
	"github.com/pkg/errors"
)

// Params are the options a host passes to the plugin as key/value pairs
type Params struct {
	BaseURL    string `param:"base_url"`
	Extensions string `param:"extensions"` // Comma-separated
}

// DefaultParams gets the Params used when a host sets nothing
func DefaultParams() Params {
	return Params{
		BaseURL:    DefaultBaseURL,
		Extensions: strings.Join(DefaultExtensions, ","),
	}
}

// ParseParams decodes host options. Missing keys keep their defaults.
func ParseParams(vs url.Values) (Params, error) {
	ps := DefaultParams()
	err := ps.Parse(vs)
	return ps, err
}

// Parse decodes host options on top of ps. Missing keys are left alone.
func (ps *Params) Parse(vs url.Values) error {
	err := param.Parse(vs, ps)
	if err != nil {
		return errors.Wrap(err, "invalid cdn params")
	}

	return nil
}

// Options converts ps to Options
func (ps Params) Options() []Option {
	return []Option{
		BaseURL(ps.BaseURL),
		Extensions(strings.Split(ps.Extensions, ",")...),
	}
}
