// Package request models the values a caller supplies for one generation run.
package request

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingValue is returned when a required value is empty.
	ErrMissingValue = errors.New("missing required value")

	// ErrInvalidValue is returned when a value would escape the output directory.
	ErrInvalidValue = errors.New("invalid value")
)

// ConfigRequest is the (version, region, os) triple for one run.
type ConfigRequest struct {
	Version string
	Region  string
	OS      string
}

// New builds a ConfigRequest and validates it.
func New(version, region, os string) (ConfigRequest, error) {
	req := ConfigRequest{Version: version, Region: region, OS: os}
	if err := req.Validate(); err != nil {
		return ConfigRequest{}, err
	}
	return req, nil
}

// Validate checks that every value is present and safe to embed in a file
// name. Values are checked in flag order.
func (r ConfigRequest) Validate() error {
	for _, f := range r.fields() {
		if f.value == "" {
			return fmt.Errorf("%w: --%s", ErrMissingValue, f.name)
		}
		if strings.ContainsAny(f.value, "/\\\x00") {
			return fmt.Errorf("%w: --%s %q must not contain path separators", ErrInvalidValue, f.name, f.value)
		}
	}
	return nil
}

// FileName returns "{version}-{region}-{os}" followed by ext.
func (r ConfigRequest) FileName(ext string) string {
	return r.Version + "-" + r.Region + "-" + r.OS + ext
}

// Vars returns the template variables for this request.
func (r ConfigRequest) Vars() map[string]any {
	vars := make(map[string]any, 3)
	for _, f := range r.fields() {
		vars[f.name] = f.value
	}
	return vars
}

type field struct {
	name  string
	value string
}

func (r ConfigRequest) fields() []field {
	return []field{
		{name: "version", value: r.Version},
		{name: "region", value: r.Region},
		{name: "os", value: r.OS},
	}
}
