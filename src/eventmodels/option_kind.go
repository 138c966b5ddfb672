package eventmodels

import "fmt"

type OptionKind string

const (
	OptionKindCall OptionKind = "Call"
	OptionKindPut  OptionKind = "Put"
)

func (k OptionKind) Validate() error {
	switch k {
	case OptionKindCall, OptionKindPut:
		return nil
	}

	return fmt.Errorf("%q: %w", k, ErrInvalidOptionKind)
}

// Code is the first letter of the kind, or empty for spot and future legs.
func (k OptionKind) Code() string {
	if k == "" {
		return ""
	}

	return string(k)[:1]
}
