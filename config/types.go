package config

import (
	"fmt"
	"time"
)

// NullDuration is a time.Duration that remembers whether it was set, so a
// layer that leaves it out does not override a lower one.
type NullDuration struct {
	Duration time.Duration
	Valid    bool
}

func NullDurationFrom(d time.Duration) NullDuration {
	return NullDuration{Duration: d, Valid: true}
}

// UnmarshalText parses a Go duration such as "500ms". Empty text leaves the
// value unset.
func (d *NullDuration) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*d = NullDuration{}
		return nil
	}
	v, err := time.ParseDuration(string(data))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", data, err)
	}
	*d = NullDurationFrom(v)
	return nil
}

func (d NullDuration) MarshalText() ([]byte, error) {
	if !d.Valid {
		return []byte{}, nil
	}
	return []byte(d.Duration.String()), nil
}
