package model

import (
	"encoding/json"
	"fmt"
)

// Strategy selects the optimization bias applied when ranking charging stops.
type Strategy int

const (
	StrategyFastest Strategy = iota
	StrategyShortest
	StrategyLeastTraffic
)

func (s Strategy) String() string {
	switch s {
	case StrategyFastest:
		return "fastest"
	case StrategyShortest:
		return "shortest"
	case StrategyLeastTraffic:
		return "least-traffic"
	default:
		return "unknown"
	}
}

// ParseStrategy converts the wire representation back to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "fastest", "":
		return StrategyFastest, nil
	case "shortest":
		return StrategyShortest, nil
	case "least-traffic":
		return StrategyLeastTraffic, nil
	default:
		return StrategyFastest, fmt.Errorf("unknown strategy %q", s)
	}
}

func (s Strategy) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Strategy) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	v, err := ParseStrategy(str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
