package events

import "encoding/json"

// Event name constants
const (
	CalculationCompleted = "calculation.completed"
	CalculationFailed    = "calculation.failed"
	ConfigChanged        = "config.changed"
)

// Event is a generic SSE event from daemon.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// CalculationEvent is the payload of calculation.completed and
// calculation.failed.
type CalculationEvent struct {
	// Endpoint is "calculate", "evaluate" or the provider op.
	Endpoint  string   `json:"endpoint"`
	Kinds     []string `json:"kinds,omitempty"`
	Class     string   `json:"class,omitempty"`
	Message   string   `json:"message,omitempty"`
	LatencyMs int64    `json:"latencyMs"`
	Ts        int64    `json:"ts"`
}

// ConfigChangedEvent is the payload of config.changed.
type ConfigChangedEvent struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Ts    int64  `json:"ts"`
}

// DecodeAs decodes the event payload into the caller-specified generic type T.
// If Data is empty, it returns the zero value of T with a nil error.
//
// Example:
//
//	payload, err := events.DecodeAs[events.CalculationEvent](ev)
//	if err != nil { /* handle */ }
//	fmt.Println(payload.Endpoint, payload.Class)
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
