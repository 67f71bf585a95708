// Package estimate provides serialization-based memory footprint
// estimators for scheduler payloads.
package estimate

import "encoding/json"

// JSON estimates payload size by JSON-encoding the sequence and
// dividing the byte length by 1 MiB. The result is approximate: shared
// structure is counted once per reference, encoding overhead is
// included, and payloads with cycles or unserializable fields fail to
// encode entirely.
type JSON[T any] struct{}

// NewJSON returns a JSON estimator for payloads of type T.
func NewJSON[T any]() JSON[T] {
	return JSON[T]{}
}

// EstimateMB implements the scheduler.Estimator interface.
func (JSON[T]) EstimateMB(payloads []T) (float64, error) {
	if len(payloads) == 0 {
		return 0, nil
	}

	data, err := json.Marshal(payloads)
	if err != nil {
		return 0, err
	}

	return float64(len(data)) / (1 << 20), nil
}
