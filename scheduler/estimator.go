package scheduler

// Estimator approximates the memory footprint, in megabytes, of a
// sequence of job payloads. Implementations must not mutate the
// payloads.
//
// Estimates are approximate by contract. Serialization-based
// implementations cannot bound the size of payloads with circular
// references or unserializable fields; the scheduler tolerates the
// imprecision and never assumes exactness. A failed estimate is
// treated as size zero and reported to the Logger.
//
// The estimator is optional. If not set, estimate.JSON is used.
type Estimator[T any] interface {
	EstimateMB(payloads []T) (float64, error)
}
