package infra

import "time"

const (
	backoffBase = 1 * time.Second
	backoffMax  = 60 * time.Second
)

// CalculateBackoff returns the delay before retry attempt n (0-based),
// doubling per attempt up to a ceiling. Used for the initial gateway dial
// only; an established session is never retried.
func CalculateBackoff(retry int) time.Duration {
	d := backoffBase
	for i := 0; i < retry; i++ {
		d *= 2
		if d >= backoffMax {
			return backoffMax
		}
	}
	return d
}
