// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for turning float samples into raw PCM bytes
package encode

// Encoder converts normalized samples in [-1, 1] to PCM bytes
type Encoder interface {
	// Encode converts interleaved float samples to sample bytes
	Encode(samples []float64) ([]byte, error)

	// Close releases encoder resources
	Close() error
}
