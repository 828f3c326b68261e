// ABOUTME: Decoder interface definition
// ABOUTME: Common interface for turning raw sample bytes into float samples
package decode

// Decoder converts raw PCM bytes to normalized samples in [-1, 1]
type Decoder interface {
	// Decode converts sample bytes to interleaved float samples
	Decode(data []byte) ([]float64, error)

	// Close releases decoder resources
	Close() error
}
