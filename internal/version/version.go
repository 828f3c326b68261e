// ABOUTME: Version information for soundshell
// ABOUTME: Product identity shown by the CLI and the TUI header
package version

const (
	// Version is the release version
	Version = "0.3.0"

	// Product is the product name
	Product = "soundshell"

	// Manufacturer identifies the publisher
	Manufacturer = "Resonate Protocol"
)
