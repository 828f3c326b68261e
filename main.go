// ABOUTME: Entry point for soundshell
// ABOUTME: Hands control to the cobra command tree
package main

import "github.com/Resonate-Protocol/soundshell/cmd"

func main() {
	cmd.Execute()
}
