// Command covevo checks line coverage against the previous analysis.
package main

import (
	"os"

	"github.com/huangsam/covevo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		_, _ = os.Stderr.WriteString("❌ " + err.Error() + "\n")
		os.Exit(1)
	}
}
