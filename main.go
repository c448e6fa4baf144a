// =============================================================================
// Transibase - Main Entry Point
// =============================================================================
//
// USAGE:
//   transibase <inputFile> <outputFile> [year]   - Convert a JSON export to CSV
//   transibase version                           - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Loading, extraction, CSV writing, configuration
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/quebecstudio/transibase/cmd"
)

func main() {
	cmd.Execute()
}
