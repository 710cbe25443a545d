package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	flagFile           string
	flagOutput         string
	flagDebug          bool
	flagNonInteractive bool
)

var rootCmd = &cobra.Command{
	Use:   "duprpool",
	Short: "Resolve player names against DUPR and build rated pools",
	Long: `Resolves a pasted or file-supplied player list against the DUPR rating
service, using a local cache, nickname matching and operator overrides, then
distributes the rated players into balanced pools and writes an HTML sheet.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagDebug {
			log.SetLevel(log.DebugLevel)
		}
		log.SetDefault(log.Default().With("run_id", uuid.NewString()))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFile, "file", "", "read the player list from a file instead of stdin")
	rootCmd.PersistentFlags().StringVar(&flagOutput, "output", "", "output directory (overrides OUTPUT_DIR)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagNonInteractive, "non-interactive", false, "never prompt; unresolvable ambiguities fall back to the default rating")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
