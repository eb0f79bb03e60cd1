package main

import (
	"flag"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "nocturnd",
	Short: "nocturnd bridges a Novation Nocturn to the host MIDI system",
	Long: `nocturnd talks to a Novation Nocturn over USB, translates its quasi-MIDI
interrupt stream into control change events on a virtual MIDI port pair,
and drives the LED rings and button lamps from MIDI sent back to it.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugLog {
			flag.Set("v", "1")
		}
	},
}

var debugLog bool

func main() {
	// glog writes to files unless told otherwise; a bridge daemon wants
	// its diagnostics on stderr.
	flag.Set("logtostderr", "true")

	runCmd.Flags().IntVarP(&runChannel, "channel", "c", 1, "MIDI channel (1-16) for outbound control change events")
	runCmd.Flags().StringVarP(&runPortName, "port-name", "n", "Nocturn Bridge", "Name of the virtual MIDI port pair")
	runCmd.Flags().StringVarP(&runConfig, "config", "f", "", "Path to a setup payload file (default: XDG config dir)")
	runCmd.Flags().BoolVar(&runNoInit, "no-init", false, "Skip sending the setup payload after connecting")
	rootCmd.PersistentFlags().BoolVarP(&debugLog, "debug", "d", false, "Enable debug logging")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(portsCmd)
	lampCmd.AddCommand(lampRingCmd)
	lampCmd.AddCommand(lampModeCmd)
	lampCmd.AddCommand(lampButtonCmd)
	rootCmd.AddCommand(lampCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
}
