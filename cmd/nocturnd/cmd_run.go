package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/nocturnd/nocturnd/pkg/bridge"
	"github.com/nocturnd/nocturnd/pkg/config"
	"github.com/nocturnd/nocturnd/pkg/midiport"
	"github.com/nocturnd/nocturnd/pkg/nocturn"
	"github.com/nocturnd/nocturnd/pkg/usbfs"
)

var (
	runChannel  int
	runPortName string
	runConfig   string
	runNoInit   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bridge",
	Long: `Connects to the Nocturn, exposes a virtual MIDI port pair and bridges
between them until killed. Reconnects with a fixed one second backoff
whenever the device disappears.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if runChannel < 1 || runChannel > 16 {
			return fmt.Errorf("--channel must be 1..16, got %d", runChannel)
		}

		setup := &config.Setup{}
		if !runNoInit {
			var err error
			setup, err = config.LoadSetup(runConfig)
			if err != nil {
				return fmt.Errorf("loading setup payload: %w", err)
			}
		}

		disp := &bridge.Dispatcher{Channel: byte(runChannel - 1)}
		// Without a MIDI subsystem there is nothing to bridge; this is the
		// one failure that ends the process.
		port, err := midiport.Open(runPortName, disp.HandleControlChange)
		if err != nil {
			return err
		}
		defer port.Close()
		disp.Port = port

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sup := &bridge.Supervisor{
			Connect: func() (*bridge.Session, error) {
				dev, err := usbfs.Open(uint16(nocturn.VID), uint16(nocturn.PID))
				if err != nil {
					return nil, err
				}
				return &bridge.Session{Host: dev, Device: dev, Close: dev.Close}, nil
			},
			Setup:    setup.Payloads,
			Dispatch: disp,
			Port:     port,
		}
		glog.Infof("Bridging %s on MIDI channel %d", nocturn.Describe(), runChannel)
		return sup.Run(ctx)
	},
}
