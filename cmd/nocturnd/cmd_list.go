package main

import (
	"fmt"

	"github.com/google/gousb"
	"github.com/spf13/cobra"

	"github.com/nocturnd/nocturnd/pkg/nocturn"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List attached USB devices",
	Long:  "Enumerates USB devices visible to the host and flags the Nocturn.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newContext()
		if err != nil {
			return fmt.Errorf("failed to initialize USB: %w", err)
		}
		defer ctx.Close()

		devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
			marker := ""
			if desc.Vendor == nocturn.VID && desc.Product == nocturn.PID {
				marker = "  <- " + nocturn.Describe().Name
			}
			fmt.Printf("bus %03d addr %03d: %s:%s%s\n", desc.Bus, desc.Address, desc.Vendor, desc.Product, marker)
			return false
		})
		for _, d := range devs {
			d.Close()
		}
		if err != nil {
			return fmt.Errorf("enumerating devices: %w", err)
		}
		return nil
	},
}

// newContext initializes libusb. gousb panics when the library is
// missing or broken, which should surface as an error, not a crash.
func newContext() (*gousb.Context, error) {
	resC := make(chan *gousb.Context)
	errC := make(chan error)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				errC <- fmt.Errorf("%v", r)
			}
		}()

		resC <- gousb.NewContext()
	}()

	select {
	case err := <-errC:
		return nil, err
	case res := <-resC:
		return res, nil
	}
}
