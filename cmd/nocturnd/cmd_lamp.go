package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nocturnd/nocturnd/pkg/nocturn"
	"github.com/nocturnd/nocturnd/pkg/usbfs"
)

var lampCmd = &cobra.Command{
	Use:   "lamp",
	Short: "Drive LEDs on a connected Nocturn",
	Long:  "One-shot LED writes, useful for checking a device and its wiring.",
}

var lampRingCmd = &cobra.Command{
	Use:   "ring [ring] [value]",
	Short: "Set an incrementor LED ring value (ring 1-8, value 0-127)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ring, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ring number %q", args[0])
		}
		value, err := parse7bit(args[1])
		if err != nil {
			return err
		}
		msg, err := nocturn.RingValue(ring, value)
		if err != nil {
			return err
		}
		return sendToDevice(msg)
	},
}

var lampModeCmd = &cobra.Command{
	Use:   "mode [ring] [mode]",
	Short: "Set an incrementor LED ring mode (ring 1-8)",
	Long:  "Modes: min, max, center, center-both, single, single-inverted.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ring, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ring number %q", args[0])
		}
		mode, err := nocturn.ParseRingMode(args[1])
		if err != nil {
			return err
		}
		msg, err := nocturn.RingModeMessage(ring, mode)
		if err != nil {
			return err
		}
		return sendToDevice(msg)
	},
}

var lampButtonCmd = &cobra.Command{
	Use:   "button [button] [on|off]",
	Short: "Set a button LED (button 1-16)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		button, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid button number %q", args[0])
		}
		var on bool
		switch args[1] {
		case "on":
			on = true
		case "off":
		default:
			return fmt.Errorf("state must be on or off, got %q", args[1])
		}
		msg, err := nocturn.ButtonLamp(button, on)
		if err != nil {
			return err
		}
		return sendToDevice(msg)
	},
}

func parse7bit(s string) (byte, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 || v > 127 {
		return 0, fmt.Errorf("value must be 0..127, got %q", s)
	}
	return byte(v), nil
}

func sendToDevice(payload []byte) error {
	dev, err := usbfs.Open(uint16(nocturn.VID), uint16(nocturn.PID))
	if err != nil {
		return err
	}
	defer dev.Close()
	if _, err := dev.SendRaw(payload); err != nil {
		return err
	}
	return nil
}
