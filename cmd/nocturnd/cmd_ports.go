package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nocturnd/nocturnd/pkg/midiport"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List host MIDI ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ins, outs, err := midiport.ListPorts()
		if err != nil {
			return err
		}
		fmt.Println("Inputs:")
		for _, n := range ins {
			fmt.Printf("  %s\n", n)
		}
		fmt.Println("Outputs:")
		for _, n := range outs {
			fmt.Printf("  %s\n", n)
		}
		return nil
	},
}
