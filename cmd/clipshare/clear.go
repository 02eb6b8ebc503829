package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clipwire/clipshare/internal/ctrl"
)

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the running daemon's client registry",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			resp, err := ipcRequest(&ctrl.Message{Type: ctrl.TypeClear})
			if err != nil {
				return err
			}
			if resp.Type != ctrl.TypeOK {
				return fmt.Errorf("clear failed: %s", resp.Error)
			}
			fmt.Println("Registry cleared.")
			return nil
		},
	}
}
