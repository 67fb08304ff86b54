package main

import (
	"github.com/spf13/cobra"
)

var controlsCmd = &cobra.Command{
	Use:   "controls",
	Short: "Print the effective controls as YAML",
	RunE: func(cmd *cobra.Command, argv []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctrl, err := loadControls(cfg)
		if err != nil {
			return err
		}
		data, err := ctrl.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}
