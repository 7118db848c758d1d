// cmd/taskhub/root.go
package main

import (
	"github.com/dalemusser/taskhub/internal/app/bootstrap"
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "taskhub",
		Short:         "Task tracker service for users, teams and boards",
		Version:       version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./taskhub.yaml if present)")
	bootstrap.BindFlags(root.PersistentFlags())

	load := func(cmd *cobra.Command) (bootstrap.AppConfig, error) {
		cfg, err := bootstrap.LoadConfig(cmd.Flags(), cfgFile, nil)
		if err != nil {
			return bootstrap.AppConfig{}, err
		}
		return cfg, bootstrap.ValidateConfig(cfg, nil)
	}

	serve := newServeCmd(load)
	root.RunE = serve.RunE
	root.AddCommand(serve)
	root.AddCommand(newInspectCmd(load))
	root.AddCommand(newConfigCmd(load))
	return root
}

type configLoader func(cmd *cobra.Command) (bootstrap.AppConfig, error)
