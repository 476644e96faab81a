package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cacheadmin "github.com/huykn/cache-admin"
)

func main() {
	root := &cobra.Command{
		Use:           "cache-admin",
		Short:         "Distributed cache administration service",
		Version:       cacheadmin.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var configPath string

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the cache management API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}
	serve.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")

	root.AddCommand(serve)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cache-admin:", err)
		os.Exit(1)
	}
}
