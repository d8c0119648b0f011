package main

import (
	"github.com/spf13/cobra"
)

// CLIClient is the demo binary's command surface: Exec parses argv and
// runs the selected subcommand.
type CLIClient interface {
	Exec() error
}

type simpleCLIClient struct {
	rootCmd *cobra.Command
}

func (c *simpleCLIClient) Exec() error {
	return c.rootCmd.Execute()
}

// NewCLI builds the dispatchdemo root command and registers every
// subcommand.
func NewCLI() CLIClient {
	c := &simpleCLIClient{
		rootCmd: &cobra.Command{
			Use:   "dispatchdemo",
			Short: "dispatchdemo drives an in-memory priority dispatch queue end to end",
		},
	}

	c.addCmd(newSimulateCmd())
	c.addCmd(newRankCmd())

	return c
}

func (c *simpleCLIClient) addCmd(cmd *cobra.Command) {
	c.rootCmd.AddCommand(cmd)
}
