package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/ytpanel/internal/config"
	"github.com/gauthierbraillon/ytpanel/pkg/browser"
)

// newConfigCmd creates the config subcommand.
func newConfigCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  "View the effective ytpanel configuration or store the YouTube Data API key.",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Config directory: %s\n", flags.dir())
			return nil
		},
	}

	cmd.AddCommand(newConfigPathCmd(flags))
	cmd.AddCommand(newConfigShowCmd(flags))
	cmd.AddCommand(newConfigSetKeyCmd(flags))

	return cmd
}

func newConfigPathCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), flags.dir())
			return nil
		},
	}
}

func newConfigShowCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with the API key masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.dir())
			if err != nil {
				return err
			}
			data, err := cfg.YAML()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newConfigSetKeyCmd(flags *globalFlags) *cobra.Command {
	var open bool

	cmd := &cobra.Command{
		Use:   "set-key [key]",
		Short: "Store the YouTube Data API key",
		Long:  "Store the YouTube Data API key in the config directory (mode 0600). Reads the key from stdin when no argument is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if open {
				if err := browser.Open(credentialsPage); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Could not open browser. Please visit:\n%s\n", credentialsPage)
				}
			}

			key := ""
			if len(args) == 1 {
				key = args[0]
			} else {
				fmt.Fprint(cmd.ErrOrStderr(), "API key: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no API key given")
				}
				key = line
			}

			store := config.NewKeyStore(flags.dir())
			if err := store.SaveAPIKey(strings.TrimSpace(key)); err != nil {
				return fmt.Errorf("failed to save API key: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API key saved to: %s\n", store.Path())
			return nil
		},
	}

	cmd.Flags().BoolVar(&open, "open", false, "Open the Google Cloud credentials page first")
	return cmd
}
