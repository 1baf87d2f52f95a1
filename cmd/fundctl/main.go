package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/seedfund/internal/client"
	"github.com/mmynk/seedfund/internal/config"
	"github.com/mmynk/seedfund/pkg/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg    config.Client
	logger *slog.Logger
	client *client.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var serverURL, token, logLevel string

	root := &cobra.Command{
		Use:   "fundctl",
		Short: "Browse campaigns and create them from draft files",
		Long: `fundctl talks to a seedfund server.

Settings come from SEEDFUND_* environment variables and can be
overridden with flags:
  SEEDFUND_SERVER_URL  --server
  SEEDFUND_TOKEN       --token
  SEEDFUND_LOG_LEVEL   --log-level`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadClient()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("server") {
				cfg.ServerURL = serverURL
			}
			if flags.Changed("token") {
				cfg.Token = token
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}

			a.cfg = cfg
			a.logger = logging.New(cmd.ErrOrStderr(), logging.ParseLevel(cfg.LogLevel))
			a.client = client.New(http.DefaultClient, cfg.ServerURL)
			a.client.SetToken(cfg.Token)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&serverURL, "server", "", "server base URL")
	root.PersistentFlags().StringVar(&token, "token", "", "bearer token from login")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		newCampaignsCmd(a),
		newCreateCmd(a),
		newLoginCmd(a),
		newRegisterCmd(a),
	)
	return root
}

func (a *app) requireToken() error {
	if a.client.Token() == "" {
		return fmt.Errorf("not logged in: run fundctl login and set SEEDFUND_TOKEN or pass --token")
	}
	return nil
}
