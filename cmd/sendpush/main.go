package main

import (
	"fmt"
	"os"

	"meditrack/internal/adapters/messaging/fcm"

	"github.com/spf13/cobra"
)

type options struct {
	token       string
	title       string
	body        string
	project     string
	credentials string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd arma el comando; separado de main para poder probarlo.
func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "sendpush",
		Short: "Send one push notification to a device token",
		Long: `Send a single push notification through the FCM HTTP v1 API.

Credentials come from --credentials (service account JSON) or, when empty,
from the environment's default Google credentials.

Flags --project and --credentials fall back to FCM_PROJECT and
FCM_CREDENTIALS_FILE.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.token, "token", "", "Device registration token (required)")
	f.StringVar(&opts.title, "title", "Medication Reminder", "Notification title")
	f.StringVar(&opts.body, "body", "", "Notification body (required)")
	f.StringVar(&opts.project, "project", os.Getenv("FCM_PROJECT"), "Firebase project id")
	f.StringVar(&opts.credentials, "credentials", os.Getenv("FCM_CREDENTIALS_FILE"), "Service account JSON file")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("body")

	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	if opts.project == "" {
		return fmt.Errorf("project required (--project or FCM_PROJECT)")
	}

	client, err := fcm.New(cmd.Context(), fcm.Config{
		ProjectID:       opts.project,
		CredentialsFile: opts.credentials,
	})
	if err != nil {
		return err
	}

	name, err := client.Send(cmd.Context(), fcm.Message{
		Token: opts.token,
		Title: opts.title,
		Body:  opts.body,
	})
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Successfully sent message: %s\n", name)
	return nil
}
