// Command mail-dispatch sends transactional email through the configured
// provider from the command line. Configuration is read from the process
// environment, optionally supplemented by a dotenv file.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	maildispatch "github.com/Emmastro/mail-dispatch"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		envFile string
		verbose bool
	)

	root := &cobra.Command{
		Use:           "mail-dispatch",
		Short:         "Send transactional email through a configured provider",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a dotenv file with provider configuration")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable diagnostic logging on stderr")

	newService := func() (*maildispatch.Service, error) {
		cfg, err := maildispatch.ConfigFromEnvFile(envFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
		return maildispatch.New(cfg, maildispatch.WithLogger(newLogger(verbose)))
	}

	root.AddCommand(newSendCmd(newService))
	root.AddCommand(newTemplateCmd(newService))
	root.AddCommand(newVersionCmd())

	return root
}

func newLogger(verbose bool) zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

func newSendCmd(newService func() (*maildispatch.Service, error)) *cobra.Command {
	var (
		to          string
		subject     string
		content     string
		cc          string
		bcc         string
		attachments []string
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send an email with inline HTML content",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}

			msg := &maildispatch.Message{
				To:       splitAddresses(to),
				CC:       splitAddresses(cc),
				BCC:      splitAddresses(bcc),
				Subject:  subject,
				HTMLBody: content,
			}

			for _, path := range attachments {
				data, err := os.ReadFile(path)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Warning: attachment %s not found, skipping.\n", path)
					continue
				}
				msg.Attachments = append(msg.Attachments, maildispatch.Attachment{
					Filename: filepath.Base(path),
					Content:  data,
				})
			}

			result, err := svc.SendEmail(cmd.Context(), msg)
			if err != nil {
				return err
			}
			return printResult(result)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "comma-separated recipient addresses (required)")
	cmd.Flags().StringVar(&subject, "subject", "", "email subject (required)")
	cmd.Flags().StringVar(&content, "content", "", "HTML body content (required)")
	cmd.Flags().StringVar(&cc, "cc", "", "comma-separated CC addresses")
	cmd.Flags().StringVar(&bcc, "bcc", "", "comma-separated BCC addresses")
	cmd.Flags().StringArrayVar(&attachments, "attachment", nil, "attachment file path (repeatable)")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("content")

	return cmd
}

func newTemplateCmd(newService func() (*maildispatch.Service, error)) *cobra.Command {
	var (
		to       string
		template string
		data     string
		subject  string
		cc       string
		bcc      string
	)

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Send an email rendered from a named template",
		RunE: func(cmd *cobra.Command, args []string) error {
			templateData := map[string]any{}
			if data != "" {
				if err := json.Unmarshal([]byte(data), &templateData); err != nil {
					return fmt.Errorf("template data must be a valid JSON object: %w", err)
				}
			}

			svc, err := newService()
			if err != nil {
				return err
			}

			result, err := svc.SendTemplateEmail(cmd.Context(), &maildispatch.TemplateRequest{
				Template: template,
				Data:     templateData,
				To:       splitAddresses(to),
				CC:       splitAddresses(cc),
				BCC:      splitAddresses(bcc),
				Subject:  subject,
			})
			if err != nil {
				return err
			}
			return printResult(result)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "comma-separated recipient addresses (required)")
	cmd.Flags().StringVar(&template, "template", "", "template name without extension (required)")
	cmd.Flags().StringVar(&data, "data", "", "template data as a JSON object literal")
	cmd.Flags().StringVar(&subject, "subject", "", "email subject (provider default when omitted)")
	cmd.Flags().StringVar(&cc, "cc", "", "comma-separated CC addresses")
	cmd.Flags().StringVar(&bcc, "bcc", "", "comma-separated BCC addresses")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("template")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(maildispatch.GetVersionInfo().String())
		},
	}
}

// splitAddresses splits a comma-separated address list, dropping empty
// entries.
func splitAddresses(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// printResult writes the normalized send result as formatted JSON.
func printResult(result *maildispatch.SendResult) error {
	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
