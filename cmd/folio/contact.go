package main

import (
	"errors"

	"github.com/scholarsite/folio/internal/contact"
	"github.com/spf13/cobra"
)

var contactForm contact.Form

func init() {
	for _, c := range []*cobra.Command{contactValidateCmd, contactSendCmd} {
		c.Flags().StringVar(&contactForm.Name, "name", "", "Sender name")
		c.Flags().StringVar(&contactForm.Email, "email", "", "Sender email address")
		c.Flags().StringVar(&contactForm.Phone, "phone", "", "Sender phone number (optional)")
		c.Flags().StringVar(&contactForm.Message, "message", "", "Message text")
		contactCmd.AddCommand(c)
	}
	rootCmd.AddCommand(contactCmd)
}

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Validate or send contact form submissions",
}

var contactValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a contact form without sending it",
	Long: `Validate a contact form the way the site does before sending it.

Examples:
  folio contact validate --name Ada --email ada@example.org --message "Hello"`,
	Args: cobra.NoArgs,
	RunE: runContactValidate,
}

var contactSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Validate and send a contact form to the configured endpoint",
	Args:  cobra.NoArgs,
	RunE:  runContactSend,
}

func runContactValidate(cmd *cobra.Command, args []string) error {
	form := contactForm.Trimmed()
	res := contact.Result{Valid: true, Message: "ok"}
	if err := form.Validate(); err != nil {
		res = contact.Result{Message: err.Error()}
	}
	printContactResult(res)
	if !res.Valid {
		exitQuiet(ExitDataError)
	}
	return nil
}

func runContactSend(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	client := contact.NewClient(cfg.ContactEndpoint,
		contact.WithRateLimit(cfg.RateLimit),
		contact.WithLogger(logger.Named("contact")),
	)

	res, err := client.Send(cmd.Context(), contactForm)
	if errors.Is(err, contact.ErrNoEndpoint) {
		exitWithError(ExitConfigError, "contact endpoint not configured\n\nRun 'folio config contact-endpoint <url>' first.")
	}
	printContactResult(res)
	switch {
	case !res.Valid:
		exitQuiet(ExitDataError)
	case err != nil:
		exitQuiet(ExitFetchError)
	}
	return nil
}

func printContactResult(res contact.Result) {
	if humanOutput {
		outputHuman("%s\n", res.Message)
		return
	}
	outputJSON(res)
}
