package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mmynk/seedfund/internal/wizard"
)

func newCreateCmd(a *app) *cobra.Command {
	var (
		path     string
		validate bool
		strict   bool
	)

	cmd := &cobra.Command{
		Use:   "create -f draft.yaml",
		Short: "Run the campaign wizard from a draft file",
		Long: `Create replays a YAML draft through every wizard step, saving progress
after each one, then submits the finished campaign.

The step-validity gate is off unless --validate or
SEEDFUND_WIZARD_VALIDATE_STEPS=true is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireToken(); err != nil {
				return err
			}
			draft, err := loadDraftFile(path)
			if err != nil {
				return err
			}

			o := wizard.New(a.client,
				wizard.WithLogger(a.logger),
				wizard.WithValidation(validate || a.cfg.ValidateSteps),
				wizard.WithStrictPersistence(strict || a.cfg.StrictPersistence),
			)
			out := cmd.OutOrStdout()

			for _, action := range draft.actions() {
				if err := o.Dispatch(action); err != nil {
					return fmt.Errorf("invalid draft: %w", err)
				}
			}

			for o.Step() < wizard.LastStep() {
				step := o.Current()
				err := o.Forward(cmd.Context())
				printEvents(out, o)
				if err != nil {
					return describeStepError(step, err)
				}
			}

			campaign, err := o.Submit(cmd.Context())
			printEvents(out, o)
			if err != nil {
				return describeStepError(o.Current(), err)
			}
			fmt.Fprintf(out, "Submitted campaign %s (draft %s)\n", campaign.ID, o.CampaignID())
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "YAML draft file")
	cmd.Flags().BoolVar(&validate, "validate", false, "require each step's fields before moving on")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when a step cannot be saved for lack of a campaign id")
	cmd.MarkFlagRequired("file")
	return cmd
}

// printEvents writes the notifications queued so far.
func printEvents(w io.Writer, o *wizard.Orchestrator) {
	for {
		select {
		case e := <-o.Events():
			switch e.Kind {
			case wizard.EventFailed:
				fmt.Fprintf(w, "[%s] %s: %v\n", e.StepKey, e.Message, e.Err)
			default:
				fmt.Fprintf(w, "[%s] %s\n", e.StepKey, e.Message)
			}
		default:
			return
		}
	}
}

func describeStepError(step wizard.Step, err error) error {
	var verr *wizard.ValidationError
	if errors.As(err, &verr) {
		return fmt.Errorf("step %q is incomplete: %w", step.Title, err)
	}
	return fmt.Errorf("step %q failed: %w", step.Title, err)
}
