package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"ai-triage-be/internal/bootstrap"
	"ai-triage-be/internal/config"
	"ai-triage-be/internal/constant"
	"ai-triage-be/internal/dto"
	"ai-triage-be/internal/entity"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type options struct {
	complaint string
	dob       string
	gender    string
	finalize  bool
}

func main() {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "simulation",
		Short: "Run an interactive triage interview against the configured provider",
		Long: "Runs the full interview pipeline in-process with the in-memory store. " +
			"Type patient replies at the prompt; an empty line or EOF ends the session.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}
	rootCmd.Flags().StringVar(&opts.complaint, "complaint", "", "chief complaint")
	rootCmd.Flags().StringVar(&opts.dob, "dob", "", "patient date of birth (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&opts.gender, "gender", "", "patient gender")
	rootCmd.Flags().BoolVar(&opts.finalize, "finalize", false, "finalize the summary when the interview completes")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *options) error {
	cfg := config.Load()
	cfg.Database.Connection = ""
	cfg.Lock.Backend = "local"

	container, err := bootstrap.NewContainer(ctx, nil, cfg)
	if err != nil {
		return err
	}
	defer container.Close()
	if err := container.ConsumerService.Consume(ctx); err != nil {
		return err
	}

	engine := container.TriageEngine
	nurse := entity.Actor{Id: uuid.New(), Role: constant.RoleNurse}
	doctor := entity.Actor{Id: uuid.New(), Role: constant.RoleDoctor}

	created, err := engine.CreateEncounter(ctx, nurse, &dto.CreateEncounterRequest{
		PatientId:          uuid.New(),
		ChiefComplaint:     opts.complaint,
		PatientDateOfBirth: opts.dob,
		PatientGender:      opts.gender,
	})
	if err != nil {
		return err
	}
	color.Cyan("Encounter %s created\n", created.Id)

	started, err := engine.Start(ctx, nurse, created.Id)
	if err != nil {
		return err
	}
	color.Green("AI: %s", started.Message)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(color.YellowString("PATIENT> "))
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			color.Yellow("Session ended before the interview completed.")
			return nil
		}

		res, err := engine.SubmitTurn(ctx, nurse, created.Id, constant.TurnOriginPatient, text)
		if err != nil {
			color.Red("Turn failed: %v", err)
			continue
		}
		color.Green("AI: %s", res.AIMessage)

		if res.IsInterviewComplete {
			printSummary(res.Summary)
			if opts.finalize {
				final, err := engine.ReviseSummary(ctx, doctor, created.Id, &dto.ReviseSummaryRequest{IsFinalized: boolPtr(true)})
				if err != nil {
					return err
				}
				color.Cyan("Summary finalized at version %d", final.Version)
			}
			return nil
		}
	}
	return scanner.Err()
}

func printSummary(s *dto.SummaryResponse) {
	if s == nil {
		return
	}
	riskColor := color.New(color.FgYellow, color.Bold)
	switch s.RiskScore {
	case constant.RiskScoreHigh:
		riskColor = color.New(color.FgRed, color.Bold)
	case constant.RiskScoreLow:
		riskColor = color.New(color.FgGreen, color.Bold)
	}

	color.Cyan("\n=== Clinical Summary (v%d) ===", s.Version)
	riskColor.Printf("Risk: %s\n", s.RiskScore)
	fmt.Printf("S: %s\nO: %s\nA: %s\nP: %s\n", s.Subjective, s.Objective, s.Assessment, s.Plan)
}

func boolPtr(b bool) *bool { return &b }
