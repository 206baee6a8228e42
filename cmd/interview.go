package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spigell/ai-recruiter/internal/interview"
	"github.com/spigell/ai-recruiter/internal/logger"
	"github.com/spigell/ai-recruiter/internal/speech"
	"github.com/spigell/ai-recruiter/internal/utils"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	PromptContinue  = "Continue the interview"
	PromptTerminate = "End the interview now"

	// Candidates say this to reach the early-termination prompt.
	stopWord = "stop"
)

var interviewCmd = &cobra.Command{
	Use:   "interview <code>",
	Short: "Run or resume an interview session by its code",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runInterview(args[0])
	},
}

func init() {
	rootCmd.AddCommand(interviewCmd)
}

func runInterview(code string) {
	ctx := context.Background()

	zl := newLogger()

	config, err := getConfig()
	if err != nil {
		zl.Fatal("getting a config", zap.Error(err))
	}

	client, err := newGemini(ctx, config, zl)
	if err != nil {
		zl.Fatal("interviews require an ai client", zap.Error(err))
	}

	db := openStore(config, zl)
	defer db.Close()

	controller := newController(client, db, zl, config)

	session, err := controller.Resume(ctx, code)
	if errors.Is(err, interview.ErrNotFound) {
		zl.Fatal("interview not found or expired", zap.String("code", code))
	}
	if err != nil {
		zl.Fatal("resuming interview", zap.Error(err))
	}

	zl = logger.WithSession(zl, session.ID, session.Candidate.ID)
	zl.Info("interview resumed",
		zap.String("state", string(session.State)),
		zap.Int("answered", len(session.Transcript)),
	)

	// Already reported: nothing left to ask, just show the stored reports.
	if stored, ok := session.Reports(); ok {
		printReports(stored)
		return
	}

	voice := speech.NewConsole(os.Stdin, os.Stdout)
	pause := time.Duration(config.Interview.PauseSeconds) * time.Second

	if err := questionLoop(ctx, controller, session, voice, config, pause, zl); err != nil {
		zl.Fatal("interview failed", zap.Error(err))
	}

	if err := controller.Sync(ctx, session.ID); err != nil {
		zl.Warn("persisting interview transcript", zap.Error(err))
	}

	if !reportable(session.State) {
		zl.Info("exiting", zap.String("reason", "interview left unfinished"))
		return
	}

	reports, err := controller.GenerateReports(ctx, session.ID)
	if err != nil {
		zl.Fatal("generating reports", zap.Error(err))
	}

	printReports(reports)
}

func printReports(reports *interview.Reports) {
	fmt.Printf("\n--- Feedback for the candidate ---\n%s\n", reports.Candidate)
	fmt.Printf("\n--- Assessment for HR ---\n%s\n", reports.HR)
}

func questionLoop(ctx context.Context, controller *interview.Controller, session *interview.Session, voice speech.Service, config *Config, pause time.Duration, zl *zap.Logger) error {
	previousAnswer := session.LastAnswer()

	for {
		entry, err := controller.Advance(ctx, session.ID, previousAnswer)
		if err != nil {
			return err
		}
		if entry == nil {
			return nil
		}

		question := fmt.Sprintf("Question %d of %d: %s", entry.Index, session.PlannedQuestions, entry.Question)
		if err := voice.SynthesizeAndPlay(ctx, question); err != nil {
			return err
		}

		answer, err := voice.Recognize(ctx)
		if err != nil {
			return err
		}

		if strings.EqualFold(strings.TrimSpace(answer), stopWord) {
			done, err := confirmTermination(controller, session.ID)
			if err != nil {
				return err
			}
			if done {
				return nil
			}

			answer, err = voice.Recognize(ctx)
			if err != nil {
				return err
			}
		}

		if err := controller.RecordAnswer(session.ID, entry.Index, answer); err != nil {
			return err
		}
		previousAnswer = answer

		if config.Interview.Feedback {
			feedback, err := controller.ProvideFeedback(ctx, session.ID, entry.Index)
			if err != nil {
				return err
			}
			if err := voice.SynthesizeAndPlay(ctx, "Feedback: "+feedback); err != nil {
				return err
			}
		}

		if err := controller.Sync(ctx, session.ID); err != nil {
			zl.Warn("persisting interview transcript", zap.Error(err))
		}

		if err := utils.WaitFor(ctx, pause); err != nil {
			return err
		}
	}
}

// confirmTermination asks the candidate whether they really want to stop.
// Returns true when the session was terminated.
func confirmTermination(controller *interview.Controller, id string) (bool, error) {
	prompt := promptui.Select{
		Label: "End the interview early?",
		Items: []string{PromptContinue, PromptTerminate},
	}

	_, selected, err := prompt.Run()
	if err != nil {
		return false, err
	}

	if selected != PromptTerminate {
		return false, nil
	}

	return true, controller.TerminateEarly(id)
}

func reportable(state interview.State) bool {
	return state == interview.StateCompleted || state == interview.StateTerminatedEarly
}
