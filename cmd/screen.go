package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spigell/ai-recruiter/internal/ai"
	"github.com/spigell/ai-recruiter/internal/documents"
	"github.com/spigell/ai-recruiter/internal/interview"
	"github.com/spigell/ai-recruiter/internal/logger"
	"github.com/spigell/ai-recruiter/internal/recruiting"
	"github.com/spigell/ai-recruiter/internal/scoring"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const PromptDone = "Done"

var screenCmd = &cobra.Command{
	Use:   "screen <job-posting-file> <resumes-dir>",
	Short: "Rank resumes against a job posting and invite suitable candidates",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		screen(cmd, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().Bool("judge", false, "ask the model for a second opinion on every suitable candidate")
}

func screen(cmd *cobra.Command, postingPath, resumesDir string) {
	ctx := context.Background()

	zl := newLogger()

	config, err := getConfig()
	if err != nil {
		zl.Fatal("getting a config", zap.Error(err))
	}

	zl.Info("starting the screening", zap.String("version", version))

	posting, err := loadPosting(postingPath)
	if err != nil {
		zl.Fatal("loading job posting", zap.Error(err))
	}

	zl.Info("job posting loaded", zap.String("title", posting.Title))

	profiles, skipped := documents.LoadResumes(resumesDir, documents.PlainText{})
	for _, err := range skipped {
		zl.Warn("skipping resume", zap.Error(err))
	}
	if len(profiles) == 0 {
		zl.Info("exiting", zap.String("reason", "no readable resumes found"))
		return
	}

	zl.Info("resumes loaded", zap.Int("count", len(profiles)))

	// Screening works without an AI key: the engine falls back to
	// keyword matching for the whole batch.
	client, err := newGemini(ctx, config, zl)
	if err != nil {
		zl.Warn("ai client unavailable, scoring with keyword matching only", zap.Error(err))
	}

	engine := scoring.NewEngine(nil, config.Scoring.Threshold, zl)
	if client != nil {
		engine = scoring.NewEngine(client, config.Scoring.Threshold, zl)
	}

	ranked := engine.Rank(ctx, posting, profiles)
	printRanked(posting, ranked)

	summary := scoring.Summarize(ranked)
	zl.Info("screening finished",
		zap.Int("initial", summary.Total),
		zap.Int("suitable", summary.Suitable),
		zap.Int("unsuitable", summary.Total-summary.Suitable),
	)

	if summary.Suitable == 0 {
		zl.Info("exiting", zap.String("reason", "no suitable candidates"))
		return
	}

	if cmd.Flag("judge").Value.String() == "true" {
		if client == nil {
			zl.Warn("skipping second opinions, ai client is unavailable")
		} else {
			secondOpinions(ctx, client, posting, ranked, config, zl)
		}
	}

	db := openStore(config, zl)
	defer db.Close()

	controller := newController(client, db, zl, config)

	inviteLoop(ctx, controller, posting, ranked, config, zl)
}

func loadPosting(path string) (*recruiting.JobPosting, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job posting %s: %w", path, err)
	}

	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return recruiting.NewJobPosting(id, string(raw)), nil
}

func printRanked(posting *recruiting.JobPosting, ranked []scoring.Ranked) {
	fmt.Printf("\nScreening results for %q:\n\n", posting.Title)

	for i, r := range ranked {
		verdict := "not suitable"
		if r.Result.Suitable {
			verdict = "suitable"
		}

		fmt.Printf("%d. %s — %.1f%% (%s, %s)\n", i+1, r.Profile.ID, r.Result.Score, verdict, r.Result.Strategy)
		if len(r.Result.Strengths) > 0 {
			fmt.Printf("   + %s\n", strings.Join(r.Result.Strengths, "; "))
		}
		if len(r.Result.Weaknesses) > 0 {
			fmt.Printf("   - %s\n", strings.Join(r.Result.Weaknesses, "; "))
		}
	}

	fmt.Println()
}

// secondOpinions asks the model for a direct fit verdict on each
// suitable candidate and prints it next to the heuristic score.
func secondOpinions(ctx context.Context, generator ai.Generator, posting *recruiting.JobPosting, ranked []scoring.Ranked, config *Config, zl *zap.Logger) {
	judge := scoring.NewJudge(generator, config.Scoring.Threshold, 0, zl)

	fmt.Println("Second opinions:")
	for _, r := range ranked {
		if !r.Result.Suitable {
			continue
		}

		verdict, err := judge.Score(ctx, posting, r.Profile)
		if err != nil {
			zl.Warn("second opinion failed",
				zap.String("candidate_id", r.Profile.ID),
				zap.Error(err),
			)
			continue
		}

		fmt.Printf("  %s — %.1f%% (%s): %s\n", r.Profile.ID, verdict.Score, verdict.Strategy, verdict.Rationale)
	}
	fmt.Println()
}

// inviteLoop lets the operator create interview sessions for suitable
// candidates one by one.
func inviteLoop(ctx context.Context, controller *interview.Controller, posting *recruiting.JobPosting, ranked []scoring.Ranked, config *Config, zl *zap.Logger) {
	suitable := make([]scoring.Ranked, 0, len(ranked))
	for _, r := range ranked {
		if r.Result.Suitable {
			suitable = append(suitable, r)
		}
	}

	for {
		items := make([]string, 0, len(suitable)+1)
		for _, r := range suitable {
			items = append(items, fmt.Sprintf("%s (%.1f%%)", r.Profile.ID, r.Result.Score))
		}

		prompt := promptui.Select{
			Label: "Invite a candidate to an interview",
			Items: append(items, PromptDone),
		}

		index, selected, err := prompt.Run()
		if err != nil {
			zl.Fatal("exiting", zap.Error(err))
		}

		if selected == PromptDone {
			return
		}

		candidate := suitable[index].Profile
		session, err := controller.Create(ctx, posting, candidate, config.Interview.Questions)
		if err != nil {
			zl.Error("creating interview session", zap.Error(err))
			continue
		}

		logger.WithSession(zl, session.ID, candidate.ID).Info("interview invitation ready",
			zap.String("candidate_email", candidate.Email),
			zap.Time("expires_at", session.ExpiresAt),
		)

		fmt.Printf("Interview code for %s: %s (valid until %s)\n",
			candidate.ID, session.ID, session.ExpiresAt.Format("2006-01-02"))
	}
}
