package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/gitrecruiter/internal/failure"
	"github.com/spigell/gitrecruiter/internal/github"
	"github.com/spigell/gitrecruiter/internal/logger"
	"github.com/spigell/gitrecruiter/internal/recruiter"
	"github.com/spigell/gitrecruiter/internal/render"
	"github.com/spigell/gitrecruiter/internal/secrets"
)

const (
	PromptAnother  = "Evaluate another profile"
	PromptShowJSON = "Show the last report as JSON"
	PromptExit     = "Exit"
)

var errExit = errors.New("exit requested")

var nextPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptAnother, PromptShowJSON, PromptExit},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [handle-or-url]",
	Short: "Evaluate a GitHub profile. Without an argument an interactive prompt is started",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		evaluate(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringP("output", "o", "", "report format: text or json")
	evaluateCmd.Flags().StringP("model", "m", "", "gemini model to use")

	viper.BindPFlag("output", evaluateCmd.Flags().Lookup("output"))
	viper.BindPFlag("ai.gemini.model", evaluateCmd.Flags().Lookup("model"))
}

func evaluate(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting the gitrecruiter", zap.String("version", version))

	format := strings.ToLower(strings.TrimSpace(config.Output))
	if format != render.FormatText && format != render.FormatJSON {
		logger.Fatal("unsupported output format", zap.String("output", config.Output))
	}

	runnerCfg, err := newRunnerConfig(config)
	if err != nil {
		logger.Fatal("loading credentials", zap.Error(err))
	}

	runner, err := recruiter.New(runnerCfg, logger)
	if err != nil {
		logger.Fatal("creating the runner", zap.Error(err))
	}

	if len(args) == 1 {
		if err := search(ctx, runner, args[0], format, out, logger); err != nil {
			logger.Fatal("exiting", zap.String("reason", string(failure.KindOf(err))))
		}
		return
	}

	if err := interactive(ctx, runner, format, out, logger); err != nil && !errors.Is(err, errExit) {
		logger.Fatal("exiting", zap.Error(err))
	}
}

// interactive asks for handles until the user quits.
func interactive(ctx context.Context, runner *recruiter.Runner, format string, out io.Writer, logger *zap.Logger) error {
	handlePrompt := promptui.Prompt{
		Label: "GitHub username or profile URL",
		Validate: func(input string) error {
			_, err := github.ParseHandle(input)
			return err
		},
	}

	for {
		raw, err := handlePrompt.Run()
		if err != nil {
			return promptError(err)
		}

		// The failure was already rendered for the user.
		_ = search(ctx, runner, raw, format, out, logger)

		if err := handleNext(runner, out); err != nil {
			return err
		}
	}
}

func handleNext(runner *recruiter.Runner, out io.Writer) error {
	for {
		_, action, err := nextPrompt.Run()
		if err != nil {
			return promptError(err)
		}

		switch action {
		case PromptAnother:
			return nil
		case PromptShowJSON:
			if err := render.JSON(out, runner.Snapshot()); err != nil {
				fmt.Fprintln(out, err)
			}
		case PromptExit:
			return errExit
		default:
			return fmt.Errorf("invalid action: %s", action)
		}
	}
}

func promptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return errExit
	}
	return err
}

// search runs one evaluation and renders whatever the session ended with.
func search(ctx context.Context, runner *recruiter.Runner, raw, format string, out io.Writer, logger *zap.Logger) error {
	_, runErr := runner.Run(ctx, raw)

	var fe *failure.Error
	if errors.As(runErr, &fe) {
		logger.Debug("evaluation failure detail",
			zap.String("kind", string(fe.Kind)),
			zap.String("detail", fe.Detail()),
		)
	}

	// An invalid handle never starts a search, so there is no session to show.
	if failure.KindOf(runErr) == failure.KindInvalidHandle {
		if format == render.FormatJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return errors.Join(runErr, enc.Encode(render.Report{
				Error: &render.ReportError{Kind: string(failure.KindInvalidHandle), Message: runErr.Error()},
			}))
		}
		fmt.Fprintln(out, runErr)
		return runErr
	}

	if err := render.Write(out, format, runner.Snapshot()); err != nil {
		return errors.Join(runErr, fmt.Errorf("rendering report: %w", err))
	}

	return runErr
}

func newRunnerConfig(config *Config) (recruiter.Config, error) {
	provider := strings.TrimSpace(strings.ToLower(config.AI.Provider))
	if provider != "" && provider != "gemini" {
		return recruiter.Config{}, fmt.Errorf("unsupported ai provider: %s", config.AI.Provider)
	}

	gemini := config.AI.Gemini

	// A missing key is reported by the runner as a missing credential, so
	// the search fails with the user-facing message instead of here.
	apiKey, err := secrets.Load(secrets.Source{
		Name:     "gemini api key",
		Value:    gemini.APIKey,
		File:     gemini.APIKeyFile,
		Optional: true,
	})
	if err != nil {
		return recruiter.Config{}, fmt.Errorf("%w (check ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	token, err := secrets.Load(secrets.Source{
		Name:     "github token",
		Value:    config.GitHub.Token,
		File:     config.GitHub.TokenFile,
		Optional: true,
	})
	if err != nil {
		return recruiter.Config{}, fmt.Errorf("%w (check github.token-file or GITHUB_TOKEN_FILE)", err)
	}

	return recruiter.Config{
		GeminiAPIKey:    apiKey,
		GeminiModel:     gemini.Model,
		GitHubToken:     token,
		GitHubAPIURL:    config.GitHub.APIURL,
		FetchTimeout:    config.GitHub.Timeout,
		EvaluateTimeout: gemini.Timeout,
		MaxLogLength:    gemini.MaxLogLength,
	}, nil
}
