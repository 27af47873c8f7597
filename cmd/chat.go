/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/longkey1/gemchat/internal/gemchat"
	"github.com/longkey1/gemchat/internal/gemchat/config"
	promptpkg "github.com/longkey1/gemchat/internal/gemchat/prompt"
	"github.com/longkey1/gemchat/internal/gemchat/session"
	"github.com/longkey1/gemchat/internal/render"
)

var (
	model           string
	prompt          string
	argFlags        []string
	useEditor       bool
	rawOutput       bool
	sessionID       string
	newSession      bool
	sessionName     string
	ignoreThreshold bool
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Send a message to Gemini",
	Long: `Send a message to Gemini and print the reply.
Without session flags this performs a single generateContent call.

For interactive multi-turn conversations, use 'gemchat sessions start' instead.

If no message is provided as an argument, it reads from stdin.
If --editor flag is set, it opens the default editor (from EDITOR environment variable) to compose the message.

The prompt file should be in TOML format with the following structure:
system = "System prompt with optional {{input}} placeholder"
user = "User prompt with optional {{input}} placeholder"
model = "optional-model-name"  # Optional: overrides the default model for this prompt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if sessionID != "" && newSession {
			return fmt.Errorf("cannot specify both --session and --new-session")
		}
		if sessionID != "" && prompt != "" {
			return fmt.Errorf("cannot use --prompt with existing session")
		}

		message, err := readMessage(args)
		if err != nil {
			return err
		}
		if message == "" {
			return fmt.Errorf("no message provided")
		}

		store, err := sessionStore()
		if err != nil {
			return fmt.Errorf("resolving session directory: %w", err)
		}

		var sess *session.Session
		if sessionID != "" {
			sess, err = store.FindByPrefix(sessionID)
			if err != nil {
				return fmt.Errorf("finding session: %w", err)
			}
			if !confirmThreshold(sess, cfg.SessionMessageThreshold) {
				fmt.Fprintln(os.Stderr, "Cancelled.")
				return nil
			}
			cfg.Model = sess.Model
			logger.Debug("continuing session", zap.String("id", sess.GetShortID()), zap.String("model", sess.Model))
		} else {
			formatted, promptModel, err := promptpkg.FormatMessage(message, prompt, cfg.PromptDirs, argFlags)
			if err != nil {
				return fmt.Errorf("formatting message with prompt: %w", err)
			}
			message = formatted

			if err := applyModel(cmd, cfg, promptModel); err != nil {
				return err
			}

			if newSession {
				sess = session.NewSession(cfg.Model)
				sess.Name = sessionName
				sess.Prompt = prompt
				logger.Debug("creating session", zap.String("id", sess.GetShortID()), zap.String("model", sess.Model))
			}
		}

		provider, err := newProvider(cfg)
		if err != nil {
			return fmt.Errorf("creating provider: %w", err)
		}

		var history []gemchat.Turn
		if sess != nil {
			history = sess.Turns()
		}
		conv := gemchat.NewConversation(provider, history)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		outcome, err := conv.Submit(ctx, message)
		if err != nil {
			return fmt.Errorf("chat request failed: %w", err)
		}

		if sess != nil {
			recordExchange(sess, conv, outcome)
			if err := store.Save(sess); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}
		}

		if outcome.IsFailure() {
			if newSession {
				printSessionHint(os.Stderr, store, sess)
			}
			return errors.New(outcome.DisplayLine())
		}
		render.ForStdout(cfg.Markdown && !rawOutput, cfg.WordWrap).Outcome(outcome)

		if newSession {
			printSessionHint(os.Stderr, store, sess)
		}

		return nil
	},
}

// printSessionHint tells the user how to continue a session created by
// --new-session. The session is saved whatever the outcome was.
func printSessionHint(w io.Writer, store *session.Store, sess *session.Session) {
	fmt.Fprintf(w, "\nSession created: %s\n", sess.GetShortID())
	fmt.Fprintf(w, "Path: %s\n", store.Path(sess.ID))
	fmt.Fprintf(w, "\nNext time, use:\n  gemchat chat -s %s \"your message\"\n", sess.GetShortID())
	fmt.Fprintf(w, "For interactive mode, use:\n  gemchat sessions start %s\n", sess.GetShortID())
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVarP(&model, "model", "m", "", "Model to use (format: provider:model, e.g., gemini:gemini-2.5-pro)")
	chatCmd.Flags().StringVarP(&prompt, "prompt", "p", "", "Name of the prompt template (without .toml extension)")
	chatCmd.Flags().StringArrayVar(&argFlags, "arg", []string{}, "Key-value pairs for prompt template (format: key:value)")
	chatCmd.Flags().BoolVarP(&useEditor, "editor", "e", false, "Use default editor (from EDITOR environment variable) to compose message")
	chatCmd.Flags().BoolVar(&rawOutput, "raw", false, "Print the reply without markdown rendering")

	// Session flags
	chatCmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session ID (short or full UUID, or 'latest' for most recent session)")
	chatCmd.Flags().BoolVarP(&newSession, "new-session", "n", false, "Create a new session")
	chatCmd.Flags().StringVar(&sessionName, "session-name", "", "Name for the new session (optional)")
	chatCmd.Flags().BoolVar(&ignoreThreshold, "ignore-threshold", false, "Ignore session message threshold warning")
}

// readMessage takes the message from the editor, the arguments or stdin
func readMessage(args []string) (string, error) {
	if useEditor {
		message, err := getMessageFromEditor()
		if err != nil {
			return "", fmt.Errorf("getting message from editor: %w", err)
		}
		return message, nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading from stdin: %w", err)
	}
	return strings.TrimSpace(string(input)), nil
}

// applyModel sets cfg.Model with priority: flag > env > prompt template > config file
func applyModel(cmd *cobra.Command, cfg *config.Config, promptModel *string) error {
	var source, value string
	if cmd.Flags().Changed("model") {
		source, value = "flag", model
	} else if env := os.Getenv("GEMCHAT_MODEL"); env != "" {
		source, value = "environment", env
	} else if promptModel != nil {
		source, value = "prompt file", *promptModel
	} else {
		return nil
	}

	provider, _, err := gemchat.ParseModelString(value)
	if err != nil {
		return fmt.Errorf("invalid model from %s: %w", source, err)
	}
	if provider != "gemini" {
		return fmt.Errorf("unsupported provider from %s: %s (only gemini is supported)", source, provider)
	}
	cfg.Model = value
	logger.Debug("model selected", zap.String("source", source), zap.String("model", value))
	return nil
}

// confirmThreshold warns about long sessions and asks whether to continue
func confirmThreshold(sess *session.Session, threshold int) bool {
	if threshold <= 0 || sess.MessageCount() < threshold || ignoreThreshold {
		return true
	}

	fmt.Fprintf(os.Stderr, "\nWarning: Session %s has %d messages (threshold: %d).\n",
		sess.GetShortID(), sess.MessageCount(), threshold)
	fmt.Fprintf(os.Stderr, "The whole history is sent with every request, long sessions cost more tokens.\n")
	fmt.Fprintf(os.Stderr, "\nOptions:\n")
	fmt.Fprintf(os.Stderr, "  1. Continue anyway with --ignore-threshold flag\n")
	fmt.Fprintf(os.Stderr, "  2. Start a new session: gemchat chat --new-session\n\n")

	fmt.Fprint(os.Stderr, "Continue with this session? [y/N]: ")
	var response string
	fmt.Scanln(&response)
	return response == "y" || response == "Y"
}

// recordExchange copies the user and model turns of the last Submit into sess.
func recordExchange(sess *session.Session, conv *gemchat.Conversation, outcome gemchat.Outcome) {
	turns := conv.History()
	if len(turns) < 2 {
		return
	}
	sess.AddTurn(turns[len(turns)-2], 0)
	sess.AddTurn(turns[len(turns)-1], outcome.Kind)
}

// getMessageFromEditor opens the default editor and returns the edited message
func getMessageFromEditor() (string, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		return "", fmt.Errorf("EDITOR environment variable is not set")
	}

	tmpFile, err := os.CreateTemp("", "gemchat-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %v", err)
	}
	defer os.Remove(tmpFile.Name())
	tmpFile.Close()

	cmd := exec.Command(editor, tmpFile.Name())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to open editor: %v", err)
	}

	content, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		return "", fmt.Errorf("failed to read edited content: %v", err)
	}

	return strings.TrimSpace(string(content)), nil
}
