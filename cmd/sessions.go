package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/longkey1/gemchat/internal/gemchat"
	"github.com/longkey1/gemchat/internal/gemchat/config"
	"github.com/longkey1/gemchat/internal/gemchat/session"
	"github.com/longkey1/gemchat/internal/render"
)

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage conversation sessions",
	Long: `Manage conversation sessions including listing, viewing, and deleting sessions.

Sessions allow you to maintain conversation history across multiple interactions.`,
}

// sessionsListCmd represents the sessions list command
var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sessions",
	Long:  `List all conversation sessions sorted by most recently updated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := sessionStore()
		if err != nil {
			return err
		}
		sessions, err := store.List()
		if err != nil {
			return fmt.Errorf("listing sessions: %w", err)
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			fmt.Println("\nCreate a new session with:")
			fmt.Println("  gemchat chat --new-session \"your message\"")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tMODEL\tUPDATED\tMESSAGES\tNAME")
		fmt.Fprintln(w, "--\t-----\t-------\t--------\t----")
		for _, sess := range sessions {
			name := sess.Name
			if name == "" {
				name = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				sess.GetShortID(),
				sess.Model,
				sess.UpdatedAt.Format("2006-01-02 15:04"),
				sess.MessageCount(),
				name,
			)
		}
		w.Flush()

		fmt.Println("\nUse 'gemchat sessions show <id>' to view session details.")
		return nil
	},
}

// sessionsShowCmd represents the sessions show command
var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show session details and history",
	Long: `Show detailed information about a session including all messages.

The ID can be a short ID (minimum 4 characters), full UUID, or "latest" for the most recent session.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		store, err := sessionStore()
		if err != nil {
			return err
		}
		sess, err := store.FindByPrefix(args[0])
		if err != nil {
			return fmt.Errorf("finding session: %w", err)
		}

		fmt.Printf("Session: %s\n", sess.ID)
		if sess.Name != "" {
			fmt.Printf("Name: %s\n", sess.Name)
		}
		fmt.Printf("Model: %s\n", sess.Model)
		fmt.Printf("Created: %s\n", sess.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Updated: %s\n", sess.UpdatedAt.Format("2006-01-02 15:04:05"))
		if sess.Prompt != "" {
			fmt.Printf("Prompt: %s\n", sess.Prompt)
		}
		fmt.Printf("Messages: %d\n", sess.MessageCount())
		fmt.Println()

		if len(sess.Messages) == 0 {
			fmt.Println("No messages in this session.")
			return nil
		}

		r := render.ForStdout(cfg.Markdown, cfg.WordWrap)
		for i, msg := range sess.Messages {
			meta := msg.Timestamp.Format("2006-01-02 15:04:05")
			if msg.Outcome != "" && msg.Outcome != gemchat.Response.String() {
				meta += ", " + msg.Outcome
			}
			r.Muted("[%d] %s", i+1, meta)
			r.Turn(gemchat.Turn{Role: msg.Role, Content: msg.Content})
		}

		fmt.Printf("Continue this session with:\n  gemchat chat -s %s \"your message\"\n", sess.GetShortID())
		return nil
	},
}

// sessionsDeleteCmd represents the sessions delete command
var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a session",
	Long: `Delete a conversation session permanently.

The ID can be a short ID (minimum 4 characters), full UUID, or "latest" for the most recent session.

Warning: This action cannot be undone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := sessionStore()
		if err != nil {
			return err
		}
		sess, err := store.FindByPrefix(args[0])
		if err != nil {
			return fmt.Errorf("finding session: %w", err)
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force && !confirm(fmt.Sprintf("Are you sure you want to delete session %s?", sess.GetShortID())) {
			fmt.Println("Deletion cancelled.")
			return nil
		}

		if err := store.Delete(sess.ID); err != nil {
			return fmt.Errorf("deleting session: %w", err)
		}

		fmt.Printf("Session %s deleted successfully.\n", sess.GetShortID())
		return nil
	},
}

// sessionsRenameCmd represents the sessions rename command
var sessionsRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a session",
	Long: `Rename a conversation session.

The ID can be a short ID (minimum 4 characters), full UUID, or "latest" for the most recent session.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := sessionStore()
		if err != nil {
			return err
		}
		sess, err := store.FindByPrefix(args[0])
		if err != nil {
			return fmt.Errorf("finding session: %w", err)
		}

		sess.Name = args[1]
		if err := store.Save(sess); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		fmt.Printf("Session %s renamed to %q.\n", sess.GetShortID(), sess.Name)
		return nil
	},
}

// sessionsClearCmd represents the sessions clear command
var sessionsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete old sessions",
	Long: `Delete old conversation sessions permanently.

By default, deletes sessions not updated within session_retention_days (30 days).
Use --before to specify a different date, or --all to delete all sessions.

Warning: This action cannot be undone.

Examples:
  gemchat sessions clear                      # Delete sessions older than the retention period
  gemchat sessions clear --before 2024-01-01  # Delete sessions last updated before 2024-01-01
  gemchat sessions clear --before 2024-12     # Delete sessions last updated before 2024-12-01
  gemchat sessions clear --all                # Delete all sessions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		beforeDateStr, _ := cmd.Flags().GetString("before")
		deleteAll, _ := cmd.Flags().GetBool("all")
		force, _ := cmd.Flags().GetBool("force")

		if deleteAll && beforeDateStr != "" {
			return fmt.Errorf("cannot specify both --all and --before")
		}

		store, err := sessionStore()
		if err != nil {
			return err
		}
		sessions, err := store.List()
		if err != nil {
			return fmt.Errorf("listing sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions to delete.")
			return nil
		}

		var cutoff time.Time
		var question string
		switch {
		case deleteAll:
			cutoff = time.Now().Add(time.Second)
			question = fmt.Sprintf("Are you sure you want to delete all %d sessions?", len(sessions))
		case beforeDateStr != "":
			cutoff, err = parseDate(beforeDateStr)
			if err != nil {
				return fmt.Errorf("parsing date: %w", err)
			}
		default:
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cutoff = retentionCutoff(time.Now(), cfg.SessionRetentionDays)
		}

		if question == "" {
			matched := countBefore(sessions, cutoff)
			if matched == 0 {
				fmt.Printf("No sessions found last updated before %s.\n", cutoff.Format("2006-01-02"))
				return nil
			}
			question = fmt.Sprintf("Are you sure you want to delete %d sessions last updated before %s?",
				matched, cutoff.Format("2006-01-02"))
		}

		if !force && !confirm(question) {
			fmt.Println("Deletion cancelled.")
			return nil
		}

		deleted, err := store.DeleteBefore(cutoff)
		if err != nil {
			return fmt.Errorf("deleting sessions (%d deleted): %w", deleted, err)
		}
		fmt.Printf("Successfully deleted %d sessions.\n", deleted)
		return nil
	},
}

// parseDate parses a date string in various formats and returns a time.Time
// Supported formats: YYYY-MM-DD, YYYY-MM, YYYY
func parseDate(dateStr string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.ParseInLocation(layout, dateStr, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: %s (use YYYY-MM-DD, YYYY-MM, or YYYY)", dateStr)
}

// retentionCutoff returns the time before which sessions are expired
func retentionCutoff(now time.Time, retentionDays int) time.Time {
	return now.AddDate(0, 0, -retentionDays)
}

func countBefore(sessions []session.Session, cutoff time.Time) int {
	n := 0
	for _, sess := range sessions {
		if sess.UpdatedAt.Before(cutoff) {
			n++
		}
	}
	return n
}

// confirm asks a yes/no question on stdout, defaulting to no
func confirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	var response string
	fmt.Scanln(&response)
	return response == "y" || response == "Y"
}

// sessionsStartCmd represents the sessions start command
var sessionsStartCmd = &cobra.Command{
	Use:   "start [session-id]",
	Short: "Start an interactive session",
	Long: `Start an interactive chat session with continuous conversation.

You can either start a new session or continue an existing one by providing its ID.
The ID can be a short ID (minimum 4 characters), full UUID, or "latest" for the most recent session.

Examples:
  gemchat sessions start                # Start a new interactive session
  gemchat sessions start 550e8400       # Continue session 550e8400 in interactive mode
  gemchat sessions start latest         # Continue latest session in interactive mode`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		store, err := sessionStore()
		if err != nil {
			return err
		}

		var sess *session.Session
		if len(args) > 0 {
			sess, err = store.FindByPrefix(args[0])
			if err != nil {
				return fmt.Errorf("finding session: %w", err)
			}
			cfg.Model = sess.Model
			logger.Debug("continuing session", zap.String("id", sess.GetShortID()), zap.String("model", sess.Model))
		} else {
			if err := applyModel(cmd, cfg, nil); err != nil {
				return err
			}
			sess = session.NewSession(cfg.Model)
			if err := store.Save(sess); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Session created: %s\n", sess.GetShortID())
			fmt.Fprintf(os.Stderr, "Path: %s\n\n", store.Path(sess.ID))
		}

		provider, err := newProvider(cfg)
		if err != nil {
			return fmt.Errorf("creating provider: %w", err)
		}

		repl := &interactiveSession{
			sess:     sess,
			store:    store,
			conv:     gemchat.NewConversation(provider, sess.Turns()),
			renderer: render.ForStdout(cfg.Markdown, cfg.WordWrap),
		}
		if err := repl.run(cmd.Context(), historyFile(store)); err != nil {
			return fmt.Errorf("interactive mode: %w", err)
		}
		return nil
	},
}

// interactiveSession drives one REPL over a persisted session.
type interactiveSession struct {
	sess     *session.Session
	store    *session.Store
	conv     *gemchat.Conversation
	renderer *render.Renderer
}

func (s *interactiveSession) run(ctx context.Context, historyPath string) error {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()

	if f, err := os.Open(historyPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		f, err := os.OpenFile(historyPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			logger.Debug("saving input history", zap.Error(err))
			return
		}
		line.WriteHistory(f)
		f.Close()
	}()

	fmt.Fprintf(os.Stderr, "\n=== Interactive Session [%s] ===\n", s.sess.GetShortID())
	fmt.Fprintf(os.Stderr, "Model: %s\n", s.sess.Model)
	fmt.Fprintf(os.Stderr, "Type '/help' for commands, '/exit' or 'Ctrl+D' to quit\n")
	fmt.Fprintf(os.Stderr, "===================================\n\n")

	for {
		input, err := line.Prompt("You> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(os.Stderr, "\nGoodbye!")
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if s.handleCommand(input) {
				continue
			}
			return nil
		}

		s.exchange(ctx, input)
	}
}

// exchange submits one message and persists the result. Ctrl+C while the
// request is in flight cancels it, which surfaces as a transport error.
func (s *interactiveSession) exchange(parent context.Context, input string) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	stopSpinner := func() {}
	if render.IsTerminal(os.Stderr) {
		stopSpinner = startSpinner(os.Stderr)
	}

	outcome, err := s.conv.Submit(ctx, input)
	stopSpinner()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}

	recordExchange(s.sess, s.conv, outcome)
	if err := s.store.Save(s.sess); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save session: %v\n", err)
	}

	fmt.Println()
	fmt.Println(s.renderer.Label(gemchat.RoleModel))
	s.renderer.Outcome(outcome)
	fmt.Println()
}

// startSpinner draws a spinner on w until the returned stop func is called.
// stop clears the line and returns only after the spinner has stopped
// writing.
func startSpinner(w io.Writer) (stop func()) {
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		showSpinner(w, done, 80*time.Millisecond)
	}()
	return func() {
		close(done)
		<-stopped
	}
}

func showSpinner(w io.Writer, done <-chan struct{}, interval time.Duration) {
	spinners := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for i := 0; ; i = (i + 1) % len(spinners) {
		fmt.Fprintf(w, "\r%s Waiting for response...", spinners[i])
		select {
		case <-done:
			fmt.Fprint(w, "\r\033[K")
			return
		case <-ticker.C:
		}
	}
}

// handleCommand processes slash commands in interactive mode
// Returns true to continue the loop, false to exit
func (s *interactiveSession) handleCommand(command string) bool {
	command = strings.ToLower(strings.TrimSpace(command))

	switch command {
	case "/help", "/h":
		fmt.Fprintln(os.Stderr, "\nAvailable commands:")
		fmt.Fprintln(os.Stderr, "  /help, /h     - Show this help message")
		fmt.Fprintln(os.Stderr, "  /info, /i     - Show session information")
		fmt.Fprintln(os.Stderr, "  /history      - Show the conversation so far")
		fmt.Fprintln(os.Stderr, "  /clear, /c    - Clear screen")
		fmt.Fprintln(os.Stderr, "  /exit, /quit  - Exit interactive mode")
		fmt.Fprintln(os.Stderr, "  Ctrl+D        - Exit interactive mode")
		fmt.Fprintln(os.Stderr, "")
		return true

	case "/info", "/i":
		fmt.Fprintln(os.Stderr, "\nSession Information:")
		fmt.Fprintf(os.Stderr, "  ID: %s\n", s.sess.GetShortID())
		fmt.Fprintf(os.Stderr, "  Full ID: %s\n", s.sess.ID)
		if s.sess.Name != "" {
			fmt.Fprintf(os.Stderr, "  Name: %s\n", s.sess.Name)
		}
		fmt.Fprintf(os.Stderr, "  Model: %s\n", s.sess.Model)
		fmt.Fprintf(os.Stderr, "  Messages: %d\n", s.conv.Len())
		fmt.Fprintf(os.Stderr, "  Created: %s\n", s.sess.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintln(os.Stderr, "")
		return true

	case "/history":
		fmt.Println()
		for _, turn := range s.conv.History() {
			s.renderer.Turn(turn)
		}
		return true

	case "/clear", "/c":
		fmt.Print("\033[H\033[2J")
		return true

	case "/exit", "/quit", "/q":
		fmt.Fprintln(os.Stderr, "Goodbye!")
		return false

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s (type '/help' for available commands)\n", command)
		return true
	}
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	sessionsCmd.AddCommand(sessionsRenameCmd)
	sessionsCmd.AddCommand(sessionsClearCmd)
	sessionsCmd.AddCommand(sessionsStartCmd)

	sessionsDeleteCmd.Flags().BoolP("force", "f", false, "Delete without confirmation")

	sessionsClearCmd.Flags().String("before", "", "Delete only sessions last updated before this date (format: YYYY-MM-DD, YYYY-MM, or YYYY)")
	sessionsClearCmd.Flags().Bool("all", false, "Delete all sessions (overrides retention days setting)")
	sessionsClearCmd.Flags().BoolP("force", "f", false, "Delete without confirmation")

	sessionsStartCmd.Flags().StringVarP(&model, "model", "m", "", "Model for a new session (format: provider:model)")
}
