package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"todo-app/app"
	"todo-app/config"
	"todo-app/logging"
	"todo-app/model"
	"todo-app/store"
	"todo-app/tui"
)

const closeTimeout = 5 * time.Second

var ErrNoTerminal = errors.New("the interactive list needs a terminal; use a subcommand such as 'todo-app list' instead")

// App holds flag values and what PersistentPreRunE resolves from them.
type App struct {
	DataDir            string
	Backend            string
	Key                string
	Platform           string
	KeyboardDurationMS int
	LogLevel           string
	LogFile            string
	NoColor            bool

	cfg       *config.Config
	logger    *log.Logger
	logCloser io.Closer
}

func NewRootCmd() *cobra.Command {
	a := &App{}

	cmd := &cobra.Command{
		Use:          "todo-app",
		Short:        "A single-screen to-do list",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive list
  todo-app

  # Scriptable commands
  todo-app add buy milk
  todo-app list --filter active
  todo-app export --markdown
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(a)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.setup(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return a.teardown()
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.DataDir, "data-dir", "", "Directory holding the list and the log file")
	pf.StringVar(&a.Backend, "backend", "", "Storage backend (file|sqlite)")
	pf.StringVar(&a.Key, "key", "", "Storage key the list is saved under")
	pf.StringVar(&a.Platform, "platform", "", "Keyboard/layout behaviour (terminal|ios|android)")
	pf.IntVar(&a.KeyboardDurationMS, "keyboard-duration-ms", 0, "Duration of the key drawer animation")
	pf.StringVar(&a.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	pf.StringVar(&a.LogFile, "log-file", "", "Log file (default <data-dir>/todo-app.log)")
	pf.BoolVar(&a.NoColor, "no-color", false, "Disable colors")

	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newAddCmd(a))
	cmd.AddCommand(newDoneCmd(a))
	cmd.AddCommand(newRemoveCmd(a))
	cmd.AddCommand(newClearCmd(a))
	cmd.AddCommand(newToggleAllCmd(a))
	cmd.AddCommand(newExportCmd(a))

	return cmd
}

// overrides maps explicitly set flags onto config overrides, so unset
// flags never shadow the config file or the environment.
func (a *App) overrides(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	changed := cmd.Flags().Changed
	if changed("data-dir") {
		o.DataDir = &a.DataDir
	}
	if changed("backend") {
		o.Backend = &a.Backend
	}
	if changed("key") {
		o.Key = &a.Key
	}
	if changed("platform") {
		o.Platform = &a.Platform
	}
	if changed("keyboard-duration-ms") {
		o.KeyboardDuration = &a.KeyboardDurationMS
	}
	if changed("log-level") {
		o.LogLevel = &a.LogLevel
	}
	if changed("log-file") {
		o.LogFile = &a.LogFile
	}
	if changed("no-color") {
		o.NoColor = &a.NoColor
	}
	return o
}

func (a *App) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.overrides(cmd))
	if err != nil {
		return err
	}
	a.cfg = cfg

	opts := logging.DefaultOptions()
	opts.Level = cfg.LogLevel
	opts.File = cfg.LogFile
	logger, closer, err := logging.New(opts)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	a.logger, a.logCloser = logger, closer

	if cfg.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	logger.Debug("config resolved", "data_dir", cfg.DataDir, "backend", cfg.Storage.Backend, "platform", cfg.Platform)
	return nil
}

func (a *App) teardown() error {
	if a.logCloser == nil {
		return nil
	}
	err := a.logCloser.Close()
	a.logCloser = nil
	return err
}

func runTUI(a *App) error {
	if !(term.IsTerminal(int(os.Stdin.Fd())) || term.IsTerminal(int(os.Stdout.Fd()))) {
		return ErrNoTerminal
	}

	kv, err := store.Open(a.cfg.StoreOptions())
	if err != nil {
		return err
	}
	writer := store.NewWriter(kv, a.cfg.Storage.Key, a.logger)

	m := tui.NewModel(app.NewService(model.NewState()), tui.Options{
		KV:               kv,
		Key:              a.cfg.Storage.Key,
		Writer:           writer,
		Logger:           a.logger,
		Platform:         a.cfg.ViewportPlatform(),
		KeyboardDuration: a.cfg.KeyboardDuration(),
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, runErr := p.Run()

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := errors.Join(writer.Close(ctx), kv.Close()); err != nil {
		a.logger.Error("closing store", "err", err)
		if runErr == nil {
			return err
		}
	}
	return runErr
}

// session is a loaded list for one scriptable command.
type session struct {
	kv     store.KV
	writer *store.Writer
	svc    *app.Service
}

func (a *App) open(cmd *cobra.Command) (*session, error) {
	kv, err := store.Open(a.cfg.StoreOptions())
	if err != nil {
		return nil, err
	}
	state, status := store.Load(cmd.Context(), kv, a.cfg.Storage.Key, a.logger)
	if status != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), status)
	}
	s := &session{
		kv:     kv,
		writer: store.NewWriter(kv, a.cfg.Storage.Key, a.logger),
		svc:    app.NewService(state),
	}
	s.svc.OnChange = func(state model.State) {
		if err := s.writer.Save(state); err != nil {
			a.logger.Error("queue save", "err", err)
		}
	}
	return s, nil
}

func (s *session) close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, closeTimeout)
	defer cancel()
	return errors.Join(s.writer.Close(ctx), s.kv.Close())
}

// withSession runs fn against the stored list and waits for its writes.
func withSession(cmd *cobra.Command, a *App, fn func(*session) error) error {
	s, err := a.open(cmd)
	if err != nil {
		return writeErr(cmd, err)
	}
	runErr := fn(s)
	closeErr := s.close(context.WithoutCancel(cmd.Context()))
	if runErr != nil {
		return writeErr(cmd, runErr)
	}
	if closeErr != nil {
		return writeErr(cmd, closeErr)
	}
	return nil
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
