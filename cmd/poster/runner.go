package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jrsteele09/go-retro-poster/client"
	"github.com/jrsteele09/go-retro-poster/client/store"
	"github.com/jrsteele09/go-retro-poster/internal/logging"
	"github.com/jrsteele09/go-retro-poster/internal/tui"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

// Runner holds the dependencies of the CLI commands and provides a method for each command action.
type Runner struct {
	config      *Config
	httpClient  *http.Client
	output      io.Writer
	input       io.Reader
	logOutput   io.Writer
	openBrowser func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *Config
	HTTPClient  *http.Client
	Output      io.Writer
	Input       io.Reader
	LogOutput   io.Writer
	OpenBrowser func(string) error
}

// NewRunner creates a Runner, filling in defaults for anything not provided.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = OpenBrowser
	}
	return &Runner{
		config:      opts.Config,
		httpClient:  opts.HTTPClient,
		output:      opts.Output,
		input:       opts.Input,
		logOutput:   opts.LogOutput,
		openBrowser: opts.OpenBrowser,
	}
}

// Setup loads the configuration named by --config, unless one was injected, and attaches the logger.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.config == nil {
		c, err := LoadConfig(cmd.String("config"))
		if err != nil {
			return ctx, err
		}
		r.config = c
	}
	logger := logging.New(r.config.Log.Env, r.logOutput)
	return logger.WithContext(ctx), nil
}

// openApp opens the session store and builds the client application. close releases the store.
func (r *Runner) openApp(ctx context.Context) (app *client.App, closeStore func() error, err error) {
	if err := os.MkdirAll(filepath.Dir(r.config.Store.Path), 0o700); err != nil {
		return nil, nil, errors.Wrap(err, "creating store directory")
	}
	st, err := store.OpenSQLite(r.config.Store.Path)
	if err != nil {
		return nil, nil, err
	}
	api, err := client.NewAPI(r.config.Server.URL, client.WithHTTPClient(r.httpClient))
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	app, err = client.NewApp(ctx, api, st)
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	return app, st.Close, nil
}

// Login signs in through the browser. The provider redirects to the server's callback; the URL the
// browser lands on is pasted back here because the sign-in cookies live in this process.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	app, closeStore, err := r.openApp(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	authURL, err := app.BeginLogin(ctx)
	if err != nil {
		return err
	}
	r.writePlainln("Open this URL to sign in:\n\n  %s", authURL)
	if !cmd.Bool("no-browser") {
		if err := r.openBrowser(authURL); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("could not open browser")
		}
	}

	r.writePlain("\nPaste the URL your browser was redirected to: ")
	line, err := bufio.NewReader(r.input).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrap(err, "reading redirect url")
	}
	if strings.TrimSpace(line) == "" {
		return errors.New("no redirect url given")
	}

	if err := app.CompleteLogin(ctx, line); err != nil {
		return err
	}
	username, _ := app.Username()
	r.writePlainln("Signed in as @%s", username)
	return nil
}

func (r *Runner) Logout(ctx context.Context, _ *cli.Command) error {
	app, closeStore, err := r.openApp(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := app.Logout(ctx); err != nil {
		return err
	}
	r.writePlain("Signed out\n")
	return nil
}

func (r *Runner) Whoami(ctx context.Context, _ *cli.Command) error {
	app, closeStore, err := r.openApp(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	username, err := app.Username()
	if errors.Is(err, client.ErrNotSignedIn) {
		r.writePlain("Not signed in\n")
		return nil
	}
	if err != nil {
		return err
	}
	r.writePlain("@%s\n", username)
	return nil
}

// Post publishes the arguments joined by spaces, or standard input when there are none.
func (r *Runner) Post(ctx context.Context, cmd *cli.Command) error {
	text := strings.Join(cmd.Args().Slice(), " ")
	if text == "" {
		data, err := io.ReadAll(r.input)
		if err != nil {
			return errors.Wrap(err, "reading post from stdin")
		}
		text = strings.TrimRight(string(data), "\n")
	}

	app, closeStore, err := r.openApp(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	record, err := app.Post(ctx, text)
	if errors.Is(err, client.ErrNothingToPost) {
		return errors.New("post must be 1 to 280 characters")
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(record)
	}
	r.writePlain("%s\n", record.Link(r.config.Provider.WebURL))
	return nil
}

// Compose runs the terminal composer. Logs go to the log output only, never to the screen.
func (r *Runner) Compose(ctx context.Context, _ *cli.Command) error {
	app, closeStore, err := r.openApp(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	quiet := logging.New(r.config.Log.Env, io.Discard)
	model := tui.NewModel(quiet.WithContext(ctx), app, r.config.Provider.WebURL)
	if _, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithInput(r.input), tea.WithOutput(r.output)).Run(); err != nil {
		return fmt.Errorf("error running composer: %w", err)
	}
	return nil
}

func (r *Runner) writeJSON(data any) error {
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintf(r.output, "%s\n", output)
	return err
}

func (r *Runner) writePlain(format string, args ...any) {
	fmt.Fprintf(r.output, format, args...)
}

func (r *Runner) writePlainln(format string, args ...any) {
	fmt.Fprintf(r.output, "\n"+format+"\n", args...)
}
