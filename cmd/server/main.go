package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/jrsteele09/go-retro-poster/credentials"
	"github.com/jrsteele09/go-retro-poster/internal/config"
	"github.com/jrsteele09/go-retro-poster/internal/logging"
	"github.com/jrsteele09/go-retro-poster/server"
	"github.com/jrsteele09/go-retro-poster/twitter"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const verifyTimeout = 10 * time.Second

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("panic", fmt.Sprint(r)).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	logging.Init(c.GetEnv(), os.Stderr)

	if err := config.Validate(c); err != nil {
		return err
	}
	app, err := loadAppCredentials(c)
	if err != nil {
		return err
	}

	displayAppname(c.GetAppName())
	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           server.New(c, app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(httpServer) }()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

// loadAppCredentials returns the app credential for the configured mode, or nil when posting needs a
// signed-in user. Credentials the provider rejects stop the server from starting.
func loadAppCredentials(c config.Config) (*credentials.App, error) {
	switch c.GetCredentialMode() {
	case config.CredentialModeOAuth:
		return nil, nil
	case config.CredentialModeAuto:
		if len(config.MissingAppVars(c)) > 0 {
			log.Info().Msg("App credentials not configured, posting requires sign-in")
			return nil, nil
		}
	}

	app, err := credentials.LoadApp(c)
	if err != nil {
		return nil, err
	}
	if !c.GetVerifyCredentials() {
		return app, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()
	user, err := twitter.NewClient(app.HTTPClient(ctx), c.GetAPIURL()).Me(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to verify app credentials")
	}
	log.Info().Str("username", user.Username).Msg("App credentials verified")
	return app, nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
