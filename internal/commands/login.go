package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"todo/internal/backend/googletasks"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
	"todo/internal/store"
)

const (
	// OAuth callback timeout
	oauthCallbackTimeout = 5 * time.Minute

	// Token exchange timeout
	tokenExchangeTimeout = 30 * time.Second

	// Starting port for OAuth callback server
	oauthStartPort = 8085

	// Max port attempts
	oauthMaxPortAttempts = 5
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command for the Google Tasks backend.
type LoginCmd struct {
	useGoogle bool
}

// SetUseGoogle sets the --use-google flag (for testing).
func (c *LoginCmd) SetUseGoogle(v bool) {
	c.useGoogle = v
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Authenticate with Google Tasks" }
func (c *LoginCmd) Usage() string     { return "todo login [--use-google]" }
func (c *LoginCmd) NeedsStore() bool  { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.useGoogle, "use-google", false, "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if !cfg.HasOAuthClient() {
		printOAuthSetup(cfg, errOut)
		return exitcode.AuthError
	}

	if cfg.HasToken() && googletasks.TokenValid(ctx, cfg) {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return c.finish(cfg, out, errOut, false)
	}

	token, err := authorize(ctx, cfg, errOut)
	if err != nil {
		return report(cfg, errOut, err)
	}

	if err := cfg.EnsureDir(); err != nil {
		output.Errorf(errOut, styles(cfg, errOut), "failed to create config directory: %v", err)
		return exitcode.AuthError
	}
	if err := googletasks.SaveToken(cfg.TokenPath(), token); err != nil {
		output.Errorf(errOut, styles(cfg, errOut), "failed to save token: %v", err)
		return exitcode.AuthError
	}

	return c.finish(cfg, out, errOut, true)
}

// finish switches the backend when asked and prints the result.
func (c *LoginCmd) finish(cfg *config.Config, out, errOut io.Writer, printOK bool) int {
	if c.useGoogle && cfg.Settings.Backend != config.BackendGoogle {
		cfg.SetBackend(config.BackendGoogle)
		if err := cfg.SaveSettings(); err != nil {
			return report(cfg, errOut, fmt.Errorf("saving %s: %w", config.SettingsFile, err))
		}
	}
	if printOK && !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	if cfg.Settings.Backend != config.BackendGoogle && !cfg.Quiet {
		fmt.Fprintf(errOut, "note: backend is %q; run 'todo login --use-google' or set backend = %q in %s\n",
			cfg.Settings.Backend, config.BackendGoogle, cfg.SettingsPath())
	}
	return exitcode.Success
}

// authorize runs the OAuth authorization code flow with PKCE against a
// local callback server.
func authorize(ctx context.Context, cfg *config.Config, errOut io.Writer) (*oauth2.Token, error) {
	oauthConfig, err := googletasks.OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}

	port, listener, err := findAvailablePort()
	if err != nil {
		return nil, authErrorf("could not bind to local port for OAuth callback")
	}
	defer listener.Close()

	oauthConfig.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", port)
	verifier := oauth2.GenerateVerifier()
	authURL := oauthConfig.AuthCodeURL("state",
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)

	fmt.Fprintln(errOut, "Open this URL in your browser:")
	fmt.Fprintln(errOut, authURL)

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "No code in callback", http.StatusBadRequest)
			errCh <- authErrorf("no code in callback")
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>Authentication successful</h1><p>You may close this window.</p></body></html>")
		codeCh <- code
	})

	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- authErrorf("callback server: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return nil, err
	case <-time.After(oauthCallbackTimeout):
		return nil, authErrorf("oauth callback timed out")
	case <-ctx.Done():
		return nil, authErrorf("cancelled")
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, tokenExchangeTimeout)
	defer cancel()
	token, err := oauthConfig.Exchange(exchangeCtx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, authErrorf("failed to exchange code for token: %v", err)
	}
	return token, nil
}

// findAvailablePort tries to find an available port starting from oauthStartPort.
func findAvailablePort() (int, net.Listener, error) {
	for i := 0; i < oauthMaxPortAttempts; i++ {
		port := oauthStartPort + i
		listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
		if err == nil {
			return port, listener, nil
		}
	}
	return 0, nil, fmt.Errorf("no available port found")
}

func authErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", store.ErrAuth, fmt.Sprintf(format, args...))
}

func printOAuthSetup(cfg *config.Config, errOut io.Writer) {
	output.Errorf(errOut, styles(cfg, errOut), "%s not found in %s", config.OAuthClientFile, cfg.Dir)
	fmt.Fprintln(errOut)
	fmt.Fprintln(errOut, "To sync tasks with Google Tasks, you need OAuth credentials:")
	fmt.Fprintln(errOut)
	fmt.Fprintln(errOut, "1. Go to https://console.cloud.google.com/apis/credentials")
	fmt.Fprintln(errOut, "2. Create a project (or select an existing one)")
	fmt.Fprintln(errOut, "3. Enable the Google Tasks API:")
	fmt.Fprintln(errOut, "   https://console.cloud.google.com/apis/library/tasks.googleapis.com")
	fmt.Fprintln(errOut, "4. Create an OAuth client ID of type 'Desktop app' and download the JSON file")
	fmt.Fprintf(errOut, "5. Save it as %s\n", cfg.OAuthClientPath())
	fmt.Fprintln(errOut)
	fmt.Fprintln(errOut, "Then run 'todo login --use-google'.")
}
