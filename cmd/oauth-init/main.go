// Command oauth-init performs a one-time OAuth authorization for the dues
// spreadsheet and stores the refresh token on disk. It is an alternative to
// service-account credentials for personal Google accounts.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"

	"courtsplit/internal/cli"
)

const authTimeout = 5 * time.Minute

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	cfg, err := clientConfig()
	if err != nil {
		logger.Error("OAuth client configuration failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	token, err := authorize(ctx, cfg)
	if err != nil {
		logger.Error("Authorization failed", "error", err)
		os.Exit(1)
	}

	path := tokenPath()
	if err := saveToken(path, token); err != nil {
		logger.Error("Failed to save token", "error", err, "path", path)
		os.Exit(1)
	}
	logger.Info("Token saved", "path", path, "expires", token.Expiry)
}

// clientConfig builds the OAuth config for the spreadsheet scope from the
// client credentials in the environment.
func clientConfig() (*oauth2.Config, error) {
	var raw []byte
	switch {
	case os.Getenv("GOOGLE_OAUTH_CLIENT_JSON") != "":
		raw = []byte(os.Getenv("GOOGLE_OAUTH_CLIENT_JSON"))
	case os.Getenv("GOOGLE_OAUTH_CLIENT_FILE") != "":
		b, err := os.ReadFile(os.Getenv("GOOGLE_OAUTH_CLIENT_FILE"))
		if err != nil {
			return nil, fmt.Errorf("read client file: %w", err)
		}
		raw = b
	default:
		return nil, fmt.Errorf("set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE")
	}

	cfg, err := google.ConfigFromJSON(raw, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse oauth config: %w", err)
	}

	// The OAuth client must list this redirect URI as authorized.
	cfg.RedirectURL = "http://localhost:" + redirectPort() + "/callback"
	return cfg, nil
}

// authorize runs the local redirect listener, prints the consent URL and
// exchanges the returned code for a token. It returns when the exchange
// completes, the context times out or a signal arrives.
func authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	type callbackResult struct {
		code string
		err  error
	}
	results := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if errStr := r.URL.Query().Get("error"); errStr != "" {
			http.Error(w, "OAuth error: "+errStr, http.StatusBadRequest)
			results <- callbackResult{err: fmt.Errorf("consent denied: %s", errStr)}
			return
		}
		fmt.Fprintln(w, "Authorization received. You may close this window.")
		results <- callbackResult{code: r.URL.Query().Get("code")}
	})

	srv := &http.Server{Addr: ":" + redirectPort(), Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			results <- callbackResult{err: fmt.Errorf("redirect listener: %w", err)}
		}
	}()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	fmt.Printf("Open this URL to authorize access to the dues spreadsheet:\n%s\n",
		cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline))

	select {
	case res := <-results:
		if res.err != nil {
			return nil, res.err
		}
		return cfg.Exchange(ctx, res.code)
	case <-ctx.Done():
		return nil, fmt.Errorf("authorization aborted: %w", ctx.Err())
	}
}

func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open token file: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

func redirectPort() string {
	if p := os.Getenv("OAUTH_REDIRECT_PORT"); p != "" {
		return p
	}
	return "8085"
}

func tokenPath() string {
	if p := os.Getenv("GOOGLE_OAUTH_TOKEN_FILE"); p != "" {
		return p
	}
	return "token.json"
}
