package cmd

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ytlabs/yt-mcp/internal/gmail"
)

const gmailTokenFlowTimeout = 5 * time.Minute

func newGmailTokenCmd() *cobra.Command {
	var redirectAddr string

	cmd := &cobra.Command{
		Use:   "gmail-token",
		Short: "Obtain a Google OAuth refresh token for the Gmail tools",
		Long: `Run a one-shot local OAuth authorization-code flow against Google and
print the resulting refresh token. Pass that token to the link_my_gmail
MCP tool to link your Gmail account.

Requires GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET in the environment.
The OAuth client in the Google Cloud Console must list the local redirect
URI (default http://localhost:8080/) under authorized redirect URIs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGmailToken(redirectAddr)
		},
	}

	cmd.Flags().StringVar(&redirectAddr, "redirect-addr", "localhost:8080", "Local address for the OAuth callback. Must match an authorized redirect URI of the OAuth client.")

	return cmd
}

func runGmailToken(redirectAddr string) error {
	cfg := gmail.ConfigFromEnv()
	if !cfg.IsConfigured() {
		return fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET environment variables are required")
	}

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  "http://" + redirectAddr + "/",
		Scopes:       []string{gmail.ReadonlyScope},
	}

	state, err := randomState()
	if err != nil {
		return fmt.Errorf("failed to generate state parameter: %w", err)
	}

	type callbackResult struct {
		code string
		err  error
	}
	results := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if errMsg := r.URL.Query().Get("error"); errMsg != "" {
			http.Error(w, "Authorization failed: "+errMsg, http.StatusBadRequest)
			results <- callbackResult{err: fmt.Errorf("authorization failed: %s", errMsg)}
			return
		}
		if r.URL.Query().Get("state") != state {
			http.Error(w, "State mismatch", http.StatusBadRequest)
			results <- callbackResult{err: fmt.Errorf("state parameter mismatch")}
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "Missing authorization code", http.StatusBadRequest)
			results <- callbackResult{err: fmt.Errorf("callback received no authorization code")}
			return
		}

		fmt.Fprintln(w, "Authorization received. You can close this tab and return to the terminal.")
		results <- callbackResult{code: code}
	})

	listener, err := net.Listen("tcp", redirectAddr)
	if err != nil {
		return fmt.Errorf("failed to bind callback server to %s: %w", redirectAddr, err)
	}

	callbackServer := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		_ = callbackServer.Serve(listener)
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = callbackServer.Shutdown(shutdownCtx)
	}()

	authURL := oauthConfig.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)

	fmt.Println("Open this URL in your browser and approve read-only Gmail access:")
	fmt.Println()
	fmt.Println("  " + authURL)
	fmt.Println()
	fmt.Printf("Waiting for the OAuth callback on http://%s/ ...\n", redirectAddr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var code string
	select {
	case result := <-results:
		if result.err != nil {
			return result.err
		}
		code = result.code
	case <-ctx.Done():
		return fmt.Errorf("authorization cancelled")
	case <-time.After(gmailTokenFlowTimeout):
		return fmt.Errorf("timed out waiting for the OAuth callback")
	}

	token, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	if token.RefreshToken == "" {
		return fmt.Errorf("Google returned no refresh token; revoke the app's access at " +
			"https://myaccount.google.com/permissions and run this command again")
	}

	fmt.Println()
	fmt.Println("Your Gmail refresh token (store it securely):")
	fmt.Println("---")
	fmt.Println(token.RefreshToken)
	fmt.Println("---")
	fmt.Println("Use it with the link_my_gmail tool to link your Gmail account.")

	return nil
}

// randomState produces an unguessable OAuth state parameter.
func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
