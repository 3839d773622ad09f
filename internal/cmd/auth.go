package cmd

import (
	"fmt"
	"time"

	"github.com/fastn-ai/fastn-community-sub000/pkg/credentials"
	"github.com/fastn-ai/fastn-community-sub000/pkg/output"
	"github.com/fastn-ai/fastn-community-sub000/pkg/prompter"
	"github.com/spf13/cobra"
)

var (
	loginToken     string
	loginUserID    string
	loginUsername  string
	loginEmail     string
	loginExpiresIn time.Duration
	loginAdmin     bool

	customToken   string
	customTenant  string
	customDisable bool
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Manage the session token and custom-auth cookies used for backend calls",
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a session token",
	Long: `Store the access token issued by the identity provider together with the
profile it belongs to. The profile is registered with the forum in the
background.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := prompter.New(cmd.InOrStdin(), cmd.OutOrStdout())

		var err error
		if loginToken == "" {
			if loginToken, err = p.Password("Access token: "); err != nil {
				return err
			}
		}
		if loginToken == "" {
			return fmt.Errorf("an access token is required")
		}
		if loginUserID == "" {
			if loginUserID, err = p.String("User id: "); err != nil {
				return err
			}
		}
		if loginUsername == "" {
			if loginUsername, err = p.String("Username: "); err != nil {
				return err
			}
		}

		creds := &credentials.Credentials{
			AccessToken: loginToken,
			UserID:      loginUserID,
			Username:    loginUsername,
			Email:       loginEmail,
			IsAdmin:     loginAdmin,
		}
		if loginExpiresIn > 0 {
			creds.ExpiresAt = time.Now().Add(loginExpiresIn)
		}

		if err := credentials.Save(creds); err != nil {
			return fmt.Errorf("saving credentials: %w", err)
		}

		app.svc.Users.RegisterSession(cmd.Context())
		output.PrintSuccess("Signed in as %s", loginUsername)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := credentials.Delete(); err != nil {
			return err
		}
		output.PrintSuccess("Signed out")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which credentials backend calls will use",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := credentials.Load()
		if err != nil {
			return err
		}
		cookies, err := credentials.LoadCookies()
		if err != nil {
			return err
		}

		switch {
		case creds == nil:
			output.PrintInfo("Not signed in")
		case creds.IsExpired():
			output.PrintWarning("session for %s expired at %s", creds.Username, creds.ExpiresAt.Format(time.RFC3339))
		default:
			output.PrintInfo("Signed in as %s (%s)", creds.Username, creds.UserID)
		}

		if app.settings.APIKey != "" {
			output.PrintInfo("API key configured")
		}
		if cookies.CustomAuth {
			output.PrintInfo("Custom auth enabled for tenant %q", cookies.TenantID)
		}
		if app.settings.Offline {
			output.PrintInfo("Offline mode: backend calls are disabled")
		}
		return nil
	},
}

var customAuthCmd = &cobra.Command{
	Use:   "custom",
	Short: "Configure custom-auth cookies",
	Long:  "Store the custom-auth token and tenant id that replace the session token on every call",
	RunE: func(cmd *cobra.Command, args []string) error {
		if customDisable {
			if err := credentials.SaveCookies(credentials.Cookies{}); err != nil {
				return err
			}
			output.PrintSuccess("Custom auth disabled")
			return nil
		}

		if customToken == "" {
			var err error
			customToken, err = prompter.New(cmd.InOrStdin(), cmd.OutOrStdout()).Password("Custom auth token: ")
			if err != nil {
				return err
			}
		}

		err := credentials.SaveCookies(credentials.Cookies{
			CustomAuth:      true,
			CustomAuthToken: customToken,
			TenantID:        customTenant,
		})
		if err != nil {
			return err
		}
		output.PrintSuccess("Custom auth enabled")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginToken, "token", "", "Access token (prompted when empty)")
	loginCmd.Flags().StringVar(&loginUserID, "user-id", "", "Your user id")
	loginCmd.Flags().StringVar(&loginUsername, "username", "", "Your username")
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Your email")
	loginCmd.Flags().DurationVar(&loginExpiresIn, "expires-in", 0, "Token lifetime, e.g. 1h (0 never expires)")
	loginCmd.Flags().BoolVar(&loginAdmin, "admin", false, "Mark the session as a moderator")

	customAuthCmd.Flags().StringVar(&customToken, "token", "", "Custom auth token")
	customAuthCmd.Flags().StringVar(&customTenant, "tenant", "", "Tenant id")
	customAuthCmd.Flags().BoolVar(&customDisable, "disable", false, "Turn custom auth off")

	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(customAuthCmd)
}
