package main

import (
	"github.com/spf13/cobra"

	"github.com/noah-isme/schedule-sync/internal/state"
)

var (
	authEmail    string
	authPassword string
	authName     string
)

// statusCmd rehydrates the client from the stored session.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the restored session, profile and reference lists",
	Long: `Runs the startup workflow: reference lists, the remembered group and teacher schedules
and, while the stored access token is valid, the signed-in profile.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return dispatchAndPrint(cmd, func(s state.RootState) (interface{}, string) {
			return statusView{
				LoggedIn: s.Login.IsLoggedIn,
				Profile:  s.Profile,
				Groups:   len(s.Groups.Groups),
				Teachers: len(s.Teachers.Teachers),
				GroupID:  s.Schedule.GroupID,
				Teacher:  s.Schedule.TeacherID,
				Week:     s.Schedule.Week,
			}, firstNonEmpty(s.Groups.Error, s.Teachers.Error, s.Profile.Error)
		}, state.AppStarted{})
	},
}

type statusView struct {
	LoggedIn bool               `json:"loggedIn"`
	Profile  state.ProfileState `json:"profile"`
	Groups   int                `json:"groups"`
	Teachers int                `json:"teachers"`
	GroupID  string             `json:"groupId,omitempty"`
	Teacher  string             `json:"teacherId,omitempty"`
	Week     *int               `json:"week,omitempty"`
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return dispatchAndPrint(cmd, func(s state.RootState) (interface{}, string) {
			return map[string]interface{}{
				"login":          s.Login,
				"getProfileInfo": s.Profile,
			}, s.Login.Error
		}, state.LoginRequested{Email: authEmail, Password: authPassword})
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return dispatchAndPrint(cmd, func(s state.RootState) (interface{}, string) {
			return s.Register, s.Register.Error
		}, state.RegisterRequested{Email: authEmail, Password: authPassword, Name: authName})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the refresh token and forget the session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return dispatchAndPrint(cmd, func(s state.RootState) (interface{}, string) {
			return s.Logout, s.Logout.Error
		}, state.LogoutRequested{})
	},
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Account email (required)")
		c.Flags().StringVar(&authPassword, "password", "", "Account password (required)")
		_ = c.MarkFlagRequired("email")
		_ = c.MarkFlagRequired("password")
	}
	registerCmd.Flags().StringVar(&authName, "name", "", "Display name (required)")
	_ = registerCmd.MarkFlagRequired("name")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
