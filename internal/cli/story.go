package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/baby-bitcoin/internal/flow"
)

func init() {
	storyCmd := &cobra.Command{
		Use:   "story",
		Short: "Build a story and preview its keys without logging in",
		Run:   runStory,
	}
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Build a story, confirm it and log in",
		Long:  "Build a story from an animal, a place and an object, confirm it and log in. The session lasts 7 days.",
		Run:   runLogin,
	}

	for _, cmd := range []*cobra.Command{storyCmd, loginCmd} {
		cmd.Flags().StringP("animal", "a", "", "Animal id (required)")
		cmd.Flags().StringP("place", "p", "", "Place id (required)")
		cmd.Flags().StringP("object", "o", "", "Object id (required)")
		cmd.MarkFlagRequired("animal")
		cmd.MarkFlagRequired("place")
		cmd.MarkFlagRequired("object")
		RootCmd.AddCommand(cmd)
	}
}

func buildStory(cmd *cobra.Command, a *app) {
	if a.ctrl.Snapshot().LoggedIn {
		exitErr("story", errors.New("already logged in; run logout first"))
	}
	for _, name := range []string{"animal", "place", "object"} {
		id, _ := cmd.Flags().GetString(name)
		if err := a.ctrl.Select(cmd.Context(), id); err != nil {
			exitErr("select "+name, err)
		}
	}
}

func runStory(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	buildStory(cmd, a)
	a.render(cmd.OutOrStdout())
}

func runLogin(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	buildStory(cmd, a)
	if err := a.ctrl.ConfirmAndLogin(cmd.Context()); err != nil {
		if errors.Is(err, flow.ErrConfirmDisabled) {
			exitErr("login", fmt.Errorf("%w: keys could not be derived from this story", err))
		}
		exitErr("login", err)
	}
	a.render(cmd.OutOrStdout())
}
