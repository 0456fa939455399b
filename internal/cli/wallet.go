package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/baby-bitcoin/internal/flow"
	"github.com/rcliao/baby-bitcoin/internal/view"
)

func init() {
	whoamiCmd := &cobra.Command{
		Use:     "whoami",
		Aliases: []string{"wallet"},
		Short:   "Show the wallet page for the current session",
		Run:     runWhoami,
	}

	sendCmd := &cobra.Command{
		Use:   "send",
		Short: "Send bananas to a three-fruit address",
		Run:   runSend,
	}
	sendCmd.Flags().StringP("to", "t", "", "Destination fruit ids, comma-separated (required)")
	sendCmd.Flags().StringP("amount", "m", "", "Amount of bananas (required)")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")

	mineCmd := &cobra.Command{
		Use:     "mine",
		Aliases: []string{"mining"},
		Short:   "Show the ledger, newest first",
		Run:     runMine,
	}

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "End the session (the ledger is kept)",
		Run:   runLogout,
	}

	RootCmd.AddCommand(whoamiCmd, sendCmd, mineCmd, logoutCmd)
}

func runWhoami(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	if err := a.ctrl.Navigate(flow.TransferPage); err != nil {
		exitErr("whoami", err)
	}
	a.render(cmd.OutOrStdout())
}

// parseFruits splits "apple, banana,kiwi" into three ids. Missing positions
// are left empty so validation reports them.
func parseFruits(s string) [3]string {
	var out [3]string
	parts := strings.Split(s, ",")
	for i := 0; i < len(out) && i < len(parts); i++ {
		out[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) > len(out) {
		// Too many fruits is as wrong as too few.
		out[2] = ""
	}
	return out
}

func runSend(cmd *cobra.Command, args []string) {
	to, _ := cmd.Flags().GetString("to")
	amount, _ := cmd.Flags().GetString("amount")

	a := mustOpenApp(cmd)
	defer a.Close()

	tx, err := a.ctrl.Send(cmd.Context(), flow.TransferRequest{To: parseFruits(to), Amount: amount})
	var terr *flow.TransferError
	if errors.As(err, &terr) {
		fmt.Fprintln(os.Stderr, terr.Message)
		os.Exit(1)
	}
	if err != nil {
		exitErr("send", err)
	}

	if formatFlag == "json" {
		b, _ := json.MarshalIndent(tx, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return
	}
	view.Sent(cmd.OutOrStdout(), tx)
}

func runMine(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	if err := a.ctrl.Navigate(flow.MiningPage); err != nil {
		exitErr("mine", err)
	}
	a.render(cmd.OutOrStdout())
}

func runLogout(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	if err := a.ctrl.Logout(cmd.Context()); err != nil {
		exitErr("logout", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"transactions":%d}`+"\n", a.ledger.Len())
}
