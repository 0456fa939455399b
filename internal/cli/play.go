package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/baby-bitcoin/internal/flow"
	"github.com/rcliao/baby-bitcoin/internal/view"
)

const playHelp = `Commands:
  pick <id>                 choose the next animal, place or object
  confirm                   confirm the story and log in
  page <story|wallet|mine>  switch pages
  send <f1,f2,f3> <amount>  send bananas
  logout                    end the session
  show                      redraw the current page
  help                      this text
  quit                      leave
`

func init() {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Walk through the story interactively",
		Run:   runPlay,
	}

	RootCmd.AddCommand(cmd)
}

func runPlay(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	if err := playLoop(cmd.Context(), a, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
		exitErr("play", err)
	}
}

// playLoop reads one command per line until quit or EOF, redrawing the page
// after every successful action.
func playLoop(ctx context.Context, a *app, in io.Reader, out io.Writer) error {
	show := func() {
		fmt.Fprintln(out)
		view.Render(out, a.ctrl.Snapshot(), a.ctrl.Transactions(), a.viewOptions())
	}
	show()

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "quit", "exit":
			return nil
		case "help", "?":
			fmt.Fprint(out, playHelp)
			continue
		case "show":
		case "pick":
			if len(fields) != 2 {
				err = errors.New("usage: pick <id>")
				break
			}
			err = a.ctrl.Select(ctx, fields[1])
		case "confirm":
			err = a.ctrl.ConfirmAndLogin(ctx)
		case "page":
			if len(fields) != 2 {
				err = errors.New("usage: page <story|wallet|mine>")
				break
			}
			var p flow.Page
			if p, err = flow.ParsePage(fields[1]); err == nil {
				err = a.ctrl.Navigate(p)
			}
		case "send":
			if len(fields) != 3 {
				err = errors.New("usage: send <f1,f2,f3> <amount>")
				break
			}
			tx, serr := a.ctrl.Send(ctx, flow.TransferRequest{To: parseFruits(fields[1]), Amount: fields[2]})
			if serr == nil {
				view.Sent(out, tx)
				continue
			}
			err = serr
		case "logout":
			err = a.ctrl.Logout(ctx)
		default:
			err = fmt.Errorf("unknown command %q (try help)", fields[0])
		}

		if err != nil {
			var terr *flow.TransferError
			if errors.As(err, &terr) {
				fmt.Fprintln(out, terr.Message)
			} else {
				fmt.Fprintf(out, "error: %v\n", err)
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
		show()
	}
}
