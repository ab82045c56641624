package cli

import (
	"encoding/json"
	"time"

	"taskboard/internal/model"

	"github.com/spf13/cobra"
)

type eventRows []model.Event

func (r eventRows) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(r))
	for _, ev := range r {
		payload := ""
		if ev.Payload != nil {
			if b, err := json.Marshal(ev.Payload); err == nil {
				payload = string(b)
			}
		}
		rows = append(rows, []string{ev.TS.Format(time.RFC3339), ev.Type, ev.EntityID, ev.ActorID, payload})
	}
	return []string{"TIME", "TYPE", "ENTITY", "ACTOR", "PAYLOAD"}, rows
}

func newEventsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List committed mutations (oldest-first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(app, cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			evs, err := sess.Store.ReadEvents(cmd.Context(), limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, eventRows(evs))
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 200, "Max events to return (0 = all)")
	return cmd
}
