package cli

import (
	"taskboard/internal/store"

	"github.com/spf13/cobra"
)

func newDoctorCmd(app *App) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the stored board and mutation log",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeStore, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() { _ = closeStore() }()

			state, err := st.Load(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			evs, err := st.ReadEvents(cmd.Context(), 0)
			if err != nil {
				return writeErr(cmd, err)
			}

			report := store.Doctor(state, evs)
			if err := writeOut(cmd, app, report); err != nil {
				return err
			}
			if strict && report.HasErrors() {
				return store.ErrDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with non-zero status if errors are found")
	return cmd
}
