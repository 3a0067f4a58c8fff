package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumenlabs/studyportal/internal/config"
	"github.com/lumenlabs/studyportal/internal/db"
	"github.com/lumenlabs/studyportal/internal/model"
	"github.com/lumenlabs/studyportal/internal/principal"
	"github.com/lumenlabs/studyportal/internal/repository"
	"github.com/lumenlabs/studyportal/internal/service"
)

// AdvanceCmd moves a participant into week_active/study_complete or
// bumps their week pointer. This is the operational trigger for the
// lifecycle states the portal itself never derives.
func AdvanceCmd() *cobra.Command {
	var (
		status string
		week   int
	)

	advanceCmd := &cobra.Command{
		Use:   "advance <participant-id>",
		Short: "Advance a participant's study status or week",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			admin := service.NewAdminService(
				repository.NewUserRepository(database),
				repository.NewProfileRepository(database),
			)

			var weekPtr *int
			if week > 0 {
				weekPtr = &week
			}

			operator := principal.Principal{ID: "adminctl", Admin: true}
			prof, err := admin.Advance(operator, args[0], model.Status(status), weekPtr)
			if err != nil {
				return err
			}

			currentWeek := 0
			if prof.CurrentWeek != nil {
				currentWeek = *prof.CurrentWeek
			}
			fmt.Printf("participant %s: status=%s current_week=%d\n", prof.UserID, prof.Status, currentWeek)
			return nil
		},
	}

	advanceCmd.Flags().StringVar(&status, "status", "", "new status (week_active, study_complete)")
	advanceCmd.Flags().IntVar(&week, "week", 0, "new current week (must not decrease)")

	return advanceCmd
}
