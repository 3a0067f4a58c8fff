package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumenlabs/studyportal/internal/config"
	"github.com/lumenlabs/studyportal/internal/db"
	"github.com/lumenlabs/studyportal/internal/principal"
	"github.com/lumenlabs/studyportal/internal/repository"
)

func ParticipantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "participants",
		Short: "List enrolled participants",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			users := repository.NewUserRepository(database)
			operator := principal.Principal{ID: "adminctl", Admin: true}

			participants, err := users.Participants(operator)
			if err != nil {
				return err
			}

			for _, u := range participants {
				fmt.Printf("%s\t%s\t%s\n", u.ID, u.Email, u.CreatedAt.Format("2006-01-02"))
			}
			return nil
		},
	}
}
