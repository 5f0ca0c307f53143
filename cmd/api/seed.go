package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/helha/gdpr-app/internal/database"
	"github.com/helha/gdpr-app/internal/dto"
	"github.com/helha/gdpr-app/internal/entity"
	"github.com/helha/gdpr-app/internal/repository"
)

func newSeedCmd() *cobra.Command {
	var (
		adminEmail     string
		adminPassword  string
		adminFirstname string
		adminLastname  string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create default roles, default companies and an optional admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, cfg, log, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := database.Migrate(ctx, a.pool); err != nil {
				return err
			}

			roles, err := a.roles.InitDefaults(ctx)
			if err != nil {
				return fmt.Errorf("seed roles: %w", err)
			}
			companies, err := a.companies.InitDefaults(ctx)
			if err != nil {
				return fmt.Errorf("seed companies: %w", err)
			}
			log.Info().Int("roles", roles).Int("companies", companies).Msg("defaults created")

			if adminEmail == "" {
				return nil
			}
			adminRole, err := a.roles.GetByName(ctx, entity.RoleAdmin)
			if err != nil {
				return fmt.Errorf("load admin role: %w", err)
			}
			user, err := a.users.CreateUser(ctx, dto.CreateUserRequest{
				Firstname: adminFirstname,
				Lastname:  adminLastname,
				Email:     adminEmail,
				Password:  adminPassword,
				RoleID:    &adminRole.ID,
			})
			if errors.Is(err, repository.ErrEmailDuplicate) {
				log.Info().Str("email", adminEmail).Msg("admin account already exists")
				return nil
			}
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			log.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("admin account created")
			return nil
		},
	}

	cmd.Flags().StringVar(&adminEmail, "admin-email", "", "email of the admin account to create")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "", "password of the admin account; generated and mailed when empty")
	cmd.Flags().StringVar(&adminFirstname, "admin-firstname", "Admin", "first name of the admin account")
	cmd.Flags().StringVar(&adminLastname, "admin-lastname", "User", "last name of the admin account")
	return cmd
}
