package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"usemytime/internal/domain"
	"usemytime/internal/service"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load departments and staff into an empty installation",
	Long: `Load departments, users and their profiles from a YAML fixtures file.
Nothing is written when the installation already has users.`,
	RunE: seed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "fixtures.yaml", "YAML fixtures file")
}

type fixtures struct {
	Departments []string      `yaml:"departments"`
	Users       []fixtureUser `yaml:"users"`
}

type fixtureUser struct {
	Username      string `yaml:"username"`
	Email         string `yaml:"email"`
	FirstName     string `yaml:"first_name"`
	LastName      string `yaml:"last_name"`
	Patronymic    string `yaml:"patronymic"`
	Position      string `yaml:"position"`
	PhoneInternal string `yaml:"phone_internal"`
	Role          string `yaml:"role"`
	Superuser     bool   `yaml:"superuser"`
	Department    string `yaml:"department"`
	Manager       string `yaml:"manager"`
}

func loadDirectory(path string) (service.Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return service.Directory{}, fmt.Errorf("read fixtures: %w", err)
	}

	var f fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return service.Directory{}, fmt.Errorf("parse fixtures %s: %w", path, err)
	}

	dir := service.Directory{Departments: f.Departments}
	for _, u := range f.Users {
		role := domain.Role(u.Role)
		if role == "" {
			role = domain.RoleEmployee
		}
		if !role.Valid() {
			return service.Directory{}, fmt.Errorf("fixtures: user %q has unknown role %q", u.Username, u.Role)
		}
		dir.Users = append(dir.Users, service.DirectoryUser{
			Username:      u.Username,
			Email:         u.Email,
			FirstName:     u.FirstName,
			LastName:      u.LastName,
			Patronymic:    u.Patronymic,
			Position:      u.Position,
			PhoneInternal: u.PhoneInternal,
			Role:          role,
			Superuser:     u.Superuser,
			Department:    u.Department,
			Manager:       u.Manager,
		})
	}
	return dir, nil
}

func seed(cmd *cobra.Command, args []string) error {
	dir, err := loadDirectory(seedFile)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.svc.Seed(cmd.Context(), dir)
	if err != nil {
		return err
	}
	if !res.Loaded {
		fmt.Fprintln(cmd.OutOrStdout(), "users already exist, nothing loaded")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "loaded %d departments and %d users\n", res.Departments, res.Users)
	return nil
}
