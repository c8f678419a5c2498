// ABOUTME: Output helpers shared by homealign commands
// ABOUTME: JSON printing and the interactive prompts behind huh

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"

	"github.com/jacksmith315/homealign-dashboard/models"
)

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// confirm asks a yes/no question. Replaced in tests.
var confirm = func(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&ok).
		Run()
	return ok, err
}

// credentials holds what the login form collects
type credentials struct {
	Tenant   string
	Email    string
	Password string
}

// promptCredentials fills in whatever the flags left empty. Replaced in tests.
var promptCredentials = func(creds *credentials) error {
	var fields []huh.Field

	if creds.Tenant == "" {
		options := make([]huh.Option[string], 0, len(models.Tenants))
		for _, t := range models.Tenants {
			options = append(options, huh.NewOption(t.Name, t.ID))
		}
		fields = append(fields, huh.NewSelect[string]().
			Title("Tenant").
			Options(options...).
			Value(&creds.Tenant))
	}
	if creds.Email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Value(&creds.Email).
			Validate(required("email")))
	}
	if creds.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&creds.Password).
			Validate(required("password")))
	}
	if len(fields) == 0 {
		return nil
	}

	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

func required(name string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}
