package common

import (
	"fmt"
	"os"
	"path/filepath"

	"finance-dashboard-go/internal/provisioning"

	"gopkg.in/yaml.v2"
)

type signUpFile struct {
	Profile provisioning.SignUpParams `yaml:"profile"`
}

// LoadSignUpParams reads a sign-up profile from a YAML file. The password may be
// left out of the file and supplied through DASHBOARD_PASSWORD instead.
func LoadSignUpParams(profileFile string) (*provisioning.SignUpParams, error) {
	var profilePath string
	if filepath.IsAbs(profileFile) {
		profilePath = profileFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		profilePath = filepath.Join(wd, profileFile)
	}

	data, err := os.ReadFile(profilePath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", profileFile, err)
	}

	var file signUpFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", profileFile, err)
	}

	params := file.Profile
	if params.Password == "" {
		params.Password = os.Getenv("DASHBOARD_PASSWORD")
	}

	required := map[string]string{
		"email":         params.Email,
		"password":      params.Password,
		"first_name":    params.FirstName,
		"last_name":     params.LastName,
		"date_of_birth": params.DateOfBirth,
	}
	for field, value := range required {
		if value == "" {
			return nil, fmt.Errorf("profile in %s missing %s", profileFile, field)
		}
	}

	return &params, nil
}
