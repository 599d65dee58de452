package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSignUpParams(t *testing.T) {
	path := writeProfile(t, `
profile:
  email: ada@example.com
  password: s3cret!pass
  first_name: Ada
  last_name: Lovelace
  address1: 12 Analytical Way
  city: London
  state: NY
  postal_code: "10001"
  date_of_birth: "1990-12-10"
  ssn: "1234"
`)

	params, err := LoadSignUpParams(path)
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", params.Email)
	assert.Equal(t, "Lovelace", params.LastName)
	assert.Equal(t, "10001", params.PostalCode)
	assert.Equal(t, "1990-12-10", params.DateOfBirth)
	assert.Equal(t, "1234", params.Ssn)
}

func TestLoadSignUpParamsPasswordFromEnv(t *testing.T) {
	t.Setenv("DASHBOARD_PASSWORD", "from-env-pass")
	path := writeProfile(t, `
profile:
  email: ada@example.com
  first_name: Ada
  last_name: Lovelace
  date_of_birth: "1990-12-10"
`)

	params, err := LoadSignUpParams(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env-pass", params.Password)
}

func TestLoadSignUpParamsErrors(t *testing.T) {
	t.Setenv("DASHBOARD_PASSWORD", "")

	_, err := LoadSignUpParams(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadSignUpParams(writeProfile(t, "profile: [not, a, map]"))
	assert.Error(t, err)

	_, err = LoadSignUpParams(writeProfile(t, `
profile:
  email: ada@example.com
  first_name: Ada
`))
	assert.ErrorContains(t, err, "missing")
}
