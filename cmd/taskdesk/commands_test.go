package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func runRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--env-file", ""}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestHashPassword_FromArgument(t *testing.T) {
	out, err := runRoot(t, "", "hash-password", "--cost", "4", "correct-horse")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("correct-horse")))
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 4, cost)
}

func TestHashPassword_FromStdin(t *testing.T) {
	out, err := runRoot(t, "battery-staple\n", "hash-password", "--cost", "4")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out)), []byte("battery-staple")))
}

func TestHashPassword_TooShort(t *testing.T) {
	_, err := runRoot(t, "", "hash-password", "short")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least")
}

func TestUserCreate_RequiresFlags(t *testing.T) {
	_, err := runRoot(t, "", "user", "create", "--name", "Lee")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestMigrate_RequiresCommand(t *testing.T) {
	_, err := runRoot(t, "", "migrate")
	require.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		assert.NoError(t, loadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
	})

	t.Run("exports variables without overriding", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path,
			[]byte("TASKDESK_TEST_FROM_FILE=file\nTASKDESK_TEST_PRESET=file\n"), 0o600))
		t.Setenv("TASKDESK_TEST_PRESET", "process")
		t.Setenv("TASKDESK_TEST_FROM_FILE", "")
		require.NoError(t, os.Unsetenv("TASKDESK_TEST_FROM_FILE"))

		require.NoError(t, loadEnvFile(path))

		assert.Equal(t, "file", os.Getenv("TASKDESK_TEST_FROM_FILE"))
		assert.Equal(t, "process", os.Getenv("TASKDESK_TEST_PRESET"))
		require.NoError(t, os.Unsetenv("TASKDESK_TEST_FROM_FILE"))
	})
}
