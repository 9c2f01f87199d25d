package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("LEARNER_CHAT_ID", "42")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "token", cfg.TelegramAPIToken)
	assert.Equal(t, int64(42), cfg.LearnerChatID)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, 600*time.Millisecond, cfg.Quiz.AutoAdvanceDelay)
	assert.Equal(t, "0 18 * * *", cfg.Reminder.Schedule)
	assert.Equal(t, 30*time.Minute, cfg.Storage.MaxConnLifetime)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("LEARNER_CHAT_ID", "42")
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/stepwise")
	t.Setenv("QUIZ_AUTO_ADVANCE_DELAY", "1s")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, time.Second, cfg.Quiz.AutoAdvanceDelay)

	dsn, err := cfg.Storage.DSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/stepwise", dsn)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		missing bool
	}{
		{name: "no token", env: map[string]string{"LEARNER_CHAT_ID": "42"}, missing: true},
		{name: "no chat", env: map[string]string{"TELEGRAM_API_TOKEN": "t"}, missing: true},
		{
			name:    "postgres without url",
			env:     map[string]string{"TELEGRAM_API_TOKEN": "t", "LEARNER_CHAT_ID": "42", "STORAGE_DRIVER": "postgres"},
			missing: true,
		},
		{
			name: "unknown driver",
			env:  map[string]string{"TELEGRAM_API_TOKEN": "t", "LEARNER_CHAT_ID": "42", "STORAGE_DRIVER": "mongo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv("TELEGRAM_API_TOKEN", "")
			t.Setenv("LEARNER_CHAT_ID", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()

			require.Error(t, err)
			if tt.missing {
				assert.ErrorIs(t, err, ErrMissingEnvironmentVariables)
			}
		})
	}
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir on older Go).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
