package launchpad_test

import (
	"context"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/app"
	sdk "github.com/aussiebroadwan/launchpad/pkg/launchpadsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * End-to-end tests run the full application, configured from the
 * environment, against a throwaway PostgreSQL container. They are skipped
 * when no Docker daemon is reachable.
 */

const (
	postgresImage = "postgres:16-alpine"
	postgresUser  = "launchpad"
	postgresPass  = "launchpad"
	postgresDB    = "launchpad"

	testPassword = "correct horse battery"
	baseURL      = "https://launchpad.test"
)

// setupPostgres starts a PostgreSQL container and returns its connection URL.
func setupPostgres(t *testing.T) string {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     postgresUser,
			"POSTGRES_PASSWORD": postgresPass,
			"POSTGRES_DB":       postgresDB,
		},
		// The server restarts once after initdb, so wait for the second line.
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser, postgresPass, host, port.Port(), postgresDB)
}

// setupLaunchpad boots the application on top of a fresh database and
// returns a client for it. Rate limits are relaxed unless strictLimits is set.
func setupLaunchpad(t *testing.T, strictLimits bool) *sdk.SDKClient {
	t.Helper()
	dbURL := setupPostgres(t)

	t.Setenv("ENV", "test")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", dbURL)
	t.Setenv("PEPPER_FILE", filepath.Join(t.TempDir(), "pepper"))
	t.Setenv("LAUNCHPAD_BASE_URL", baseURL)
	t.Setenv("MAIL_DRIVER", "none")
	if !strictLimits {
		// Tests make many rapid requests which would otherwise hit the
		// production limits.
		for _, profile := range []string{"STRICT", "MODERATE", "PUBLIC"} {
			t.Setenv("RATELIMIT_"+profile+"_REQUESTS", "1000")
			t.Setenv("RATELIMIT_"+profile+"_BURST", "1000")
		}
	}

	cfg, err := app.LoadConfig()
	require.NoError(t, err)

	application, err := app.New(cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(func() {
		srv.Close()
		if err := application.Shutdown(); err != nil {
			t.Logf("failed to shut down application: %v", err)
		}
	})

	return sdk.NewSDKClient(srv.URL)
}

// signUp registers an account with the given role and logs it in.
func signUp(t *testing.T, client *sdk.SDKClient, role, email string) (*sdk.UserResponse, *sdk.Session) {
	t.Helper()
	ctx := context.Background()

	user, err := client.Register(ctx, sdk.RegisterRequest{
		Email:    email,
		Password: testPassword,
		Name:     role + " user",
		Role:     role,
	})
	require.NoError(t, err, "Register should succeed")

	session, err := client.Login(ctx, email, testPassword)
	require.NoError(t, err, "Login should succeed")
	return user, session
}

// createStartup creates a startup owned by the session's user.
func createStartup(t *testing.T, owner *sdk.Session, name string) *sdk.StartupResponse {
	t.Helper()

	st, err := owner.CreateStartup(context.Background(), sdk.StartupRequest{
		Name:     name,
		Industry: "Fintech",
		Stage:    "VALIDATION",
		Metadata: sdk.StartupMetadata{Website: "https://example.com"},
	})
	require.NoError(t, err, "CreateStartup should succeed")
	require.Equal(t, "OWNER", st.Access)
	return st
}

// assertAPIError checks the status and error code of a failed call.
func assertAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, status, sdk.StatusCode(err), "unexpected status: %v", err)
	require.True(t, sdk.IsCode(err, code), "expected %s, got: %v", code, err)
}
