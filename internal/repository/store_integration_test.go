package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/project-manager-api/internal/config"
	"github.com/yukikurage/project-manager-api/internal/database"
	"github.com/yukikurage/project-manager-api/internal/models"
)

func TestStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	db := setupPostgres(t)
	store := NewStore(db)

	ana := &models.User{Name: "Ana", Email: "ana@example.com", Role: models.UserRoleManager}
	ben := &models.User{Name: "Ben", Email: "ben@example.com"}
	require.NoError(t, store.Users().Create(ctx, ana))
	require.NoError(t, store.Users().Create(ctx, ben))

	project := &models.Project{Name: "Apollo", StartDate: time.Now()}
	require.NoError(t, store.Projects().Create(ctx, project))
	require.Equal(t, models.ProjectStatusActive, project.Status)

	dup := &models.Project{Name: "Apollo", StartDate: time.Now()}
	require.ErrorIs(t, store.Projects().Create(ctx, dup), ErrDuplicateKey)

	for _, u := range []*models.User{ana, ben} {
		require.NoError(t, store.Projects().AddMember(ctx, &models.ProjectMember{ProjectID: project.ID, UserID: u.ID}))
	}
	err := store.Projects().AddMember(ctx, &models.ProjectMember{ProjectID: project.ID, UserID: ana.ID})
	require.ErrorIs(t, err, ErrDuplicateKey)

	task := &models.Task{Title: "Write plan", ProjectID: project.ID}
	require.NoError(t, store.Tasks().Create(ctx, task))

	badTask := &models.Task{Title: "Orphan", ProjectID: project.ID + 1000}
	require.ErrorIs(t, store.Tasks().Create(ctx, badTask), ErrForeignKeyViolation)

	// Two concurrent assignments: exactly one may win.
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for _, u := range []*models.User{ana, ben} {
		wg.Add(1)
		go func(userID uint64) {
			defer wg.Done()
			err := store.Transaction(ctx, func(tx Store) error {
				changed, err := tx.Tasks().AssignResponsible(ctx, task.ID, userID, nil)
				if err != nil {
					return err
				}
				if changed {
					mu.Lock()
					winners++
					mu.Unlock()
				}
				return nil
			})
			assert.NoError(t, err)
		}(u.ID)
	}
	wg.Wait()
	require.Equal(t, 1, winners)

	require.NoError(t, store.Transaction(ctx, func(tx Store) error {
		return tx.Projects().Delete(ctx, project.ID)
	}))
	_, err = store.Tasks().FindByID(ctx, task.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	again := &models.Project{Name: "Apollo", StartDate: time.Now()}
	require.NoError(t, store.Projects().Create(ctx, again))
}

func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=project_manager_test",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	cfg := &config.Config{
		DBDriver:          "postgres",
		DBHost:            "localhost",
		DBPort:            resource.GetPort("5432/tcp"),
		DBUser:            "postgres",
		DBPassword:        "postgres",
		DBName:            "project_manager_test",
		DBSSLMode:         "disable",
		DBMaxOpenConns:    4,
		DBMaxIdleConns:    2,
		DBConnMaxLifetime: time.Minute,
	}

	log := zap.NewNop().Sugar()
	var db *gorm.DB
	require.NoError(t, pool.Retry(func() error {
		var err error
		db, err = database.Connect(cfg, log)
		return err
	}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, database.Migrate(db, log))
	return db
}
