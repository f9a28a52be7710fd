package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/project-manager-api/internal/models"
)

type indexDef struct {
	model   interface{}
	table   string
	name    string
	columns string
	unique  bool
	// liveOnly restricts a unique index to rows that are not soft deleted.
	// MySQL has no partial indexes and gets a plain unique index instead.
	liveOnly bool
}

var indexes = []indexDef{
	{&models.User{}, "users", "idx_users_email_live", "email", true, true},
	{&models.Project{}, "projects", "idx_projects_name_live", "name", true, true},
	{&models.Project{}, "projects", "idx_projects_status", "status", false, false},
	{&models.Task{}, "tasks", "idx_tasks_status", "status", false, false},
	{&models.Task{}, "tasks", "idx_tasks_project_status", "project_id, status", false, false},
}

// AddIndexes creates the indexes AutoMigrate cannot express from struct tags.
func AddIndexes(db *gorm.DB, log *zap.SugaredLogger) error {
	dialect := db.Dialector.Name()

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			log.Debugw("Index already exists, skipping", "index", idx.name)
			continue
		}

		sql := indexSQL(idx, dialect)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Infow("Created index", "index", idx.name, "table", idx.table, "columns", idx.columns)
	}

	return nil
}

func indexSQL(idx indexDef, dialect string) string {
	kind := "INDEX"
	if idx.unique {
		kind = "UNIQUE INDEX"
	}
	sql := fmt.Sprintf("CREATE %s %s ON %s (%s)", kind, idx.name, idx.table, idx.columns)
	if idx.liveOnly && dialect != "mysql" {
		sql += " WHERE deleted_at IS NULL"
	}
	return sql
}
