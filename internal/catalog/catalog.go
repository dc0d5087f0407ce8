package catalog

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Catalog persists the set of allocated project identifiers. Live project
// state never lands here; the catalog only remembers which ids exist and
// when they were last touched.
type Catalog struct {
	db *sql.DB
}

type Project struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

func New(dbPath string) (*Catalog, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	log.Printf("Catalog initialized at %s", dbPath)
	return &Catalog{db: db}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_active_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_projects_last_active ON projects(last_active_at DESC);
	`

	_, err := db.Exec(schema)
	return err
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) CreateProject(id string) error {
	_, err := c.db.Exec(
		"INSERT OR IGNORE INTO projects (id) VALUES (?)",
		id,
	)
	return err
}

func (c *Catalog) GetProject(id string) (*Project, error) {
	row := c.db.QueryRow(
		"SELECT id, created_at, last_active_at FROM projects WHERE id = ?",
		id,
	)

	var project Project
	err := row.Scan(&project.ID, &project.CreatedAt, &project.LastActiveAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Catalog) ListProjects(limit, offset int) ([]Project, error) {
	rows, err := c.db.Query(
		"SELECT id, created_at, last_active_at FROM projects ORDER BY last_active_at DESC LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var project Project
		if err := rows.Scan(&project.ID, &project.CreatedAt, &project.LastActiveAt); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// Touch records activity on a project, creating the row if the id was never
// generated through the catalog.
func (c *Catalog) Touch(id string) error {
	if err := c.CreateProject(id); err != nil {
		return err
	}
	_, err := c.db.Exec(
		"UPDATE projects SET last_active_at = CURRENT_TIMESTAMP WHERE id = ?",
		id,
	)
	return err
}

func (c *Catalog) GetStats() (map[string]interface{}, error) {
	var count int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM projects").Scan(&count); err != nil {
		return nil, err
	}
	return map[string]interface{}{"project_count": count}, nil
}
