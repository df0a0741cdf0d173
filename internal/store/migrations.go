package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create dispatch audit log",
		SQL: `
			CREATE TABLE dispatches (
				id          INTEGER PRIMARY KEY AUTOINCREMENT,
				operation   TEXT NOT NULL,
				args        TEXT NOT NULL DEFAULT '{}',
				ok          INTEGER NOT NULL,
				detail      TEXT NOT NULL DEFAULT '',
				duration_ms INTEGER NOT NULL DEFAULT 0,
				created_at  TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_dispatches_operation ON dispatches (operation, id);
		`,
	},
	{
		Version: 2,
		Name:    "create voice call log",
		SQL: `
			CREATE TABLE voice_calls (
				session_id  TEXT PRIMARY KEY,
				to_number   TEXT NOT NULL,
				kind        TEXT NOT NULL,
				created_at  TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_voice_calls_number ON voice_calls (to_number);
		`,
	},
}
