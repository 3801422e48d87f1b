package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS archived_mail (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	direction    TEXT NOT NULL CHECK(direction IN ('sent', 'received')),
	title        TEXT,
	notes        TEXT,
	mail_date    TEXT,
	image        BLOB NOT NULL,
	content_type TEXT NOT NULL,
	created_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_archived_mail_created_at
	ON archived_mail(created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
