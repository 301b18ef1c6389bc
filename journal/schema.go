// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS entries (
	run_id TEXT NOT NULL,
	account_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	time DATETIME NOT NULL,
	kind TEXT NOT NULL,
	detail TEXT NOT NULL,
	amount TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_entries_account ON entries(account_id);
CREATE INDEX IF NOT EXISTS idx_entries_time ON entries(time);
`
