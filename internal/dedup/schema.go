package dedup

const Schema = `
CREATE TABLE IF NOT EXISTS completions (
	fingerprint TEXT PRIMARY KEY,
	file_path TEXT NOT NULL,
	format TEXT NOT NULL,
	checksum TEXT,
	tagged_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_completions_file_path ON completions(file_path);
`
