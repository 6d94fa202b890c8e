package dedup

import (
	"database/sql"
	"errors"
	"os"

	"github.com/khanCurtis/rustwav/internal/domain"
)

// Lookup returns the completion record for a fingerprint, or nil when the
// cache has none.
func (db *DB) Lookup(fingerprint string) (*domain.CompletionRecord, error) {
	rec := &domain.CompletionRecord{}
	err := db.Get(rec, `SELECT fingerprint, file_path, format, checksum, tagged_at FROM completions WHERE fingerprint = ?`, fingerprint)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// LookupExisting returns the record only when its file is still on disk. A
// record pointing at a missing file is a miss, not an error; the record
// itself stays in place.
func (db *DB) LookupExisting(fingerprint string) (*domain.CompletionRecord, error) {
	rec, err := db.Lookup(fingerprint)
	if err != nil || rec == nil {
		return nil, err
	}
	if _, statErr := os.Stat(rec.FilePath); statErr != nil {
		return nil, nil
	}
	return rec, nil
}

// Commit records a completed acquisition. Concurrent commits for one
// fingerprint collapse into a single row.
func (db *DB) Commit(rec *domain.CompletionRecord) error {
	_, err := db.NamedExec(`
		INSERT INTO completions (fingerprint, file_path, format, checksum, tagged_at)
		VALUES (:fingerprint, :file_path, :format, :checksum, :tagged_at)
		ON CONFLICT(fingerprint) DO UPDATE SET
			file_path = excluded.file_path,
			format = excluded.format,
			checksum = excluded.checksum,
			tagged_at = excluded.tagged_at
	`, rec)
	return err
}

// All returns every completion record.
func (db *DB) All() ([]domain.CompletionRecord, error) {
	var recs []domain.CompletionRecord
	err := db.Select(&recs, `SELECT fingerprint, file_path, format, checksum, tagged_at FROM completions ORDER BY fingerprint`)
	return recs, err
}

// Prune drops records whose files are gone. The pipeline never calls this;
// it exists for explicit maintenance.
func (db *DB) Prune() (int, error) {
	recs, err := db.All()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, rec := range recs {
		if _, err := os.Stat(rec.FilePath); err == nil {
			continue
		}
		if _, err := db.Exec(`DELETE FROM completions WHERE fingerprint = ?`, rec.Fingerprint); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
