package sqlite

import (
	"database/sql"
	"errors"

	"github.com/julianstephens/habitheat/internal/constants"
	"github.com/julianstephens/habitheat/internal/models"
)

// GetMeta fetches the singleton metadata record.
func (s *Store) GetMeta() (models.AppMeta, error) {
	row := s.db.QueryRow(`SELECT key, db_version, timezone, app_token FROM meta WHERE key = ?`,
		constants.MetaKey)

	var m models.AppMeta
	var token sql.NullString
	if err := row.Scan(&m.Key, &m.DBVersion, &m.Timezone, &token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.AppMeta{}, ErrNotFound
		}
		return models.AppMeta{}, err
	}
	if token.Valid {
		m.AppToken = token.String
	}
	return m, nil
}

// PutMeta upserts the singleton metadata record.
func (s *Store) PutMeta(m models.AppMeta) error {
	if m.Key == "" {
		m.Key = constants.MetaKey
	}
	var token sql.NullString
	if m.AppToken != "" {
		token = sql.NullString{String: m.AppToken, Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO meta (key, db_version, timezone, app_token)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			db_version = excluded.db_version,
			timezone = excluded.timezone,
			app_token = excluded.app_token`,
		m.Key, m.DBVersion, m.Timezone, token)
	return err
}
