package stats

import (
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS matches (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at  TIMESTAMP NOT NULL,
	ended_at    TIMESTAMP NOT NULL,
	survivor_id TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS match_players (
	match_id         INTEGER NOT NULL REFERENCES matches(id),
	player_id        TEXT NOT NULL,
	name             TEXT NOT NULL,
	seconds_survived REAL NOT NULL,
	laser_hits       INTEGER NOT NULL,
	lives_lost       INTEGER NOT NULL,
	last_survivor    INTEGER NOT NULL,
	score            REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_match_players_match ON match_players(match_id);
CREATE INDEX IF NOT EXISTS idx_match_players_name  ON match_players(name);
`

// Store persists finished matches to SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the database at path and applies the schema.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open stats db")
	}
	// One writer at a time keeps the pure-Go driver simple under concurrency.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "apply stats schema")
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveMatch writes one finished match and its player rows in a transaction.
// Returns the new match id.
func (s *Store) SaveMatch(result MatchResult) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, errors.Wrap(err, "begin match tx")
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO matches (started_at, ended_at, survivor_id) VALUES (?, ?, ?)`,
		result.StartedAt, result.EndedAt, result.SurvivorID,
	)
	if err != nil {
		return 0, errors.Wrap(err, "insert match")
	}
	matchID, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "match id")
	}

	for _, p := range result.Players {
		_, err := tx.Exec(
			`INSERT INTO match_players
			 (match_id, player_id, name, seconds_survived, laser_hits, lives_lost, last_survivor, score)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			matchID, p.PlayerID, p.Name, p.SecondsSurvived, p.LaserHits, p.LivesLost, p.LastSurvivor, p.Score,
		)
		if err != nil {
			return 0, errors.Wrapf(err, "insert player %s", p.PlayerID)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "commit match tx")
	}
	return matchID, nil
}

// LeaderboardRow is one aggregated line of the all-time leaderboard.
type LeaderboardRow struct {
	Name       string
	Matches    int
	Wins       int
	TotalScore float64
	BestScore  float64
}

// Leaderboard aggregates scores across all stored matches, best total first.
func (s *Store) Leaderboard(limit int) ([]LeaderboardRow, error) {
	rows, err := s.db.Query(
		`SELECT name, COUNT(*), SUM(last_survivor), SUM(score), MAX(score)
		 FROM match_players
		 GROUP BY name
		 ORDER BY SUM(score) DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query leaderboard")
	}
	defer rows.Close()

	var out []LeaderboardRow
	for rows.Next() {
		var r LeaderboardRow
		if err := rows.Scan(&r.Name, &r.Matches, &r.Wins, &r.TotalScore, &r.BestScore); err != nil {
			return nil, errors.Wrap(err, "scan leaderboard row")
		}
		out = append(out, r)
	}
	return out, errors.Wrap(rows.Err(), "iterate leaderboard")
}

// MatchPlayers returns the stored player rows for one match, best score first.
func (s *Store) MatchPlayers(matchID int64) ([]PlayerResult, error) {
	rows, err := s.db.Query(
		`SELECT player_id, name, seconds_survived, laser_hits, lives_lost, last_survivor, score
		 FROM match_players WHERE match_id = ? ORDER BY score DESC`, matchID)
	if err != nil {
		return nil, errors.Wrap(err, "query match players")
	}
	defer rows.Close()

	var out []PlayerResult
	for rows.Next() {
		var p PlayerResult
		if err := rows.Scan(&p.PlayerID, &p.Name, &p.SecondsSurvived, &p.LaserHits, &p.LivesLost, &p.LastSurvivor, &p.Score); err != nil {
			return nil, errors.Wrap(err, "scan player row")
		}
		out = append(out, p)
	}
	return out, errors.Wrap(rows.Err(), "iterate match players")
}
