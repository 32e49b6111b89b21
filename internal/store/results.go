package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/DeusData/syntaxcore/internal/lang"
)

// Key identifies one cached result. Two extractions with equal keys
// produce equal results.
type Key struct {
	Language lang.Language
	Kind     string
	Source   uint64
	Pattern  uint64
	Params   uint64
}

// NewKey digests the inputs of an extraction. params covers anything else
// the result depends on, such as the rule table or fold threshold; it must
// marshal to JSON deterministically.
func NewKey(l lang.Language, kind string, source []byte, pattern string, params any) (Key, error) {
	k := Key{
		Language: l,
		Kind:     kind,
		Source:   xxh3.Hash(source),
		Pattern:  xxh3.HashString(pattern),
	}
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return Key{}, fmt.Errorf("marshal params: %w", err)
		}
		h := xxh3.New()
		_, _ = h.Write(b)
		k.Params = h.Sum64()
	}
	return k, nil
}

func hex(v uint64) string {
	return strconv.FormatUint(v, 16)
}

// Get decodes the cached result for k into v and reports whether it was
// present.
func (s *Store) Get(k Key, v any) (bool, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM results
		WHERE language = ? AND kind = ? AND source_hash = ? AND pattern_hash = ? AND params_hash = ?`,
		string(k.Language), k.Kind, hex(k.Source), hex(k.Pattern), hex(k.Params)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		s.misses.Add(1)
		slog.Debug("cache.miss", "lang", k.Language, "kind", k.Kind)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get result: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return false, fmt.Errorf("decode result: %w", err)
	}
	s.hits.Add(1)
	_, _ = s.db.Exec(`UPDATE results SET used_at = ?
		WHERE language = ? AND kind = ? AND source_hash = ? AND pattern_hash = ? AND params_hash = ?`,
		time.Now().UnixNano(), string(k.Language), k.Kind, hex(k.Source), hex(k.Pattern), hex(k.Params))
	return true, nil
}

// Put stores v under k, replacing any previous entry. When the store is
// bounded, the insert and the eviction it triggers commit together.
func (s *Store) Put(k Key, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	var evicted int64
	err = s.WithTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT OR REPLACE INTO results
			(language, kind, source_hash, pattern_hash, params_hash, payload, used_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			string(k.Language), k.Kind, hex(k.Source), hex(k.Pattern), hex(k.Params), string(b), time.Now().UnixNano())
		if err != nil {
			return fmt.Errorf("put result: %w", err)
		}
		if s.maxEntries == 0 {
			return nil
		}
		res, err := tx.Exec(`DELETE FROM results WHERE rowid NOT IN
			(SELECT rowid FROM results ORDER BY used_at DESC LIMIT ?)`, s.maxEntries)
		if err != nil {
			return fmt.Errorf("evict results: %w", err)
		}
		evicted, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return err
	}
	if evicted > 0 {
		slog.Debug("cache.evict", "removed", evicted, "max", s.maxEntries)
	}
	return nil
}

// Prune deletes entries unused for longer than age and returns how many
// were removed.
func (s *Store) Prune(age time.Duration) (int64, error) {
	cutoff := time.Now().Add(-age).UnixNano()
	res, err := s.db.Exec(`DELETE FROM results WHERE used_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune results: %w", err)
	}
	n, _ := res.RowsAffected()
	slog.Info("cache.prune", "removed", n)
	return n, nil
}

// Invalidate drops every entry for a language and kind, e.g. after its
// patterns were edited.
func (s *Store) Invalidate(l lang.Language, kind string) error {
	if _, err := s.db.Exec(`DELETE FROM results WHERE language = ? AND kind = ?`, string(l), kind); err != nil {
		return fmt.Errorf("invalidate results: %w", err)
	}
	return nil
}

// Stats describes the cache contents and its hit rate since open.
type Stats struct {
	Entries int    `json:"entries"`
	Bytes   int64  `json:"bytes"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

func (s *Store) Stats() (Stats, error) {
	st := Stats{Hits: s.hits.Load(), Misses: s.misses.Load()}
	err := s.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(LENGTH(payload)), 0) FROM results`).Scan(&st.Entries, &st.Bytes)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	return st, nil
}
