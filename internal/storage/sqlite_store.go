package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/backpackerjohn/MM16/internal/constants"
	"github.com/backpackerjohn/MM16/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS anchors (
	id TEXT PRIMARY KEY,
	day TEXT NOT NULL,
	title TEXT NOT NULL,
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	context_tags TEXT,
	buffer_prep INTEGER,
	buffer_recovery INTEGER
);
CREATE TABLE IF NOT EXISTS dnd_windows (
	day TEXT NOT NULL,
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS reminders (
	id TEXT PRIMARY KEY,
	event_id TEXT NOT NULL,
	offset_minutes INTEGER NOT NULL,
	message TEXT NOT NULL,
	why TEXT,
	is_locked INTEGER NOT NULL DEFAULT 0,
	is_exploratory INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	snooze_history TEXT,
	snoozed_until TEXT,
	success_history TEXT,
	is_stacked_habit INTEGER NOT NULL DEFAULT 0,
	habit_id TEXT,
	original_offset_minutes INTEGER,
	last_interaction TEXT,
	flexibility_minutes INTEGER NOT NULL DEFAULT 0,
	allow_exploration INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_reminders_event_id ON reminders(event_id);
CREATE TABLE IF NOT EXISTS state (
	key TEXT PRIMARY KEY,
	value TEXT
);
`

// state table keys
const (
	stateKeyPauseUntil = "pause_until"
	stateKeySettings   = "settings"
	stateKeyPreview    = "onboarding_preview"
	stateKeyUndoStack  = "undo_stack"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

func (s *SQLiteStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Initialize default settings if not present
	if _, err := s.getState(stateKeySettings); err != nil {
		if err := s.SaveSettings(models.DefaultSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	// Schema creation is idempotent; running it on load picks up tables
	// added since the store was initialized.
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) getState(key string) (string, error) {
	var value sql.NullString
	err := s.db.QueryRow(`SELECT value FROM state WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", err
	}
	if !value.Valid {
		return "", sql.ErrNoRows
	}
	return value.String, nil
}

func (s *SQLiteStore) setState(key string, value *string) error {
	var err error
	if value == nil {
		_, err = s.db.Exec(`DELETE FROM state WHERE key = ?`, key)
	} else {
		_, err = s.db.Exec(`INSERT INTO state (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, *value)
	}
	return err
}

func (s *SQLiteStore) GetSettings() (models.Settings, error) {
	raw, err := s.getState(stateKeySettings)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.DefaultSettings(), nil
		}
		return models.Settings{}, err
	}
	var settings models.Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return models.Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	return settings, nil
}

func (s *SQLiteStore) SaveSettings(settings models.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}
	raw := string(data)
	return s.setState(stateKeySettings, &raw)
}

func (s *SQLiteStore) AddAnchor(anchor models.Anchor) error {
	return s.upsertAnchor(s.db, anchor)
}

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func (s *SQLiteStore) upsertAnchor(db execer, anchor models.Anchor) error {
	tags, err := json.Marshal(anchor.ContextTags)
	if err != nil {
		return fmt.Errorf("failed to serialize context tags: %w", err)
	}

	var prep, recovery sql.NullInt64
	if anchor.BufferMinutes != nil {
		prep = sql.NullInt64{Int64: int64(anchor.BufferMinutes.Prep), Valid: true}
		recovery = sql.NullInt64{Int64: int64(anchor.BufferMinutes.Recovery), Valid: true}
	}

	_, err = db.Exec(`INSERT INTO anchors
		(id, day, title, start_time, end_time, context_tags, buffer_prep, buffer_recovery)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			day = excluded.day, title = excluded.title,
			start_time = excluded.start_time, end_time = excluded.end_time,
			context_tags = excluded.context_tags,
			buffer_prep = excluded.buffer_prep, buffer_recovery = excluded.buffer_recovery`,
		anchor.ID, string(anchor.Day), anchor.Title, anchor.StartTime, anchor.EndTime,
		string(tags), prep, recovery)
	return err
}

func (s *SQLiteStore) scanAnchor(row interface {
	Scan(dest ...interface{}) error
}) (models.Anchor, error) {
	var a models.Anchor
	var day string
	var tags sql.NullString
	var prep, recovery sql.NullInt64

	err := row.Scan(&a.ID, &day, &a.Title, &a.StartTime, &a.EndTime, &tags, &prep, &recovery)
	if err != nil {
		return models.Anchor{}, err
	}

	a.Day = models.Weekday(day)
	if tags.Valid && tags.String != "" && tags.String != "null" {
		if err := json.Unmarshal([]byte(tags.String), &a.ContextTags); err != nil {
			return models.Anchor{}, fmt.Errorf("failed to parse context tags: %w", err)
		}
	}
	if prep.Valid || recovery.Valid {
		a.BufferMinutes = &models.BufferMinutes{
			Prep:     int(prep.Int64),
			Recovery: int(recovery.Int64),
		}
	}
	return a, nil
}

const anchorColumns = `id, day, title, start_time, end_time, context_tags, buffer_prep, buffer_recovery`

func (s *SQLiteStore) GetAnchor(id string) (models.Anchor, error) {
	row := s.db.QueryRow(`SELECT `+anchorColumns+` FROM anchors WHERE id = ?`, id)
	anchor, err := s.scanAnchor(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Anchor{}, fmt.Errorf("anchor not found: %s", id)
		}
		return models.Anchor{}, err
	}
	return anchor, nil
}

func (s *SQLiteStore) GetAllAnchors() ([]models.Anchor, error) {
	rows, err := s.db.Query(`SELECT ` + anchorColumns + ` FROM anchors`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var anchors []models.Anchor
	for rows.Next() {
		anchor, err := s.scanAnchor(rows)
		if err != nil {
			return nil, err
		}
		anchors = append(anchors, anchor)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortAnchors(anchors)
	return anchors, nil
}

func (s *SQLiteStore) UpdateAnchor(anchor models.Anchor) error {
	if _, err := s.GetAnchor(anchor.ID); err != nil {
		return err
	}
	return s.upsertAnchor(s.db, anchor)
}

func (s *SQLiteStore) DeleteAnchor(id string) ([]models.SmartReminder, error) {
	if _, err := s.GetAnchor(id); err != nil {
		return nil, err
	}

	reminders, err := s.remindersForEvent(id)
	if err != nil {
		return nil, err
	}

	// Cascade inside one transaction: both effects or neither
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(`DELETE FROM reminders WHERE event_id = ?`, id); err != nil {
		tx.Rollback()
		return nil, err
	}
	if _, err := tx.Exec(`DELETE FROM anchors WHERE id = ?`, id); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return reminders, nil
}

func (s *SQLiteStore) AddDNDWindow(window models.DNDWindow) error {
	_, err := s.db.Exec(`INSERT INTO dnd_windows (day, start_time, end_time) VALUES (?, ?, ?)`,
		string(window.Day), window.StartTime, window.EndTime)
	return err
}

func (s *SQLiteStore) GetAllDNDWindows() ([]models.DNDWindow, error) {
	rows, err := s.db.Query(`SELECT day, start_time, end_time FROM dnd_windows ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var windows []models.DNDWindow
	for rows.Next() {
		var w models.DNDWindow
		var day string
		if err := rows.Scan(&day, &w.StartTime, &w.EndTime); err != nil {
			return nil, err
		}
		w.Day = models.Weekday(day)
		windows = append(windows, w)
	}
	return windows, rows.Err()
}

func (s *SQLiteStore) DeleteDNDWindow(window models.DNDWindow) error {
	res, err := s.db.Exec(`DELETE FROM dnd_windows WHERE rowid = (
		SELECT rowid FROM dnd_windows WHERE day = ? AND start_time = ? AND end_time = ? LIMIT 1)`,
		string(window.Day), window.StartTime, window.EndTime)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("dnd window not found: %s %s-%s", window.Day, window.StartTime, window.EndTime)
	}
	return nil
}

func (s *SQLiteStore) upsertReminder(db execer, r models.SmartReminder) error {
	snoozes, err := json.Marshal(r.SnoozeHistory)
	if err != nil {
		return fmt.Errorf("failed to serialize snooze history: %w", err)
	}
	outcomes, err := json.Marshal(r.SuccessHistory)
	if err != nil {
		return fmt.Errorf("failed to serialize success history: %w", err)
	}

	var snoozedUntil, lastInteraction sql.NullString
	if r.SnoozedUntil != nil {
		snoozedUntil = sql.NullString{String: r.SnoozedUntil.Format(time.RFC3339Nano), Valid: true}
	}
	if r.LastInteraction != nil {
		lastInteraction = sql.NullString{String: r.LastInteraction.Format(time.RFC3339Nano), Valid: true}
	}
	var originalOffset sql.NullInt64
	if r.OriginalOffsetMinutes != nil {
		originalOffset = sql.NullInt64{Int64: int64(*r.OriginalOffsetMinutes), Valid: true}
	}

	_, err = db.Exec(`INSERT INTO reminders
		(id, event_id, offset_minutes, message, why, is_locked, is_exploratory, status,
		 snooze_history, snoozed_until, success_history, is_stacked_habit, habit_id,
		 original_offset_minutes, last_interaction, flexibility_minutes, allow_exploration)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			event_id = excluded.event_id, offset_minutes = excluded.offset_minutes,
			message = excluded.message, why = excluded.why,
			is_locked = excluded.is_locked, is_exploratory = excluded.is_exploratory,
			status = excluded.status, snooze_history = excluded.snooze_history,
			snoozed_until = excluded.snoozed_until, success_history = excluded.success_history,
			is_stacked_habit = excluded.is_stacked_habit, habit_id = excluded.habit_id,
			original_offset_minutes = excluded.original_offset_minutes,
			last_interaction = excluded.last_interaction,
			flexibility_minutes = excluded.flexibility_minutes,
			allow_exploration = excluded.allow_exploration`,
		r.ID, r.EventID, r.OffsetMinutes, r.Message, r.Why, r.IsLocked, r.IsExploratory,
		string(r.Status), string(snoozes), snoozedUntil, string(outcomes), r.IsStackedHabit,
		r.HabitID, originalOffset, lastInteraction, r.FlexibilityMinutes, r.AllowExploration)
	return err
}

const reminderColumns = `id, event_id, offset_minutes, message, why, is_locked, is_exploratory,
	status, snooze_history, snoozed_until, success_history, is_stacked_habit, habit_id,
	original_offset_minutes, last_interaction, flexibility_minutes, allow_exploration`

func (s *SQLiteStore) scanReminder(row interface {
	Scan(dest ...interface{}) error
}) (models.SmartReminder, error) {
	var r models.SmartReminder
	var status string
	var why, habitID, snoozes, outcomes, snoozedUntil, lastInteraction sql.NullString
	var originalOffset sql.NullInt64

	err := row.Scan(&r.ID, &r.EventID, &r.OffsetMinutes, &r.Message, &why, &r.IsLocked,
		&r.IsExploratory, &status, &snoozes, &snoozedUntil, &outcomes, &r.IsStackedHabit,
		&habitID, &originalOffset, &lastInteraction, &r.FlexibilityMinutes, &r.AllowExploration)
	if err != nil {
		return models.SmartReminder{}, err
	}

	r.Status = models.ReminderStatus(status)
	r.Why = why.String
	r.HabitID = habitID.String

	if snoozes.Valid && snoozes.String != "" && snoozes.String != "null" {
		if err := json.Unmarshal([]byte(snoozes.String), &r.SnoozeHistory); err != nil {
			return models.SmartReminder{}, fmt.Errorf("failed to parse snooze history: %w", err)
		}
	}
	if outcomes.Valid && outcomes.String != "" && outcomes.String != "null" {
		if err := json.Unmarshal([]byte(outcomes.String), &r.SuccessHistory); err != nil {
			return models.SmartReminder{}, fmt.Errorf("failed to parse success history: %w", err)
		}
	}
	if snoozedUntil.Valid {
		t, err := time.Parse(time.RFC3339Nano, snoozedUntil.String)
		if err != nil {
			return models.SmartReminder{}, fmt.Errorf("failed to parse snoozed_until: %w", err)
		}
		r.SnoozedUntil = &t
	}
	if lastInteraction.Valid {
		t, err := time.Parse(time.RFC3339Nano, lastInteraction.String)
		if err != nil {
			return models.SmartReminder{}, fmt.Errorf("failed to parse last_interaction: %w", err)
		}
		r.LastInteraction = &t
	}
	if originalOffset.Valid {
		v := int(originalOffset.Int64)
		r.OriginalOffsetMinutes = &v
	}
	return r, nil
}

func (s *SQLiteStore) AddReminder(reminder models.SmartReminder) error {
	return s.upsertReminder(s.db, reminder)
}

func (s *SQLiteStore) GetReminder(id string) (models.SmartReminder, error) {
	row := s.db.QueryRow(`SELECT `+reminderColumns+` FROM reminders WHERE id = ?`, id)
	reminder, err := s.scanReminder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.SmartReminder{}, fmt.Errorf("reminder not found: %s", id)
		}
		return models.SmartReminder{}, err
	}
	return reminder, nil
}

func (s *SQLiteStore) GetAllReminders() ([]models.SmartReminder, error) {
	return s.queryReminders(`SELECT ` + reminderColumns + ` FROM reminders`)
}

func (s *SQLiteStore) remindersForEvent(eventID string) ([]models.SmartReminder, error) {
	return s.queryReminders(`SELECT `+reminderColumns+` FROM reminders WHERE event_id = ?`, eventID)
}

func (s *SQLiteStore) queryReminders(query string, args ...interface{}) ([]models.SmartReminder, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []models.SmartReminder
	for rows.Next() {
		reminder, err := s.scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortReminders(reminders)
	return reminders, nil
}

func (s *SQLiteStore) UpdateReminder(reminder models.SmartReminder) error {
	if _, err := s.GetReminder(reminder.ID); err != nil {
		return err
	}
	return s.upsertReminder(s.db, reminder)
}

func (s *SQLiteStore) DeleteReminder(id string) error {
	res, err := s.db.Exec(`DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("reminder not found: %s", id)
	}
	return nil
}

func (s *SQLiteStore) GetPauseUntil() (*time.Time, error) {
	raw, err := s.getState(stateKeyPauseUntil)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pause state: %w", err)
	}
	return &t, nil
}

func (s *SQLiteStore) SetPauseUntil(until *time.Time) error {
	if until == nil {
		return s.setState(stateKeyPauseUntil, nil)
	}
	raw := until.Format(time.RFC3339Nano)
	return s.setState(stateKeyPauseUntil, &raw)
}

func (s *SQLiteStore) GetOnboardingPreview() (*models.OnboardingPreview, error) {
	raw, err := s.getState(stateKeyPreview)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	var preview models.OnboardingPreview
	if err := json.Unmarshal([]byte(raw), &preview); err != nil {
		return nil, fmt.Errorf("failed to parse onboarding preview: %w", err)
	}
	return &preview, nil
}

func (s *SQLiteStore) SaveOnboardingPreview(preview models.OnboardingPreview) error {
	data, err := json.Marshal(preview)
	if err != nil {
		return fmt.Errorf("failed to serialize onboarding preview: %w", err)
	}
	raw := string(data)
	return s.setState(stateKeyPreview, &raw)
}

func (s *SQLiteStore) ClearOnboardingPreview() error {
	return s.setState(stateKeyPreview, nil)
}

func (s *SQLiteStore) GetUndoStack() ([]models.UndoEntry, error) {
	raw, err := s.getState(stateKeyUndoStack)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	var stack []models.UndoEntry
	if err := json.Unmarshal([]byte(raw), &stack); err != nil {
		return nil, fmt.Errorf("failed to parse undo stack: %w", err)
	}
	return stack, nil
}

func (s *SQLiteStore) SaveUndoStack(stack []models.UndoEntry) error {
	if len(stack) == 0 {
		return s.setState(stateKeyUndoStack, nil)
	}
	data, err := json.Marshal(stack)
	if err != nil {
		return fmt.Errorf("failed to serialize undo stack: %w", err)
	}
	raw := string(data)
	return s.setState(stateKeyUndoStack, &raw)
}

func (s *SQLiteStore) Snapshot() (models.Schedule, error) {
	anchors, err := s.GetAllAnchors()
	if err != nil {
		return models.Schedule{}, err
	}
	windows, err := s.GetAllDNDWindows()
	if err != nil {
		return models.Schedule{}, err
	}
	reminders, err := s.GetAllReminders()
	if err != nil {
		return models.Schedule{}, err
	}
	pauseUntil, err := s.GetPauseUntil()
	if err != nil {
		return models.Schedule{}, err
	}
	return models.Schedule{
		Anchors:    anchors,
		DNDWindows: windows,
		Reminders:  reminders,
		PauseUntil: pauseUntil,
	}, nil
}

func (s *SQLiteStore) Restore(snapshot models.Schedule) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	for _, table := range []string{"anchors", "dnd_windows", "reminders"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			tx.Rollback()
			return err
		}
	}
	for _, anchor := range snapshot.Anchors {
		if err := s.upsertAnchor(tx, anchor); err != nil {
			tx.Rollback()
			return err
		}
	}
	for _, window := range snapshot.DNDWindows {
		if _, err := tx.Exec(`INSERT INTO dnd_windows (day, start_time, end_time) VALUES (?, ?, ?)`,
			string(window.Day), window.StartTime, window.EndTime); err != nil {
			tx.Rollback()
			return err
		}
	}
	for _, reminder := range snapshot.Reminders {
		if err := s.upsertReminder(tx, reminder); err != nil {
			tx.Rollback()
			return err
		}
	}
	if snapshot.PauseUntil == nil {
		if _, err := tx.Exec(`DELETE FROM state WHERE key = ?`, stateKeyPauseUntil); err != nil {
			tx.Rollback()
			return err
		}
	} else {
		raw := snapshot.PauseUntil.Format(time.RFC3339Nano)
		if _, err := tx.Exec(`INSERT INTO state (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`, stateKeyPauseUntil, raw); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}
