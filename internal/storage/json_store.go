package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/backpackerjohn/MM16/internal/constants"
	"github.com/backpackerjohn/MM16/internal/models"
	"github.com/backpackerjohn/MM16/internal/timeutil"
)

// Store is the on-disk shape of the JSON backend: the named records of the
// persistence contract plus a format version.
type Store struct {
	Version           int                             `json:"version"`
	Settings          models.Settings                 `json:"settings"`
	Anchors           map[string]models.Anchor        `json:"anchors"`
	DNDWindows        []models.DNDWindow              `json:"dnd_windows"`
	Reminders         map[string]models.SmartReminder `json:"reminders"`
	PauseUntil        *time.Time                      `json:"pause_until,omitempty"`
	OnboardingPreview *models.OnboardingPreview       `json:"onboarding_preview,omitempty"`
	UndoStack         []models.UndoEntry              `json:"undo_stack,omitempty"`
}

type JSONStore struct {
	path  string
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = &Store{
		Version:   1,
		Settings:  models.DefaultSettings(),
		Anchors:   make(map[string]models.Anchor),
		Reminders: make(map[string]models.SmartReminder),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &Store{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	// Absent records default to empty collections, never an error
	if s.store.Anchors == nil {
		s.store.Anchors = make(map[string]models.Anchor)
	}
	if s.store.Reminders == nil {
		s.store.Reminders = make(map[string]models.SmartReminder)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) loaded() error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	if err := s.loaded(); err != nil {
		return models.Settings{}, err
	}
	return s.store.Settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.Settings = settings
	return s.save()
}

func (s *JSONStore) AddAnchor(anchor models.Anchor) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.Anchors[anchor.ID] = anchor.Clone()
	return s.save()
}

func (s *JSONStore) GetAnchor(id string) (models.Anchor, error) {
	if err := s.loaded(); err != nil {
		return models.Anchor{}, err
	}
	anchor, ok := s.store.Anchors[id]
	if !ok {
		return models.Anchor{}, fmt.Errorf("anchor not found: %s", id)
	}
	return anchor.Clone(), nil
}

func (s *JSONStore) GetAllAnchors() ([]models.Anchor, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	anchors := make([]models.Anchor, 0, len(s.store.Anchors))
	for _, anchor := range s.store.Anchors {
		anchors = append(anchors, anchor.Clone())
	}
	sortAnchors(anchors)
	return anchors, nil
}

func (s *JSONStore) UpdateAnchor(anchor models.Anchor) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.store.Anchors[anchor.ID]; !ok {
		return fmt.Errorf("anchor not found: %s", anchor.ID)
	}
	s.store.Anchors[anchor.ID] = anchor.Clone()
	return s.save()
}

func (s *JSONStore) DeleteAnchor(id string) ([]models.SmartReminder, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	if _, ok := s.store.Anchors[id]; !ok {
		return nil, fmt.Errorf("anchor not found: %s", id)
	}

	// Anchor removal and reminder cascade land in the same save, so a
	// reader never sees the anchor gone but its reminders present.
	delete(s.store.Anchors, id)
	var cascaded []models.SmartReminder
	for rid, reminder := range s.store.Reminders {
		if reminder.EventID == id {
			cascaded = append(cascaded, reminder.Clone())
			delete(s.store.Reminders, rid)
		}
	}
	sortReminders(cascaded)

	if err := s.save(); err != nil {
		return nil, err
	}
	return cascaded, nil
}

func (s *JSONStore) AddDNDWindow(window models.DNDWindow) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.DNDWindows = append(s.store.DNDWindows, window)
	return s.save()
}

func (s *JSONStore) GetAllDNDWindows() ([]models.DNDWindow, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	windows := make([]models.DNDWindow, len(s.store.DNDWindows))
	copy(windows, s.store.DNDWindows)
	return windows, nil
}

func (s *JSONStore) DeleteDNDWindow(window models.DNDWindow) error {
	if err := s.loaded(); err != nil {
		return err
	}
	for i, w := range s.store.DNDWindows {
		if w == window {
			s.store.DNDWindows = append(s.store.DNDWindows[:i], s.store.DNDWindows[i+1:]...)
			return s.save()
		}
	}
	return fmt.Errorf("dnd window not found: %s %s-%s", window.Day, window.StartTime, window.EndTime)
}

func (s *JSONStore) AddReminder(reminder models.SmartReminder) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.Reminders[reminder.ID] = reminder.Clone()
	return s.save()
}

func (s *JSONStore) GetReminder(id string) (models.SmartReminder, error) {
	if err := s.loaded(); err != nil {
		return models.SmartReminder{}, err
	}
	reminder, ok := s.store.Reminders[id]
	if !ok {
		return models.SmartReminder{}, fmt.Errorf("reminder not found: %s", id)
	}
	return reminder.Clone(), nil
}

func (s *JSONStore) GetAllReminders() ([]models.SmartReminder, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	reminders := make([]models.SmartReminder, 0, len(s.store.Reminders))
	for _, reminder := range s.store.Reminders {
		reminders = append(reminders, reminder.Clone())
	}
	sortReminders(reminders)
	return reminders, nil
}

func (s *JSONStore) UpdateReminder(reminder models.SmartReminder) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.store.Reminders[reminder.ID]; !ok {
		return fmt.Errorf("reminder not found: %s", reminder.ID)
	}
	s.store.Reminders[reminder.ID] = reminder.Clone()
	return s.save()
}

func (s *JSONStore) DeleteReminder(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.store.Reminders[id]; !ok {
		return fmt.Errorf("reminder not found: %s", id)
	}
	delete(s.store.Reminders, id)
	return s.save()
}

func (s *JSONStore) GetPauseUntil() (*time.Time, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	return s.store.PauseUntil, nil
}

func (s *JSONStore) SetPauseUntil(until *time.Time) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.PauseUntil = until
	return s.save()
}

func (s *JSONStore) GetOnboardingPreview() (*models.OnboardingPreview, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	if s.store.OnboardingPreview == nil {
		return nil, nil
	}
	p := s.store.OnboardingPreview.Clone()
	return &p, nil
}

func (s *JSONStore) SaveOnboardingPreview(preview models.OnboardingPreview) error {
	if err := s.loaded(); err != nil {
		return err
	}
	p := preview.Clone()
	s.store.OnboardingPreview = &p
	return s.save()
}

func (s *JSONStore) ClearOnboardingPreview() error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.OnboardingPreview = nil
	return s.save()
}

func (s *JSONStore) GetUndoStack() ([]models.UndoEntry, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	stack := make([]models.UndoEntry, len(s.store.UndoStack))
	copy(stack, s.store.UndoStack)
	return stack, nil
}

func (s *JSONStore) SaveUndoStack(stack []models.UndoEntry) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.UndoStack = make([]models.UndoEntry, len(stack))
	copy(s.store.UndoStack, stack)
	return s.save()
}

func (s *JSONStore) Snapshot() (models.Schedule, error) {
	if err := s.loaded(); err != nil {
		return models.Schedule{}, err
	}

	anchors, _ := s.GetAllAnchors()
	windows, _ := s.GetAllDNDWindows()
	reminders, _ := s.GetAllReminders()

	snapshot := models.Schedule{
		Anchors:    anchors,
		DNDWindows: windows,
		Reminders:  reminders,
	}
	if s.store.PauseUntil != nil {
		until := *s.store.PauseUntil
		snapshot.PauseUntil = &until
	}
	return snapshot, nil
}

func (s *JSONStore) Restore(snapshot models.Schedule) error {
	if err := s.loaded(); err != nil {
		return err
	}

	anchors := make(map[string]models.Anchor, len(snapshot.Anchors))
	for _, anchor := range snapshot.Anchors {
		anchors[anchor.ID] = anchor.Clone()
	}
	reminders := make(map[string]models.SmartReminder, len(snapshot.Reminders))
	for _, reminder := range snapshot.Reminders {
		reminders[reminder.ID] = reminder.Clone()
	}
	windows := make([]models.DNDWindow, len(snapshot.DNDWindows))
	copy(windows, snapshot.DNDWindows)

	s.store.Anchors = anchors
	s.store.Reminders = reminders
	s.store.DNDWindows = windows
	s.store.PauseUntil = snapshot.PauseUntil
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

func sortAnchors(anchors []models.Anchor) {
	sort.Slice(anchors, func(i, j int) bool {
		if anchors[i].Day != anchors[j].Day {
			return anchors[i].Day.Index() < anchors[j].Day.Index()
		}
		si, sj := timeutil.ToMinutes(anchors[i].StartTime), timeutil.ToMinutes(anchors[j].StartTime)
		if si != sj {
			return si < sj
		}
		return anchors[i].ID < anchors[j].ID
	})
}

func sortReminders(reminders []models.SmartReminder) {
	sort.Slice(reminders, func(i, j int) bool {
		if reminders[i].EventID != reminders[j].EventID {
			return reminders[i].EventID < reminders[j].EventID
		}
		return reminders[i].ID < reminders[j].ID
	})
}
