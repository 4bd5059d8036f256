// Package scenarios persists named calculator states
package scenarios

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"finplan/internal/models"
	"finplan/internal/services/calculators"
	"finplan/internal/services/sharestate"
	"finplan/internal/services/storage"
)

// FileName is the data file holding all scenarios
const FileName = "scenarios.json"

// currentVersion of the scenario file format
const currentVersion = 1

// maxRemoved bounds the restore history
const maxRemoved = 20

var (
	ErrNotFound    = errors.New("scenario not found")
	ErrUnknownTool = errors.New("unknown calculator")
	ErrEmptyName   = errors.New("scenario name is required")
)

// Manager handles persistence of saved scenarios
type Manager struct {
	store *storage.Store
	mu    sync.RWMutex
	now   func() time.Time
}

// NewManager creates a scenario manager on top of a data store
func NewManager(store *storage.Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// Load reads the scenario file, returning an empty one if it doesn't exist
func (m *Manager) Load() (*models.ScenarioFile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loadInternal()
}

// loadInternal reads without acquiring the lock (caller must hold it)
func (m *Manager) loadInternal() (*models.ScenarioFile, error) {
	file := &models.ScenarioFile{Version: currentVersion}
	if err := m.store.ReadJSON(FileName, file); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if file.Scenarios == nil {
		file.Scenarios = []models.Scenario{}
	}
	if file.Removed == nil {
		file.Removed = []models.Scenario{}
	}
	return file, nil
}

// saveInternal writes without acquiring the lock (caller must hold it)
func (m *Manager) saveInternal(file *models.ScenarioFile) error {
	file.Version = currentVersion
	return m.store.WriteJSON(FileName, file)
}

// List returns saved scenarios, optionally only those of one tool
func (m *Manager) List(tool models.CalculatorID) ([]models.Scenario, error) {
	file, err := m.Load()
	if err != nil {
		return nil, err
	}
	if tool == "" {
		return file.Scenarios, nil
	}
	out := make([]models.Scenario, 0, len(file.Scenarios))
	for _, s := range file.Scenarios {
		if s.Tool == tool {
			out = append(out, s)
		}
	}
	return out, nil
}

// Get returns one scenario by id
func (m *Manager) Get(id string) (*models.Scenario, error) {
	file, err := m.Load()
	if err != nil {
		return nil, err
	}
	for i := range file.Scenarios {
		if file.Scenarios[i].ID == id {
			return &file.Scenarios[i], nil
		}
	}
	return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
}

// Create saves a new scenario. Parameters are stored as a share query.
func (m *Manager) Create(name string, tool models.CalculatorID, params models.Params, advanced bool) (*models.Scenario, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if _, ok := calculators.Lookup(tool); !ok {
		return nil, fmt.Errorf("%s: %w", tool, ErrUnknownTool)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	file, err := m.loadInternal()
	if err != nil {
		return nil, err
	}

	now := m.now().UTC()
	scenario := models.Scenario{
		ID:        uuid.NewString(),
		Name:      name,
		Tool:      tool,
		Advanced:  advanced,
		Query:     sharestate.Encode(tool, params),
		CreatedAt: now,
		UpdatedAt: now,
	}
	file.Scenarios = append(file.Scenarios, scenario)

	if err := m.saveInternal(file); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// Update replaces a scenario's name and parameters
func (m *Manager) Update(id, name string, params models.Params, advanced bool) (*models.Scenario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	file, err := m.loadInternal()
	if err != nil {
		return nil, err
	}

	for i := range file.Scenarios {
		s := &file.Scenarios[i]
		if s.ID != id {
			continue
		}
		if n := strings.TrimSpace(name); n != "" {
			s.Name = n
		}
		s.Query = sharestate.Encode(s.Tool, params)
		s.Advanced = advanced
		s.UpdatedAt = m.now().UTC()

		if err := m.saveInternal(file); err != nil {
			return nil, err
		}
		updated := *s
		return &updated, nil
	}
	return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
}

// Remove moves a scenario to the removed list
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	file, err := m.loadInternal()
	if err != nil {
		return err
	}

	kept, removed := partition(file.Scenarios, id)
	if removed == nil {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	file.Scenarios = kept
	file.Removed = append(file.Removed, *removed)
	if len(file.Removed) > maxRemoved {
		file.Removed = file.Removed[len(file.Removed)-maxRemoved:]
	}

	return m.saveInternal(file)
}

// Restore moves a scenario back from the removed list
func (m *Manager) Restore(id string) (*models.Scenario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	file, err := m.loadInternal()
	if err != nil {
		return nil, err
	}

	kept, restored := partition(file.Removed, id)
	if restored == nil {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	file.Removed = kept
	file.Scenarios = append(file.Scenarios, *restored)

	if err := m.saveInternal(file); err != nil {
		return nil, err
	}
	return restored, nil
}

// partition splits out the scenario with the given id
func partition(list []models.Scenario, id string) ([]models.Scenario, *models.Scenario) {
	kept := make([]models.Scenario, 0, len(list))
	var found *models.Scenario
	for i := range list {
		if list[i].ID == id && found == nil {
			s := list[i]
			found = &s
			continue
		}
		kept = append(kept, list[i])
	}
	return kept, found
}

// Params decodes a scenario's stored query back into calculator parameters
func Params(s *models.Scenario) (models.Params, error) {
	tool, ok := calculators.Lookup(s.Tool)
	if !ok {
		return nil, fmt.Errorf("%s: %w", s.Tool, ErrUnknownTool)
	}
	return sharestate.Decode(s.Query, s.Tool, tool.Keys()), nil
}

// Calculate re-runs a saved scenario
func Calculate(s *models.Scenario) (*models.CalculationResult, error) {
	params, err := Params(s)
	if err != nil {
		return nil, err
	}
	tool, _ := calculators.Lookup(s.Tool)
	return tool.Calculate(params, s.Advanced), nil
}
