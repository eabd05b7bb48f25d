// Package store is the central state container for the Clarity client. It
// holds all project-scoped collections and transient UI state, and exposes
// one action per user-facing operation. Every action follows the same
// pipeline: validate preconditions locally, set a named loading flag, call
// the API, update local collections, emit a toast, and always clear the
// loading flag on the way out.
package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/pmclarity/clarity/internal/apiclient"
)

// Tab identifies a top-level UI tab.
type Tab string

const (
	TabProjects  Tab = "projects"
	TabContext   Tab = "context"
	TabFeatures  Tab = "features"
	TabQuestions Tab = "questions"
	TabPRD       Tab = "prd"
)

var validTabs = map[Tab]bool{
	TabProjects:  true,
	TabContext:   true,
	TabFeatures:  true,
	TabQuestions: true,
	TabPRD:       true,
}

// Store is the domain state container. All fields are guarded by mu;
// mutations within one action are atomic with respect to readers.
type Store struct {
	api           *apiclient.Client
	logger        *slog.Logger
	toastDuration time.Duration

	mu sync.Mutex

	// Projects
	projects []apiclient.Project
	current  *apiclient.Project

	// Context files
	contextFiles      []apiclient.ContextFile
	aggregatedContext string

	// Features
	features []apiclient.Feature

	// Questions
	catalog   apiclient.Catalog
	responses map[string]apiclient.Response
	stats     apiclient.Stats

	// PRD
	prd         string
	hasPRD      bool
	prdHTML     string
	prdHistory  []apiclient.Snapshot
	prdMetadata *apiclient.PRDMetadata

	// Templates
	templates        []apiclient.Template
	selectedTemplate *apiclient.Template

	// UI state
	loading       bool
	loadingAction string
	lastError     string
	toast         *Toast
	activeTab     Tab
	activeSection string
}

// Options configures a Store.
type Options struct {
	Client *apiclient.Client
	Logger *slog.Logger
	// ToastDuration is how long a toast stays visible. Zero means 3s.
	ToastDuration time.Duration
}

// New creates an empty store.
func New(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	duration := opts.ToastDuration
	if duration == 0 {
		duration = 3 * time.Second
	}
	return &Store{
		api:           opts.Client,
		logger:        logger,
		toastDuration: duration,
		responses:     map[string]apiclient.Response{},
		activeTab:     TabContext,
	}
}

// setLoading records the in-flight action so UI regions can ask whether a
// specific action is loading without showing spurious spinners for
// unrelated work.
func (s *Store) setLoading(active bool, action string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = active
	if active {
		s.loadingAction = action
	} else {
		s.loadingAction = ""
	}
}

// IsLoading reports whether any action is loading, or, with a non-empty
// action, whether that specific action is loading.
func (s *Store) IsLoading(action string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if action != "" {
		return s.loading && s.loadingAction == action
	}
	return s.loading
}

// LastError returns the user-facing message of the most recent list-fetch
// failure.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// ClearError resets the error field.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = ""
}

// SetActiveTab switches the active tab; unknown tabs are ignored.
func (s *Store) SetActiveTab(tab Tab) {
	if !validTabs[tab] {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeTab = tab
}

// ActiveTab returns the active tab.
func (s *Store) ActiveTab() Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeTab
}

// SetActiveSection switches the active question section.
func (s *Store) SetActiveSection(sectionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeSection = sectionID
}

// ActiveSection returns the active question section.
func (s *Store) ActiveSection() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeSection
}

// resetProjectData clears everything scoped to the current project. Called
// before switching projects to prevent stale cross-project state. Caller
// holds mu.
func (s *Store) resetProjectData() {
	s.contextFiles = nil
	s.aggregatedContext = ""
	s.features = nil
	s.responses = map[string]apiclient.Response{}
	s.stats = apiclient.Stats{}
	s.prd = ""
	s.hasPRD = false
	s.prdHTML = ""
	s.prdHistory = nil
	s.prdMetadata = nil
	s.activeTab = TabContext
	if len(s.catalog.Sections) > 0 {
		s.activeSection = s.catalog.Sections[0].ID
	} else {
		s.activeSection = ""
	}
}

// ResetProjectData clears all project-scoped collections.
func (s *Store) ResetProjectData() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetProjectData()
}

// Reset returns the store to its initial state. Used at logout.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = nil
	s.current = nil
	s.resetProjectData()
	s.catalog = apiclient.Catalog{}
	s.templates = nil
	s.selectedTemplate = nil
	s.loading = false
	s.loadingAction = ""
	s.lastError = ""
	s.toast = nil
	s.activeTab = TabContext
	s.activeSection = ""
}

// failure classifies err, formats a user-facing message with the fallback,
// appends a server-supplied hint when present, logs, and emits an error
// toast. Returns the formatted message.
func (s *Store) failure(err error, fallback string) string {
	message := apiclient.UserMessage(err, fallback)
	if apiErr, ok := apiclient.AsError(err); ok && apiErr.Hint != "" {
		message += ". " + apiErr.Hint
	}
	s.logger.Error(fallback, "error", err)
	s.ShowToast(message, ToastError)
	return message
}
