package store

import (
	"context"
	"strings"
	"sync"

	"github.com/pmclarity/clarity/internal/apiclient"
)

// Projects returns the project list.
func (s *Store) Projects() []apiclient.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projects
}

// CurrentProject returns the selected project, or nil.
func (s *Store) CurrentProject() *apiclient.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// currentProjectID returns the selected project's ID, or "".
func (s *Store) currentProjectID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.ID
}

// requireProject returns the selected project's ID or emits the standard
// validation toast.
func (s *Store) requireProject() (string, error) {
	id := s.currentProjectID()
	if id == "" {
		s.ShowToast("Please select a project first", ToastError)
		return "", ErrNoProject
	}
	return id, nil
}

// FetchProjects loads the project list. On failure the list is cleared and a
// connection-aware message is recorded in LastError.
func (s *Store) FetchProjects(ctx context.Context) []apiclient.Project {
	s.setLoading(true, "fetchProjects")
	defer s.setLoading(false, "")
	s.ClearError()

	projects, err := s.api.ListProjects(ctx)
	if err != nil {
		s.logger.Error("failed to fetch projects", "error", err)

		message := apiclient.UserMessage(err, "Failed to load projects")
		if apiErr, ok := apiclient.AsError(err); ok {
			switch apiErr.Kind {
			case apiclient.KindNetwork:
				message = "Unable to connect to server. Please check your connection."
			case apiclient.KindServer:
				message = "Server error. Please try again later."
			}
		}

		s.mu.Lock()
		s.lastError = message
		s.projects = nil
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	s.projects = projects
	s.mu.Unlock()
	return projects
}

// CreateProject creates a project, selects it, and resets project-scoped
// state for a fresh start.
func (s *Store) CreateProject(ctx context.Context, name string) (*apiclient.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		s.ShowToast("Project name is required", ToastError)
		return nil, ErrEmptyName
	}

	s.setLoading(true, "createProject")
	defer s.setLoading(false, "")

	project, err := s.api.CreateProject(ctx, name)
	if err != nil {
		s.failure(err, "Failed to create project")
		return nil, err
	}

	s.mu.Lock()
	s.projects = append([]apiclient.Project{*project}, s.projects...)
	s.current = project
	s.resetProjectData()
	s.mu.Unlock()

	s.ShowToast("Project created successfully", ToastSuccess)
	return project, nil
}

// SelectProject switches the current project. All project-scoped state is
// reset before switching, then the project's data is loaded with independent
// concurrent fetches; individual failures degrade to defaults without
// aborting the rest.
func (s *Store) SelectProject(ctx context.Context, projectID string) error {
	if projectID == "" {
		s.logger.Warn("no project ID provided to SelectProject")
		return ErrInvalidID
	}

	s.mu.Lock()
	var selected *apiclient.Project
	for i := range s.projects {
		if s.projects[i].ID == projectID {
			selected = &s.projects[i]
			break
		}
	}
	if selected == nil {
		s.mu.Unlock()
		s.logger.Warn("project not found", "project", projectID)
		s.ShowToast("Project not found", ToastError)
		return ErrProjectNotFound
	}
	s.resetProjectData()
	s.current = selected
	s.mu.Unlock()

	s.setLoading(true, "selectProject")
	defer s.setLoading(false, "")

	// Join all outcomes; a failed sub-fetch must not short-circuit the rest.
	var wg sync.WaitGroup
	for _, fetch := range []func(context.Context){
		func(ctx context.Context) { s.FetchContextFiles(ctx) },
		func(ctx context.Context) { s.FetchFeatures(ctx) },
		func(ctx context.Context) { s.FetchResponses(ctx) },
		func(ctx context.Context) { s.FetchStats(ctx) },
	} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fetch(ctx)
		}()
	}
	wg.Wait()
	return nil
}

// DeleteProject deletes a project. Deleting the current project falls back
// to the first remaining project, or none, and clears dependent state.
func (s *Store) DeleteProject(ctx context.Context, projectID string) error {
	if projectID == "" {
		s.ShowToast("Invalid project ID", ToastError)
		return ErrInvalidID
	}

	s.setLoading(true, "deleteProject")
	defer s.setLoading(false, "")

	if err := s.api.DeleteProject(ctx, projectID); err != nil {
		s.failure(err, "Failed to delete project")
		return err
	}

	s.mu.Lock()
	remaining := s.projects[:0:0]
	for _, p := range s.projects {
		if p.ID != projectID {
			remaining = append(remaining, p)
		}
	}
	s.projects = remaining

	if s.current != nil && s.current.ID == projectID {
		if len(remaining) > 0 {
			s.current = &remaining[0]
		} else {
			s.current = nil
		}
		s.resetProjectData()
	}
	s.mu.Unlock()

	s.ShowToast("Project deleted", ToastSuccess)
	return nil
}
