package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/utils"
)

// checkUsers verifies every ID names an existing, non-archived user. All IDs
// are checked in one lookup and every unresolved one is reported.
func checkUsers(ctx context.Context, users repository.UserRepository, field string, ids []string) error {
	ids = utils.UniqueStrings(ids)
	if len(ids) == 0 {
		return nil
	}

	found, err := users.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", field, err)
	}

	live := make(map[string]struct{}, len(found))
	for _, u := range found {
		if !u.Archived {
			live[u.ID] = struct{}{}
		}
	}

	var missing []string
	for _, id := range ids {
		if _, ok := live[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return &InvalidReferenceError{Field: field, IDs: missing}
	}
	return nil
}

// loadActiveProject returns the project a task may point at. Missing and
// archived projects are both invalid references.
func loadActiveProject(ctx context.Context, projects repository.ProjectRepository, id string) (*models.Project, error) {
	project, err := projects.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, &InvalidReferenceError{Field: "projectId", IDs: []string{id}}
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if project.Archived {
		return nil, &InvalidReferenceError{Field: "projectId", IDs: []string{id}}
	}
	return project, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
