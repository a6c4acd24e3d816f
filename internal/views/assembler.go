package views

import (
	"context"
	"sort"

	"github.com/yukikurage/project-management-api/internal/access"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
)

// ProjectQuery selects projects for the detail view. Empty fields do not filter.
type ProjectQuery struct {
	UserID    string
	ProjectID string
}

// TaskQuery selects tasks for the list view. An empty ProjectID does not filter.
type TaskQuery struct {
	ProjectID string
}

// Assembler builds read models. Each call loads base records, resolves every
// referenced user in a single FindByIDs round trip, then joins in memory.
type Assembler struct {
	users    repository.UserRepository
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	roles    *access.Resolver
}

// NewAssembler creates a new Assembler
func NewAssembler(repos *repository.Repositories, roles *access.Resolver) *Assembler {
	return &Assembler{
		users:    repos.Users,
		projects: repos.Projects,
		tasks:    repos.Tasks,
		roles:    roles,
	}
}

// Projects returns the non-archived projects matching q, newest first.
// No match yields an empty slice.
func (a *Assembler) Projects(ctx context.Context, q ProjectQuery) ([]ProjectView, error) {
	projects, err := a.projects.List(ctx, repository.ProjectFilter{
		MemberID:  q.UserID,
		ProjectID: q.ProjectID,
	})
	if err != nil {
		return nil, err
	}
	return a.assembleProjects(ctx, projects)
}

// Project returns the view of a single project, archived or not.
func (a *Assembler) Project(ctx context.Context, id string) (*ProjectView, error) {
	project, err := a.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	out, err := a.assembleProjects(ctx, []models.Project{*project})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (a *Assembler) assembleProjects(ctx context.Context, projects []models.Project) ([]ProjectView, error) {
	if len(projects) == 0 {
		return []ProjectView{}, nil
	}

	projectIDs := make([]string, len(projects))
	for i := range projects {
		projectIDs[i] = projects[i].ID
	}

	tasks, err := a.tasks.List(ctx, repository.TaskFilter{ProjectIDs: projectIDs})
	if err != nil {
		return nil, err
	}

	refs := newIDSet()
	for i := range projects {
		p := &projects[i]
		refs.add(p.CreatedBy)
		refs.addPtr(p.UpdatedBy)
		refs.add(p.MemberIDs()...)
	}
	for i := range tasks {
		refs.add(tasks[i].UserIDs()...)
	}

	idx, err := a.resolve(ctx, refs)
	if err != nil {
		return nil, err
	}

	tasksByProject := make(map[string][]ProjectTaskView, len(projects))
	for i := range tasks {
		t := &tasks[i]
		assignees := make([]string, len(t.Users))
		for j, u := range t.Users {
			assignees[j] = idx.name(u.UserID)
		}
		tasksByProject[t.ProjectID] = append(tasksByProject[t.ProjectID], ProjectTaskView{
			ID:        t.ID,
			Name:      t.Name,
			Status:    t.Status,
			Assignees: assignees,
			CreatedAt: t.CreatedAt,
		})
	}

	out := make([]ProjectView, len(projects))
	for i := range projects {
		p := &projects[i]

		projectTasks := tasksByProject[p.ID]
		if projectTasks == nil {
			projectTasks = []ProjectTaskView{}
		}
		sort.SliceStable(projectTasks, func(x, y int) bool {
			return projectTasks[x].CreatedAt.After(projectTasks[y].CreatedAt)
		})

		out[i] = ProjectView{
			ID:        p.ID,
			Name:      p.Name,
			Status:    p.Status,
			Archived:  p.Archived,
			DueDate:   p.DueDate,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
			CreatedBy: CreatorView{UserRef: idx.ref(p.CreatedBy), Role: models.RoleOwner},
			UpdatedBy: a.updater(p, idx),
			Users:     idx.members(p),
			Tasks:     projectTasks,
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (a *Assembler) updater(p *models.Project, idx identities) *UpdaterView {
	if p.UpdatedBy == nil {
		return nil
	}

	view := &UpdaterView{UserRef: idx.ref(*p.UpdatedBy)}
	// The creator resolves to OWNER even when absent from Users.
	if role, ok := a.roles.ResolveRole(p, *p.UpdatedBy); ok {
		view.Role = &role
	}
	return view
}

// Tasks returns the non-archived tasks matching q, newest first. Each task
// appears exactly once regardless of how many users it is assigned to.
func (a *Assembler) Tasks(ctx context.Context, q TaskQuery) ([]TaskView, error) {
	filter := repository.TaskFilter{}
	if q.ProjectID != "" {
		filter.ProjectIDs = []string{q.ProjectID}
	}

	tasks, err := a.tasks.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return a.assembleTasks(ctx, tasks)
}

// Task returns the view of a single task, archived or not.
func (a *Assembler) Task(ctx context.Context, id string) (*TaskView, error) {
	task, err := a.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	out, err := a.assembleTasks(ctx, []models.Task{*task})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// taskRow is one task joined with at most one assignee, the shape a
// relational join produces before grouping.
type taskRow struct {
	task     *models.Task
	assignee *UserRef
}

func (a *Assembler) assembleTasks(ctx context.Context, tasks []models.Task) ([]TaskView, error) {
	if len(tasks) == 0 {
		return []TaskView{}, nil
	}

	projectRefs := newIDSet()
	for i := range tasks {
		projectRefs.add(tasks[i].ProjectID)
	}

	// Archived projects still resolve so their tasks keep a project summary.
	projects, err := a.projects.List(ctx, repository.ProjectFilter{
		ProjectIDs:      projectRefs.ids,
		IncludeArchived: true,
	})
	if err != nil {
		return nil, err
	}
	projectByID := make(map[string]*models.Project, len(projects))
	for i := range projects {
		projectByID[projects[i].ID] = &projects[i]
	}

	refs := newIDSet()
	for i := range tasks {
		t := &tasks[i]
		refs.add(t.CreatedBy)
		refs.addPtr(t.UpdatedBy)
		refs.add(t.UserIDs()...)
	}
	for i := range projects {
		refs.add(projects[i].MemberIDs()...)
	}

	idx, err := a.resolve(ctx, refs)
	if err != nil {
		return nil, err
	}

	rows := joinAssignees(tasks, idx)
	out := groupTaskRows(rows, func(t *models.Task) TaskView {
		view := TaskView{
			ID:        t.ID,
			Name:      t.Name,
			Priority:  t.Priority,
			Status:    t.Status,
			Archived:  t.Archived,
			DueDate:   t.DueDate,
			ProjectID: t.ProjectID,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
			CreatedBy: idx.ref(t.CreatedBy),
			Users:     []UserRef{},
		}
		if t.UpdatedBy != nil {
			ref := idx.ref(*t.UpdatedBy)
			view.UpdatedBy = &ref
		}
		if p, ok := projectByID[t.ProjectID]; ok {
			view.Project = &TaskProjectView{
				ID:      p.ID,
				Name:    p.Name,
				Status:  p.Status,
				DueDate: p.DueDate,
				Members: idx.members(p),
			}
		}
		return view
	})

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// joinAssignees emits one row per (task, assignee) pair and a single row
// with no assignee for unassigned tasks.
func joinAssignees(tasks []models.Task, idx identities) []taskRow {
	rows := make([]taskRow, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		if len(t.Users) == 0 {
			rows = append(rows, taskRow{task: t})
			continue
		}
		for _, u := range t.Users {
			ref := idx.ref(u.UserID)
			rows = append(rows, taskRow{task: t, assignee: &ref})
		}
	}
	return rows
}

// groupTaskRows reduces joined rows to one view per task ID, appending each
// row's assignee in row order. Output order follows first appearance.
func groupTaskRows(rows []taskRow, base func(*models.Task) TaskView) []TaskView {
	out := make([]TaskView, 0, len(rows))
	pos := make(map[string]int, len(rows))

	for _, row := range rows {
		i, ok := pos[row.task.ID]
		if !ok {
			i = len(out)
			pos[row.task.ID] = i
			out = append(out, base(row.task))
		}
		if row.assignee != nil {
			out[i].Users = append(out[i].Users, *row.assignee)
		}
	}
	return out
}

func (a *Assembler) resolve(ctx context.Context, refs *idSet) (identities, error) {
	users, err := a.users.FindByIDs(ctx, refs.ids)
	if err != nil {
		return nil, err
	}
	return newIdentities(users), nil
}
