package services

import (
	"github.com/yukikurage/project-management-api/internal/config"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/views"
)

func (suite *ServiceTestSuite) createTask(actor *models.User, projectID string, assignees ...string) *views.TaskView {
	view, err := suite.tasks.CreateTask(suite.ctx, actor.ID, CreateTaskInput{
		Name:      "Build",
		Priority:  intPtr(1),
		Status:    intPtr(0),
		Users:     assignees,
		DueDate:   timePtr(due),
		ProjectID: projectID,
	})
	suite.Require().NoError(err)
	return view
}

func (suite *ServiceTestSuite) TestCreateTask_RoundTripWithoutFanOut() {
	u1 := suite.seedUser("u1", models.RoleMember)
	u2 := suite.seedUser("u2", models.RoleMember)
	project := suite.createLaunch(u1, u2)

	created := suite.createTask(u1, project.ID, u1.ID, u2.ID)
	suite.Equal(u1.ID, created.CreatedBy.ID)

	tasks, err := suite.tasks.ListTasks(suite.ctx, views.TaskQuery{ProjectID: project.ID})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	suite.Equal(created.ID, tasks[0].ID)
	suite.Len(tasks[0].Users, 2)
	suite.Require().NotNil(tasks[0].Project)
	suite.Equal("Launch", tasks[0].Project.Name)
}

func (suite *ServiceTestSuite) TestCreateTask_InvalidReferences() {
	u1 := suite.seedUser("u1", models.RoleMember)
	u2 := suite.seedUser("u2", models.RoleMember)
	project := suite.createLaunch(u1, u2)

	_, err := suite.tasks.CreateTask(suite.ctx, u1.ID, CreateTaskInput{
		Name: "x", Priority: intPtr(1), Status: intPtr(1), DueDate: timePtr(due), ProjectID: "missing",
	})
	suite.ErrorIs(err, ErrInvalidReference)

	_, err = suite.tasks.CreateTask(suite.ctx, u1.ID, CreateTaskInput{
		Name: "x", Priority: intPtr(1), Status: intPtr(1), DueDate: timePtr(due), ProjectID: project.ID,
		Users: []string{"ghost"},
	})
	suite.ErrorIs(err, ErrInvalidReference)

	_, err = suite.projects.UpdateProject(suite.ctx, u1.ID, project.ID, UpdateProjectInput{Archived: boolPtr(true)})
	suite.Require().NoError(err)
	_, err = suite.tasks.CreateTask(suite.ctx, u1.ID, CreateTaskInput{
		Name: "x", Priority: intPtr(1), Status: intPtr(1), DueDate: timePtr(due), ProjectID: project.ID,
	})
	suite.ErrorIs(err, ErrInvalidReference)
}

func (suite *ServiceTestSuite) TestCreateTask_Validation() {
	u1 := suite.seedUser("u1", models.RoleMember)

	_, err := suite.tasks.CreateTask(suite.ctx, u1.ID, CreateTaskInput{Name: "x", Status: intPtr(1), DueDate: timePtr(due), ProjectID: "p"})
	suite.ErrorIs(err, ErrValidation)

	_, err = suite.tasks.CreateTask(suite.ctx, u1.ID, CreateTaskInput{Name: "x", Priority: intPtr(1), Status: intPtr(1), DueDate: timePtr(due)})
	suite.ErrorIs(err, ErrValidation)
}

func (suite *ServiceTestSuite) TestTaskRoles_OffByDefault() {
	u1 := suite.seedUser("u1", models.RoleMember)
	u2 := suite.seedUser("u2", models.RoleMember)
	outsider := suite.seedUser("outsider", models.RoleMember)
	project := suite.createLaunch(u1, u2)
	task := suite.createTask(u1, project.ID)

	view, err := suite.tasks.UpdateTask(suite.ctx, outsider.ID, task.ID, UpdateTaskInput{Status: intPtr(2)})
	suite.Require().NoError(err)
	suite.Equal(2, view.Status)
	suite.Require().NotNil(view.UpdatedBy)
	suite.Equal(outsider.ID, view.UpdatedBy.ID)
}

func (suite *ServiceTestSuite) TestTaskRoles_Enforced() {
	u1 := suite.seedUser("u1", models.RoleMember)
	u2 := suite.seedUser("u2", models.RoleMember)
	outsider := suite.seedUser("outsider", models.RoleMember)
	project := suite.createLaunch(u1, u2)
	task := suite.createTask(u1, project.ID)

	suite.build(false, true, config.EmptyPolicyEmpty)

	_, err := suite.tasks.UpdateTask(suite.ctx, outsider.ID, task.ID, UpdateTaskInput{Status: intPtr(2)})
	suite.ErrorIs(err, ErrUnauthorized)

	_, err = suite.tasks.CreateTask(suite.ctx, outsider.ID, CreateTaskInput{
		Name: "x", Priority: intPtr(1), Status: intPtr(1), DueDate: timePtr(due), ProjectID: project.ID,
	})
	suite.ErrorIs(err, ErrUnauthorized)

	view, err := suite.tasks.UpdateTask(suite.ctx, u2.ID, task.ID, UpdateTaskInput{Status: intPtr(2)})
	suite.Require().NoError(err)
	suite.Equal(2, view.Status)
}

func (suite *ServiceTestSuite) TestUpdateTask_PartialAndReassign() {
	u1 := suite.seedUser("u1", models.RoleMember)
	u2 := suite.seedUser("u2", models.RoleMember)
	project := suite.createLaunch(u1, u2)
	task := suite.createTask(u1, project.ID, u1.ID)

	view, err := suite.tasks.UpdateTask(suite.ctx, u1.ID, task.ID, UpdateTaskInput{
		Users: &[]string{u2.ID, u2.ID},
	})
	suite.Require().NoError(err)
	suite.Equal("Build", view.Name)
	suite.Require().Len(view.Users, 1)
	suite.Equal(u2.ID, view.Users[0].ID)

	_, err = suite.tasks.UpdateTask(suite.ctx, u1.ID, task.ID, UpdateTaskInput{Users: &[]string{"ghost"}})
	suite.ErrorIs(err, ErrInvalidReference)

	_, err = suite.tasks.UpdateTask(suite.ctx, u1.ID, task.ID, UpdateTaskInput{ProjectID: strPtr("missing")})
	suite.ErrorIs(err, ErrInvalidReference)
}

func (suite *ServiceTestSuite) TestUpdateTask_ArchiveHidesFromList() {
	u1 := suite.seedUser("u1", models.RoleMember)
	u2 := suite.seedUser("u2", models.RoleMember)
	project := suite.createLaunch(u1, u2)
	task := suite.createTask(u1, project.ID)

	view, err := suite.tasks.UpdateTask(suite.ctx, u1.ID, task.ID, UpdateTaskInput{Archived: boolPtr(true)})
	suite.Require().NoError(err)
	suite.True(view.Archived)

	tasks, err := suite.tasks.ListTasks(suite.ctx, views.TaskQuery{ProjectID: project.ID})
	suite.Require().NoError(err)
	suite.Empty(tasks)
}

func (suite *ServiceTestSuite) TestUpdateTask_NotFound() {
	u1 := suite.seedUser("u1", models.RoleMember)

	_, err := suite.tasks.UpdateTask(suite.ctx, u1.ID, "missing", UpdateTaskInput{Name: strPtr("x")})
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *ServiceTestSuite) TestListTasks_EmptyProject() {
	u1 := suite.seedUser("u1", models.RoleMember)
	u2 := suite.seedUser("u2", models.RoleMember)
	project := suite.createLaunch(u1, u2)

	tasks, err := suite.tasks.ListTasks(suite.ctx, views.TaskQuery{ProjectID: project.ID})
	suite.Require().NoError(err)
	suite.NotNil(tasks)
	suite.Empty(tasks)

	suite.build(false, false, config.EmptyPolicyNotFound)
	_, err = suite.tasks.ListTasks(suite.ctx, views.TaskQuery{ProjectID: project.ID})
	suite.ErrorIs(err, ErrNoTasksFound)
}
