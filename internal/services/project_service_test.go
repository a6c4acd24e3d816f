package services

import (
	"errors"

	"github.com/yukikurage/project-management-api/internal/config"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/views"
)

func (suite *ServiceTestSuite) createLaunch(owner, admin *models.User, extra ...MemberInput) *views.ProjectView {
	members := append([]MemberInput{{UserID: admin.ID, Role: "ADMIN"}}, extra...)
	view, err := suite.projects.CreateProject(suite.ctx, owner.ID, CreateProjectInput{
		Name:      "Launch",
		Status:    intPtr(1),
		CreatedBy: owner.ID,
		Users:     members,
		DueDate:   timePtr(due),
	})
	suite.Require().NoError(err)
	return view
}

func (suite *ServiceTestSuite) TestCreateProject_PrependsCreatorAsOwner() {
	u1 := suite.seedUser("u1", models.RoleMember)
	u2 := suite.seedUser("u2", models.RoleMember)

	view := suite.createLaunch(u1, u2)

	suite.Equal("Launch", view.Name)
	suite.Require().Len(view.Users, 2)
	suite.Equal(u1.ID, view.Users[0].UserID)
	suite.Equal(models.RoleOwner, view.Users[0].Role)
	suite.Equal(u2.ID, view.Users[1].UserID)
	suite.Equal(models.RoleAdmin, view.Users[1].Role)
	suite.Equal(models.RoleOwner, view.CreatedBy.Role)
	suite.Nil(view.UpdatedBy)
}

func (suite *ServiceTestSuite) TestCreateProject_EmptyUsers() {
	u1 := suite.seedUser("u1", models.RoleMember)

	view, err := suite.projects.CreateProject(suite.ctx, u1.ID, CreateProjectInput{
		Name:      "Solo",
		Status:    intPtr(0),
		CreatedBy: u1.ID,
		Users:     []MemberInput{},
		DueDate:   timePtr(due),
	})
	suite.Require().NoError(err)
	suite.Equal([]views.MemberView{{UserID: u1.ID, Name: "u1", Email: "u1@example.com", Role: models.RoleOwner}}, view.Users)
}

func (suite *ServiceTestSuite) TestCreateProject_CreatedByDefaultsToActor() {
	u1 := suite.seedUser("u1", models.RoleMember)

	view, err := suite.projects.CreateProject(suite.ctx, u1.ID, CreateProjectInput{
		Name:    "Mine",
		Status:  intPtr(1),
		DueDate: timePtr(due),
	})
	suite.Require().NoError(err)
	suite.Equal(u1.ID, view.CreatedBy.ID)
}

func (suite *ServiceTestSuite) TestCreateProject_ListedCreatorKeepsPosition() {
	u1 := suite.seedUser("u1", models.RoleMember)
	u2 := suite.seedUser("u2", models.RoleMember)

	view, err := suite.projects.CreateProject(suite.ctx, u1.ID, CreateProjectInput{
		Name:      "Listed",
		Status:    intPtr(1),
		CreatedBy: u1.ID,
		Users:     []MemberInput{{UserID: u2.ID, Role: "member"}, {UserID: u1.ID, Role: "owner"}},
		DueDate:   timePtr(due),
	})
	suite.Require().NoError(err)
	suite.Require().Len(view.Users, 2)
	suite.Equal(u2.ID, view.Users[0].UserID)
	suite.Equal(models.RoleOwner, view.Users[1].Role)
}

func (suite *ServiceTestSuite) TestCreateProject_InvalidReferences() {
	u1 := suite.seedUser("u1", models.RoleMember)
	gone := suite.seedUser("gone", models.RoleMember)
	gone.Archived = true
	suite.Require().NoError(suite.repos.Users.Update(suite.ctx, gone))

	_, err := suite.projects.CreateProject(suite.ctx, u1.ID, CreateProjectInput{
		Name:      "Broken",
		Status:    intPtr(1),
		CreatedBy: u1.ID,
		Users:     []MemberInput{{UserID: "missing", Role: "ADMIN"}, {UserID: gone.ID, Role: "MEMBER"}},
		DueDate:   timePtr(due),
	})
	suite.ErrorIs(err, ErrInvalidReference)

	var refErr *InvalidReferenceError
	suite.Require().True(errors.As(err, &refErr))
	suite.ElementsMatch([]string{"missing", gone.ID}, refErr.IDs)

	projects, err := suite.repos.Projects.List(suite.ctx, repositoryAll())
	suite.Require().NoError(err)
	suite.Empty(projects)
}

func (suite *ServiceTestSuite) TestCreateProject_Validation() {
	u1 := suite.seedUser("u1", models.RoleMember)

	cases := map[string]CreateProjectInput{
		"missing name":    {Status: intPtr(1), DueDate: timePtr(due)},
		"missing status":  {Name: "x", DueDate: timePtr(due)},
		"missing dueDate": {Name: "x", Status: intPtr(1)},
		"bad role":        {Name: "x", Status: intPtr(1), DueDate: timePtr(due), Users: []MemberInput{{UserID: u1.ID, Role: "boss"}}},
		"duplicate user": {Name: "x", Status: intPtr(1), DueDate: timePtr(due), Users: []MemberInput{
			{UserID: u1.ID, Role: "ADMIN"}, {UserID: u1.ID, Role: "MEMBER"},
		}},
	}

	for name, input := range cases {
		_, err := suite.projects.CreateProject(suite.ctx, u1.ID, input)
		suite.ErrorIs(err, ErrValidation, name)
	}
}

func (suite *ServiceTestSuite) TestUpdateProject_OutsiderRejectedAndUnchanged() {
	u1 := suite.seedUser("u1", models.RoleMember)
	u2 := suite.seedUser("u2", models.RoleMember)
	outsider := suite.seedUser("outsider", models.RoleOwner)
	before := suite.createLaunch(u1, u2)

	_, err := suite.projects.UpdateProject(suite.ctx, outsider.ID, before.ID, UpdateProjectInput{
		Name:     strPtr("Hijacked"),
		Archived: boolPtr(true),
	})
	suite.ErrorIs(err, ErrUnauthorized)

	after, err := suite.projects.fetch(suite.ctx, before.ID)
	suite.Require().NoError(err)
	suite.Equal(before.Name, after.Name)
	suite.Equal(before.Archived, after.Archived)
	suite.Equal(before.Users, after.Users)
	suite.Nil(after.UpdatedBy)
}

func (suite *ServiceTestSuite) TestUpdateProject_MemberRoleRejected() {
	u1 := suite.seedUser("u1", models.RoleMember)
	u2 := suite.seedUser("u2", models.RoleMember)
	member := suite.seedUser("member", models.RoleMember)
	project := suite.createLaunch(u1, u2, MemberInput{UserID: member.ID, Role: "MEMBER"})

	_, err := suite.projects.UpdateProject(suite.ctx, member.ID, project.ID, UpdateProjectInput{Status: intPtr(3)})
	suite.ErrorIs(err, ErrUnauthorized)
}

func (suite *ServiceTestSuite) TestUpdateProject_AdminPatchStampsUpdater() {
	u1 := suite.seedUser("u1", models.RoleMember)
	u2 := suite.seedUser("u2", models.RoleMember)
	project := suite.createLaunch(u1, u2)

	view, err := suite.projects.UpdateProject(suite.ctx, u2.ID, project.ID, UpdateProjectInput{Status: intPtr(2)})
	suite.Require().NoError(err)
	suite.Equal(2, view.Status)
	suite.Equal("Launch", view.Name)
	suite.Require().NotNil(view.UpdatedBy)
	suite.Equal(u2.ID, view.UpdatedBy.ID)
	suite.Require().NotNil(view.UpdatedBy.Role)
	suite.Equal(models.RoleAdmin, *view.UpdatedBy.Role)
}

func (suite *ServiceTestSuite) TestUpdateProject_Idempotent() {
	u1 := suite.seedUser("u1", models.RoleMember)
	u2 := suite.seedUser("u2", models.RoleMember)
	u3 := suite.seedUser("u3", models.RoleMember)
	project := suite.createLaunch(u1, u2)

	patch := UpdateProjectInput{
		Name:  strPtr("Launch v2"),
		Users: &[]MemberInput{{UserID: u3.ID, Role: "ADMIN"}},
	}

	first, err := suite.projects.UpdateProject(suite.ctx, u1.ID, project.ID, patch)
	suite.Require().NoError(err)
	second, err := suite.projects.UpdateProject(suite.ctx, u1.ID, project.ID, patch)
	suite.Require().NoError(err)

	suite.Equal(first.Name, second.Name)
	suite.Equal(first.Status, second.Status)
	suite.Equal(first.Users, second.Users)
	suite.Equal(first.UpdatedBy, second.UpdatedBy)

	// The creator is re-added at the head when a users patch omits them.
	suite.Equal([]string{u1.ID, u3.ID}, []string{second.Users[0].UserID, second.Users[1].UserID})
}

func (suite *ServiceTestSuite) TestUpdateProject_InvalidUsersPatch() {
	u1 := suite.seedUser("u1", models.RoleMember)
	u2 := suite.seedUser("u2", models.RoleMember)
	project := suite.createLaunch(u1, u2)

	_, err := suite.projects.UpdateProject(suite.ctx, u1.ID, project.ID, UpdateProjectInput{
		Name:  strPtr("Renamed"),
		Users: &[]MemberInput{{UserID: "missing", Role: "ADMIN"}},
	})
	suite.ErrorIs(err, ErrInvalidReference)

	after, err := suite.projects.fetch(suite.ctx, project.ID)
	suite.Require().NoError(err)
	suite.Equal("Launch", after.Name)
}

func (suite *ServiceTestSuite) TestUpdateProject_ArchiveToggle() {
	u1 := suite.seedUser("u1", models.RoleMember)
	u2 := suite.seedUser("u2", models.RoleMember)
	project := suite.createLaunch(u1, u2)

	view, err := suite.projects.UpdateProject(suite.ctx, u1.ID, project.ID, UpdateProjectInput{Archived: boolPtr(true)})
	suite.Require().NoError(err)
	suite.True(view.Archived)

	listed, err := suite.projects.ListProjects(suite.ctx, views.ProjectQuery{})
	suite.Require().NoError(err)
	suite.Empty(listed)

	view, err = suite.projects.UpdateProject(suite.ctx, u1.ID, project.ID, UpdateProjectInput{Archived: boolPtr(false)})
	suite.Require().NoError(err)
	suite.False(view.Archived)

	listed, err = suite.projects.ListProjects(suite.ctx, views.ProjectQuery{})
	suite.Require().NoError(err)
	suite.Len(listed, 1)
}

func (suite *ServiceTestSuite) TestUpdateProject_NotFound() {
	u1 := suite.seedUser("u1", models.RoleMember)

	_, err := suite.projects.UpdateProject(suite.ctx, u1.ID, "missing", UpdateProjectInput{Name: strPtr("x")})
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *ServiceTestSuite) TestUpdateProject_AnonymousMode() {
	u1 := suite.seedUser("u1", models.RoleMember)
	u2 := suite.seedUser("u2", models.RoleMember)
	project := suite.createLaunch(u1, u2)

	_, err := suite.projects.UpdateProject(suite.ctx, "", project.ID, UpdateProjectInput{Status: intPtr(5)})
	suite.ErrorIs(err, ErrUnauthorized)

	suite.build(true, false, config.EmptyPolicyEmpty)
	view, err := suite.projects.UpdateProject(suite.ctx, "", project.ID, UpdateProjectInput{Status: intPtr(5)})
	suite.Require().NoError(err)
	suite.Equal(5, view.Status)
	suite.Nil(view.UpdatedBy)
}

func (suite *ServiceTestSuite) TestListProjects_EmptyPolicy() {
	projects, err := suite.projects.ListProjects(suite.ctx, views.ProjectQuery{UserID: "nobody"})
	suite.Require().NoError(err)
	suite.NotNil(projects)
	suite.Empty(projects)

	suite.build(false, false, config.EmptyPolicyNotFound)
	_, err = suite.projects.ListProjects(suite.ctx, views.ProjectQuery{UserID: "nobody"})
	suite.ErrorIs(err, ErrNoProjectsFound)
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *ServiceTestSuite) TestExportProjects() {
	u1 := suite.seedUser("u1", models.RoleMember)
	u2 := suite.seedUser("u2", models.RoleMember)
	suite.createLaunch(u1, u2)

	result, err := suite.projects.ExportProjects(suite.ctx, views.ProjectQuery{UserID: u1.ID}, "csv")
	suite.Require().NoError(err)
	suite.Equal("project-details.csv", result.Filename)
	suite.Contains(string(result.Body), "Project Details")
	suite.Contains(string(result.Body), "Launch")

	_, err = suite.projects.ExportProjects(suite.ctx, views.ProjectQuery{}, "docx")
	suite.ErrorIs(err, ErrValidation)
}
