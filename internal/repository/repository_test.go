package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// GormRepositoryTestSuite exercises the GORM repositories against in-memory SQLite
type GormRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo *Repositories
	ctx  context.Context
}

func (suite *GormRepositoryTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	suite.Require().NoError(database.Migrate(suite.db, zap.NewNop()))

	suite.repo = New(suite.db)
	suite.ctx = context.Background()
}

func (suite *GormRepositoryTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *GormRepositoryTestSuite) createUser(name, email string) *models.User {
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         models.RoleMember,
	}
	suite.Require().NoError(suite.repo.Users.Create(suite.ctx, user))
	return user
}

func (suite *GormRepositoryTestSuite) createProject(name, creatorID string, createdAt time.Time, members ...models.ProjectMember) *models.Project {
	project := &models.Project{
		Name:      name,
		Status:    1,
		DueDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		CreatedBy: creatorID,
		Users:     append([]models.ProjectMember{{UserID: creatorID, Role: models.RoleOwner}}, members...),
		CreatedAt: createdAt,
	}
	suite.Require().NoError(suite.repo.Projects.Create(suite.ctx, project))
	return project
}

func (suite *GormRepositoryTestSuite) TestUserCreate_AssignsIDAndNormalizesEmail() {
	user := suite.createUser("Alice", "  Alice@Example.COM ")

	suite.NotEmpty(user.ID)
	suite.Equal("alice@example.com", user.NormEmail)

	found, err := suite.repo.Users.FindByEmail(suite.ctx, "ALICE@example.com")
	suite.Require().NoError(err)
	suite.Equal(user.ID, found.ID)
}

func (suite *GormRepositoryTestSuite) TestUserCreate_DuplicateEmail() {
	suite.createUser("Alice", "alice@example.com")

	err := suite.repo.Users.Create(suite.ctx, &models.User{
		Name:         "Other",
		Email:        "ALICE@example.com",
		PasswordHash: "x",
		Role:         models.RoleMember,
	})
	suite.ErrorIs(err, ErrDuplicateKey)
}

func (suite *GormRepositoryTestSuite) TestUserFindByID_NotFound() {
	_, err := suite.repo.Users.FindByID(suite.ctx, "missing")
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *GormRepositoryTestSuite) TestUserFindByIDs_SkipsUnknown() {
	a := suite.createUser("A", "a@example.com")
	b := suite.createUser("B", "b@example.com")

	users, err := suite.repo.Users.FindByIDs(suite.ctx, []string{a.ID, "missing", b.ID})
	suite.Require().NoError(err)
	suite.Len(users, 2)

	users, err = suite.repo.Users.FindByIDs(suite.ctx, nil)
	suite.Require().NoError(err)
	suite.Empty(users)
}

func (suite *GormRepositoryTestSuite) TestUserList_PaginatesAndHidesArchived() {
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		suite.createUser("User", email)
	}
	archived := suite.createUser("Gone", "gone@example.com")
	archived.Archived = true
	suite.Require().NoError(suite.repo.Users.Update(suite.ctx, archived))

	users, total, err := suite.repo.Users.List(suite.ctx, UserFilter{Offset: 0, Limit: 2})
	suite.Require().NoError(err)
	suite.Equal(int64(3), total)
	suite.Len(users, 2)

	_, total, err = suite.repo.Users.List(suite.ctx, UserFilter{IncludeArchived: true})
	suite.Require().NoError(err)
	suite.Equal(int64(4), total)
}

func (suite *GormRepositoryTestSuite) TestProjectCreate_PreservesMemberOrder() {
	owner := suite.createUser("Owner", "owner@example.com")
	admin := suite.createUser("Admin", "admin@example.com")
	member := suite.createUser("Member", "member@example.com")

	project := suite.createProject("Launch", owner.ID, time.Now(),
		models.ProjectMember{UserID: member.ID, Role: models.RoleMember},
		models.ProjectMember{UserID: admin.ID, Role: models.RoleAdmin},
	)

	found, err := suite.repo.Projects.FindByID(suite.ctx, project.ID)
	suite.Require().NoError(err)
	suite.Equal([]string{owner.ID, member.ID, admin.ID}, found.MemberIDs())

	role, ok := found.MemberRole(admin.ID)
	suite.True(ok)
	suite.Equal(models.RoleAdmin, role)
}

func (suite *GormRepositoryTestSuite) TestProjectList_FiltersAndSorts() {
	u1 := suite.createUser("U1", "u1@example.com")
	u2 := suite.createUser("U2", "u2@example.com")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older := suite.createProject("Older", u1.ID, base)
	newer := suite.createProject("Newer", u1.ID, base.Add(time.Hour), models.ProjectMember{UserID: u2.ID, Role: models.RoleMember})
	hidden := suite.createProject("Hidden", u1.ID, base.Add(2*time.Hour))
	hidden.Archived = true
	suite.Require().NoError(suite.repo.Projects.Update(suite.ctx, hidden))

	projects, err := suite.repo.Projects.List(suite.ctx, ProjectFilter{})
	suite.Require().NoError(err)
	suite.Require().Len(projects, 2)
	suite.Equal(newer.ID, projects[0].ID)
	suite.Equal(older.ID, projects[1].ID)

	projects, err = suite.repo.Projects.List(suite.ctx, ProjectFilter{MemberID: u2.ID})
	suite.Require().NoError(err)
	suite.Require().Len(projects, 1)
	suite.Equal(newer.ID, projects[0].ID)

	projects, err = suite.repo.Projects.List(suite.ctx, ProjectFilter{ProjectID: older.ID})
	suite.Require().NoError(err)
	suite.Require().Len(projects, 1)

	projects, err = suite.repo.Projects.List(suite.ctx, ProjectFilter{IncludeArchived: true})
	suite.Require().NoError(err)
	suite.Len(projects, 3)
}

func (suite *GormRepositoryTestSuite) TestProjectUpdate_ReplacesMembers() {
	u1 := suite.createUser("U1", "u1@example.com")
	u2 := suite.createUser("U2", "u2@example.com")
	u3 := suite.createUser("U3", "u3@example.com")
	project := suite.createProject("Launch", u1.ID, time.Now(), models.ProjectMember{UserID: u2.ID, Role: models.RoleAdmin})

	project.Name = "Renamed"
	project.Users = []models.ProjectMember{
		{UserID: u3.ID, Role: models.RoleMember},
		{UserID: u1.ID, Role: models.RoleOwner},
	}
	suite.Require().NoError(suite.repo.Projects.Update(suite.ctx, project))

	found, err := suite.repo.Projects.FindByID(suite.ctx, project.ID)
	suite.Require().NoError(err)
	suite.Equal("Renamed", found.Name)
	suite.Equal([]string{u3.ID, u1.ID}, found.MemberIDs())
}

func (suite *GormRepositoryTestSuite) TestProjectUpdate_NotFound() {
	err := suite.repo.Projects.Update(suite.ctx, &models.Project{ID: "missing", Name: "x"})
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *GormRepositoryTestSuite) TestTaskCreateAndList() {
	u1 := suite.createUser("U1", "u1@example.com")
	u2 := suite.createUser("U2", "u2@example.com")
	p1 := suite.createProject("P1", u1.ID, time.Now())
	p2 := suite.createProject("P2", u1.ID, time.Now())

	task := &models.Task{
		Name:      "Write docs",
		Priority:  2,
		Status:    1,
		CreatedBy: u1.ID,
		DueDate:   time.Now(),
		ProjectID: p1.ID,
		Users:     models.NewTaskAssignments([]string{u2.ID, u1.ID}),
	}
	suite.Require().NoError(suite.repo.Tasks.Create(suite.ctx, task))
	suite.Require().NoError(suite.repo.Tasks.Create(suite.ctx, &models.Task{
		Name:      "Other",
		CreatedBy: u1.ID,
		DueDate:   time.Now(),
		ProjectID: p2.ID,
	}))

	tasks, err := suite.repo.Tasks.List(suite.ctx, TaskFilter{ProjectIDs: []string{p1.ID}})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	suite.Equal([]string{u2.ID, u1.ID}, tasks[0].UserIDs())

	tasks, err = suite.repo.Tasks.List(suite.ctx, TaskFilter{})
	suite.Require().NoError(err)
	suite.Len(tasks, 2)

	tasks, err = suite.repo.Tasks.List(suite.ctx, TaskFilter{ProjectIDs: []string{}})
	suite.Require().NoError(err)
	suite.Empty(tasks)
}

func (suite *GormRepositoryTestSuite) TestTaskUpdate_ArchivesAndReassigns() {
	u1 := suite.createUser("U1", "u1@example.com")
	u2 := suite.createUser("U2", "u2@example.com")
	p := suite.createProject("P", u1.ID, time.Now())

	task := &models.Task{
		Name:      "Task",
		CreatedBy: u1.ID,
		DueDate:   time.Now(),
		ProjectID: p.ID,
		Users:     models.NewTaskAssignments([]string{u1.ID}),
	}
	suite.Require().NoError(suite.repo.Tasks.Create(suite.ctx, task))

	task.Archived = true
	task.Users = models.NewTaskAssignments([]string{u2.ID})
	suite.Require().NoError(suite.repo.Tasks.Update(suite.ctx, task))

	tasks, err := suite.repo.Tasks.List(suite.ctx, TaskFilter{ProjectIDs: []string{p.ID}})
	suite.Require().NoError(err)
	suite.Empty(tasks)

	found, err := suite.repo.Tasks.FindByID(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.True(found.Archived)
	suite.Equal([]string{u2.ID}, found.UserIDs())
}

func TestGormRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(GormRepositoryTestSuite))
}
