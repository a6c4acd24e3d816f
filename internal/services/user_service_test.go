package services

import (
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/utils"
)

func (suite *ServiceTestSuite) register(name, email string) *models.User {
	user, err := suite.users.Register(suite.ctx, RegisterInput{
		Name:      name,
		Email:     email,
		Password:  "secret123",
		Mobile:    "9876543210",
		Gender:    "Female",
		BirthDate: "2000-06-15",
	})
	suite.Require().NoError(err)
	return user
}

func (suite *ServiceTestSuite) TestRegister_DerivesAgeAndHashesPassword() {
	user := suite.register("Alice", "Alice@Example.com")

	suite.Equal(23, user.Age)
	suite.Equal(models.GenderFemale, user.Gender)
	suite.Equal(models.RoleMember, user.Role)
	suite.Equal("alice@example.com", user.NormEmail)
	suite.NotEqual("secret123", user.PasswordHash)

	suite.users.now = func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) }
	other := suite.register("Bob", "bob@example.com")
	suite.Equal(24, other.Age)
}

func (suite *ServiceTestSuite) TestRegister_DuplicateEmailIsConflict() {
	suite.register("Alice", "alice@example.com")

	_, err := suite.users.Register(suite.ctx, RegisterInput{Name: "Eve", Email: "ALICE@example.com", Password: "secret123"})
	suite.ErrorIs(err, ErrEmailTaken)
	suite.ErrorIs(err, ErrConflict)
}

func (suite *ServiceTestSuite) TestRegister_Validation() {
	cases := map[string]RegisterInput{
		"short password": {Name: "A", Email: "a@example.com", Password: "123"},
		"bad birth date": {Name: "A", Email: "a@example.com", Password: "secret123", BirthDate: "2001-02-30"},
		"bad mobile":     {Name: "A", Email: "a@example.com", Password: "secret123", Mobile: "12345"},
		"bad gender":     {Name: "A", Email: "a@example.com", Password: "secret123", Gender: "robot"},
		"missing name":   {Email: "a@example.com", Password: "secret123"},
		"non-image":      {Name: "A", Email: "a@example.com", Password: "secret123", Image: &ImageUpload{Filename: "a.png", Data: []byte("hello")}},
	}

	for name, input := range cases {
		_, err := suite.users.Register(suite.ctx, input)
		suite.ErrorIs(err, ErrValidation, name)
	}
}

func (suite *ServiceTestSuite) TestUpdateUser_RecomputesAgeAndRehashes() {
	user := suite.register("Alice", "alice@example.com")
	oldHash := user.PasswordHash

	updated, err := suite.users.Update(suite.ctx, user.ID, user.ID, UpdateUserInput{
		BirthDate: strPtr("1990-01-01"),
		Password:  strPtr("newsecret"),
	})
	suite.Require().NoError(err)
	suite.Equal(34, updated.Age)
	suite.Equal("1990-01-01", updated.BirthDate)
	suite.NotEqual(oldHash, updated.PasswordHash)
	suite.Equal("Alice", updated.Name)

	_, _, err = suite.authSvc.Login(suite.ctx, LoginInput{Email: "alice@example.com", Password: "newsecret"})
	suite.NoError(err)
}

func (suite *ServiceTestSuite) TestUpdateUser_Rules() {
	alice := suite.register("Alice", "alice@example.com")
	bob := suite.register("Bob", "bob@example.com")
	admin := suite.seedUser("admin", models.RoleAdmin)

	_, err := suite.users.Update(suite.ctx, alice.ID, alice.ID, UpdateUserInput{})
	suite.ErrorIs(err, ErrNoFieldsToUpdate)

	_, err = suite.users.Update(suite.ctx, alice.ID, bob.ID, UpdateUserInput{Name: strPtr("Hacked")})
	suite.ErrorIs(err, ErrUnauthorized)

	_, err = suite.users.Update(suite.ctx, alice.ID, alice.ID, UpdateUserInput{Role: strPtr("OWNER")})
	suite.ErrorIs(err, ErrUnauthorized)

	_, err = suite.users.Update(suite.ctx, alice.ID, alice.ID, UpdateUserInput{Email: strPtr("BOB@example.com")})
	suite.ErrorIs(err, ErrConflict)

	updated, err := suite.users.Update(suite.ctx, admin.ID, bob.ID, UpdateUserInput{Role: strPtr("admin"), Archived: boolPtr(true)})
	suite.Require().NoError(err)
	suite.Equal(models.RoleAdmin, updated.Role)
	suite.True(updated.Archived)

	_, err = suite.users.Update(suite.ctx, admin.ID, "missing", UpdateUserInput{Name: strPtr("x")})
	suite.ErrorIs(err, ErrUserNotFound)
}

func (suite *ServiceTestSuite) TestUpdateUser_PasswordOnlyBySelf() {
	alice := suite.register("Alice", "alice@example.com")
	owner := suite.seedUser("owner", models.RoleOwner)

	_, err := suite.users.Update(suite.ctx, owner.ID, alice.ID, UpdateUserInput{Password: strPtr("takeover1")})
	suite.ErrorIs(err, ErrForeignPassword)
	suite.ErrorIs(err, ErrUnauthorized)

	_, _, err = suite.authSvc.Login(suite.ctx, LoginInput{Email: "alice@example.com", Password: "secret123"})
	suite.NoError(err)
	_, _, err = suite.authSvc.Login(suite.ctx, LoginInput{Email: "alice@example.com", Password: "takeover1"})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *ServiceTestSuite) TestListUsers() {
	suite.seedUser("a", models.RoleMember)
	suite.seedUser("b", models.RoleMember)
	gone := suite.seedUser("c", models.RoleMember)
	gone.Archived = true
	suite.Require().NoError(suite.repos.Users.Update(suite.ctx, gone))

	users, total, err := suite.users.List(suite.ctx, ListUsersInput{Pagination: utils.NewPaginationParams(1, 1)})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(users, 1)
}

func (suite *ServiceTestSuite) TestLogin() {
	alice := suite.register("Alice", "alice@example.com")

	token, user, err := suite.authSvc.Login(suite.ctx, LoginInput{Email: "ALICE@example.com", Password: "secret123"})
	suite.Require().NoError(err)
	suite.Equal(alice.ID, user.ID)

	claims, err := suite.tokens.Verify(token)
	suite.Require().NoError(err)
	suite.Equal(alice.ID, claims.UserID())
	suite.Equal("alice@example.com", claims.Email)

	_, _, err = suite.authSvc.Login(suite.ctx, LoginInput{Email: "nobody@example.com", Password: "secret123"})
	suite.ErrorIs(err, ErrUserNotFound)

	_, _, err = suite.authSvc.Login(suite.ctx, LoginInput{Email: "alice@example.com", Password: "wrong"})
	suite.ErrorIs(err, ErrInvalidCredentials)

	alice.Archived = true
	suite.Require().NoError(suite.repos.Users.Update(suite.ctx, alice))
	_, _, err = suite.authSvc.Login(suite.ctx, LoginInput{Email: "alice@example.com", Password: "secret123"})
	suite.ErrorIs(err, ErrAccountArchived)
}
