package repositories

import (
	"context"
	"testing"
	"time"

	"invoicebox/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type UserRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    UserRepository
	context context.Context
}

func (suite *UserRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewUserRepo(mock)
	suite.context = context.Background()
}

func (suite *UserRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestUserRepoTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepoTestSuite))
}

func (suite *UserRepoTestSuite) TestCreate_Success() {
	user := &models.User{
		ID:           uuid.New(),
		Username:     "IhArmayau",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		CreatedAt:    time.Now().UTC(),
	}

	suite.mock.ExpectExec(`INSERT INTO users`).
		WithArgs(user.ID, user.Username, user.PasswordHash, user.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, user)
	assert.NoError(suite.T(), err)
}

func (suite *UserRepoTestSuite) TestGetByUsername_Success() {
	userID := uuid.New()
	created := time.Now().UTC()

	suite.mock.ExpectQuery(`SELECT id, username, password_hash, created_at`).
		WithArgs("IhArmayau").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
			AddRow(userID, "IhArmayau", "hash", created))

	user, err := suite.repo.GetByUsername(suite.context, "IhArmayau")
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), user)
	assert.Equal(suite.T(), userID, user.ID)
	assert.Equal(suite.T(), "hash", user.PasswordHash)
}

func (suite *UserRepoTestSuite) TestGetByUsername_NotFoundReturnsNil() {
	suite.mock.ExpectQuery(`SELECT id, username, password_hash, created_at`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password_hash", "created_at"}))

	user, err := suite.repo.GetByUsername(suite.context, "missing")
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), user)
}
