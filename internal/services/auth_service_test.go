package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/betodolist/betodolist-api/internal/models"
	"github.com/betodolist/betodolist-api/internal/repository"
	"github.com/betodolist/betodolist-api/internal/utils"
)

func setupAuthTestService(t *testing.T) *AuthService {
	t.Helper()
	env := setupProjectTestEnv(t)
	return NewAuthService(repository.NewUserRepository(env.db), "test_secret")
}

func TestRegister_And_Login(t *testing.T) {
	svc := setupAuthTestService(t)

	user, token, err := svc.Register(RegisterInput{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
	require.NotEqual(t, "hunter22", user.PasswordHash)

	userID, err := utils.ParseToken("test_secret", token)
	require.NoError(t, err)
	require.Equal(t, user.ID, userID)

	loggedIn, _, err := svc.Login(LoginInput{Email: "alice@example.com", Password: "hunter22"})
	require.NoError(t, err)
	require.Equal(t, user.ID, loggedIn.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := setupAuthTestService(t)

	_, _, err := svc.Register(RegisterInput{Name: "A", Email: "a@example.com", Password: "pw"})
	require.NoError(t, err)

	_, _, err = svc.Register(RegisterInput{Name: "B", Email: "A@EXAMPLE.COM", Password: "pw2"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

// blindUserRepo never sees existing users on lookup, standing in for the
// window between the duplicate check and the insert when two registrations
// race. Writes go through the real repository and its unique index.
type blindUserRepo struct {
	repository.UserRepository
}

func (r blindUserRepo) FindByEmail(email string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestRegister_RacingDuplicateIsEmailTaken(t *testing.T) {
	env := setupProjectTestEnv(t)
	svc := NewAuthService(blindUserRepo{repository.NewUserRepository(env.db)}, "test_secret")

	_, _, err := svc.Register(RegisterInput{Name: "A", Email: "dup@example.com", Password: "pw"})
	require.NoError(t, err)

	_, _, err = svc.Register(RegisterInput{Name: "B", Email: "dup@example.com", Password: "pw2"})
	require.ErrorIs(t, err, ErrEmailTaken)

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Where("email = ?", "dup@example.com").Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestLogin_FailuresIndistinguishable(t *testing.T) {
	svc := setupAuthTestService(t)

	_, _, err := svc.Register(RegisterInput{Name: "A", Email: "a@example.com", Password: "pw"})
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(LoginInput{Email: "a@example.com", Password: "nope"})
	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)

	_, _, unknownUser := svc.Login(LoginInput{Email: "ghost@example.com", Password: "pw"})
	require.ErrorIs(t, unknownUser, ErrInvalidCredentials)

	require.Equal(t, wrongPassword.Error(), unknownUser.Error())
}
