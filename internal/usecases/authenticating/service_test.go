package authenticating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/repository/mocks"
	"github.com/vpicolo/fabrica-manager-api/internal/config"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (Authenticator, *mocks.MockUserRepository) {
	ctrl := gomock.NewController(t)
	userRepo := mocks.NewMockUserRepository(ctrl)

	cfg := &config.Config{}
	cfg.Auth.Secret = "segredo-de-teste"

	return NewService(userRepo, cfg), userRepo
}

func hashPassword(t *testing.T, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestService_LoginUser(t *testing.T) {
	password := "SenhaForte@123"

	activeUser := func(t *testing.T) *domain.User {
		return &domain.User{
			ID:           1,
			Name:         "Vinícius",
			Email:        "vinicius@fabrica.local",
			PasswordHash: hashPassword(t, password),
			Active:       true,
			RoleID:       1,
		}
	}

	t.Run("Credenciais válidas geram token", func(t *testing.T) {
		service, userRepo := newAuthFixture(t)
		userRepo.EXPECT().GetUserByEmail("vinicius@fabrica.local").Return(activeUser(t), nil)

		token, err := service.LoginUser("Vinicius@Fabrica.local ", password)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := service.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, 1, claims.UserID)
		assert.Equal(t, 1, claims.UserRoleID)
	})

	t.Run("Senha incorreta", func(t *testing.T) {
		service, userRepo := newAuthFixture(t)
		userRepo.EXPECT().GetUserByEmail("vinicius@fabrica.local").Return(activeUser(t), nil)

		_, err := service.LoginUser("vinicius@fabrica.local", "senha-errada")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Usuário inexistente", func(t *testing.T) {
		service, userRepo := newAuthFixture(t)
		userRepo.EXPECT().GetUserByEmail("ninguem@fabrica.local").Return(nil, nil)

		_, err := service.LoginUser("ninguem@fabrica.local", password)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("Conta desativada", func(t *testing.T) {
		service, userRepo := newAuthFixture(t)
		user := activeUser(t)
		user.Active = false
		userRepo.EXPECT().GetUserByEmail("vinicius@fabrica.local").Return(user, nil)

		_, err := service.LoginUser("vinicius@fabrica.local", password)
		assert.ErrorIs(t, err, ErrUserDisabled)
	})

	t.Run("Campos obrigatórios ausentes", func(t *testing.T) {
		service, _ := newAuthFixture(t)

		_, err := service.LoginUser("", "")
		assert.ErrorIs(t, err, ErrMissingRequiredData)
	})
}

func TestService_ValidateToken_segredoErrado(t *testing.T) {
	service, userRepo := newAuthFixture(t)

	userRepo.EXPECT().
		GetUserByEmail("vinicius@fabrica.local").
		Return(&domain.User{
			ID:           1,
			Email:        "vinicius@fabrica.local",
			PasswordHash: hashPassword(t, "SenhaForte@123"),
			Active:       true,
		}, nil)

	token, err := service.LoginUser("vinicius@fabrica.local", "SenhaForte@123")
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	otherCfg := &config.Config{}
	otherCfg.Auth.Secret = "outro-segredo"
	otherService := NewService(mocks.NewMockUserRepository(ctrl), otherCfg)

	_, err = otherService.ValidateToken(token)
	assert.Error(t, err)
}

func TestService_CreateUser(t *testing.T) {
	t.Run("Usuário novo é criado inativo com hash de senha", func(t *testing.T) {
		service, userRepo := newAuthFixture(t)

		userRepo.EXPECT().GetUserByEmail("novo@fabrica.local").Return(nil, nil)
		userRepo.EXPECT().
			CreateUser(gomock.Any()).
			DoAndReturn(func(user *domain.User) (*domain.User, error) {
				assert.Equal(t, "novo@fabrica.local", user.Email)
				assert.False(t, user.Active)
				assert.Equal(t, 3, user.RoleID)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("SenhaForte@123")))
				user.ID = 10
				return user, nil
			})

		created, err := service.CreateUser(&domain.User{
			Name:         "Novo Usuário",
			Email:        "Novo@Fabrica.local",
			PasswordHash: "SenhaForte@123",
		})
		require.NoError(t, err)
		assert.Equal(t, 10, created.ID)
	})

	t.Run("Email já cadastrado", func(t *testing.T) {
		service, userRepo := newAuthFixture(t)

		userRepo.EXPECT().
			GetUserByEmail("existe@fabrica.local").
			Return(&domain.User{ID: 5, Email: "existe@fabrica.local"}, nil)

		_, err := service.CreateUser(&domain.User{
			Name:         "Repetido",
			Email:        "existe@fabrica.local",
			PasswordHash: "SenhaForte@123",
		})
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})

	t.Run("Senha fraca é rejeitada antes de criar", func(t *testing.T) {
		service, userRepo := newAuthFixture(t)

		userRepo.EXPECT().GetUserByEmail("fraco@fabrica.local").Return(nil, nil)

		_, err := service.CreateUser(&domain.User{
			Name:         "Senha Fraca",
			Email:        "fraco@fabrica.local",
			PasswordHash: "12345678",
		})
		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("Dados obrigatórios ausentes", func(t *testing.T) {
		service, _ := newAuthFixture(t)

		_, err := service.CreateUser(&domain.User{Email: "so-email@fabrica.local"})
		assert.ErrorIs(t, err, ErrMissingRequiredData)
	})
}

func TestService_ChangePassword(t *testing.T) {
	t.Run("Troca com senha atual correta", func(t *testing.T) {
		service, userRepo := newAuthFixture(t)

		user := &domain.User{
			ID:           1,
			PasswordHash: hashPassword(t, "SenhaAntiga@123"),
			Active:       true,
		}
		userRepo.EXPECT().GetUserByID(1).Return(user, nil)
		userRepo.EXPECT().
			UpdateUser(gomock.Any()).
			DoAndReturn(func(updated *domain.User) error {
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("SenhaNova@456")))
				return nil
			})

		err := service.ChangePassword(1, "SenhaAntiga@123", "SenhaNova@456")
		assert.NoError(t, err)
	})

	t.Run("Senha atual incorreta", func(t *testing.T) {
		service, userRepo := newAuthFixture(t)

		userRepo.EXPECT().GetUserByID(1).Return(&domain.User{
			ID:           1,
			PasswordHash: hashPassword(t, "SenhaAntiga@123"),
		}, nil)

		err := service.ChangePassword(1, "chute-errado", "SenhaNova@456")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Nova senha fraca", func(t *testing.T) {
		service, userRepo := newAuthFixture(t)

		userRepo.EXPECT().GetUserByID(1).Return(&domain.User{
			ID:           1,
			PasswordHash: hashPassword(t, "SenhaAntiga@123"),
		}, nil)

		err := service.ChangePassword(1, "SenhaAntiga@123", "curta")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "a senha deve conter")
	})
}

func TestService_ValidatePasswordStrength(t *testing.T) {
	service, _ := newAuthFixture(t)

	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{name: "Senha completa", password: "SenhaForte@123", valid: true},
		{name: "Curta demais", password: "Ab@1", valid: false},
		{name: "Sem maiúscula", password: "senhafraca@123", valid: false},
		{name: "Sem minúscula", password: "SENHAFORTE@123", valid: false},
		{name: "Sem número", password: "SenhaForte@abc", valid: false},
		{name: "Sem caractere especial", password: "SenhaForte123", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ValidatePasswordStrength(tt.password)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestService_ListUsers_limpaHashDeSenha(t *testing.T) {
	service, userRepo := newAuthFixture(t)

	userRepo.EXPECT().ListUsers().Return([]*domain.User{
		{ID: 1, PasswordHash: "hash-1"},
		{ID: 2, PasswordHash: "hash-2"},
	}, nil)

	users, err := service.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, user := range users {
		assert.Empty(t, user.PasswordHash)
	}
}
