package services_test

import (
	"context"
	"testing"
	"time"

	"ecopoints/internal/models"
	"ecopoints/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceAuth_SignUpSignInSignOut(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	service := mustService(t, services.NewServiceAuth, env.container)

	signedUp, err := service.SignUp(ctx, services.SignUpInput{
		Name:      "  <b>Asha</b> Rao ",
		StudentID: "STU-001",
		Course:    "Environmental Science",
		Email:     "Asha@Example.com",
		Password:  "secret123",
	}, "10.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, signedUp.Token)
	assert.Equal(t, "Asha Rao", signedUp.Student.Name)
	assert.Equal(t, "asha@example.com", signedUp.Student.Email)

	stored := env.repo.Students["STU-001"]
	assert.Equal(t, 0, stored.CurrentPoints)
	assert.NotEmpty(t, stored.AuthID)

	exists, err := env.redis.Exists(ctx, "session:STU-001").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)

	_, err = service.SignIn(ctx, services.SignInInput{Email: "asha@example.com", Password: "wrong-password"})
	require.Error(t, err)

	signedIn, err := service.SignIn(ctx, services.SignInInput{Email: "ASHA@example.com", Password: "secret123"})
	require.NoError(t, err)

	claims, err := service.Validate(ctx, signedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, "STU-001", claims.StudentID)

	require.NoError(t, service.SignOut(ctx, claims))

	_, err = service.Validate(ctx, signedIn.Token)
	require.Error(t, err)

	exists, err = env.redis.Exists(ctx, "session:STU-001").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)

	// the token from sign-up is a separate session and stays valid
	_, err = service.Validate(ctx, signedUp.Token)
	require.NoError(t, err)
}

func TestServiceAuth_SignUpValidation(t *testing.T) {
	valid := services.SignUpInput{
		Name:      "Asha",
		StudentID: "STU-001",
		Course:    "Biology",
		Email:     "asha@example.com",
		Password:  "secret123",
	}

	tests := []struct {
		name   string
		modify func(in *services.SignUpInput)
	}{
		{name: "missing name", modify: func(in *services.SignUpInput) { in.Name = "<script></script>" }},
		{name: "missing student id", modify: func(in *services.SignUpInput) { in.StudentID = " " }},
		{name: "missing course", modify: func(in *services.SignUpInput) { in.Course = "" }},
		{name: "bad email", modify: func(in *services.SignUpInput) { in.Email = "not-an-email" }},
		{name: "short password", modify: func(in *services.SignUpInput) { in.Password = "abc" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			service := mustService(t, services.NewServiceAuth, env.container)

			input := valid
			tt.modify(&input)
			_, err := service.SignUp(context.Background(), input, "10.0.0.1")
			require.Error(t, err)
			assert.Empty(t, env.repo.Students)
		})
	}
}

func TestServiceAuth_SignUpDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	service := mustService(t, services.NewServiceAuth, env.container)

	input := services.SignUpInput{Name: "Asha", StudentID: "STU-001", Course: "Biology", Email: "asha@example.com", Password: "secret123"}
	_, err := service.SignUp(ctx, input, "10.0.0.1")
	require.NoError(t, err)

	sameEmail := input
	sameEmail.StudentID = "STU-002"
	_, err = service.SignUp(ctx, sameEmail, "10.0.0.1")
	require.Error(t, err)

	sameStudent := input
	sameStudent.Email = "other@example.com"
	_, err = service.SignUp(ctx, sameStudent, "10.0.0.1")
	require.Error(t, err)

	assert.Len(t, env.repo.Students, 1)
}

func TestServiceAuth_SignInRateLimited(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	service := mustService(t, services.NewServiceAuth, env.container)

	input := services.SignUpInput{Name: "Asha", StudentID: "STU-001", Course: "Biology", Email: "asha@example.com", Password: "secret123"}
	_, err := service.SignUp(ctx, input, "10.0.0.1")
	require.NoError(t, err)

	for i := 0; i < services.SIGNIN_RATE_LIMIT_PER_MINUTE; i++ {
		_, err := service.SignIn(ctx, services.SignInInput{Email: input.Email, Password: "wrong-password"})
		require.Error(t, err)
	}

	_, err = service.SignIn(ctx, services.SignInInput{Email: input.Email, Password: input.Password})
	require.Error(t, err)

	env.mr.FastForward(2 * time.Minute)
	_, err = service.SignIn(ctx, services.SignInInput{Email: input.Email, Password: input.Password})
	require.NoError(t, err)
}

func TestAuthentication_RejectsForeignSecret(t *testing.T) {
	issuer, err := services.NewAuthentication("one", 0)
	require.NoError(t, err)
	verifier, err := services.NewAuthentication("two", 0)
	require.NoError(t, err)

	env := newTestEnv(t)
	student := env.addStudent("s1", 0, 0)
	account := &models.Account{ID: "acc-1", Email: "s1@example.com"}
	token, _, err := issuer.CreateToken(account, student)
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	require.Error(t, err)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "s1", claims.StudentID)
	assert.Equal(t, account.ID, claims.Subject)
}
