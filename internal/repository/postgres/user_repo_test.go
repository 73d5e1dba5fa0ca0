package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepmate/auth-service/internal/domain"
	"github.com/prepmate/auth-service/internal/repository"
)

var userRows = []string{"id", "email", "username", "hashed_password", "is_verified", "how_to_use", "about_registration", "agreed_to_terms", "created_at", "updated_at"}

func testUser() *domain.User {
	now := time.Now()
	return &domain.User{
		ID:             uuid.New(),
		Email:          "a@x.com",
		Username:       "a",
		HashedPassword: "c2FsdA:aGFzaA",
		AgreedToTerms:  true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestUserRepoCreate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		execErr   error
		wantErr   error
		wantPlain bool
	}{
		{
			name: "success",
		},
		{
			name:    "duplicate email",
			execErr: &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"},
			wantErr: repository.ErrDuplicateEmail,
		},
		{
			name:    "duplicate username",
			execErr: &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_username_key"},
			wantErr: repository.ErrDuplicateUsername,
		},
		{
			name:      "other database error",
			execErr:   errors.New("connection refused"),
			wantPlain: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			expect := mock.ExpectExec("INSERT INTO users").
				WithArgs(
					pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
					pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
					pgxmock.AnyArg(), pgxmock.AnyArg(),
				)
			if tt.execErr != nil {
				expect.WillReturnError(tt.execErr)
			} else {
				expect.WillReturnResult(pgxmock.NewResult("INSERT", 1))
			}

			repo := NewUserRepo(mock)
			err = repo.Create(context.Background(), testUser())

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantPlain:
				assert.EqualError(t, err, "connection refused")
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepoGetByEmail(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	want := testUser()
	rows := pgxmock.NewRows(userRows).AddRow(
		want.ID, want.Email, want.Username, want.HashedPassword,
		want.IsVerified, want.HowToUse, want.AboutRegistration,
		want.AgreedToTerms, want.CreatedAt, want.UpdatedAt,
	)
	mock.ExpectQuery(`SELECT .+ FROM users WHERE lower\(email\) = lower\(\$1\)`).
		WithArgs("a@x.com").
		WillReturnRows(rows)

	repo := NewUserRepo(mock)
	got, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.HashedPassword, got.HashedPassword)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoGetByEmailNoRows(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE lower\(email\) = lower\(\$1\)`).
		WithArgs("ghost@x.com").
		WillReturnError(pgx.ErrNoRows)

	repo := NewUserRepo(mock)
	got, err := repo.GetByEmail(context.Background(), "ghost@x.com")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoGetByUsernameNoRows(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \$1`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	repo := NewUserRepo(mock)
	got, err := repo.GetByUsername(context.Background(), "ghost")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
