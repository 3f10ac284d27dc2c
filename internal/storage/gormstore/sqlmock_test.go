package gormstore

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"trove/internal/observability"
)

// setupMockDB wires a GormStore to sqlmock so tests can pin the exact SQL
// the store emits against PostgreSQL. Schema migration and catalog seeding
// are skipped.
func setupMockDB(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return &GormStore{db: gormDB, log: observability.NewStoreLogger("gormstore")}, mock
}

func TestGetUserByUsernameSQL(t *testing.T) {
	s, mock := setupMockDB(t)
	ctx := context.Background()

	tests := []struct {
		name         string
		username     string
		mockBehavior func()
		wantUser     bool
		wantErr      bool
	}{
		{
			name:     "found",
			username: "digger",
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "username", "email"}).
					AddRow(1, "digger", "digger@example.com")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE LOWER(username) = LOWER($1) ORDER BY "users"."id" LIMIT $2`)).
					WithArgs("digger", 1).
					WillReturnRows(rows)
			},
			wantUser: true,
		},
		{
			name:     "absent reports nil without error",
			username: "nobody",
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE LOWER(username) = LOWER($1) ORDER BY "users"."id" LIMIT $2`)).
					WithArgs("nobody", 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
		},
		{
			name:     "database failure surfaces as internal error",
			username: "digger",
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE LOWER(username) = LOWER($1) ORDER BY "users"."id" LIMIT $2`)).
					WithArgs("digger", 1).
					WillReturnError(errors.New("connection timeout"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := s.GetUserByUsername(ctx, tt.username)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.wantUser {
				if assert.NotNil(t, user) {
					assert.Equal(t, tt.username, user.Username)
				}
			} else {
				assert.Nil(t, user)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestIncrementPostViewsSQL(t *testing.T) {
	s, mock := setupMockDB(t)
	ctx := context.Background()

	// The increment is a single relative UPDATE, not read-modify-write.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET "views"=views + 1 WHERE id = $1`)).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	post, err := s.IncrementPostViews(ctx, 7)
	assert.NoError(t, err)
	assert.Nil(t, post, "zero rows affected means the post is absent")
	assert.NoError(t, mock.ExpectationsWereMet())
}
