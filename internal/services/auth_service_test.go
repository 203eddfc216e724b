package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	intdb "busbooking/internal/db"
	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
	"busbooking/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2025, 1, 30, 10, 0, 0, 0, time.UTC)

func newAuthService(t *testing.T) (AuthService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return AuthService{
		Users:  repositories.UserRepo{DB: db, Dialect: intdb.MySQL},
		Secret: []byte("test-secret"),
		TTL:    time.Hour,
		Cost:   bcrypt.MinCost,
		Now:    func() time.Time { return fixedNow },
	}, mock
}

func TestRegisterNormalizesAndHashes(t *testing.T) {
	svc, mock := newAuthService(t)
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("Kavya Raman", "kavya@example.com", sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(3, 1))

	u, err := svc.Register(context.Background(), RegisterInput{
		Name: "  Kavya   Raman ", Email: " Kavya@Example.com", Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), u.ID)
	assert.Equal(t, "kavya@example.com", u.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterValidation(t *testing.T) {
	svc, mock := newAuthService(t)
	cases := []RegisterInput{
		{Name: "", Email: "a@b.co", Password: "secret1"},
		{Name: "A", Email: "not-an-email", Password: "secret1"},
		{Name: "A", Email: "a@b.co", Password: "123"},
	}
	for _, in := range cases {
		_, err := svc.Register(context.Background(), in)
		assert.True(t, domain.IsValidation(err), "input %+v gave %v", in, err)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, mock := newAuthService(t)
	mock.ExpectExec(`INSERT INTO users`).WillReturnError(&mysql.MySQLError{Number: 1062})

	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@b.co", Password: "secret1"})
	assert.True(t, domain.IsConflict(err))
	assert.Equal(t, domain.ReasonEmailTaken, domain.ReasonOf(err))
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, mock := newAuthService(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	mock.ExpectQuery(`FROM users WHERE email = \?`).WithArgs("a@b.co").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "phone", "created_at"}).
			AddRow(5, "Asha", "a@b.co", string(hash), nil, fixedNow))

	token, u, err := svc.Login(context.Background(), "A@B.co", "secret1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), u.ID)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(5), claims.UserID)
	assert.Equal(t, "Asha", claims.Name)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, mock := newAuthService(t)
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	mock.ExpectQuery(`FROM users WHERE email = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "phone", "created_at"}).
			AddRow(5, "Asha", "a@b.co", string(hash), nil, fixedNow))
	mock.ExpectQuery(`FROM users WHERE email = \?`).WillReturnError(sql.ErrNoRows)

	_, _, err := svc.Login(context.Background(), "a@b.co", "wrong-one")
	assert.True(t, domain.IsUnauthorized(err))

	_, _, err = svc.Login(context.Background(), "nobody@b.co", "secret1")
	assert.True(t, domain.IsUnauthorized(err))
}

func TestParseTokenRejectsExpiredAndForeign(t *testing.T) {
	svc, _ := newAuthService(t)
	token, err := svc.Sign(models.User{ID: 9, Name: "Ravi"})
	require.NoError(t, err)

	later := svc
	later.Now = func() time.Time { return fixedNow.Add(2 * time.Hour) }
	_, err = later.ParseToken(token)
	assert.True(t, domain.IsUnauthorized(err))

	other := svc
	other.Secret = []byte("another-secret")
	_, err = other.ParseToken(token)
	assert.True(t, domain.IsUnauthorized(err))

	_, err = svc.ParseToken("garbage")
	assert.True(t, domain.IsUnauthorized(err))
}

func TestFeedbackSubmit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	svc := FeedbackService{Feedback: repositories.FeedbackRepo{DB: db, Dialect: intdb.MySQL}}

	_, err = svc.Submit(context.Background(), models.Feedback{Rating: 0})
	assert.True(t, domain.IsValidation(err))

	mock.ExpectExec(`INSERT INTO feedback`).
		WithArgs(nil, "Asha", "a@b.co", 5, "Clean bus").
		WillReturnResult(sqlmock.NewResult(21, 1))
	id, err := svc.Submit(context.Background(), models.Feedback{Name: " Asha ", Email: "A@B.CO", Rating: 5, Comments: " Clean bus "})
	require.NoError(t, err)
	assert.Equal(t, int64(21), id)

	ghost := int64(404)
	mock.ExpectExec(`INSERT INTO feedback`).WillReturnError(&mysql.MySQLError{Number: 1452})
	_, err = svc.Submit(context.Background(), models.Feedback{UserID: &ghost, Rating: 3})
	assert.True(t, domain.IsValidation(err))

	require.NoError(t, mock.ExpectationsWereMet())
}
