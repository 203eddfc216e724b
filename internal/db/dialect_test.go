package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestRebind(t *testing.T) {
	q := "SELECT id FROM bookings WHERE bus_id = ? AND status = 'a?b' AND seat_number = ?"

	if got := MySQL.Rebind(q); got != q {
		t.Fatalf("mysql rebind changed query: %s", got)
	}
	want := "SELECT id FROM bookings WHERE bus_id = $1 AND status = 'a?b' AND seat_number = $2"
	if got := Postgres.Rebind(q); got != want {
		t.Fatalf("postgres rebind\n got: %s\nwant: %s", got, want)
	}
}

func TestDialectFor(t *testing.T) {
	cases := map[string]Dialect{
		"mysql":    MySQL,
		"pgx":      Postgres,
		"postgres": Postgres,
		"":         MySQL,
	}
	for in, want := range cases {
		if got := DialectFor(in); got != want {
			t.Fatalf("DialectFor(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(fmt.Errorf("wrapped: %w", &mysql.MySQLError{Number: 1062})) {
		t.Fatalf("mysql 1062 should be a unique violation")
	}
	if IsUniqueViolation(&mysql.MySQLError{Number: 1452}) {
		t.Fatalf("mysql 1452 is a foreign key error")
	}
	if !IsUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatalf("pg 23505 should be a unique violation")
	}
	if IsUniqueViolation(errors.New("duplicate key")) {
		t.Fatalf("plain errors must not be classified by text")
	}
	if IsUniqueViolation(nil) {
		t.Fatalf("nil is not a violation")
	}
}

func TestInsertIDMySQLNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(42, 1))

	if _, err := MySQL.InsertID(context.Background(), db, "INSERT INTO bookings SELECT 1"); err == nil {
		t.Fatalf("expected sql.ErrNoRows for zero affected rows")
	}
	id, err := MySQL.InsertID(context.Background(), db, "INSERT INTO bookings SELECT 1")
	if err != nil || id != 42 {
		t.Fatalf("InsertID = %d, %v; want 42, nil", id, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsertIDPostgresReturning(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO bookings .* VALUES \(\$1\) RETURNING id`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))

	id, err := Postgres.InsertID(context.Background(), db, "INSERT INTO bookings (bus_id) VALUES (?)", 7)
	if err != nil || id != 9 {
		t.Fatalf("InsertID = %d, %v; want 9, nil", id, err)
	}
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	for range MySQL.Schema() {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	if err := EnsureSchema(context.Background(), db, MySQL); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	if !IsForeignKeyViolation(&mysql.MySQLError{Number: 1452}) {
		t.Fatalf("mysql 1452 should be a foreign key violation")
	}
	if !IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("pg 23503 should be a foreign key violation")
	}
	if IsForeignKeyViolation(&mysql.MySQLError{Number: 1062}) {
		t.Fatalf("1062 is a unique violation")
	}
}
