package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPostgresKV(t *testing.T) {
	Convey("Given a Postgres KV on a mocked pool", t, func() {
		mock, err := pgxmock.NewPool()
		So(err, ShouldBeNil)
		Reset(mock.Close)

		ctx := context.Background()
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS sema_kv").WillReturnResult(pgxmock.NewResult("CREATE", 0))
		kv, err := NewPostgresKV(ctx, mock)
		So(err, ShouldBeNil)

		Convey("When reading a stored key", func() {
			mock.ExpectQuery("SELECT value FROM sema_kv").
				WithArgs("sema_clients").
				WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow([]byte("[]")))

			got, err := kv.Get(ctx, "sema_clients")

			Convey("Then the value is returned", func() {
				So(err, ShouldBeNil)
				So(string(got), ShouldEqual, "[]")
				So(mock.ExpectationsWereMet(), ShouldBeNil)
			})
		})

		Convey("When reading a missing key", func() {
			mock.ExpectQuery("SELECT value FROM sema_kv").
				WithArgs("sema_data_x").
				WillReturnError(pgx.ErrNoRows)

			_, err := kv.Get(ctx, "sema_data_x")

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
				So(mock.ExpectationsWereMet(), ShouldBeNil)
			})
		})

		Convey("When writing a key", func() {
			mock.ExpectExec("INSERT INTO sema_kv").
				WithArgs("sema_data_x", []byte("{}")).
				WillReturnResult(pgxmock.NewResult("INSERT", 1))

			So(kv.Set(ctx, "sema_data_x", []byte("{}")), ShouldBeNil)
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})

		Convey("When deleting a key", func() {
			mock.ExpectExec("DELETE FROM sema_kv").
				WithArgs("sema_data_x").
				WillReturnResult(pgxmock.NewResult("DELETE", 1))

			So(kv.Delete(ctx, "sema_data_x"), ShouldBeNil)
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})

		Convey("When the database fails", func() {
			boom := errors.New("connection reset")
			mock.ExpectExec("INSERT INTO sema_kv").
				WithArgs("sema_data_x", []byte("{}")).
				WillReturnError(boom)

			err := kv.Set(ctx, "sema_data_x", []byte("{}"))

			Convey("Then the error is wrapped with the key", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "sema_data_x")
				So(mock.ExpectationsWereMet(), ShouldBeNil)
			})
		})
	})

	Convey("Given a pool that cannot create the table", t, func() {
		mock, err := pgxmock.NewPool()
		So(err, ShouldBeNil)
		defer mock.Close()

		mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("permission denied"))
		_, err = NewPostgresKV(context.Background(), mock)
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "migrate schema")
	})
}
