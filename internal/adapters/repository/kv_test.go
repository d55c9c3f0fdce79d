package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func kvContract(kv KV) {
	ctx := context.Background()

	Convey("When reading a missing key", func() {
		_, err := kv.Get(ctx, "sema_data_missing")

		Convey("Then ErrNotFound is returned", func() {
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})
	})

	Convey("When a value is set and read back", func() {
		So(kv.Set(ctx, "sema_data_a", []byte(`{"v":1}`)), ShouldBeNil)
		got, err := kv.Get(ctx, "sema_data_a")

		Convey("Then the stored bytes are returned", func() {
			So(err, ShouldBeNil)
			So(string(got), ShouldEqual, `{"v":1}`)
		})
	})

	Convey("When a value is overwritten", func() {
		So(kv.Set(ctx, "sema_data_a", []byte("one")), ShouldBeNil)
		So(kv.Set(ctx, "sema_data_a", []byte("two")), ShouldBeNil)
		got, err := kv.Get(ctx, "sema_data_a")

		Convey("Then the latest value wins", func() {
			So(err, ShouldBeNil)
			So(string(got), ShouldEqual, "two")
		})
	})

	Convey("When a key is deleted", func() {
		So(kv.Set(ctx, "sema_data_a", []byte("x")), ShouldBeNil)
		So(kv.Delete(ctx, "sema_data_a"), ShouldBeNil)
		_, err := kv.Get(ctx, "sema_data_a")

		Convey("Then it is gone and deleting again is harmless", func() {
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			So(kv.Delete(ctx, "sema_data_a"), ShouldBeNil)
		})
	})
}

func TestMemoryKV(t *testing.T) {
	Convey("Given a memory KV", t, func() {
		kv := NewMemoryKV()
		kvContract(kv)

		Convey("When the caller mutates returned bytes", func() {
			ctx := context.Background()
			So(kv.Set(ctx, "k", []byte("abc")), ShouldBeNil)
			got, _ := kv.Get(ctx, "k")
			got[0] = 'z'
			again, _ := kv.Get(ctx, "k")

			Convey("Then the stored value is unaffected", func() {
				So(string(again), ShouldEqual, "abc")
				So(kv.Len(), ShouldEqual, 1)
			})
		})

		Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			So(kv.Set(ctx, "k", nil), ShouldEqual, context.Canceled)
		})
	})
}

func TestFileKV(t *testing.T) {
	Convey("Given a file KV", t, func() {
		dir := filepath.Join(t.TempDir(), "data")
		kv, err := NewFileKV(dir)
		So(err, ShouldBeNil)
		kvContract(kv)

		Convey("When a value is written", func() {
			So(kv.Set(context.Background(), "sema_clients", []byte("[]")), ShouldBeNil)

			Convey("Then exactly one json file exists and no temp file remains", func() {
				entries, err := os.ReadDir(dir)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
				So(entries[0].Name(), ShouldEqual, "sema_clients.json")
			})
		})

		Convey("When a key would escape the directory", func() {
			err := kv.Set(context.Background(), "../evil", []byte("x"))

			Convey("Then it is rejected", func() {
				So(errors.Is(err, ErrInvalidKey), ShouldBeTrue)
			})
		})
	})
}

func TestSQLiteKV(t *testing.T) {
	Convey("Given a SQLite KV", t, func() {
		kv, err := NewSQLiteKV(filepath.Join(t.TempDir(), "sema.db"))
		So(err, ShouldBeNil)
		Reset(func() { kv.Close() })

		kvContract(kv)
	})

	Convey("Given a SQLite KV reopened on the same file", t, func() {
		path := filepath.Join(t.TempDir(), "sema.db")
		first, err := NewSQLiteKV(path)
		So(err, ShouldBeNil)
		So(first.Set(context.Background(), "sema_clients", []byte("[]")), ShouldBeNil)
		So(first.Close(), ShouldBeNil)

		second, err := NewSQLiteKV(path)
		So(err, ShouldBeNil)
		defer second.Close()

		got, err := second.Get(context.Background(), "sema_clients")
		So(err, ShouldBeNil)
		So(string(got), ShouldEqual, "[]")
	})
}
