package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/okian/sema/internal/domain/model"
	"github.com/okian/sema/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func newTestCatalog() *TemplateCatalog {
	c := NewTemplateCatalog(NewMemoryKV())
	n := 0
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.newID = func() string {
		n++
		return fmt.Sprintf("tpl_%d", n)
	}
	c.now = func() time.Time { return base.Add(time.Duration(n) * time.Hour) }
	return c
}

func TestTemplateCatalog(t *testing.T) {
	Convey("Given a catalog with global and client-owned templates", t, func() {
		ctx := context.Background()
		cat := newTestCatalog()

		topics := []model.Topic{{ID: "t1", Name: "Energy", Category: types.TopicEnvironmental}}
		global, err := cat.Create(ctx, model.Template{Name: "GRI core", Topics: topics})
		So(err, ShouldBeNil)
		own, err := cat.Create(ctx, model.Template{Name: "Acme", ClientID: "client_1"})
		So(err, ShouldBeNil)
		_, err = cat.Create(ctx, model.Template{Name: "Other", ClientID: "client_2"})
		So(err, ShouldBeNil)

		Convey("When a client lists templates", func() {
			list, err := cat.List(ctx, "client_1")

			Convey("Then it sees its own and the global ones, newest first", func() {
				So(err, ShouldBeNil)
				So(list, ShouldHaveLength, 2)
				So(list[0].ID, ShouldEqual, own.ID)
				So(list[1].ID, ShouldEqual, global.ID)
			})
		})

		Convey("When listing without a client", func() {
			list, err := cat.List(ctx, "")
			So(err, ShouldBeNil)
			So(list, ShouldHaveLength, 3)
			So(list[0].Name, ShouldEqual, "Other")
		})

		Convey("When fetching a template", func() {
			got, err := cat.Get(ctx, global.ID)
			So(err, ShouldBeNil)
			So(got.Topics, ShouldResemble, topics)
		})

		Convey("When updating a template", func() {
			updated, err := cat.Update(ctx, own.ID, model.Template{Name: "Acme v2", ClientID: "client_1", Topics: topics})

			Convey("Then the changes and update time are stored", func() {
				So(err, ShouldBeNil)
				So(updated.Name, ShouldEqual, "Acme v2")
				So(updated.Topics, ShouldHaveLength, 1)
				So(updated.CreatedAt, ShouldEqual, own.CreatedAt)
				So(updated.UpdatedAt.IsZero(), ShouldBeFalse)
			})
		})

		Convey("When deleting a template", func() {
			So(cat.Delete(ctx, own.ID), ShouldBeNil)

			_, err := cat.Get(ctx, own.ID)
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			So(errors.Is(cat.Delete(ctx, own.ID), ErrNotFound), ShouldBeTrue)
		})

		Convey("When updating an unknown template", func() {
			_, err := cat.Update(ctx, "missing", model.Template{})
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})
	})
}
