package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/okian/sema/internal/domain/model"
	"github.com/okian/sema/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func newTestRegistry(kv KV) (*ClientRegistry, *Store) {
	store := newTestStore(kv)
	reg := NewClientRegistry(kv, store)
	n := 0
	reg.newID = func() string {
		n++
		return fmt.Sprintf("client_%d", n)
	}
	reg.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return reg, store
}

func TestClientRegistry(t *testing.T) {
	Convey("Given an empty registry", t, func() {
		ctx := context.Background()
		kv := NewMemoryKV()
		reg, store := newTestRegistry(kv)

		Convey("When listing clients", func() {
			clients, err := reg.List(ctx)

			Convey("Then only the demo client is present", func() {
				So(err, ShouldBeNil)
				So(clients, ShouldHaveLength, 1)
				So(clients[0].ID, ShouldEqual, "demo")
				So(clients[0].IsDemo, ShouldBeTrue)
			})
		})

		Convey("When a client is added", func() {
			c, err := reg.Add(ctx, model.Client{Name: "Acme", Industry: "Manufacturing", IsDemo: true})
			So(err, ShouldBeNil)

			Convey("Then it gets an id, a timestamp and the active status", func() {
				So(c.ID, ShouldEqual, "client_1")
				So(c.IsDemo, ShouldBeFalse)
				So(c.Status, ShouldEqual, types.ClientActive)
				So(c.CreatedAt, ShouldEqual, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
			})

			Convey("Then it is listed after the demo client", func() {
				clients, _ := reg.List(ctx)
				So(clients, ShouldHaveLength, 2)
				So(clients[1].Name, ShouldEqual, "Acme")
			})

			Convey("Then its empty bundle is initialized", func() {
				_, err := kv.Get(ctx, "sema_data_client_1")
				So(err, ShouldBeNil)
			})

			Convey("When it is updated", func() {
				name := "Acme Corp"
				status := types.ClientInactive
				updated, err := reg.Update(ctx, c.ID, ClientPatch{Name: &name, Status: &status})

				Convey("Then only the patched fields change", func() {
					So(err, ShouldBeNil)
					So(updated.Name, ShouldEqual, "Acme Corp")
					So(updated.Status, ShouldEqual, types.ClientInactive)
					So(updated.Industry, ShouldEqual, "Manufacturing")

					got, _ := reg.Get(ctx, c.ID)
					So(got, ShouldResemble, updated)
				})
			})

			Convey("When it is deleted", func() {
				_, err := store.UpdateStakeholders(ctx, c.ID, []model.Stakeholder{{ID: "s1"}})
				So(err, ShouldBeNil)
				So(reg.Delete(ctx, c.ID), ShouldBeNil)

				Convey("Then it is gone along with its data", func() {
					_, err := reg.Get(ctx, c.ID)
					So(errors.Is(err, ErrNotFound), ShouldBeTrue)
					_, err = kv.Get(ctx, "sema_data_client_1")
					So(errors.Is(err, ErrNotFound), ShouldBeTrue)
				})

				Convey("Then its data can no longer be read or written", func() {
					_, err := reg.LoadData(ctx, c.ID)
					So(errors.Is(err, ErrNotFound), ShouldBeTrue)
					_, err = reg.UpdateData(ctx, c.ID, func(d *model.ClientData) error {
						d.Stakeholders = []model.Stakeholder{{ID: "s2"}}
						return nil
					})
					So(errors.Is(err, ErrNotFound), ShouldBeTrue)
					_, err = kv.Get(ctx, "sema_data_client_1")
					So(errors.Is(err, ErrNotFound), ShouldBeTrue)
				})
			})

			Convey("When it is deleted while writers are running", func() {
				var wg sync.WaitGroup
				for i := 0; i < 8; i++ {
					wg.Add(1)
					go func() {
						defer wg.Done()
						for j := 0; j < 50; j++ {
							_, _ = reg.UpdateData(ctx, c.ID, func(d *model.ClientData) error {
								d.Stakeholders = append(d.Stakeholders, model.Stakeholder{ID: fmt.Sprintf("s%d", j)})
								return nil
							})
						}
					}()
				}
				err := reg.Delete(ctx, c.ID)
				wg.Wait()

				Convey("Then no bundle survives the delete", func() {
					So(err, ShouldBeNil)
					_, err := kv.Get(ctx, "sema_data_client_1")
					So(errors.Is(err, ErrNotFound), ShouldBeTrue)
				})
			})
		})

		Convey("When deleting the demo client", func() {
			_, err := reg.Add(ctx, model.Client{Name: "Acme"})
			So(err, ShouldBeNil)
			before, _ := reg.List(ctx)

			err = reg.Delete(ctx, "demo")

			Convey("Then it fails and the list is unchanged", func() {
				So(errors.Is(err, ErrDemoClient), ShouldBeTrue)
				So(err.Error(), ShouldEqual, "cannot delete demo client")
				after, _ := reg.List(ctx)
				So(after, ShouldResemble, before)
			})
		})

		Convey("When the demo client is renamed", func() {
			name := "Showcase"
			updated, err := reg.Update(ctx, "demo", ClientPatch{Name: &name})
			So(err, ShouldBeNil)
			So(updated.Name, ShouldEqual, "Showcase")

			clients, _ := reg.List(ctx)
			So(clients, ShouldHaveLength, 1)
			So(clients[0].Name, ShouldEqual, "Showcase")
		})

		Convey("When unknown clients are addressed", func() {
			_, err := reg.Get(ctx, "nope")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			_, err = reg.Update(ctx, "nope", ClientPatch{})
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			So(errors.Is(reg.Delete(ctx, "nope"), ErrNotFound), ShouldBeTrue)
		})

		Convey("When the stored list lacks the demo client", func() {
			So(kv.Set(ctx, "sema_clients", []byte(`[{"id":"client_9","name":"Stored","isDemo":false,"status":"active","createdAt":"2024-05-01T00:00:00Z"}]`)), ShouldBeNil)

			Convey("Then the demo client is prepended", func() {
				clients, err := reg.List(ctx)
				So(err, ShouldBeNil)
				So(clients, ShouldHaveLength, 2)
				So(clients[0].ID, ShouldEqual, "demo")
				So(clients[1].ID, ShouldEqual, "client_9")
			})
		})

		Convey("When the stored list is corrupt", func() {
			So(kv.Set(ctx, "sema_clients", []byte("nope")), ShouldBeNil)
			_, err := reg.List(ctx)
			So(errors.Is(err, ErrCorruptData), ShouldBeTrue)
		})
	})

	Convey("Given the default id generator", t, func() {
		reg := NewClientRegistry(NewMemoryKV(), newTestStore(NewMemoryKV()))
		So(strings.HasPrefix(reg.newID(), "client_"), ShouldBeTrue)
		So(reg.newID(), ShouldNotEqual, reg.newID())
	})
}
