package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/sema/internal/adapters/http/api"
	service "github.com/okian/sema/internal/app"
	"github.com/okian/sema/internal/domain/model"
	"github.com/okian/sema/internal/domain/types"
	"github.com/okian/sema/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.InitWithWriter(io.Discard, logger.FormatText); err != nil {
		panic(err)
	}
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

// failingDeps makes every client lookup fail with a storage error.
type failingDeps struct {
	*service.Service
}

func (f failingDeps) ListClients(context.Context) ([]model.Client, error) {
	return nil, errors.New("disk on fire")
}

func newMux(deps api.Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}})
	server.Register(context.Background(), mux)
	return mux
}

func newService() *service.Service {
	svc := service.New()
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	return svc
}

func do(mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		panic(err)
	}
	return v
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		svc := newService()
		defer svc.Stop()
		mux := newMux(svc)

		Convey("Then the health endpoint serves metrics", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "sema_")
		})

		Convey("Then the stats endpoint serves JSON", func() {
			w := do(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
			So(decode[map[string]any](w)["started"], ShouldEqual, true)
		})

		Convey("Then a wrong method is rejected", func() {
			w := do(mux, http.MethodPost, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})

	Convey("Given a service that has not started", t, func() {
		mux := http.NewServeMux()
		api.NewServer(service.New(), &mockStatsProvider{stats: map[string]interface{}{"started": false}}).
			Register(context.Background(), mux)

		w := do(mux, http.MethodGet, "/stats", "")
		So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
		So(decode[map[string]any](w)["started"], ShouldEqual, false)
	})
}

func TestClientsHandler(t *testing.T) {
	Convey("Given a running service", t, func() {
		svc := newService()
		defer svc.Stop()
		mux := newMux(svc)

		Convey("When listing clients", func() {
			w := do(mux, http.MethodGet, "/clients", "")
			clients := decode[[]model.Client](w)

			Convey("Then only the demo client is present", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(clients, ShouldHaveLength, 1)
				So(clients[0].IsDemo, ShouldBeTrue)
			})
		})

		Convey("When adding a client", func() {
			w := do(mux, http.MethodPost, "/clients", `{"name":"Acme","industry":"Retail"}`)
			So(w.Code, ShouldEqual, http.StatusCreated)
			c := decode[model.Client](w)

			Convey("Then it can be fetched, patched and deleted", func() {
				So(do(mux, http.MethodGet, "/clients/"+c.ID, "").Code, ShouldEqual, http.StatusOK)

				w := do(mux, http.MethodPatch, "/clients/"+c.ID, `{"status":"inactive"}`)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[model.Client](w).Status, ShouldEqual, types.ClientInactive)

				So(do(mux, http.MethodDelete, "/clients/"+c.ID, "").Code, ShouldEqual, http.StatusNoContent)
				So(do(mux, http.MethodGet, "/clients/"+c.ID, "").Code, ShouldEqual, http.StatusNotFound)
			})

			Convey("Then its data bundle is empty", func() {
				w := do(mux, http.MethodGet, "/clients/"+c.ID+"/data", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[model.ClientData](w).SampleSizeParams.ConfidenceLevel, ShouldEqual, 90)
			})
		})

		Convey("When the body is malformed", func() {
			w := do(mux, http.MethodPost, "/clients", `{"name":`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode[map[string]string](w)["code"], ShouldEqual, "bad_request")
		})

		Convey("When the body exceeds the size limit", func() {
			w := do(mux, http.MethodPost, "/clients", `{"name":"`+strings.Repeat("a", 1<<20)+`"}`)
			So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
			So(decode[map[string]string](w)["code"], ShouldEqual, "too_large")
		})

		Convey("When the body has unknown fields", func() {
			w := do(mux, http.MethodPost, "/clients", `{"name":"Acme","owner":"x"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the name is missing", func() {
			w := do(mux, http.MethodPost, "/clients", `{"industry":"Retail"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When deleting the demo client", func() {
			w := do(mux, http.MethodDelete, "/clients/demo", "")

			Convey("Then it is a conflict and the demo remains", func() {
				So(w.Code, ShouldEqual, http.StatusConflict)
				So(decode[map[string]string](w)["message"], ShouldContainSubstring, "cannot delete demo client")
				So(do(mux, http.MethodGet, "/clients/demo", "").Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When the backend fails", func() {
			w := do(newMux(failingDeps{svc}), http.MethodGet, "/clients", "")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(decode[map[string]string](w)["code"], ShouldEqual, "internal_error")
		})
	})
}

func TestAssessmentHandler(t *testing.T) {
	Convey("Given a client", t, func() {
		svc := newService()
		defer svc.Stop()
		mux := newMux(svc)
		c := decode[model.Client](do(mux, http.MethodPost, "/clients", `{"name":"Acme"}`))
		base := "/clients/" + c.ID

		Convey("When posting a stakeholder", func() {
			w := do(mux, http.MethodPost, base+"/stakeholders", `{
				"name":"Employees","category":"Internal",
				"dependencyEconomic":5,"dependencySocial":5,"dependencyEnvironmental":5,
				"influenceEconomic":5,"influenceSocial":5,"influenceEnvironmental":5}`)
			So(w.Code, ShouldEqual, http.StatusCreated)
			s := decode[model.Stakeholder](w)

			Convey("Then it is returned scored", func() {
				So(s.TotalScore, ShouldEqual, 30)
				So(s.Priority, ShouldBeTrue)
			})

			Convey("Then it can be replaced and deleted", func() {
				w := do(mux, http.MethodPut, base+"/stakeholders/"+s.ID, `{
					"name":"Employees","category":"Internal",
					"dependencyEconomic":1,"dependencySocial":1,"dependencyEnvironmental":1,
					"influenceEconomic":1,"influenceSocial":1,"influenceEnvironmental":1}`)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[model.Stakeholder](w).TotalScore, ShouldEqual, 6)

				So(do(mux, http.MethodDelete, base+"/stakeholders/"+s.ID, "").Code, ShouldEqual, http.StatusNoContent)
				So(decode[[]model.Stakeholder](do(mux, http.MethodGet, base+"/stakeholders", "")), ShouldBeEmpty)
			})
		})

		Convey("When a rating is out of range", func() {
			w := do(mux, http.MethodPost, base+"/stakeholders", `{
				"name":"Employees","category":"Internal",
				"dependencyEconomic":9,"dependencySocial":5,"dependencyEnvironmental":5,
				"influenceEconomic":5,"influenceSocial":5,"influenceEnvironmental":5}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When assessing an internal topic", func() {
			w := do(mux, http.MethodPost, base+"/internal-topics",
				`{"name":"Waste","category":"Environmental","severity":2,"likelihood":5}`)
			So(w.Code, ShouldEqual, http.StatusCreated)
			topic := decode[model.InternalTopic](w)
			So(topic.Significance, ShouldEqual, 10)
			So(topic.IsMaterial, ShouldBeTrue)

			So(do(mux, http.MethodPut, base+"/internal-topics/missing",
				`{"name":"Waste","category":"Environmental","severity":2,"likelihood":5}`).Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When responses are submitted for a topic", func() {
			topic := decode[model.MaterialTopic](do(mux, http.MethodPost, base+"/material-topics",
				`{"name":"Energy","category":"Environmental"}`))

			w := do(mux, http.MethodPost, base+"/responses",
				`{"stakeholderGroup":"Employees","responses":{"`+topic.ID+`":8}}`)
			So(w.Code, ShouldEqual, http.StatusCreated)

			Convey("Then the topic is re-aggregated", func() {
				topics := decode[[]model.MaterialTopic](do(mux, http.MethodGet, base+"/material-topics", ""))
				So(topics[0].AverageScore, ShouldEqual, 8.0)
				So(topics[0].IsMaterial, ShouldBeTrue)
				So(decode[[]model.StakeholderResponse](do(mux, http.MethodGet, base+"/responses", "")), ShouldHaveLength, 1)
			})
		})

		Convey("When the client is unknown", func() {
			So(do(mux, http.MethodGet, "/clients/nobody/stakeholders", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestReportsHandler(t *testing.T) {
	Convey("Given the demo client", t, func() {
		svc := newService()
		defer svc.Stop()
		mux := newMux(svc)

		Convey("Then the sample size view carries results and plan", func() {
			w := do(mux, http.MethodGet, "/clients/demo/sample-size", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			v := decode[service.SampleSizeView](w)
			So(v.Result.InfiniteSampleSize, ShouldEqual, 68)
			So(v.Plan.Rows, ShouldHaveLength, 2)
		})

		Convey("Then invalid sampling parameters are rejected", func() {
			w := do(mux, http.MethodPut, "/clients/demo/sample-size",
				`{"confidenceLevel":85,"marginOfError":5,"populationProportion":0.5}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then the risk grid and matrix are served", func() {
			So(do(mux, http.MethodGet, "/clients/demo/risk-grid", "").Code, ShouldEqual, http.StatusOK)

			w := do(mux, http.MethodGet, "/clients/demo/matrix?category=Environmental", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			m := decode[service.MatrixView](w)
			So(m.Topics, ShouldHaveLength, 1)
			So(m.Topics[0].Name, ShouldEqual, "GHG Emissions")

			So(do(mux, http.MethodGet, "/clients/demo/matrix?category=Nope", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then the report lists the final topics", func() {
			w := do(mux, http.MethodGet, "/clients/demo/report", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			r := decode[service.ReportView](w)
			So(r.FinalTopics, ShouldHaveLength, 2)
			So(r.Process.TopicValidation.Completed, ShouldBeTrue)
		})

		Convey("Then the dashboard reports full progress", func() {
			w := do(mux, http.MethodGet, "/clients/demo/dashboard", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[service.DashboardView](w).OverallProgress, ShouldEqual, 100)
		})
	})
}

func TestTemplatesHandler(t *testing.T) {
	Convey("Given a client and a template", t, func() {
		svc := newService()
		defer svc.Stop()
		mux := newMux(svc)
		c := decode[model.Client](do(mux, http.MethodPost, "/clients", `{"name":"Acme"}`))

		w := do(mux, http.MethodPost, "/templates",
			`{"name":"Core","topics":[{"name":"Energy","category":"Environmental"},{"name":"Employment","category":"Social"}]}`)
		So(w.Code, ShouldEqual, http.StatusCreated)
		tpl := decode[model.Template](w)

		Convey("When loading the template into the client", func() {
			w := do(mux, http.MethodPost, "/clients/"+c.ID+"/templates/"+tpl.ID+"/load", "")

			Convey("Then the client's topics are replaced", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				topics := decode[[]model.MaterialTopic](do(mux, http.MethodGet, "/clients/"+c.ID+"/material-topics", ""))
				So(topics, ShouldHaveLength, 2)
				So(topics[1].Name, ShouldEqual, "Employment")
			})
		})

		Convey("When the template is managed through the catalog", func() {
			So(decode[[]model.Template](do(mux, http.MethodGet, "/templates", "")), ShouldHaveLength, 1)
			So(do(mux, http.MethodGet, "/templates/"+tpl.ID, "").Code, ShouldEqual, http.StatusOK)
			So(do(mux, http.MethodPut, "/templates/"+tpl.ID, `{"name":"Core v2","topics":[]}`).Code, ShouldEqual, http.StatusOK)
			So(do(mux, http.MethodDelete, "/templates/"+tpl.ID, "").Code, ShouldEqual, http.StatusNoContent)
			So(do(mux, http.MethodGet, "/templates/"+tpl.ID, "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When loading an unknown template", func() {
			So(do(mux, http.MethodPost, "/clients/"+c.ID+"/templates/missing/load", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}
