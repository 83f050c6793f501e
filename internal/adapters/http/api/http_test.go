package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/medatlas/kolserve/internal/adapters/http/api"
	"github.com/medatlas/kolserve/internal/adapters/repository"
	"github.com/medatlas/kolserve/internal/app"
	"github.com/medatlas/kolserve/internal/domain/model"
	"github.com/medatlas/kolserve/internal/domain/query"
	"github.com/medatlas/kolserve/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDeps is a fixture-backed implementation of api.Dependencies.
type mockDeps struct {
	records  []model.KOL
	statsErr error
}

func (m *mockDeps) ListKOLs(_ context.Context, f query.Filter) ([]model.KOL, error) {
	return query.Search(m.records, f), nil
}

func (m *mockDeps) GetKOL(_ context.Context, id string) (model.KOL, error) {
	for _, k := range m.records {
		if k.ID == id {
			return k, nil
		}
	}
	return model.KOL{}, repository.ErrNotFound
}

func (m *mockDeps) Statistics(_ context.Context) (stats.Summary, error) {
	if m.statsErr != nil {
		return stats.Summary{}, m.statsErr
	}
	return stats.Compute(m.records)
}

func (m *mockDeps) Countries(_ context.Context) ([]string, error) {
	return query.Countries(m.records), nil
}

func (m *mockDeps) ExpertiseAreas(_ context.Context) ([]string, error) {
	return query.ExpertiseAreas(m.records), nil
}

func (m *mockDeps) Health(_ context.Context) app.HealthReport {
	return app.HealthReport{
		Status:     "healthy",
		Version:    "test",
		DataSource: "fixture",
		TotalKOLs:  len(m.records),
	}
}

func testRecords() []model.KOL {
	return []model.KOL{
		{ID: "1", Name: "Dr. Sarah Johnson", Affiliation: "Harvard Medical School", Country: "United States", ExpertiseArea: "Dermatology", PublicationsCount: 10, HIndex: 5, Citations: 100},
		{ID: "2", Name: "Dr. Kenji Tanaka", Affiliation: "Kyoto University", Country: "Japan", ExpertiseArea: "Vitiligo", PublicationsCount: 20, HIndex: 8, Citations: 200},
	}
}

func newTestMux(deps api.Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	server := api.NewServer(deps, []string{"http://localhost:5173"})
	server.Register(context.Background(), mux)
	return mux
}

func doGet(mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestListKOLsEndpoint(t *testing.T) {
	Convey("Given the API with two records", t, func() {
		mux := newTestMux(&mockDeps{records: testRecords()})

		Convey("When listing without filters", func() {
			rec := doGet(mux, "/api/kols")

			Convey("Then all records come back in order", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got []model.KOL
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(len(got), ShouldEqual, 2)
				So(got[0].ID, ShouldEqual, "1")
			})
		})

		Convey("When filtering by country", func() {
			rec := doGet(mux, "/api/kols?country=Japan")

			Convey("Then only the matching record comes back", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got []model.KOL
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(len(got), ShouldEqual, 1)
				So(got[0].ID, ShouldEqual, "2")
			})
		})

		Convey("When filtering by an h-index range", func() {
			rec := doGet(mux, "/api/kols?minHIndex=6&maxHIndex=10")

			Convey("Then the bounds apply inclusively", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got []model.KOL
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(len(got), ShouldEqual, 1)
				So(got[0].HIndex, ShouldEqual, 8)
			})
		})

		Convey("When a numeric filter is malformed", func() {
			rec := doGet(mux, "/api/kols?minHIndex=abc")

			Convey("Then the request is rejected with 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When a numeric filter is negative", func() {
			rec := doGet(mux, "/api/kols?maxHIndex=-3")

			Convey("Then the request is rejected with 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestGetKOLEndpoint(t *testing.T) {
	Convey("Given the API with two records", t, func() {
		mux := newTestMux(&mockDeps{records: testRecords()})

		Convey("When fetching an existing id", func() {
			rec := doGet(mux, "/api/kols/2")

			Convey("Then the record is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got model.KOL
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got.Name, ShouldEqual, "Dr. Kenji Tanaka")
			})
		})

		Convey("When fetching a missing id", func() {
			rec := doGet(mux, "/api/kols/999")

			Convey("Then the response is a 404 naming the id", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
				So(rec.Body.String(), ShouldContainSubstring, "not_found")
			})
		})

		Convey("When the id segment is nested", func() {
			rec := doGet(mux, "/api/kols/1/extra")

			Convey("Then the request is rejected with 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("Given the API with records", t, func() {
		mux := newTestMux(&mockDeps{records: testRecords()})

		Convey("When requesting statistics", func() {
			rec := doGet(mux, "/api/kols/stats")

			Convey("Then the summary is served with camelCase keys", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				body := rec.Body.String()
				So(body, ShouldContainSubstring, `"totalKOLs":2`)
				So(body, ShouldContainSubstring, `"topCitationRatioKOL"`)
				So(body, ShouldContainSubstring, `"avgCitationsPerPublication"`)
			})
		})
	})

	Convey("Given the API over an empty dataset", t, func() {
		mux := newTestMux(&mockDeps{statsErr: stats.ErrEmptyDataset})

		Convey("When requesting statistics", func() {
			rec := doGet(mux, "/api/kols/stats")

			Convey("Then the engine error surfaces as 500", func() {
				So(rec.Code, ShouldEqual, http.StatusInternalServerError)
				So(rec.Body.String(), ShouldContainSubstring, "empty_dataset")
			})
		})
	})
}

func TestMetaEndpoints(t *testing.T) {
	Convey("Given the API with records", t, func() {
		mux := newTestMux(&mockDeps{records: testRecords()})

		Convey("When listing countries", func() {
			rec := doGet(mux, "/api/kols/meta/countries")

			Convey("Then the sorted list is served", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got []string
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldResemble, []string{"Japan", "United States"})
			})
		})

		Convey("When listing expertise areas", func() {
			rec := doGet(mux, "/api/kols/meta/expertise-areas")

			Convey("Then the sorted list is served", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got []string
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldResemble, []string{"Dermatology", "Vitiligo"})
			})
		})
	})
}

func TestHealthEndpoint(t *testing.T) {
	Convey("Given the API with records", t, func() {
		mux := newTestMux(&mockDeps{records: testRecords()})

		Convey("When probing health", func() {
			rec := doGet(mux, "/health")

			Convey("Then the report carries status and counts", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got app.HealthReport
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got.Status, ShouldEqual, "healthy")
				So(got.TotalKOLs, ShouldEqual, 2)
			})
		})
	})
}

func TestCORS(t *testing.T) {
	Convey("Given the API with an allowed origin", t, func() {
		mux := newTestMux(&mockDeps{records: testRecords()})

		Convey("When a request carries the allowed origin", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/kols", nil)
			req.Header.Set("Origin", "http://localhost:5173")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then CORS headers are set", func() {
				So(rec.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "http://localhost:5173")
			})
		})

		Convey("When a request carries an unknown origin", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/kols", nil)
			req.Header.Set("Origin", "http://evil.example")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then no CORS headers are set", func() {
				So(rec.Header().Get("Access-Control-Allow-Origin"), ShouldBeEmpty)
			})
		})

		Convey("When a preflight request arrives", func() {
			req := httptest.NewRequest(http.MethodOptions, "/api/kols", nil)
			req.Header.Set("Origin", "http://localhost:5173")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it short-circuits with 204", func() {
				So(rec.Code, ShouldEqual, http.StatusNoContent)
				So(rec.Header().Get("Access-Control-Allow-Methods"), ShouldContainSubstring, "GET")
			})
		})
	})
}
