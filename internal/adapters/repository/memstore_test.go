package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/medatlas/kolserve/internal/adapters/repository"
	"github.com/medatlas/kolserve/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const fixtureJSON = `[
  {"id": "1", "name": "Dr. Sarah Johnson", "affiliation": "Harvard Medical School", "country": "United States", "city": "Boston", "expertiseArea": "Dermatology", "publicationsCount": 10, "hIndex": 5, "citations": 100},
  {"id": "2", "name": "Dr. Kenji Tanaka", "affiliation": "Kyoto University", "country": "Japan", "expertiseArea": "Vitiligo", "publicationsCount": 20, "hIndex": 8, "citations": 200},
  {"id": "3", "name": "Dr. Maria Rossi", "affiliation": "University of Milan", "country": "Italy", "expertiseArea": "Dermatology", "publicationsCount": 5, "hIndex": 3, "citations": 50}
]`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kols.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMemStoreLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given a valid data file", t, func() {
		path := writeFixture(t, fixtureJSON)
		store := repository.NewMemStore(
			repository.WithPath(path),
			repository.WithLogger(logger.Nop()),
		)

		Convey("When loading", func() {
			err := store.Load(ctx)

			Convey("Then all records are available in order", func() {
				So(err, ShouldBeNil)
				So(store.Count(ctx), ShouldEqual, 3)

				all := store.All(ctx)
				So(all[0].ID, ShouldEqual, "1")
				So(all[1].ID, ShouldEqual, "2")
				So(all[2].ID, ShouldEqual, "3")
			})

			Convey("Then every record is reachable by id", func() {
				So(err, ShouldBeNil)
				for _, want := range store.All(ctx) {
					got, lookupErr := store.ByID(ctx, want.ID)
					So(lookupErr, ShouldBeNil)
					So(got, ShouldResemble, want)
				}
			})

			Convey("Then mutating the returned slice leaves the store intact", func() {
				So(err, ShouldBeNil)
				all := store.All(ctx)
				all[0].Name = "mutated"
				So(store.All(ctx)[0].Name, ShouldEqual, "Dr. Sarah Johnson")
			})

			Convey("Then a second load is a no-op", func() {
				So(err, ShouldBeNil)
				So(store.Load(ctx), ShouldBeNil)
				So(store.Count(ctx), ShouldEqual, 3)
			})
		})

		Convey("When looking up an unknown id", func() {
			So(store.Load(ctx), ShouldBeNil)
			_, err := store.ByID(ctx, "999")

			Convey("Then it returns ErrNotFound naming the id", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "999")
			})
		})
	})

	Convey("Given a missing data file", t, func() {
		store := repository.NewMemStore(repository.WithPath("/nonexistent/kols.json"))

		Convey("Then Load fails with ErrSourceNotFound", func() {
			err := store.Load(ctx)
			So(errors.Is(err, repository.ErrSourceNotFound), ShouldBeTrue)
		})
	})

	Convey("Given a file that is not valid JSON", t, func() {
		path := writeFixture(t, "{not json")
		store := repository.NewMemStore(repository.WithPath(path))

		Convey("Then Load fails with ErrMalformedSource", func() {
			err := store.Load(ctx)
			So(errors.Is(err, repository.ErrMalformedSource), ShouldBeTrue)
		})
	})

	Convey("Given a file with one invalid record", t, func() {
		bad := `[
  {"id": "1", "name": "Dr. A", "affiliation": "Inst", "country": "France", "expertiseArea": "Vitiligo", "publicationsCount": 10, "hIndex": 5, "citations": 100},
  {"id": "2", "name": "Dr. B", "affiliation": "Inst", "country": "France", "expertiseArea": "Vitiligo", "publicationsCount": 3, "hIndex": 5, "citations": 10}
]`
		path := writeFixture(t, bad)
		store := repository.NewMemStore(repository.WithPath(path))

		Convey("Then the whole load fails, never a partial set", func() {
			err := store.Load(ctx)
			So(errors.Is(err, repository.ErrInvalidRecord), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, `id "2"`)
			So(store.Count(ctx), ShouldEqual, 0)
		})
	})

	Convey("Given a file with duplicate ids", t, func() {
		dup := `[
  {"id": "1", "name": "Dr. First", "affiliation": "Inst", "country": "France", "expertiseArea": "Vitiligo", "publicationsCount": 10, "hIndex": 5, "citations": 100},
  {"id": "1", "name": "Dr. Second", "affiliation": "Inst", "country": "France", "expertiseArea": "Vitiligo", "publicationsCount": 20, "hIndex": 8, "citations": 200}
]`
		path := writeFixture(t, dup)
		store := repository.NewMemStore(
			repository.WithPath(path),
			repository.WithLogger(logger.Nop()),
		)

		Convey("When loading", func() {
			So(store.Load(ctx), ShouldBeNil)

			Convey("Then the ordered sequence keeps both entries", func() {
				So(store.Count(ctx), ShouldEqual, 2)
			})

			Convey("Then the index keeps the later record", func() {
				got, err := store.ByID(ctx, "1")
				So(err, ShouldBeNil)
				So(got.Name, ShouldEqual, "Dr. Second")
			})
		})
	})

	Convey("Given an empty JSON array", t, func() {
		path := writeFixture(t, "[]")
		store := repository.NewMemStore(repository.WithPath(path))

		Convey("Then the load succeeds with zero records", func() {
			So(store.Load(ctx), ShouldBeNil)
			So(store.Count(ctx), ShouldEqual, 0)
			So(store.All(ctx), ShouldBeEmpty)
		})
	})
}
