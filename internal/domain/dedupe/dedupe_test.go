package dedupe_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/fantasyforge/forge/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given an in-memory deduper", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))

		Convey("When an id is recorded for the first time", func() {
			seen := d.SeenAndRecord(ctx, "evt-1")

			Convey("Then it is reported as new", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And the second delivery is reported as seen", func() {
				So(d.SeenAndRecord(ctx, "evt-1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When an id is unrecorded", func() {
			d.SeenAndRecord(ctx, "evt-2")
			d.Unrecord(ctx, "evt-2")

			Convey("Then it can be recorded again", func() {
				So(d.SeenAndRecord(ctx, "evt-2"), ShouldBeFalse)
			})
		})

		Convey("When the cache exceeds its bound", func() {
			for i := 0; i < 5; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("evt-%d", i))
			}

			Convey("Then the oldest ids are evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "evt-0"), ShouldBeFalse)
				So(d.SeenAndRecord(ctx, "evt-4"), ShouldBeTrue)
			})
		})
	})
}
