package signals_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fantasyforge/forge/internal/adapters/signals"
	"github.com/fantasyforge/forge/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// slowLoader blocks until its context is cancelled.
type slowLoader struct{}

func (slowLoader) wait(ctx context.Context) (signals.Value, error) {
	<-ctx.Done()
	return signals.Value{}, ctx.Err()
}

func (l slowLoader) Usage(ctx context.Context, _ string, _, _ int) (signals.Value, error) {
	return l.wait(ctx)
}
func (l slowLoader) Talent(ctx context.Context, _ string, _, _ int) (signals.Value, error) {
	return l.wait(ctx)
}
func (l slowLoader) Environment(ctx context.Context, _ string, _, _ int) (signals.Value, error) {
	return l.wait(ctx)
}
func (l slowLoader) Availability(ctx context.Context, _ string, _, _ int) (signals.Value, error) {
	return l.wait(ctx)
}
func (l slowLoader) Market(ctx context.Context, _ string, _, _ int) (signals.Value, error) {
	return l.wait(ctx)
}

func TestLoadAll(t *testing.T) {
	Convey("Given a static signal loader", t, func() {
		ctx := context.Background()
		loader := signals.NewStaticLoader()

		Convey("When every component has a value", func() {
			loader.Set("wr-chase", 2025, 3, model.ComponentUsage, 82)
			loader.Set("wr-chase", 2025, 3, model.ComponentTalent, 90)
			loader.Set("wr-chase", 2025, 3, model.ComponentEnvironment, 64)
			loader.Set("wr-chase", 2025, 3, model.ComponentAvailability, 100)
			loader.Set("wr-chase", 2025, 3, model.ComponentMarket, 77)

			Convey("Then all five come back", func() {
				got, err := signals.LoadAll(ctx, loader, "wr-chase", 2025, 3, time.Second)
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 5)
				So(got[model.ComponentTalent], ShouldEqual, 90.0)
			})
		})

		Convey("When a component is absent", func() {
			loader.Set("wr-chase", 2025, 3, model.ComponentUsage, 82)
			loader.SetAbsent("wr-chase", 2025, 3, model.ComponentMarket)

			Convey("Then absence leaves the key out rather than writing zero", func() {
				got, err := signals.LoadAll(ctx, loader, "wr-chase", 2025, 3, time.Second)
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 1)

				_, ok := got[model.ComponentMarket]
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When no components exist for the player at all", func() {
			got, err := signals.LoadAll(ctx, loader, "nobody", 2025, 3, time.Second)

			Convey("Then the load succeeds with an empty map", func() {
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 0)
			})
		})

		Convey("When a provider stalls past the per-call timeout", func() {
			_, err := signals.LoadAll(ctx, slowLoader{}, "wr-chase", 2025, 3, 10*time.Millisecond)

			Convey("Then the load aborts with a deadline error", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
			})
		})

		Convey("When the parent context is already cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			loader.Set("wr-chase", 2025, 3, model.ComponentUsage, 82)

			_, err := signals.LoadAll(cancelled, loader, "wr-chase", 2025, 3, time.Second)

			Convey("Then the load fails fast", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}
