package smoothing_test

import (
	"math"
	"testing"

	"github.com/fantasyforge/forge/internal/domain/model"
	"github.com/fantasyforge/forge/internal/domain/smoothing"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSmoother_Smooth(t *testing.T) {
	Convey("Given a smoother with configured half-lives", t, func() {
		smoother := smoothing.New(
			smoothing.WithHalfLives(map[model.Component]float64{
				model.ComponentUsage:  1.5,
				model.ComponentTalent: 3.0,
			}),
			smoothing.WithMaxWeeklyDelta(10),
		)

		Convey("When a bypass flag is present", func() {
			Convey("Then the raw value is used verbatim", func() {
				So(smoother.Smooth(model.ComponentUsage, 40, true, 95, true), ShouldEqual, 95)
				So(smoother.Smooth(model.ComponentTalent, 90, true, 5, true), ShouldEqual, 5)
			})
		})

		Convey("When there is no prior value", func() {
			Convey("Then the raw value is used verbatim", func() {
				So(smoother.Smooth(model.ComponentUsage, 0, false, 77, false), ShouldEqual, 77)
			})
		})

		Convey("When blending against a prior value", func() {
			prev, raw := 60.0, 66.0
			got := smoother.Smooth(model.ComponentUsage, prev, true, raw, false)

			Convey("Then the value follows the exponential decay blend", func() {
				decay := math.Pow(0.5, 1.0/1.5)
				want := prev*decay + raw*(1-decay)
				So(got, ShouldAlmostEqual, want, 1e-9)
			})

			Convey("And slower components move less for the same jump", func() {
				talent := smoother.Smooth(model.ComponentTalent, prev, true, raw, false)
				So(math.Abs(talent-prev), ShouldBeLessThan, math.Abs(got-prev))
			})
		})

		Convey("When the raw value jumps far beyond the weekly cap", func() {
			got := smoother.Smooth(model.ComponentUsage, 30, true, 100, false)

			Convey("Then movement is capped at max weekly delta", func() {
				So(math.Abs(got-30), ShouldBeLessThanOrEqualTo, 10)
			})

			Convey("And the cap binds symmetrically on collapses", func() {
				down := smoother.Smooth(model.ComponentUsage, 80, true, 0, false)
				So(down, ShouldBeGreaterThanOrEqualTo, 70)
			})
		})

		Convey("When scanning arbitrary prior/raw pairs without bypass", func() {
			Convey("Then |new - previous| never exceeds the cap", func() {
				for prev := 0.0; prev <= 100; prev += 20 {
					for raw := 0.0; raw <= 100; raw += 20 {
						got := smoother.Smooth(model.ComponentUsage, prev, true, raw, false)
						So(math.Abs(got-prev), ShouldBeLessThanOrEqualTo, 10+1e-9)
					}
				}
			})
		})
	})
}

func TestSmoother_Decay(t *testing.T) {
	Convey("Given configured half-lives", t, func() {
		smoother := smoothing.New()

		Convey("Then the decay factor follows 0.5^(1/halfLife)", func() {
			So(smoother.Decay(model.ComponentUsage), ShouldAlmostEqual, math.Pow(0.5, 1/1.5), 1e-9)
			So(smoother.Decay(model.ComponentTalent), ShouldAlmostEqual, math.Pow(0.5, 1.0/3), 1e-9)
		})

		Convey("And a half-life week halves the distance to a constant signal", func() {
			// Feeding the same raw value for halfLife weeks should close
			// half the gap from the starting point.
			decay := smoother.Decay(model.ComponentTalent)
			gap := 1.0
			for week := 0; week < 3; week++ {
				gap *= decay
			}
			So(gap, ShouldAlmostEqual, 0.5, 1e-9)
		})
	})
}
