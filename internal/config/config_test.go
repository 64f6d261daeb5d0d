package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/fantasyforge/forge/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConfigValidate(t *testing.T) {
	Convey("Given a default configuration", t, func() {
		cfg := config.New()

		Convey("Then it validates cleanly", func() {
			So(cfg.Validate(), ShouldBeNil)
		})

		Convey("When the base weights do not sum to one", func() {
			cfg.BaseWeights["usage"] = 0.5

			Convey("Then validation fails", func() {
				err := cfg.Validate()
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When a base weight is negative", func() {
			cfg.BaseWeights["usage"] = -0.1
			cfg.BaseWeights["talent"] = 0.65

			Convey("Then validation fails", func() {
				So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When an override names an unknown component", func() {
			cfg.PositionWeightOverrides["RB"] = map[string]float64{"luck": 0.2}

			Convey("Then validation fails", func() {
				So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When a sensitivity falls outside [0,1]", func() {
			cfg.MatchupSensitivity = 1.5

			Convey("Then validation fails", func() {
				So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When a half-life is not positive", func() {
			cfg.HalfLifeWeeks["usage"] = 0

			Convey("Then validation fails", func() {
				So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When the drain interval is not positive", func() {
			cfg.DrainIntervalSeconds = 0

			Convey("Then validation fails", func() {
				So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When the season is missing", func() {
			cfg.Season = 0

			Convey("Then validation fails", func() {
				So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given the config loader", t, func() {
		ctx := context.Background()

		Convey("When nothing is set in the environment", func() {
			cfg, err := config.Load(ctx)

			Convey("Then the defaults come back", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9090")
				So(cfg.Week, ShouldEqual, 1)
				So(cfg.BaseWeights["usage"], ShouldEqual, 0.30)
			})
		})

		Convey("When environment variables override scalars", func() {
			So(os.Setenv("FORGE_ADDR", ":8088"), ShouldBeNil)
			So(os.Setenv("FORGE_WEEK", "7"), ShouldBeNil)
			defer func() {
				_ = os.Unsetenv("FORGE_ADDR")
				_ = os.Unsetenv("FORGE_WEEK")
			}()

			cfg, err := config.Load(ctx)

			Convey("Then the overrides win over the defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":8088")
				So(cfg.Week, ShouldEqual, 7)
			})
		})

		Convey("When a config file is provided", func() {
			path := writeTempConfig(`
addr: ":7070"
week: 4
max_weekly_delta: 20
`)
			So(os.Setenv("FORGE_CONFIG", path), ShouldBeNil)
			defer func() {
				_ = os.Unsetenv("FORGE_CONFIG")
				_ = os.Remove(path)
			}()

			cfg, err := config.Load(ctx)

			Convey("Then file values layer over the defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.Week, ShouldEqual, 4)
				So(cfg.MaxWeeklyDelta, ShouldEqual, 20.0)
				// Untouched keys keep their defaults.
				So(cfg.Season, ShouldEqual, 2025)
			})

			Convey("And env vars still win over the file", func() {
				So(os.Setenv("FORGE_WEEK", "9"), ShouldBeNil)
				defer func() { _ = os.Unsetenv("FORGE_WEEK") }()

				cfg, err := config.Load(ctx)
				So(err, ShouldBeNil)
				So(cfg.Week, ShouldEqual, 9)
			})
		})

		Convey("When the config file does not exist", func() {
			So(os.Setenv("FORGE_CONFIG", "/nonexistent/forge.yaml"), ShouldBeNil)
			defer func() { _ = os.Unsetenv("FORGE_CONFIG") }()

			_, err := config.Load(ctx)

			Convey("Then loading fails with a load error", func() {
				So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
			})
		})

		Convey("When an override makes the config invalid", func() {
			So(os.Setenv("FORGE_DRAIN_INTERVAL_SECONDS", "0"), ShouldBeNil)
			defer func() { _ = os.Unsetenv("FORGE_DRAIN_INTERVAL_SECONDS") }()

			_, err := config.Load(ctx)

			Convey("Then loading fails validation", func() {
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}

func writeTempConfig(content string) string {
	f, err := os.CreateTemp("", "forge-config-*.yaml")
	So(err, ShouldBeNil)
	defer func() { _ = f.Close() }()
	_, err = f.WriteString(content)
	So(err, ShouldBeNil)
	return f.Name()
}
