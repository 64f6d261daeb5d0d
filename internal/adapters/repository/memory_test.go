package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fantasyforge/forge/internal/adapters/repository"
	"github.com/fantasyforge/forge/internal/domain/calibrate"
	"github.com/fantasyforge/forge/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryPlayerWeekStore(t *testing.T) {
	Convey("Given a player-week store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryPlayerWeekStore()

		rec := model.PlayerWeekRecord{
			PlayerID: "qb-allen",
			Season:   2025,
			Week:     3,
			Position: model.PositionQB,
			TeamID:   "BUF",
			Components: map[model.Component]float64{
				model.ComponentUsage: 70,
			},
			PowerScore: 81.5,
		}

		Convey("When a record is upserted", func() {
			So(store.Upsert(ctx, rec), ShouldBeNil)

			Convey("Then it can be read back", func() {
				got, err := store.Get(ctx, "qb-allen", 2025, 3)
				So(err, ShouldBeNil)
				So(got.PowerScore, ShouldEqual, 81.5)
				So(got.UpdatedAt.IsZero(), ShouldBeFalse)
			})

			Convey("And mutating the returned record does not touch stored state", func() {
				got, err := store.Get(ctx, "qb-allen", 2025, 3)
				So(err, ShouldBeNil)
				got.Components[model.ComponentUsage] = 0

				again, err := store.Get(ctx, "qb-allen", 2025, 3)
				So(err, ShouldBeNil)
				So(again.Components[model.ComponentUsage], ShouldEqual, 70.0)
			})

			Convey("And a second upsert for the same key overwrites it", func() {
				rec.PowerScore = 84
				So(store.Upsert(ctx, rec), ShouldBeNil)

				got, err := store.Get(ctx, "qb-allen", 2025, 3)
				So(err, ShouldBeNil)
				So(got.PowerScore, ShouldEqual, 84.0)
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When a missing key is read", func() {
			_, err := store.Get(ctx, "nobody", 2025, 3)

			Convey("Then it fails with ErrRecordNotFound", func() {
				So(errors.Is(err, repository.ErrRecordNotFound), ShouldBeTrue)
			})
		})

		Convey("When several weeks are stored", func() {
			for _, r := range []model.PlayerWeekRecord{
				{PlayerID: "b", Season: 2025, Week: 3},
				{PlayerID: "a", Season: 2025, Week: 3},
				{PlayerID: "c", Season: 2025, Week: 4},
			} {
				So(store.Upsert(ctx, r), ShouldBeNil)
			}

			Convey("Then ListWeek returns only that week, ordered by id", func() {
				week, err := store.ListWeek(ctx, 2025, 3)
				So(err, ShouldBeNil)
				So(len(week), ShouldEqual, 2)
				So(week[0].PlayerID, ShouldEqual, "a")
				So(week[1].PlayerID, ShouldEqual, "b")
			})
		})
	})
}

func TestMemoryEventLog(t *testing.T) {
	Convey("Given an event log", t, func() {
		ctx := context.Background()
		log := repository.NewMemoryEventLog()

		event := model.Event{
			ID:    "ev-1",
			Type:  model.EventInjuryStatusChange,
			Scope: model.Scope{PlayerID: "rb-hall"},
		}

		Convey("When an event is appended", func() {
			So(log.Append(ctx, event), ShouldBeNil)

			Convey("Then it is pending", func() {
				pending, err := log.Unprocessed(ctx)
				So(err, ShouldBeNil)
				So(len(pending), ShouldEqual, 1)
				So(pending[0].Status, ShouldEqual, model.EventUnprocessed)
				So(log.UnprocessedCount(ctx), ShouldEqual, 1)
			})

			Convey("And appending the same id again fails", func() {
				err := log.Append(ctx, event)
				So(errors.Is(err, repository.ErrEventExists), ShouldBeTrue)
			})

			Convey("And it moves through processing to processed", func() {
				So(log.MarkProcessing(ctx, "ev-1"), ShouldBeNil)
				So(log.UnprocessedCount(ctx), ShouldEqual, 0)
				So(log.MarkProcessed(ctx, "ev-1"), ShouldBeNil)

				Convey("Then the processed state is terminal", func() {
					err := log.MarkProcessing(ctx, "ev-1")
					So(errors.Is(err, repository.ErrEventTerminal), ShouldBeTrue)

					err = log.MarkProcessed(ctx, "ev-1")
					So(errors.Is(err, repository.ErrEventTerminal), ShouldBeTrue)
				})
			})
		})

		Convey("When transitioning an unknown event", func() {
			err := log.MarkProcessing(ctx, "ghost")

			Convey("Then it fails with ErrEventNotFound", func() {
				So(errors.Is(err, repository.ErrEventNotFound), ShouldBeTrue)
			})
		})

		Convey("When several events are appended", func() {
			for _, id := range []string{"ev-1", "ev-2", "ev-3"} {
				So(log.Append(ctx, model.Event{ID: id, Type: model.EventDepthChartChange, Scope: model.Scope{TeamID: "NYJ"}}), ShouldBeNil)
			}
			So(log.MarkProcessing(ctx, "ev-2"), ShouldBeNil)
			So(log.MarkProcessed(ctx, "ev-2"), ShouldBeNil)

			Convey("Then Unprocessed returns the rest oldest first", func() {
				pending, err := log.Unprocessed(ctx)
				So(err, ShouldBeNil)
				So(len(pending), ShouldEqual, 2)
				So(pending[0].ID, ShouldEqual, "ev-1")
				So(pending[1].ID, ShouldEqual, "ev-3")
			})
		})
	})
}

func TestMemoryAnchorStore(t *testing.T) {
	Convey("Given an anchor store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryAnchorStore()

		Convey("When no anchors are installed for a position", func() {
			a := store.Anchors(ctx, model.PositionWR)

			Convey("Then it serves the defaults", func() {
				So(a, ShouldResemble, calibrate.DefaultAnchors())
			})
		})

		Convey("When valid anchors are installed", func() {
			custom := calibrate.Anchors{P10: 30, P25: 42, P50: 55, P75: 68, P90: 82}
			So(store.SetAnchors(ctx, model.PositionQB, custom), ShouldBeNil)

			Convey("Then that position serves them and others keep the defaults", func() {
				So(store.Anchors(ctx, model.PositionQB), ShouldResemble, custom)
				So(store.Anchors(ctx, model.PositionRB), ShouldResemble, calibrate.DefaultAnchors())
			})
		})

		Convey("When invalid anchors are installed", func() {
			bad := calibrate.Anchors{P10: 80, P25: 60, P50: 50, P75: 40, P90: 20}
			err := store.SetAnchors(ctx, model.PositionQB, bad)

			Convey("Then the store rejects them", func() {
				So(err, ShouldNotBeNil)
				So(store.Anchors(ctx, model.PositionQB), ShouldResemble, calibrate.DefaultAnchors())
			})
		})
	})
}

func TestMemoryRankingStore(t *testing.T) {
	Convey("Given a ranking store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryRankingStore()

		valid := []model.RankingEntry{
			{Season: 2025, Week: 3, Type: model.RankingOverall, Rank: 1, PlayerID: "a", PowerScore: 90},
			{Season: 2025, Week: 3, Type: model.RankingOverall, Rank: 2, PlayerID: "b", PowerScore: 85},
			{Season: 2025, Week: 3, Type: model.RankingOverall, Rank: 3, PlayerID: "c", PowerScore: 85},
		}

		Convey("When a valid board is installed", func() {
			So(store.ReplaceBoard(ctx, 2025, 3, model.RankingOverall, valid), ShouldBeNil)

			Convey("Then it can be read back in rank order", func() {
				board, err := store.Board(ctx, 2025, 3, model.RankingOverall)
				So(err, ShouldBeNil)
				So(len(board), ShouldEqual, 3)
				So(board[0].PlayerID, ShouldEqual, "a")
				So(board[2].Rank, ShouldEqual, 3)
			})

			Convey("And a bad replacement leaves it untouched", func() {
				broken := []model.RankingEntry{
					{Season: 2025, Week: 3, Type: model.RankingOverall, Rank: 1, PlayerID: "a", PowerScore: 70},
					{Season: 2025, Week: 3, Type: model.RankingOverall, Rank: 3, PlayerID: "b", PowerScore: 60},
				}
				err := store.ReplaceBoard(ctx, 2025, 3, model.RankingOverall, broken)
				So(errors.Is(err, repository.ErrInvalidBoard), ShouldBeTrue)

				board, err := store.Board(ctx, 2025, 3, model.RankingOverall)
				So(err, ShouldBeNil)
				So(len(board), ShouldEqual, 3)
				So(board[0].PowerScore, ShouldEqual, 90.0)
			})
		})

		Convey("When a board has increasing power scores", func() {
			bad := []model.RankingEntry{
				{Season: 2025, Week: 3, Type: model.RankingOverall, Rank: 1, PlayerID: "a", PowerScore: 50},
				{Season: 2025, Week: 3, Type: model.RankingOverall, Rank: 2, PlayerID: "b", PowerScore: 60},
			}
			err := store.ReplaceBoard(ctx, 2025, 3, model.RankingOverall, bad)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, repository.ErrInvalidBoard), ShouldBeTrue)
			})
		})

		Convey("When an entry sits on the wrong key", func() {
			bad := []model.RankingEntry{
				{Season: 2024, Week: 3, Type: model.RankingOverall, Rank: 1, PlayerID: "a", PowerScore: 50},
			}
			err := store.ReplaceBoard(ctx, 2025, 3, model.RankingOverall, bad)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, repository.ErrInvalidBoard), ShouldBeTrue)
			})
		})

		Convey("When a board was never built", func() {
			_, err := store.Board(ctx, 2025, 9, model.RankingOverall)

			Convey("Then it fails with ErrBoardNotFound", func() {
				So(errors.Is(err, repository.ErrBoardNotFound), ShouldBeTrue)
			})
		})

		Convey("When boards exist for different ranking types", func() {
			So(store.ReplaceBoard(ctx, 2025, 3, model.RankingOverall, valid), ShouldBeNil)
			qbType := model.RankingForPosition(model.PositionQB)
			qb := []model.RankingEntry{
				{Season: 2025, Week: 3, Type: qbType, Rank: 1, PlayerID: "a", PowerScore: 90},
			}
			So(store.ReplaceBoard(ctx, 2025, 3, qbType, qb), ShouldBeNil)

			Convey("Then they are stored independently", func() {
				overall, err := store.Board(ctx, 2025, 3, model.RankingOverall)
				So(err, ShouldBeNil)
				So(len(overall), ShouldEqual, 3)

				qbBoard, err := store.Board(ctx, 2025, 3, qbType)
				So(err, ShouldBeNil)
				So(len(qbBoard), ShouldEqual, 1)
			})
		})
	})
}
