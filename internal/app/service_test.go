package service_test

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	service "github.com/okian/rangers/internal/app"
	"github.com/okian/rangers/internal/domain/character"
	"github.com/okian/rangers/internal/domain/timeline"
	"github.com/okian/rangers/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return t0 }

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			So(svc.Catalog(), ShouldEqual, character.Default())
			So(svc.GetStats()["stepMs"], ShouldEqual, int64(5000))
			So(svc.Describe().Kind, ShouldEqual, "EmojiRangerWidget")
			So(len(svc.Characters()), ShouldEqual, len(character.All()))
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithStep(time.Minute),
			service.WithClock(fixedClock),
			service.WithLogger(logger.Nop()),
		)

		Convey("Then the options are applied", func() {
			So(svc.Now(), ShouldEqual, t0)
			So(svc.GetStats()["stepMs"], ShouldEqual, int64(60000))
		})
	})
}

func TestService_Timeline(t *testing.T) {
	Convey("Given a service with a fixed clock", t, func() {
		svc := service.New(service.WithClock(fixedClock), service.WithStep(time.Minute))
		ctx := context.Background()

		Convey("When requesting a timeline for cake", func() {
			tl := svc.Timeline(ctx, "cake")

			Convey("Then Egghead is shown from the current time", func() {
				So(len(tl.Entries), ShouldBeGreaterThan, 0)
				So(tl.Entries[0].Date, ShouldEqual, t0)
				So(tl.Entries[0].Character, ShouldEqual, character.Egghead)
				So(tl.Policy.Kind, ShouldEqual, timeline.PolicyAtEnd)
			})

			Convey("And the counters are updated", func() {
				stats := svc.GetStats()
				So(stats["timelines"], ShouldEqual, int64(1))
				So(stats["entries"], ShouldEqual, int64(len(tl.Entries)))
				So(stats["resolverFallbacks"], ShouldEqual, int64(0))
			})
		})

		Convey("When requesting a timeline at a host supplied time", func() {
			later := t0.Add(time.Hour)
			tl := svc.TimelineAt(ctx, "panda", later)

			Convey("Then it starts at that time", func() {
				So(tl.Entries[0].Date, ShouldEqual, later)
				So(tl.Entries[0].Character, ShouldEqual, character.Spook)
			})
		})

		Convey("When the selection is unknown", func() {
			_ = svc.Timeline(ctx, "dragon")
			_ = svc.Timeline(ctx, "")

			Convey("Then both requests count as fallbacks", func() {
				So(svc.GetStats()["resolverFallbacks"], ShouldEqual, int64(2))
			})
		})
	})
}

func TestService_Snapshot(t *testing.T) {
	Convey("Given a service logging to a buffer", t, func() {
		var buf bytes.Buffer
		So(logger.Init(logger.WithWriter(&buf)), ShouldBeNil)
		svc := service.New(service.WithClock(fixedClock), service.WithLogger(logger.Get()))
		ctx := context.Background()

		Convey("When taking a snapshot of a known character", func() {
			e := svc.Snapshot(ctx, "spouty")

			Convey("Then one unscored entry at now is returned", func() {
				So(e.Date, ShouldEqual, t0)
				So(e.Relevance, ShouldBeNil)
				So(e.Character, ShouldEqual, character.Spouty)
				So(svc.GetStats()["snapshots"], ShouldEqual, int64(1))
			})
		})

		Convey("When taking a snapshot of an unknown character", func() {
			e := svc.SnapshotAt(ctx, "dragon", t0.Add(time.Minute))

			Convey("Then the default character is shown and the fallback is logged", func() {
				So(e.Character, ShouldEqual, character.Panda)
				So(e.Date, ShouldEqual, t0.Add(time.Minute))
				So(strings.Contains(buf.String(), "selection=dragon"), ShouldBeTrue)
			})
		})

		Convey("When asking for a placeholder", func() {
			e := svc.Placeholder(ctx)

			Convey("Then Panda is returned", func() {
				So(e.Character, ShouldEqual, character.Panda)
				So(e.Relevance, ShouldBeNil)
				So(svc.GetStats()["placeholders"], ShouldEqual, int64(1))
			})
		})
	})
}

func TestService_Concurrent(t *testing.T) {
	Convey("Given a shared service", t, func() {
		svc := service.New(service.WithClock(fixedClock), service.WithStep(time.Minute))
		ctx := context.Background()

		Convey("When many goroutines generate timelines", func() {
			const n = 16
			results := make([]int, n)
			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i] = len(svc.Timeline(ctx, "owl").Entries)
				}(i)
			}
			wg.Wait()

			Convey("Then every result is identical and counted", func() {
				for _, r := range results {
					So(r, ShouldEqual, results[0])
				}
				So(svc.GetStats()["timelines"], ShouldEqual, int64(n))
			})
		})
	})
}
