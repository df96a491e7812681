package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	service "github.com/okian/rangers/internal/app"
	"github.com/okian/rangers/internal/config"
	"github.com/okian/rangers/pkg/logger"
	"github.com/okian/rangers/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

// gaugeValue reads a single unlabelled gauge from the global registry.
func gaugeValue(name string) float64 {
	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		return 0
	}
	for _, mf := range families {
		if mf.GetName() == name && len(mf.GetMetric()) > 0 {
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	return 0
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("RANGERS_ADDR", ":8080")
			_ = os.Setenv("RANGERS_TIMELINE_STEP_MS", "1000")
			defer func() {
				_ = os.Unsetenv("RANGERS_ADDR")
				_ = os.Unsetenv("RANGERS_TIMELINE_STEP_MS")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")

				svc := service.New(service.WithStep(cfg.TimelineStep()))
				convey.So(svc.GetStats()["stepMs"], convey.ShouldEqual, int64(1000))
			})
		})

		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("RANGERS_LOG_FORMAT", "xml")
			defer func() { _ = os.Unsetenv("RANGERS_LOG_FORMAT") }()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given the application mux", t, func() {
		ctx := context.Background()
		svc := service.New()
		mux := newMux(ctx, svc, logger.Nop())

		routes := []string{
			"/", "/healthz", "/stats", "/widget", "/characters",
			"/placeholder", "/snapshot", "/timeline",
			"/api-docs", "/openapi.yaml", "/openapi.json",
		}
		for _, route := range routes {
			req := httptest.NewRequest(http.MethodGet, route, http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
		}
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should return once the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx, 10*time.Millisecond)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then the goroutine gauge is set", func() {
				updateSystemMetrics()
				convey.So(gaugeValue("rangers_widget_system_goroutine_count"), convey.ShouldBeGreaterThan, 0)
			})
		})

		convey.Convey("When testing the stats reporter", func() {
			var buf bytes.Buffer
			convey.So(logger.Init(logger.WithWriter(&buf)), convey.ShouldBeNil)
			_ = logger.SetLevelString("debug")
			defer func() { _ = logger.SetLevelString("info") }()

			svc := service.New()
			reportStats(context.Background(), svc, logger.Get())

			convey.Convey("Then the counters are logged", func() {
				convey.So(buf.String(), convey.ShouldContainSubstring, "service stats")
				convey.So(buf.String(), convey.ShouldContainSubstring, "stepMs=5000")
			})
		})

		convey.Convey("When testing the stats reporter loop", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			convey.So(func() {
				startStatsReporter(ctx, service.New(), logger.Nop())
			}, convey.ShouldNotPanic)
		})
	})
}

func TestMetricsOptions(t *testing.T) {
	convey.Convey("Given a config with metrics settings", t, func() {
		cfg := config.New()
		cfg.MetricsNamespace = "hosts"
		cfg.MetricsPrefix = "v2"
		cfg.MetricsRefreshMS = 1500
		cfg.MetricsLabels = map[string]string{"region": "eu"}
		cfg.MetricsBuckets = []float64{1, 10}

		convey.Convey("When the global manager is built from it", func() {
			mgr := metrics.Init(metricsOptions(cfg)...)
			defer metrics.Init()

			updateSystemMetrics()

			convey.Convey("Then the refresh interval drives the updater", func() {
				convey.So(mgr.RefreshInterval(), convey.ShouldEqual, 1500*time.Millisecond)
				convey.So(mgr.Enabled(), convey.ShouldBeTrue)
			})

			convey.Convey("Then metrics use the configured names", func() {
				convey.So(gaugeValue("hosts_widget_v2_system_goroutine_count"), convey.ShouldBeGreaterThan, 0)
				convey.So(gaugeValue("rangers_widget_system_goroutine_count"), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When metrics are disabled", func() {
			cfg.MetricsEnabled = false
			mgr := metrics.Init(metricsOptions(cfg)...)
			defer metrics.Init()

			updateSystemMetrics()

			convey.Convey("Then nothing is recorded", func() {
				convey.So(mgr.Enabled(), convey.ShouldBeFalse)
				convey.So(gaugeValue("hosts_widget_v2_system_goroutine_count"), convey.ShouldEqual, 0)
			})
		})
	})
}
