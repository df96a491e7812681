package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/rangers/internal/adapters/http/api"
	service "github.com/okian/rangers/internal/app"
	"github.com/okian/rangers/internal/domain/types"
	"github.com/okian/rangers/pkg/logger"
	"github.com/okian/rangers/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newMux() *http.ServeMux {
	svc := service.New(
		service.WithClock(func() time.Time { return t0 }),
		service.WithStep(time.Minute),
	)
	mux := http.NewServeMux()
	api.NewServer(svc, nil).Register(context.Background(), mux)
	return mux
}

func get(mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux()

		Convey("Then the health endpoint serves metrics", func() {
			w := get(mux, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "rangers_widget_")
		})

		Convey("Then the stats endpoint serves counters", func() {
			w := get(mux, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)

			var stats map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
			So(stats["stepMs"], ShouldEqual, 60000.0)
		})

		Convey("Then the widget endpoint describes the widget", func() {
			w := get(mux, "/widget")
			So(w.Code, ShouldEqual, http.StatusOK)

			var d types.WidgetDescriptor
			So(json.Unmarshal(w.Body.Bytes(), &d), ShouldBeNil)
			So(d.Kind, ShouldEqual, "EmojiRangerWidget")
			So(len(d.Families), ShouldEqual, 2)
		})

		Convey("Then the characters endpoint lists the roster", func() {
			w := get(mux, "/characters")
			So(w.Code, ShouldEqual, http.StatusOK)

			var list []types.CharacterView
			So(json.Unmarshal(w.Body.Bytes(), &list), ShouldBeNil)
			So(len(list), ShouldEqual, 6)
			So(list[0].ID, ShouldEqual, "panda")
		})

		Convey("Then unknown paths are not found", func() {
			w := get(mux, "/unknown")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then non-GET requests are not found", func() {
			req := httptest.NewRequest(http.MethodPost, "/timeline", strings.NewReader(`{}`))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestEntryEndpoints(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux()

		Convey("When requesting the placeholder", func() {
			w := get(mux, "/placeholder")

			Convey("Then Panda is returned without relevance", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var v types.EntryView
				So(json.Unmarshal(w.Body.Bytes(), &v), ShouldBeNil)
				So(v.Character, ShouldEqual, "panda")
				So(v.Relevance, ShouldBeNil)
				So(v.Date.Equal(t0), ShouldBeTrue)
			})
		})

		Convey("When requesting a medium snapshot of a known hero", func() {
			w := get(mux, "/snapshot?hero=owl&family=medium")

			Convey("Then the hero is rendered with its bio", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var v types.EntryView
				So(json.Unmarshal(w.Body.Bytes(), &v), ShouldBeNil)
				So(v.Character, ShouldEqual, "owl")
				So(v.Bio, ShouldNotBeEmpty)
				So(v.URL, ShouldEqual, "rangers://character/owl")
			})
		})

		Convey("When requesting a snapshot of an unknown hero", func() {
			w := get(mux, "/snapshot?hero=dragon")

			Convey("Then the default hero is returned, not an error", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var v types.EntryView
				So(json.Unmarshal(w.Body.Bytes(), &v), ShouldBeNil)
				So(v.Character, ShouldEqual, "panda")
				So(v.Bio, ShouldBeEmpty)
			})
		})

		Convey("When requesting a timeline at a given time", func() {
			now := t0.Add(3 * time.Hour)
			w := get(mux, "/timeline?hero=cake&now="+now.Format(time.RFC3339))

			Convey("Then entries start at that time, a minute apart, showing Egghead", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var v types.TimelineView
				So(json.Unmarshal(w.Body.Bytes(), &v), ShouldBeNil)
				So(len(v.Entries), ShouldBeGreaterThan, 1)
				So(v.Entries[0].Date.Equal(now), ShouldBeTrue)
				So(v.Entries[1].Date.Sub(v.Entries[0].Date), ShouldEqual, time.Minute)
				So(v.Entries[0].Character, ShouldEqual, "egghead")
				So(*v.Entries[0].Relevance, ShouldEqual, float32(0.67))
				So(v.Policy, ShouldEqual, "atEnd")
				So(v.ReloadAt, ShouldNotBeNil)
				So(v.ReloadAt.Equal(v.Entries[len(v.Entries)-1].Date), ShouldBeTrue)
			})
		})

		Convey("When the family is unknown", func() {
			w := get(mux, "/timeline?family=large")

			Convey("Then a bad request is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "unknown_family")
			})
		})

		Convey("When now is not RFC3339", func() {
			w := get(mux, "/snapshot?now=yesterday")

			Convey("Then a bad request is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "bad_request")
			})

			Convey("And the error is counted", func() {
				n, err := testutil.GatherAndCount(metrics.GetRegistry(), "rangers_widget_errors_by_endpoint_total")
				So(err, ShouldBeNil)
				So(n, ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux()

		Convey("When the caller sends no request id", func() {
			w := get(mux, "/widget")

			Convey("Then one is generated", func() {
				So(len(w.Header().Get(api.RequestIDHeader)), ShouldEqual, 36)
			})
		})

		Convey("When the caller sends a request id", func() {
			req := httptest.NewRequest(http.MethodGet, "/widget", nil)
			req.Header.Set(api.RequestIDHeader, "host-42")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it is echoed back", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "host-42")
			})
		})

		Convey("When a handler reads the id from the context", func() {
			var seen string
			h := api.RequestIDMiddleware(func(w http.ResponseWriter, r *http.Request) {
				seen = api.RequestID(r.Context())
			})
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(api.RequestIDHeader, "abc")
			h(httptest.NewRecorder(), req)

			Convey("Then it matches the header", func() {
				So(seen, ShouldEqual, "abc")
				So(api.RequestID(context.Background()), ShouldBeEmpty)
			})
		})
	})
}

func TestRejectedRequestLogging(t *testing.T) {
	Convey("Given an API server logging to a buffer", t, func() {
		var buf bytes.Buffer
		So(logger.Init(logger.WithWriter(&buf)), ShouldBeNil)

		svc := service.New(service.WithClock(func() time.Time { return t0 }))
		mux := http.NewServeMux()
		api.NewServer(svc, logger.Get()).Register(context.Background(), mux)

		Convey("When a host request is rejected", func() {
			req := httptest.NewRequest(http.MethodGet, "/timeline?family=large", nil)
			req.Header.Set(api.RequestIDHeader, "host-7")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the warning carries the request id", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(buf.String(), ShouldContainSubstring, "rejected host request")
				So(buf.String(), ShouldContainSubstring, "request_id=host-7")
				So(buf.String(), ShouldContainSubstring, "component=api")
			})
		})
	})
}
