// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package viewer serves an interactive page around a rendered antenna map.
//
// The page lists every group with a visibility checkbox, toggles group
// outlines, shows the details of a clicked antenna and offers the map for
// download. Clicks travel back over a websocket and are published on a
// dispatch.Bus.

package viewer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/2dChan/antennamap"
	"github.com/2dChan/antennamap/dispatch"
	"github.com/2dChan/antennamap/export"
	"github.com/2dChan/antennamap/internal/logging"
	"github.com/2dChan/antennamap/internal/metrics"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

type Options struct {
	Logger  logging.Logger
	Metrics *metrics.Collector
	Bus     *dispatch.Bus
	Render  []antennamap.RenderOption
}

type Option func(*Options) error

func WithLogger(l logging.Logger) Option {
	return func(o *Options) error {
		if l == nil {
			return errors.New("WithLogger: logger must not be nil")
		}
		o.Logger = l
		return nil
	}
}

func WithMetrics(c *metrics.Collector) Option {
	return func(o *Options) error {
		o.Metrics = c
		return nil
	}
}

// WithBus publishes click events on b instead of a bus owned by the server.
func WithBus(b *dispatch.Bus) Option {
	return func(o *Options) error {
		if b == nil {
			return errors.New("WithBus: bus must not be nil")
		}
		o.Bus = b
		return nil
	}
}

// WithRenderOptions applies opts to every rendered map. The connections
// setting is overridden per request.
func WithRenderOptions(opts ...antennamap.RenderOption) Option {
	return func(o *Options) error {
		o.Render = append(o.Render, opts...)
		return nil
	}
}

type Server struct {
	groups   []antennamap.Group
	antennas map[string]antennamap.Antenna
	opts     Options
	upgrader websocket.Upgrader
}

// New returns a server for groups. The render options are checked once here so
// that requests fail only on bad query input.
func New(groups []antennamap.Group, setters ...Option) (*Server, error) {
	opts := Options{Logger: logging.Noop()}
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return nil, err
		}
	}
	if opts.Bus == nil {
		opts.Bus = dispatch.NewBus()
	}
	if _, err := antennamap.Render(nil, antennamap.NewSelection(), opts.Render...); err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}

	antennas := make(map[string]antennamap.Antenna)
	for _, g := range groups {
		for _, a := range g.Antennas {
			antennas[a.ID] = a
		}
	}
	return &Server{
		groups:   groups,
		antennas: antennas,
		opts:     opts,
	}, nil
}

// Bus returns the bus click events are published on.
func (s *Server) Bus() *dispatch.Bus {
	return s.opts.Bus
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /map.svg", s.handleMap)
	mux.HandleFunc("GET /export", s.handleExport)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.Handle("GET /metrics", s.opts.Metrics.Handler())
	return mux
}

// Run serves on addr until ctx is done, then shuts the server down.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	eg, ctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	eg.Go(func() error {
		s.opts.Logger.Info(ctx, "viewer listening", logging.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}

// SelectionFromQuery returns the groups named by the repeated group parameter.
// Without the parameter every group is selected; empty values select nothing.
func SelectionFromQuery(groups []antennamap.Group, q url.Values) antennamap.Selection {
	ids, ok := q["group"]
	if !ok {
		return antennamap.SelectAll(groups)
	}
	ids = slices.DeleteFunc(slices.Clone(ids), func(id string) bool { return id == "" })
	return antennamap.NewSelection(ids...)
}

func connectionsFromQuery(q url.Values) bool {
	return q.Get("connections") != "off"
}

func (s *Server) render(q url.Values, format export.Format) (string, antennamap.Selection, error) {
	start := time.Now()
	sel := SelectionFromQuery(s.groups, q)
	opts := append(slices.Clone(s.opts.Render), antennamap.WithConnections(connectionsFromQuery(q)))
	doc, err := antennamap.Render(s.groups, sel, opts...)
	if err != nil {
		return "", sel, err
	}
	s.opts.Metrics.ObserveRender(string(format), start)
	s.opts.Metrics.SetVisibleGroups(len(sel.Visible(s.groups)))
	return doc, sel, nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	doc, sel, err := s.render(q, export.FormatSVG)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, newPageData(s.groups, sel, doc, q)); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	doc, _, err := s.render(r.URL.Query(), export.FormatSVG)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", export.FormatSVG.ContentType())
	_ = export.WriteSVG(w, doc)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := export.FormatSVG
	if v := q.Get("format"); v != "" {
		f, err := export.ParseFormat(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		format = f
	}

	doc, _, err := s.render(q, format)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := export.Write(r.Context(), &buf, doc, format); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename()))
	_, _ = buf.WriteTo(w)
}

type detailReply struct {
	ID      string              `json:"id"`
	Details []antennamap.Detail `json:"details"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.opts.Logger.Warn(r.Context(), "websocket upgrade failed", logging.Err(err))
		return
	}
	defer conn.Close()
	stop := context.AfterFunc(r.Context(), func() { conn.Close() })
	defer stop()

	ctx := r.Context()
	lg := s.opts.Logger.With(logging.String("remote", r.RemoteAddr))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				lg.Warn(ctx, "websocket closed", logging.Err(err))
			}
			return
		}

		ev, err := dispatch.Decode(data)
		if err != nil {
			lg.Warn(ctx, "dropping click event", logging.Err(err))
			continue
		}
		if a, ok := s.antennas[ev.Antenna.ID]; ok {
			ev.Antenna = a
		}
		s.opts.Metrics.RecordClick()
		n := s.opts.Bus.Publish(ev)
		lg.Debug(ctx, "antenna click", logging.String("antenna", ev.Antenna.ID), logging.Int("subscribers", n))

		reply := detailReply{ID: ev.Antenna.ID, Details: ev.Antenna.Details()}
		if err := conn.WriteJSON(reply); err != nil {
			lg.Warn(ctx, "websocket write failed", logging.Err(err))
			return
		}
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.opts.Logger.Error(r.Context(), "request failed", logging.String("path", r.URL.Path), logging.Err(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// inlineDocument drops the XML prolog so the document can sit inside HTML.
func inlineDocument(doc string) string {
	if i := strings.Index(doc, "<svg"); i >= 0 {
		return doc[i:]
	}
	return doc
}
