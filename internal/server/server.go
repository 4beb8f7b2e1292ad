package server

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/toastate/buildgen/internal/collector"
	"github.com/toastate/buildgen/internal/helpers"
	"github.com/toastate/buildgen/internal/natsort"
	"github.com/toastate/buildgen/internal/pathmap"
	"github.com/toastate/buildgen/internal/tlogger"
	"github.com/toastate/buildgen/internal/watcher"
)

const quietPeriod = 500 * time.Millisecond

var upgrader = websocket.Upgrader{
	HandshakeTimeout: 10 * time.Second,
	Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
		w.WriteHeader(500)
	},
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server exposes the data mounts to a running engine: the path mapping, file
// manifests per mount and a websocket that fires when any mount changes.
type Server struct {
	mounts       map[string]string
	port         string
	reloadBroker *Broker
}

func NewServer(mounts map[string]string, port string) *Server {
	return &Server{
		mounts:       mounts,
		port:         port,
		reloadBroker: newBroker(),
	}
}

func (s *Server) TriggerReload() {
	s.reloadBroker.Publish(struct{}{})
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/pathmap", s.pathmapHandler).Methods(http.MethodGet)
	r.HandleFunc("/files/{mount:.+}", s.filesHandler).Methods(http.MethodGet)
	r.HandleFunc("/__internal/changes", s.changesHandler)
	return r
}

// Start serves until ctx ends. With watch set, every debounced batch of
// changes under the mounts is pushed to websocket clients.
func (s *Server) Start(ctx context.Context, watch bool) error {
	go s.reloadBroker.Start()
	defer s.reloadBroker.Stop()

	if watch {
		dirs := make([]string, 0, len(s.mounts))
		for _, d := range s.mounts {
			dirs = append(dirs, d)
		}
		updates, err := watcher.StartWatcher(ctx, dirs...)
		if err != nil {
			tlogger.Error("msg", "Failed to watch mounts", "err", err)
			return err
		}

		go func() {
			for batch := range watcher.Debounce(ctx, updates, quietPeriod) {
				tlogger.Info("msg", "Mounts changed", "files", len(batch))
				s.TriggerReload()
			}
		}()
	}

	srv := &http.Server{Addr: ":" + s.port, Handler: s.Router()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	// We use println here so the address can be copied or opened directly from the terminal
	fmt.Println("Listening on http://localhost:" + s.port)

	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) pathmapHandler(w http.ResponseWriter, r *http.Request) {
	m, err := pathmap.Build(s.mounts)
	if err != nil {
		writeError(w, err)
		return
	}
	b, err := pathmap.Encode(m, false)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(b)
}

func (s *Server) lookupMount(name string) (string, bool) {
	if dir, ok := s.mounts[name]; ok {
		return dir, true
	}
	dir, ok := s.mounts["/"+name]
	return dir, ok
}

func (s *Server) filesHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["mount"]
	dir, ok := s.lookupMount(name)
	if !ok {
		w.WriteHeader(404)
		w.Write([]byte("unknown mount " + name))
		return
	}

	q := r.URL.Query()
	var opts []collector.Option
	if q.Get("extension") == "true" {
		opts = append(opts, collector.WithExtensionMatch())
	}

	files, err := collector.CollectRelative(dir, q.Get("suffix"), opts...)
	if err != nil {
		writeError(w, err)
		return
	}
	for i, f := range files {
		files[i] = filepath.ToSlash(f)
	}
	if strings.EqualFold(q.Get("sort"), "natural") {
		files = natsort.Sort(files, false)
	}

	b, err := helpers.MarshalJson(files)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(b)
}

func writeError(w http.ResponseWriter, err error) {
	status := 500
	switch {
	case errors.Is(err, collector.ErrDirectoryNotFound):
		status = 404
	case errors.Is(err, collector.ErrPermissionDenied):
		status = 403
	default:
		tlogger.Error("msg", "Request failed", "err", err)
	}
	w.WriteHeader(status)
	w.Write([]byte(err.Error()))
}

func (s *Server) changesHandler(w http.ResponseWriter, r *http.Request) {
	tlogger.Debug("msg", "WS Established")

	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer c.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.NextReader(); err != nil {
				return
			}
		}
	}()

	waitCh := s.reloadBroker.Subscribe()
	defer s.reloadBroker.Unsubscribe(waitCh)

	for {
		select {
		case <-waitCh:
			if err := c.WriteMessage(websocket.TextMessage, []byte("changed")); err != nil {
				tlogger.Warn("msg", "Change socket error", "error", err)
				return
			}
		case <-closed:
			return
		case <-s.reloadBroker.Done():
			return
		}
	}
}
