package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"agendawire/internal/agenda"
	"agendawire/internal/config"
	appLog "agendawire/internal/log"
	"agendawire/internal/model"
)

// Server exposes the grouped agenda over a small JSON API. It holds the
// latest ingested item snapshot; grouping runs per request on that
// snapshot and retains no state between requests.
type Server struct {
	cfg       *config.Config
	grouper   *agenda.Grouper
	formatter *agenda.Formatter
	mux       *http.ServeMux

	snapshotMu sync.RWMutex
	snapshot   []model.Item
	snapshotAt time.Time
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg:     cfg,
		grouper: agenda.NewGrouper(agenda.GrouperConfig{WeekStart: cfg.WeekStartDay()}),
		formatter: agenda.NewFormatter(agenda.FormatterConfig{
			DateLayout: cfg.DateFormat,
			TimeLayout: cfg.TimeFormat,
			Local:      cfg.Location(),
		}),
		mux: http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// SetSnapshot replaces the item snapshot served by the API. The refresh
// loop calls this after each ingest; readers always see a complete
// snapshot, never a partial update.
func (s *Server) SetSnapshot(items []model.Item) {
	s.snapshotMu.Lock()
	s.snapshot = items
	s.snapshotAt = time.Now()
	s.snapshotMu.Unlock()
	appLog.Info("snapshot updated", "item_count", len(items))
}

func (s *Server) currentSnapshot() ([]model.Item, time.Time) {
	s.snapshotMu.RLock()
	defer s.snapshotMu.RUnlock()
	return s.snapshot, s.snapshotAt
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Listen,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty username or password counts as disabled.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="agendawire", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/agenda", s.handleAgenda)
	s.mux.HandleFunc("/api/items", s.handleItems)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// agendaResponse is the JSON response shape for /api/agenda.
type agendaResponse struct {
	Groups      []groupDTO         `json:"groups"`
	Rows        []rowDTO           `json:"rows"`
	Items       map[string]itemDTO `json:"items"`
	Granularity string             `json:"granularity"`
	SnapshotAt  time.Time          `json:"snapshot_at"`
}

type groupDTO struct {
	Key     string   `json:"key"`
	Primary []string `json:"primary"`
	Hidden  []string `json:"hidden,omitempty"`
}

type rowDTO struct {
	ItemID   string `json:"item_id"`
	GroupKey string `json:"group_key"`
	PlanID   string `json:"plan_id,omitempty"`
}

type itemDTO struct {
	ID          string    `json:"id"`
	Source      string    `json:"source,omitempty"`
	Summary     string    `json:"summary"`
	Location    string    `json:"location,omitempty"`
	Kind        string    `json:"kind"`
	Dates       string    `json:"dates"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	AllDay      bool      `json:"all_day,omitempty"`
	ToBeConfirm bool      `json:"time_to_be_confirmed,omitempty"`
}

// handleAgenda groups the current snapshot and returns buckets, expanded
// rows and per-item display data.
//
// GET /api/agenda?granularity=day|week|month&from=2006-01-02&to=2006-01-02
//
//	&featured=1        primary-only flat mode
//	&show_hidden=K,... group keys whose hidden entries surface in rows
//	&local=1           render dates in the configured viewer timezone
func (s *Server) handleAgenda(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	granParam := q.Get("granularity")
	if granParam == "" {
		granParam = s.cfg.Granularity
	}
	gran, err := model.ParseGranularity(granParam)
	if err != nil {
		appLog.Warn("ignoring unknown granularity", "value", granParam)
	}

	opts := agenda.BucketizeOptions{
		Granularity: gran,
		Featured:    q.Get("featured") == "1",
	}
	if d, ok := parseDateParam(q.Get("from")); ok {
		opts.MinDate = &d
	}
	if d, ok := parseDateParam(q.Get("to")); ok {
		opts.MaxDate = &d
	}

	shownHidden := make(map[string]bool)
	if raw := q.Get("show_hidden"); raw != "" {
		for _, key := range strings.Split(raw, ",") {
			shownHidden[strings.TrimSpace(key)] = true
		}
	}

	items, snapshotAt := s.currentSnapshot()

	groups := s.grouper.Bucketize(items, opts)
	agenda.SortGroups(groups)

	itemsByID := make(map[string]model.Item, len(items))
	for _, it := range items {
		itemsByID[it.ID] = it
	}
	rows := agenda.Expand(groups, itemsByID, shownHidden)

	fmtOpts := agenda.FormatOptions{LocalTimeZone: q.Get("local") == "1"}

	resp := agendaResponse{
		Groups:      make([]groupDTO, 0, len(groups)),
		Rows:        make([]rowDTO, 0, len(rows)),
		Items:       make(map[string]itemDTO),
		Granularity: gran.String(),
		SnapshotAt:  snapshotAt,
	}

	for _, grp := range groups {
		resp.Groups = append(resp.Groups, groupDTO{
			Key:     grp.Key,
			Primary: grp.PrimaryIDs,
			Hidden:  grp.HiddenIDs,
		})
		for _, id := range append(append([]string{}, grp.PrimaryIDs...), grp.HiddenIDs...) {
			if _, done := resp.Items[id]; done {
				continue
			}
			if it, ok := itemsByID[id]; ok {
				resp.Items[id] = s.itemDTO(it, fmtOpts)
			}
		}
	}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, rowDTO{
			ItemID:   row.ItemID,
			GroupKey: row.GroupKey,
			PlanID:   row.PlanID,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleItems returns the raw current snapshot.
func (s *Server) handleItems(w http.ResponseWriter, _ *http.Request) {
	items, snapshotAt := s.currentSnapshot()

	type itemsResponse struct {
		Items      []itemDTO `json:"items"`
		SnapshotAt time.Time `json:"snapshot_at"`
	}

	resp := itemsResponse{
		Items:      make([]itemDTO, 0, len(items)),
		SnapshotAt: snapshotAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, s.itemDTO(it, agenda.FormatOptions{}))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) itemDTO(it model.Item, opts agenda.FormatOptions) itemDTO {
	return itemDTO{
		ID:          it.ID,
		Source:      it.Source,
		Summary:     it.Summary,
		Location:    it.Location,
		Kind:        agenda.ClassifyItem(it).String(),
		Dates:       s.formatter.AgendaDate(it, opts),
		Start:       it.Start,
		End:         it.End,
		AllDay:      it.AllDay,
		ToBeConfirm: it.TimeToBeConfirmed,
	}
}

// parseDateParam parses a YYYY-MM-DD query parameter.
func parseDateParam(v string) (agenda.Date, bool) {
	if v == "" {
		return agenda.Date{}, false
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		appLog.Warn("ignoring malformed date parameter", "value", v)
		return agenda.Date{}, false
	}
	return agenda.DateOf(t), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to encode JSON response", err)
	}
}
