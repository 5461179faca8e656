package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/medml/medcli/internal/client/api"
	"github.com/medml/medcli/internal/client/config"
	"github.com/medml/medcli/internal/client/localdb"
	"github.com/medml/medcli/internal/client/models"
	"github.com/medml/medcli/internal/client/profile"
	"github.com/medml/medcli/internal/client/router"
	"github.com/medml/medcli/internal/client/services"
	"github.com/medml/medcli/internal/client/session"
	"github.com/medml/medcli/internal/logging"
	"github.com/medml/medcli/internal/output"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

// Backend is the part of the API client the views and actions use.
type Backend interface {
	ListPatients(ctx context.Context, q models.PatientQuery) (*models.Page[models.Patient], error)
	GetPatient(ctx context.Context, id int64) (*models.Patient, error)
	CreatePatient(ctx context.Context, in models.PatientInput) (*models.Patient, error)
	UpdatePatient(ctx context.Context, id int64, upd models.PatientUpdate) (*models.Patient, error)
	GetPatientTransactions(ctx context.Context, id int64, q models.PageQuery) (*models.Page[models.Transaction], error)

	UploadImage(ctx context.Context, img models.ImageFile, ref models.PatientRef) (*models.Transaction, error)
	GetHistory(ctx context.Context, q models.PageQuery) (*models.Page[models.Transaction], error)

	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.Profile, error)
	ReportSummary(ctx context.Context, from, to time.Time) (*models.ReportSummary, error)

	ListRooms(ctx context.Context, q models.PageQuery) (*models.Page[models.ChatRoom], error)
	GetRoom(ctx context.Context, id string) (*models.ChatRoom, error)
	CreateRoom(ctx context.Context, room models.NewRoom) (*models.ChatRoom, error)
	ListMessages(ctx context.Context, roomID string, q models.PageQuery) (*models.Page[models.Message], error)
	SendMessage(ctx context.Context, roomID, content string) (*models.Message, error)
	MarkRead(ctx context.Context, roomID string, messageIDs []string) error
	UnreadCount(ctx context.Context) (int, error)
}

type tokenChecker interface {
	HasToken(ctx context.Context) bool
}

type App struct {
	config    *config.Config
	logger    logging.Logger
	printer   *output.Printer
	router    *router.Router
	backend   Backend
	auth      services.AuthService
	tokens    tokenChecker
	profiles  *profile.Cache
	dashboard *services.DashboardService
	reader    *bufio.Reader
	db        *sql.DB

	mu      sync.RWMutex
	mode    Mode
	current router.Match
}

// NewApp opens the local store and wires the API client, session, profile
// cache and services.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger, printer *output.Printer) (*App, error) {
	db, err := localdb.InitDatabase(ctx, c.StorePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.StorePath, "error", err)
		return nil, err
	}

	rt, err := router.New(router.DefaultRoutes())
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store := session.NewStore(db, logger.With("component", "session"))
	apiClient := api.New(c.APIBaseURL, c.RequestTimeout, store, logger.With("component", "api"))
	profiles := profile.NewCache(apiClient, logger.With("component", "profile"))

	return &App{
		config:    c,
		logger:    logger,
		printer:   printer,
		router:    rt,
		backend:   apiClient,
		auth:      services.NewAuthService(apiClient, store, profiles),
		tokens:    store,
		profiles:  profiles,
		dashboard: services.NewDashboardService(apiClient, c.DashboardDays),
		reader:    bufio.NewReader(os.Stdin),
		db:        db,
	}, nil
}

// Close releases the local store.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Run starts the connectivity watcher, lands on the start page and runs the
// REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Warn(ctx, "closing local store", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	a.printer.Info("Welcome to medcli (type 'help' for commands)")
	_ = a.Navigate(ctx, "/")

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.tokens.HasToken(ctx)
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) currentRoute() router.Match {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

func (a *App) setCurrent(m router.Match) {
	a.mu.Lock()
	a.current = m
	a.mu.Unlock()
}

func (a *App) getStatus() string {
	s := ""
	if mode := a.Mode(); mode != "" {
		s = a.printer.StatusBadge(string(mode)) + " "
	}
	if cur := a.currentRoute(); cur.Path != "" {
		s += cur.Path
	}
	return s
}

// checkOnline pings the backend once and records the outcome.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := a.auth.Ping(ctx); err != nil {
		a.logger.Debug(ctx, "health check failed", "error", err)
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher checks backend reachability right away and then
// every interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// userMessage is what the REPL shows for err: the backend's own message
// when there is one.
func userMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func (a *App) fail(err error) error {
	a.printer.Error("%s", userMessage(err))
	return err
}

func (a *App) failf(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	a.printer.Error("%s", err)
	return err
}
