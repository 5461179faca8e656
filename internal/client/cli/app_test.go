package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medml/medcli/internal/client/config"
	"github.com/medml/medcli/internal/client/router"
	"github.com/medml/medcli/internal/logging"
	"github.com/medml/medcli/internal/output"
)

const testToken = "abc123"

// backend is a canned MedML API. It counts calls per path and remembers
// the last non-empty request body.
type backend struct {
	mu     sync.Mutex
	calls  map[string]int
	bodies map[string]string
}

func (b *backend) count(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[path]
}

func (b *backend) body(path string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bodies[path]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	b.calls[r.URL.Path]++
	if len(raw) > 0 {
		b.bodies[r.URL.Path] = string(raw)
	}
	b.mu.Unlock()

	switch r.URL.Path {
	case "/api/v1/health/":
		writeJSON(w, 200, map[string]string{"status": "ok"})
		return
	case "/api/v1/auth/login/":
		var creds map[string]string
		_ = json.Unmarshal(raw, &creds)
		if creds["username"] != "alice" || creds["password"] != "pw" {
			writeJSON(w, 400, map[string]string{"error": "Invalid credentials"})
			return
		}
		writeJSON(w, 200, map[string]string{"token": testToken, "username": "alice", "email": "alice@example.org"})
		return
	}

	if r.Header.Get("Authorization") != "Token "+testToken {
		writeJSON(w, 401, map[string]string{"detail": "Authentication credentials were not provided."})
		return
	}

	switch r.URL.Path {
	case "/api/v1/patients/":
		if r.Method == http.MethodPost {
			writeJSON(w, 201, map[string]any{"id": 9, "full_name": "Malee K."})
			return
		}
		writeJSON(w, 200, map[string]any{"count": 1, "next": nil, "previous": nil,
			"results": []map[string]any{{"id": 1, "full_name": "Somchai P.", "mrn": "MRN-001", "age": 42, "gender": "M"}}})
	case "/api/v1/patients/1/":
		if r.Method == http.MethodPatch {
			writeJSON(w, 200, map[string]any{"id": 1, "full_name": "Somchai P.", "mrn": "MRN-001", "age": 43, "gender": "F"})
			return
		}
		writeJSON(w, 200, map[string]any{"id": 1, "full_name": "Somchai P.", "mrn": "MRN-001", "age": 42, "gender": "M"})
	case "/api/v1/patients/1/transactions/", "/api/v1/history/":
		writeJSON(w, 200, map[string]any{"count": 1, "results": []map[string]any{
			{"id": "1b4e28ba-2fa1-11d2-883f-0016d3cca427", "diagnosis": "Pneumonia", "confidence": 0.87,
				"patient_data": map[string]any{"full_name": "Somchai P."}, "uploaded_at": "2026-10-01T08:30:00Z"}}})
	case "/api/v1/auth/profile/":
		if r.Method == http.MethodPut {
			writeJSON(w, 200, map[string]any{"username": "alice", "full_name": "Alice Updated"})
			return
		}
		writeJSON(w, 200, map[string]any{"username": "alice", "email": "alice@example.org", "full_name": "Alice A.", "role": "doctor"})
	case "/api/v1/metrics/summary/":
		writeJSON(w, 200, map[string]any{"total_patients": 12, "total_predictions": 40, "today_predictions": 3, "avg_confidence": 0.91})
	case "/api/v1/metrics/daily/":
		writeJSON(w, 200, map[string]any{"series": []map[string]any{{"date": "2026-10-17", "count": 3}}})
	case "/api/v1/metrics/diagnosis-distribution/":
		writeJSON(w, 200, map[string]any{"distribution": []map[string]any{{"diagnosis": "Normal", "count": 30}}})
	case "/api/v1/reports/summary/":
		writeJSON(w, 200, map[string]any{"total_predictions": 8, "by_diagnosis": []map[string]any{{"diagnosis": "Normal", "count": 8}}})
	case "/api/v1/upload/":
		writeJSON(w, 201, map[string]any{"id": "tx-1", "diagnosis": "Normal", "confidence": 0.95, "total_processing_time": 1.5})
	case "/api/v1/chat/rooms/":
		if r.Method == http.MethodPost {
			writeJSON(w, 201, map[string]any{"id": "r2", "name": "ward"})
			return
		}
		writeJSON(w, 200, map[string]any{"count": 1, "results": []map[string]any{
			{"id": "r1", "name": "Radiology", "room_type": "group", "unread_count": 2,
				"last_message": map[string]any{"content": "see scan", "sender": "bob"}}}})
	case "/api/v1/chat/unread-count/":
		writeJSON(w, 200, map[string]any{"unread_count": 2})
	case "/api/v1/chat/rooms/r1/":
		writeJSON(w, 200, map[string]any{"id": "r1", "name": "Radiology", "members": []map[string]any{{"id": 1, "username": "alice"}, {"id": 2, "username": "bob"}}})
	case "/api/v1/chat/rooms/r1/messages/":
		if r.Method == http.MethodPost {
			writeJSON(w, 201, map[string]any{"id": "m3", "content": "ok"})
			return
		}
		writeJSON(w, 200, map[string]any{"count": 2, "results": []map[string]any{
			{"id": "m1", "content": "see scan", "is_read": false, "sender": map[string]any{"username": "bob"}},
			{"id": "m2", "content": "thanks", "is_read": true, "sender": map[string]any{"username": "alice"}}}})
	case "/api/v1/chat/rooms/r1/read/":
		writeJSON(w, 200, map[string]string{"status": "ok"})
	default:
		writeJSON(w, 404, map[string]string{"error": "Not found"})
	}
}

type testEnv struct {
	app     *App
	backend *backend
	out     *bytes.Buffer
	srv     *httptest.Server
}

// newTestApp builds a fully wired App against a canned backend. input is
// what the user types at prompts; every password prompt answers "pw".
func newTestApp(t *testing.T, input string) *testEnv {
	t.Helper()

	b := &backend{calls: map[string]int{}, bodies: map[string]string{}}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	orig := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte("pw"), nil }
	t.Cleanup(func() { getPassword = orig })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.APIBaseURL = srv.URL
	cfg.RequestTimeout = 2 * time.Second
	cfg.StorePath = filepath.Join(t.TempDir(), "medcli.db")

	var out bytes.Buffer
	printer := output.NewPrinter(&out, &out, false)

	app, err := NewApp(context.Background(), cfg, logging.Discard(), printer)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	app.reader = bufio.NewReader(strings.NewReader(input))

	return &testEnv{app: app, backend: b, out: &out, srv: srv}
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	e.app.reader = bufio.NewReader(strings.NewReader("alice\n"))
	require.NoError(t, e.app.Navigate(context.Background(), "/login"))
	require.True(t, e.app.isLoggedIn(context.Background()))
	e.out.Reset()
}

func TestNavigate_LoginThenRedirectBack(t *testing.T) {
	env := newTestApp(t, "alice\n")
	ctx := context.Background()

	require.NoError(t, env.app.Navigate(ctx, "/patients"))

	assert.True(t, env.app.isLoggedIn(ctx))
	assert.Equal(t, router.NamePatients, env.app.currentRoute().Name())
	assert.Contains(t, env.out.String(), "Signed in as alice")
	assert.Contains(t, env.out.String(), "Somchai P.")
	assert.Equal(t, 1, env.backend.count("/api/v1/patients/"))
}

func TestNavigate_FailedLoginStaysOnLogin(t *testing.T) {
	env := newTestApp(t, "mallory\n")
	ctx := context.Background()

	err := env.app.Navigate(ctx, "/patients")
	require.Error(t, err)

	cur := env.app.currentRoute()
	assert.Equal(t, router.NameLogin, cur.Name())
	assert.Equal(t, "/login?redirect=%2Fpatients", cur.FullPath)
	assert.Contains(t, env.out.String(), "[ERROR] Invalid credentials")
	assert.False(t, env.app.isLoggedIn(ctx))
	assert.Equal(t, 0, env.backend.count("/api/v1/patients/"))
}

func TestNavigate_RootWhileSignedIn(t *testing.T) {
	env := newTestApp(t, "")
	env.login(t)

	require.NoError(t, env.app.Navigate(context.Background(), "/"))
	assert.Equal(t, router.NamePatients, env.app.currentRoute().Name())

	// the login page is skipped for a signed-in user
	require.NoError(t, env.app.Navigate(context.Background(), "/login"))
	assert.Equal(t, router.NamePatients, env.app.currentRoute().Name())
	assert.Equal(t, 1, env.backend.count("/api/v1/auth/login/"))
}

func TestNavigate_UnknownPathSignedIn(t *testing.T) {
	env := newTestApp(t, "")
	env.login(t)

	require.NoError(t, env.app.Navigate(context.Background(), "/nowhere"))
	assert.Contains(t, env.out.String(), "Nothing to show at /nowhere")
}

func TestViews(t *testing.T) {
	env := newTestApp(t, "")
	env.login(t)
	ctx := context.Background()

	tests := []struct {
		path string
		want []string
	}{
		{"/dashboard", []string{"Dashboard", "12", "91.0%", "2026-10-17", "Normal"}},
		{"/patients/1", []string{"Somchai P.", "MRN-001", "Pneumonia", "87.0%"}},
		{"/history", []string{"History", "1b4e28ba", "Pneumonia", "page 1, 1 total"}},
		{"/profile", []string{"Profile", "alice@example.org", "doctor"}},
		{"/chat", []string{"Chat (2 unread)", "Radiology", "see scan"}},
		{"/chat/r1", []string{"Radiology", "alice, bob", "* ", "see scan", "thanks"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			env.out.Reset()
			require.NoError(t, env.app.Navigate(ctx, tt.path))
			for _, w := range tt.want {
				assert.Contains(t, env.out.String(), w)
			}
		})
	}
}

func TestProfile_FetchedOnce(t *testing.T) {
	env := newTestApp(t, "")
	env.login(t)
	ctx := context.Background()

	require.NoError(t, env.app.Navigate(ctx, "/profile"))
	require.NoError(t, env.app.Navigate(ctx, "/profile"))
	assert.Equal(t, 1, env.backend.count("/api/v1/auth/profile/"))

	// a new session starts with an empty cache
	require.NoError(t, env.app.Logout(ctx))
	env.login(t)
	require.NoError(t, env.app.Navigate(ctx, "/profile"))
	assert.Equal(t, 2, env.backend.count("/api/v1/auth/profile/"))
}

func TestLogout(t *testing.T) {
	env := newTestApp(t, "")
	env.login(t)
	ctx := context.Background()

	require.NoError(t, env.app.Logout(ctx))
	assert.False(t, env.app.isLoggedIn(ctx))
	assert.Equal(t, router.NameLogin, env.app.currentRoute().Name())

	require.NoError(t, env.app.WhoAmI(ctx))
	assert.Contains(t, env.out.String(), "Not logged in")
}

func TestWhoAmI(t *testing.T) {
	env := newTestApp(t, "")
	env.login(t)

	require.NoError(t, env.app.WhoAmI(context.Background()))
	assert.Contains(t, env.out.String(), "alice <alice@example.org>")
}

func TestAct_RequiresSession(t *testing.T) {
	env := newTestApp(t, "")

	require.NoError(t, env.app.Act(context.Background(), "send", []string{"r1", "hi"}))
	assert.Contains(t, env.out.String(), "Please log in first")
	assert.Equal(t, 0, env.backend.count("/api/v1/chat/rooms/r1/messages/"))
}

func TestAct_AddPatient(t *testing.T) {
	env := newTestApp(t, "")
	env.login(t)

	env.app.reader = bufio.NewReader(strings.NewReader("Malee K.\nMRN-77\n35\nf\n\nallergic to penicillin\n\n"))
	require.NoError(t, env.app.Act(context.Background(), "addpatient", nil))

	assert.Contains(t, env.out.String(), "Patient Malee K. created with id 9")
	assert.JSONEq(t, `{"full_name":"Malee K.","mrn":"MRN-77","age":35,"gender":"F","notes":"allergic to penicillin"}`,
		env.backend.body("/api/v1/patients/"))
}

func TestAct_AddPatientInvalid(t *testing.T) {
	env := newTestApp(t, "")
	env.login(t)

	env.app.reader = bufio.NewReader(strings.NewReader("Malee K.\nMRN-77\n35\nX\n\n\n"))
	require.Error(t, env.app.Act(context.Background(), "addpatient", nil))
	assert.Contains(t, env.out.String(), "gender")
	assert.Equal(t, 0, env.backend.count("/api/v1/patients/"))
}

func TestAct_EditPatient(t *testing.T) {
	env := newTestApp(t, "")
	env.login(t)

	// keep name, MRN, phone and notes; change age and gender
	env.app.reader = bufio.NewReader(strings.NewReader("\n\n\n\n43\nf\n"))
	require.NoError(t, env.app.Act(context.Background(), "editpatient", []string{"1"}))

	assert.JSONEq(t, `{"age":43,"gender":"F"}`, env.backend.body("/api/v1/patients/1/"))
	assert.Contains(t, env.out.String(), "Full name [Somchai P.]")
	assert.Contains(t, env.out.String(), "Patient Somchai P. (1) updated")
}

func TestAct_EditPatientRejected(t *testing.T) {
	tests := []struct {
		name  string
		input string
		args  []string
		want  string
	}{
		{"bad gender", "\n\n\n\n\nX\n", []string{"1"}, "gender"},
		{"bad age", "\n\n\n\nold\n", []string{"1"}, "age must be a number"},
		{"nothing changed", "\n\n\n\n42\nm\n", []string{"1"}, "Nothing to update"},
		{"bad id", "", []string{"abc"}, "invalid patient id"},
		{"no id", "", nil, "Usage: editpatient <id>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestApp(t, "")
			env.login(t)

			env.app.reader = bufio.NewReader(strings.NewReader(tt.input))
			_ = env.app.Act(context.Background(), "editpatient", tt.args)

			assert.Contains(t, env.out.String(), tt.want)
			assert.Empty(t, env.backend.body("/api/v1/patients/1/"), "no update sent")
		})
	}
}

func TestAct_EditPatientRequiresSession(t *testing.T) {
	env := newTestApp(t, "")

	require.NoError(t, env.app.Act(context.Background(), "editpatient", []string{"1"}))
	assert.Contains(t, env.out.String(), "Please log in first")
	assert.Equal(t, 0, env.backend.count("/api/v1/patients/1/"))
}

func TestAct_Upload(t *testing.T) {
	env := newTestApp(t, "")
	env.login(t)

	img := filepath.Join(t.TempDir(), "scan.png")
	require.NoError(t, os.WriteFile(img, []byte("\x89PNG\r\n\x1a\nPNGDATA"), 0o600))

	require.NoError(t, env.app.Act(context.Background(), "upload", []string{img, "1"}))
	out := env.out.String()
	assert.Contains(t, out, "Prediction tx-1")
	assert.Contains(t, out, "95.0%")
	assert.Contains(t, out, "1.50s")

	body := env.backend.body("/api/v1/upload/")
	assert.Contains(t, body, `name="patient_id"`)
	assert.Contains(t, body, `filename="scan.png"`)
	assert.Contains(t, body, "PNGDATA")
}

func TestAct_UploadMissingFile(t *testing.T) {
	env := newTestApp(t, "")
	env.login(t)

	require.Error(t, env.app.Act(context.Background(), "upload", []string{"/does/not/exist.png", "1"}))
	assert.Equal(t, 0, env.backend.count("/api/v1/upload/"))
}

func TestAct_EditProfileRefreshesCache(t *testing.T) {
	env := newTestApp(t, "")
	env.login(t)
	ctx := context.Background()

	require.NoError(t, env.app.Navigate(ctx, "/profile"))

	env.app.reader = bufio.NewReader(strings.NewReader("Alice Updated\n\n\n"))
	require.NoError(t, env.app.Act(ctx, "editprofile", nil))

	assert.JSONEq(t, `{"full_name":"Alice Updated"}`, env.backend.body("/api/v1/auth/profile/"))
	assert.Contains(t, env.out.String(), "Profile updated")
	// PUT, then a fresh GET after the cache was cleared
	assert.Equal(t, 3, env.backend.count("/api/v1/auth/profile/"))
}

func TestAct_Chat(t *testing.T) {
	env := newTestApp(t, "")
	env.login(t)
	ctx := context.Background()

	require.NoError(t, env.app.Act(ctx, "newroom", []string{"ward", "2", "3"}))
	assert.JSONEq(t, `{"name":"ward","room_type":"group","member_ids":[2,3]}`, env.backend.body("/api/v1/chat/rooms/"))

	require.NoError(t, env.app.Act(ctx, "send", []string{"r1", "see", "you"}))
	assert.JSONEq(t, `{"content":"see you"}`, env.backend.body("/api/v1/chat/rooms/r1/messages/"))

	require.NoError(t, env.app.Act(ctx, "read", []string{"r1"}))
	assert.JSONEq(t, `{"message_ids":["m1"]}`, env.backend.body("/api/v1/chat/rooms/r1/read/"))
	assert.Contains(t, env.out.String(), "Marked 1 message(s) as read")
}

func TestAct_Report(t *testing.T) {
	env := newTestApp(t, "")
	env.login(t)
	ctx := context.Background()

	require.NoError(t, env.app.Act(ctx, "report", []string{"2026-09-01", "2026-09-30"}))
	assert.Contains(t, env.out.String(), "Report 2026-09-01 .. 2026-09-30")
	assert.Equal(t, 1, env.backend.count("/api/v1/reports/summary/"))

	require.Error(t, env.app.Act(ctx, "report", []string{"2026-09-30", "2026-09-01"}))
	require.Error(t, env.app.Act(ctx, "report", []string{"yesterday", "today"}))
	assert.Equal(t, 1, env.backend.count("/api/v1/reports/summary/"))
}

func TestCheckOnline_SwitchesMode(t *testing.T) {
	env := newTestApp(t, "")
	var logBuf bytes.Buffer
	env.app.logger = logging.New(&logBuf, slog.LevelInfo, logging.FormatText)
	ctx := context.Background()

	env.app.checkOnline(ctx)
	assert.Equal(t, ModeOnline, env.app.Mode())
	assert.Contains(t, logBuf.String(), "mode=online")

	logBuf.Reset()
	env.app.checkOnline(ctx)
	assert.Empty(t, logBuf.String(), "no log when the mode does not change")

	env.srv.Close()
	env.app.checkOnline(ctx)
	assert.Equal(t, ModeOffline, env.app.Mode())
	assert.Contains(t, env.app.getStatus(), "[offline]")
}

func TestStartOnlineStatusWatcher_StopsOnCancel(t *testing.T) {
	env := newTestApp(t, "")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		env.app.StartOnlineStatusWatcher(ctx, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return env.app.Mode() == ModeOnline }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}
