package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/medml/medcli/internal/client/models"
	"github.com/medml/medcli/internal/client/router"
)

const timeLayout = "2006-01-02 15:04"

func (a *App) showDashboard(ctx context.Context) error {
	d, err := a.dashboard.Load(ctx)
	if err != nil {
		return a.fail(err)
	}

	a.printer.Header("Dashboard")
	a.printer.Field("Patients", d.Summary.TotalPatients)
	a.printer.Field("Predictions", d.Summary.TotalPredictions)
	a.printer.Field("Today", d.Summary.TodayPredictions)
	a.printer.Field("Avg confidence", percent(d.Summary.AvgConfidence))

	if len(d.Daily.Series) > 0 {
		a.printer.Header("Daily predictions")
		t := a.printer.Table("Date", "Count")
		for _, p := range d.Daily.Series {
			t.AddRow(p.Date, strconv.Itoa(p.Count))
		}
		if err := t.Render(); err != nil {
			return err
		}
	}

	if len(d.Distribution.Distribution) > 0 {
		a.printer.Header("Diagnoses")
		t := a.printer.Table("Diagnosis", "Count")
		for _, c := range d.Distribution.Distribution {
			t.AddRow(c.Diagnosis, strconv.Itoa(c.Count))
		}
		return t.Render()
	}
	return nil
}

func (a *App) showPatients(ctx context.Context, m router.Match) error {
	q := models.PatientQuery{PageQuery: pageQuery(m), Search: m.Query["search"]}
	page, err := a.backend.ListPatients(ctx, q)
	if err != nil {
		return a.fail(err)
	}

	a.printer.Header("Patients")
	if len(page.Results) == 0 {
		a.printer.Info("No patients found")
		return nil
	}
	t := a.printer.Table("ID", "Name", "MRN", "Age", "Gender", "Phone")
	for _, p := range page.Results {
		t.AddRow(strconv.FormatInt(p.ID, 10), p.FullName, p.MRN, strconv.Itoa(p.Age), p.Gender, p.Phone)
	}
	if err := t.Render(); err != nil {
		return err
	}
	a.printPageFooter(q.PageQuery, page.Count, page.HasNext())
	return nil
}

func (a *App) showPatient(ctx context.Context, m router.Match) error {
	id, err := strconv.ParseInt(m.Params["id"], 10, 64)
	if err != nil || id <= 0 {
		return a.failf("invalid patient id %q", m.Params["id"])
	}

	p, err := a.backend.GetPatient(ctx, id)
	if err != nil {
		return a.fail(err)
	}

	a.printer.Header(p.FullName)
	a.printer.Field("MRN", p.MRN)
	a.printer.Field("Age", p.Age)
	a.printer.Field("Gender", p.Gender)
	if p.Phone != "" {
		a.printer.Field("Phone", p.Phone)
	}
	if p.Notes != "" {
		a.printer.Field("Notes", p.Notes)
	}

	txs, err := a.backend.GetPatientTransactions(ctx, id, pageQuery(m))
	if err != nil {
		return a.fail(err)
	}
	a.printer.Header("Predictions")
	return a.renderTransactions(txs.Results)
}

func (a *App) showHistory(ctx context.Context, m router.Match) error {
	q := pageQuery(m)
	page, err := a.backend.GetHistory(ctx, q)
	if err != nil {
		return a.fail(err)
	}
	a.printer.Header("History")
	if err := a.renderTransactions(page.Results); err != nil {
		return err
	}
	a.printPageFooter(q, page.Count, page.HasNext())
	return nil
}

func (a *App) renderTransactions(txs []models.Transaction) error {
	if len(txs) == 0 {
		a.printer.Info("No predictions yet")
		return nil
	}
	t := a.printer.Table("ID", "Patient", "Diagnosis", "Confidence", "Uploaded")
	for _, tx := range txs {
		patient := ""
		if tx.PatientData != nil {
			patient = tx.PatientData.FullName
		}
		t.AddRow(shortID(tx.ID), patient, tx.Diagnosis, percent(tx.Confidence), formatTime(tx.UploadedAt))
	}
	return t.Render()
}

func (a *App) showProfile(ctx context.Context) error {
	p, err := a.profiles.Fetch(ctx)
	if err != nil {
		return a.fail(err)
	}

	a.printer.Header("Profile")
	a.printer.Field("Username", p.Username)
	a.printer.Field("Email", p.Email)
	a.printer.Field("Full name", p.FullName)
	a.printer.Field("Contact", p.Contact)
	a.printer.Field("Role", p.Role)
	if !p.CreatedAt.IsZero() {
		a.printer.Field("Member since", p.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

func (a *App) showChat(ctx context.Context) error {
	rooms, err := a.backend.ListRooms(ctx, models.PageQuery{})
	if err != nil {
		return a.fail(err)
	}
	unread, err := a.backend.UnreadCount(ctx)
	if err != nil {
		return a.fail(err)
	}

	a.printer.Header(fmt.Sprintf("Chat (%d unread)", unread))
	if len(rooms.Results) == 0 {
		a.printer.Info("No rooms yet, create one with newroom")
		return nil
	}
	t := a.printer.Table("ID", "Name", "Type", "Members", "Unread", "Last message")
	for _, r := range rooms.Results {
		last := ""
		if r.LastMessage != nil {
			last = r.LastMessage.Sender + ": " + truncate(r.LastMessage.Content, 40)
		}
		t.AddRow(r.ID, r.Name, r.RoomType, strconv.Itoa(len(r.Members)), strconv.Itoa(r.UnreadCount), last)
	}
	return t.Render()
}

func (a *App) showRoom(ctx context.Context, m router.Match) error {
	id := m.Params["id"]
	room, err := a.backend.GetRoom(ctx, id)
	if err != nil {
		return a.fail(err)
	}
	msgs, err := a.backend.ListMessages(ctx, id, pageQuery(m))
	if err != nil {
		return a.fail(err)
	}

	a.printer.Header(room.Name)
	members := make([]string, 0, len(room.Members))
	for _, u := range room.Members {
		members = append(members, u.Username)
	}
	a.printer.Field("Members", strings.Join(members, ", "))

	if len(msgs.Results) == 0 {
		a.printer.Info("No messages yet")
		return nil
	}
	for _, msg := range msgs.Results {
		marker := " "
		if !msg.IsRead {
			marker = "*"
		}
		a.printer.Print("%s %s %s: %s", marker, a.printer.Dim(formatTime(msg.CreatedAt)), a.printer.Bold(msg.Sender.Username), msg.Content)
	}
	return nil
}

func (a *App) printPageFooter(q models.PageQuery, total int, hasNext bool) {
	params := q.Params()
	more := ""
	if hasNext {
		more = ", more on the next page"
	}
	a.printer.Print("%s", a.printer.Dim(fmt.Sprintf("page %s, %d total%s", params["page"], total, more)))
}

// pageQuery reads page and page_size from the route query; bad values fall
// back to the defaults.
func pageQuery(m router.Match) models.PageQuery {
	var q models.PageQuery
	if v, err := strconv.Atoi(m.Query["page"]); err == nil {
		q.Page = v
	}
	if v, err := strconv.Atoi(m.Query["page_size"]); err == nil {
		q.PageSize = v
	}
	return q
}

func percent(v float64) string {
	if v <= 1 {
		v *= 100
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(timeLayout)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
