package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/medml/medcli/internal/client/api"
	"github.com/medml/medcli/internal/client/models"
	"github.com/medml/medcli/internal/filex"
)

// actionRoutes is the page each action belongs to. The guard for that page
// decides whether the action may run.
var actionRoutes = map[string]string{
	"addpatient":  "/patients",
	"editpatient": "/patients",
	"upload":      "/history",
	"editprofile": "/profile",
	"newroom":     "/chat",
	"send":        "/chat",
	"read":        "/chat",
	"report":      "/dashboard",
}

// Act runs a data-changing command after the guard has allowed its page.
func (a *App) Act(ctx context.Context, name string, args []string) error {
	path, ok := actionRoutes[name]
	if !ok {
		return a.failf("unknown action %s", name)
	}
	if !a.guardAction(ctx, path) {
		return nil
	}

	switch name {
	case "addpatient":
		return a.addPatient(ctx)
	case "editpatient":
		return a.editPatient(ctx, args)
	case "upload":
		return a.upload(ctx, args)
	case "editprofile":
		return a.editProfile(ctx)
	case "newroom":
		return a.newRoom(ctx, args)
	case "send":
		return a.send(ctx, args)
	case "read":
		return a.markRead(ctx, args)
	case "report":
		return a.report(ctx, args)
	}
	return nil
}

func (a *App) addPatient(ctx context.Context) error {
	in, err := a.readPatientInput()
	if err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return a.fail(err)
	}

	p, err := a.backend.CreatePatient(ctx, in)
	if err != nil {
		return a.fail(err)
	}
	a.printer.Success("Patient %s created with id %d", p.FullName, p.ID)
	return nil
}

// editPatient shows each field's current value and asks for a new one; an
// empty answer keeps it. Only changed fields are sent.
func (a *App) editPatient(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.printer.Print("Usage: editpatient <id>")
		return nil
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return a.failf("invalid patient id %q", args[0])
	}

	cur, err := a.backend.GetPatient(ctx, id)
	if err != nil {
		return a.fail(err)
	}

	var upd models.PatientUpdate
	out := a.printer.Out()
	for _, f := range []struct {
		label string
		cur   string
		dst   **string
	}{
		{"Full name", cur.FullName, &upd.FullName},
		{"MRN", cur.MRN, &upd.MRN},
		{"Phone", cur.Phone, &upd.Phone},
		{"Notes", cur.Notes, &upd.Notes},
	} {
		v, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s] (empty to keep)", f.label, f.cur), out)
		if err != nil {
			return err
		}
		if v != "" && v != f.cur {
			*f.dst = &v
		}
	}

	age, err := getSimpleText(a.reader, fmt.Sprintf("Age [%d] (empty to keep)", cur.Age), out)
	if err != nil {
		return err
	}
	if age != "" {
		n, err := strconv.Atoi(age)
		if err != nil {
			return a.failf("age must be a number")
		}
		if n != cur.Age {
			upd.Age = &n
		}
	}

	gender, err := getSimpleText(a.reader, fmt.Sprintf("Gender (M/F/O) [%s] (empty to keep)", cur.Gender), out)
	if err != nil {
		return err
	}
	if g := strings.ToUpper(gender); g != "" && g != cur.Gender {
		upd.Gender = &g
	}

	if upd.Empty() {
		a.printer.Info("Nothing to update")
		return nil
	}
	if err := upd.Validate(); err != nil {
		return a.fail(err)
	}

	p, err := a.backend.UpdatePatient(ctx, id, upd)
	if err != nil {
		return a.fail(err)
	}
	a.printer.Success("Patient %s (%d) updated", p.FullName, p.ID)
	return nil
}

func (a *App) readPatientInput() (models.PatientInput, error) {
	var in models.PatientInput
	var err error
	out := a.printer.Out()

	if in.FullName, err = getSimpleText(a.reader, "Full name", out); err != nil {
		return in, err
	}
	if in.MRN, err = getSimpleText(a.reader, "MRN", out); err != nil {
		return in, err
	}
	age, err := getSimpleText(a.reader, "Age", out)
	if err != nil {
		return in, err
	}
	if in.Age, err = strconv.Atoi(age); err != nil {
		return in, a.failf("age must be a number")
	}
	gender, err := getSimpleText(a.reader, "Gender (M/F/O)", out)
	if err != nil {
		return in, err
	}
	in.Gender = strings.ToUpper(gender)
	if in.Phone, err = getSimpleText(a.reader, "Phone (optional)", out); err != nil {
		return in, err
	}
	if in.Notes, err = GetMultiline(a.reader, "Notes (optional)", out); err != nil {
		return in, err
	}
	return in, nil
}

// upload sends an image for prediction. Without a patient id the patient
// is described by the legacy demographic fields.
func (a *App) upload(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printer.Print("Usage: upload <image> [patient-id]")
		return nil
	}

	content, mime, err := filex.ReadImage(args[0])
	if err != nil {
		return a.failf("read image: %w", err)
	}
	a.logger.Debug(ctx, "uploading image", "file", args[0], "mime", mime, "size", len(content))

	var ref models.PatientRef
	if len(args) > 1 {
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || id <= 0 {
			return a.failf("invalid patient id %q", args[1])
		}
		ref.PatientID = id
	} else {
		in, err := a.readPatientInput()
		if err != nil {
			return err
		}
		ref = models.PatientRef{Name: in.FullName, Age: in.Age, Gender: in.Gender, MRN: in.MRN, Phone: in.Phone}
	}
	if err := ref.Validate(); err != nil {
		return a.fail(err)
	}

	tx, err := a.backend.UploadImage(ctx, models.ImageFile{Name: filepath.Base(args[0]), Content: content}, ref)
	if err != nil {
		return a.fail(err)
	}

	a.printer.Success("Prediction %s", tx.ID)
	a.printer.Field("Diagnosis", tx.Diagnosis)
	a.printer.Field("Confidence", percent(tx.Confidence))
	if tx.ModelVersion != "" {
		a.printer.Field("Model", tx.ModelVersion)
	}
	if tx.TotalProcessingTime > 0 {
		a.printer.Field("Took", fmt.Sprintf("%.2fs", tx.TotalProcessingTime))
	}
	return nil
}

// editProfile asks for each editable field; an empty answer keeps the
// current value.
func (a *App) editProfile(ctx context.Context) error {
	var upd models.ProfileUpdate
	out := a.printer.Out()

	for _, f := range []struct {
		prompt string
		dst    **string
	}{
		{"Full name (empty to keep)", &upd.FullName},
		{"Email (empty to keep)", &upd.Email},
		{"Contact (empty to keep)", &upd.Contact},
	} {
		v, err := getSimpleText(a.reader, f.prompt, out)
		if err != nil {
			return err
		}
		if v != "" {
			*f.dst = &v
		}
	}

	if upd.Empty() {
		a.printer.Info("Nothing to update")
		return nil
	}

	if _, err := a.backend.UpdateProfile(ctx, upd); err != nil {
		return a.fail(err)
	}
	// the cache never replaces a profile it holds
	a.profiles.Clear()
	a.printer.Success("Profile updated")
	return a.showProfile(ctx)
}

func (a *App) newRoom(ctx context.Context, args []string) error {
	if len(args) < 2 {
		a.printer.Print("Usage: newroom <name> <member-id>...")
		return nil
	}

	room := models.NewRoom{Name: args[0], RoomType: models.RoomGroup}
	for _, s := range args[1:] {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return a.failf("invalid member id %q", s)
		}
		room.MemberIDs = append(room.MemberIDs, id)
	}
	if len(room.MemberIDs) == 1 {
		room.RoomType = models.RoomDirect
	}

	r, err := a.backend.CreateRoom(ctx, room)
	if err != nil {
		return a.fail(err)
	}
	a.printer.Success("Room %s created (%s)", r.Name, r.ID)
	return nil
}

func (a *App) send(ctx context.Context, args []string) error {
	if len(args) < 2 {
		a.printer.Print("Usage: send <room-id> <text>")
		return nil
	}
	msg, err := a.backend.SendMessage(ctx, args[0], strings.Join(args[1:], " "))
	if err != nil {
		return a.fail(err)
	}
	a.printer.Success("Sent at %s", formatTime(msg.CreatedAt))
	return nil
}

// markRead marks the unread messages of the room's first page as read.
func (a *App) markRead(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printer.Print("Usage: read <room-id>")
		return nil
	}
	roomID := args[0]

	msgs, err := a.backend.ListMessages(ctx, roomID, models.PageQuery{})
	if err != nil {
		return a.fail(err)
	}
	var ids []string
	for _, m := range msgs.Results {
		if !m.IsRead {
			ids = append(ids, m.ID)
		}
	}
	if len(ids) == 0 {
		a.printer.Info("No unread messages")
		return nil
	}
	if err := a.backend.MarkRead(ctx, roomID, ids); err != nil {
		return a.fail(err)
	}
	a.printer.Success("Marked %d message(s) as read", len(ids))
	return nil
}

func (a *App) report(ctx context.Context, args []string) error {
	if len(args) != 2 {
		a.printer.Print("Usage: report <from YYYY-MM-DD> <to YYYY-MM-DD>")
		return nil
	}
	from, err := time.Parse(api.DateLayout, args[0])
	if err != nil {
		return a.failf("invalid start date %q", args[0])
	}
	to, err := time.Parse(api.DateLayout, args[1])
	if err != nil {
		return a.failf("invalid end date %q", args[1])
	}
	if to.Before(from) {
		return a.failf("end date is before start date")
	}

	r, err := a.backend.ReportSummary(ctx, from, to)
	if err != nil {
		return a.fail(err)
	}

	a.printer.Header(fmt.Sprintf("Report %s .. %s", args[0], args[1]))
	a.printer.Field("Patients", r.TotalPatients)
	a.printer.Field("Predictions", r.TotalPredictions)
	a.printer.Field("Avg confidence", percent(r.AvgConfidence))
	if len(r.ByDiagnosis) == 0 {
		return nil
	}
	t := a.printer.Table("Diagnosis", "Count")
	for _, c := range r.ByDiagnosis {
		t.AddRow(c.Diagnosis, strconv.Itoa(c.Count))
	}
	return t.Render()
}
