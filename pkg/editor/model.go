package editor

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/hours/internal/availability"
	"github.com/marcus/hours/internal/config"
	"github.com/marcus/hours/internal/debounce"
	"github.com/marcus/hours/internal/models"
	"github.com/marcus/hours/internal/syncengine"
	"github.com/marcus/hours/internal/timeofday"
	"github.com/marcus/hours/internal/validate"
	"github.com/marcus/hours/pkg/editor/keymap"
)

// Defaults used when Options leaves a duration unset.
const (
	defaultFieldDebounce   = 100 * time.Millisecond
	defaultCommitDebounce  = 3 * time.Second
	defaultConfirmDuration = 1200 * time.Millisecond
)

// Model is the Bubble Tea model for the schedule editor
type Model struct {
	backend Backend
	BaseDir string

	// Window dimensions
	Width  int
	Height int

	// Schedules and their sync bookkeeping
	state     availability.State
	engine    *syncengine.ScheduleEngine
	fields    *debounce.Tier[fieldKey] // W1: per-field keystroke debounce
	commits   *debounce.Tier[string]   // W2: per-schedule commit debounce
	confirms  *debounce.Tier[string]   // lifetime of the "saved" badge
	softBound timeofday.TimeOfDay

	Loading bool
	LoadErr error

	// UI state
	expanded string      // ID of the open schedule panel
	cursor   int         // index into rows()
	side     models.Side // focused side on frame rows
	offset   int         // first visible row

	// Text input state
	editing   editKind
	editField fieldKey // the time field being edited
	editID    string   // schedule whose name/description is being edited
	input     textinput.Model

	confirmDelete string // schedule awaiting delete confirmation
	HelpOpen      bool

	Keymap *keymap.Registry

	// Status message (temporary feedback)
	StatusMessage string
	StatusIsError bool
}

// New creates an editor model. Nothing is fetched until Init runs.
func New(opts Options) Model {
	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)
	if cfg, err := keymap.LoadConfig(keymap.ConfigPath(opts.BaseDir)); err != nil {
		slog.Warn("load keymap", "err", err)
	} else {
		for _, err := range keymap.ApplyConfig(km, cfg) {
			slog.Warn("keymap override ignored", "err", err)
		}
	}

	expanded, err := config.GetExpandedSchedule(opts.BaseDir)
	if err != nil {
		slog.Warn("load editor state", "err", err)
	}

	if opts.FieldDebounce <= 0 {
		opts.FieldDebounce = defaultFieldDebounce
	}
	if opts.CommitDebounce <= 0 {
		opts.CommitDebounce = defaultCommitDebounce
	}
	if opts.ConfirmDuration <= 0 {
		opts.ConfirmDuration = defaultConfirmDuration
	}
	if opts.SoftBound == timeofday.Midnight {
		opts.SoftBound = validate.DefaultSoftBound
	}

	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 200

	return Model{
		backend:   opts.Backend,
		BaseDir:   opts.BaseDir,
		engine:    syncengine.NewScheduleEngine(opts.Backend.UpdateDays),
		fields:    debounce.New[fieldKey](opts.FieldDebounce),
		commits:   debounce.New[string](opts.CommitDebounce),
		confirms:  debounce.New[string](opts.ConfirmDuration),
		softBound: opts.SoftBound,
		Loading:   true,
		expanded:  expanded,
		input:     input,
		Keymap:    km,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.fetchSchedules()
}

// Stop cancels every pending debounce timer. Writes already in flight are
// left to finish.
func (m Model) Stop() {
	m.fields.Stop()
	m.commits.Stop()
	m.confirms.Stop()
}

// Schedules returns the schedules currently held by the editor.
func (m Model) Schedules() []*models.WeeklySchedule {
	return m.state.Schedules
}

// SyncStatus returns the sync status of a schedule.
func (m Model) SyncStatus(id string) syncengine.Status {
	return m.engine.Status(id)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.scrollToCursor()
		return m, nil

	case schedulesLoadedMsg:
		return m.handleLoaded(msg)

	case fieldDebounceMsg:
		if !m.fields.Fire(msg.Key, msg.Token) {
			return m, nil
		}
		return m.commitTime(msg.Key, msg.Raw)

	case commitDebounceMsg:
		if !m.commits.Fire(msg.ScheduleID, msg.Token) {
			return m, nil
		}
		return m, m.settle(msg.ScheduleID)

	case syncDoneMsg:
		return m.handleSyncDone(msg)

	case confirmExpiredMsg:
		m.confirms.Fire(msg.ScheduleID, msg.Token)
		return m, nil

	case fieldSavedMsg:
		if msg.Err != nil {
			m.setError(fmt.Sprintf("Saving %s failed: %v", msg.Field, msg.Err))
		} else {
			m.setStatus(fmt.Sprintf("Saved %s", msg.Field))
		}
		return m, nil

	case scheduleCreatedMsg:
		return m.handleCreated(msg)

	case scheduleDeletedMsg:
		return m.handleDeleted(msg)
	}

	// Forward everything else (cursor blink) to the focused input
	if m.editing != editNone {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleLoaded(msg schedulesLoadedMsg) (tea.Model, tea.Cmd) {
	m.Loading = false
	if msg.Err != nil {
		m.LoadErr = msg.Err
		m.setError(fmt.Sprintf("Could not load schedules: %v", msg.Err))
		return m, nil
	}
	m.LoadErr = nil
	m.state, _ = availability.Apply(m.state, availability.ReplaceAll{Schedules: msg.Schedules})
	m.fields.Stop()
	m.commits.Stop()
	m.engine.SeedAll(m.state.Schedules)
	if m.expanded != "" && m.state.Find(m.expanded) == nil {
		m.expanded = ""
	}
	m.clampCursor()
	slog.Debug("schedules loaded", "count", len(m.state.Schedules))
	return m, nil
}

// applyEdit runs an edit command, marks the schedule as edited and restarts
// its W2 timer.
func (m Model) applyEdit(c availability.Command) (Model, tea.Cmd, error) {
	next, err := availability.Apply(m.state, c)
	if err != nil {
		return m, nil, err
	}
	m.state = next
	id := c.Target()
	m.engine.Touch(id)
	tick := m.commits.Tick(id, func(tok debounce.Token) tea.Msg {
		return commitDebounceMsg{ScheduleID: id, Token: tok}
	})
	return m, tick, nil
}

// commitTime writes typed text into the frame side addressed by key.
func (m Model) commitTime(key fieldKey, raw string) (tea.Model, tea.Cmd) {
	next, cmd, err := m.applyEdit(availability.SetFrameTime{
		ScheduleID: key.ScheduleID,
		Day:        key.Day,
		FrameID:    key.FrameID,
		Side:       key.Side,
		Raw:        raw,
	})
	if err != nil {
		// The frame was removed while its timer was pending.
		slog.Debug("commit time", "err", err)
		return m, nil
	}
	return next, cmd
}

// settle runs the commit decision for a schedule whose W2 elapsed.
func (m Model) settle(id string) tea.Cmd {
	sc := m.state.Find(id)
	if sc == nil {
		return nil
	}
	d := m.engine.SettleSchedule(sc)
	slog.Debug("settle", "schedule", id, "action", d.Action)
	if d.Action == syncengine.Write {
		return m.writeDays(id, d.Value)
	}
	return nil
}

func (m Model) handleSyncDone(msg syncDoneMsg) (tea.Model, tea.Cmd) {
	id := msg.ScheduleID
	res := m.engine.Done(id, msg.Err)

	var cmds []tea.Cmd
	if res.Confirmed {
		cmds = append(cmds, m.confirms.Tick(id, func(tok debounce.Token) tea.Msg {
			return confirmExpiredMsg{ScheduleID: id, Token: tok}
		}))
	}
	if res.Err != nil {
		m.setError(fmt.Sprintf("Saving %s failed: %v (r to retry)", m.scheduleName(id), res.Err))
	}
	if res.Resettle {
		cmds = append(cmds, m.settle(id))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleCreated(msg scheduleCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.setError(fmt.Sprintf("Creating schedule failed: %v", msg.Err))
		return m, nil
	}
	sc := msg.Schedule
	next, err := availability.Apply(m.state, availability.AddSchedule{Schedule: sc})
	if err != nil {
		m.setError(err.Error())
		return m, nil
	}
	m.state = next
	m.engine.Seed(sc.ID, sc.Availability())
	m.expanded = sc.ID
	m.focusRow(func(r row) bool { return r.kind == rowHeader && r.scheduleID == sc.ID })
	m.setStatus(fmt.Sprintf("Created %s", sc.Name))
	return m, m.persistExpanded()
}

func (m Model) handleDeleted(msg scheduleDeletedMsg) (tea.Model, tea.Cmd) {
	name := m.scheduleName(msg.ScheduleID)
	if msg.Err != nil {
		m.setError(fmt.Sprintf("Deleting %s failed: %v", name, msg.Err))
		return m, nil
	}
	next, err := availability.Apply(m.state, availability.RemoveSchedule{ScheduleID: msg.ScheduleID})
	if err != nil {
		slog.Debug("remove schedule", "err", err)
		return m, nil
	}
	m.state = next
	m.engine.Forget(msg.ScheduleID)
	m.commits.Cancel(msg.ScheduleID)
	m.confirms.Cancel(msg.ScheduleID)
	m.setStatus(fmt.Sprintf("Deleted %s", name))

	var cmd tea.Cmd
	if m.expanded == msg.ScheduleID {
		m.expanded = ""
		cmd = m.persistExpanded()
	}
	m.clampCursor()
	return m, cmd
}

// hasUnsaved reports whether any schedule holds edits not yet confirmed by
// the server.
func (m Model) hasUnsaved() bool {
	for _, sc := range m.state.Schedules {
		if m.engine.Status(sc.ID) != syncengine.Idle {
			return true
		}
	}
	return false
}

func (m Model) scheduleName(id string) string {
	if sc := m.state.Find(id); sc != nil {
		return sc.Name
	}
	return id
}

func (m *Model) setStatus(s string) {
	m.StatusMessage = s
	m.StatusIsError = false
}

func (m *Model) setError(s string) {
	m.StatusMessage = s
	m.StatusIsError = true
}
