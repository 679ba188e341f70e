package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/prefs"
	"github.com/alexanderramin/studyplan/internal/recruitment"
	"github.com/alexanderramin/studyplan/internal/service"
	"github.com/alexanderramin/studyplan/internal/timeline"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// writeDoneMsg carries the result of a timeline write back to the loop.
type writeDoneMsg struct {
	result timeline.WriteResult
}

type reconcileDoneMsg struct {
	result *service.ReconcileResult
	err    error
}

type prefsSavedMsg struct {
	err error
}

type notice struct {
	text  string
	isErr bool
}

type plannerKeyMap struct {
	Quit      key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	Up        key.Binding
	Down      key.Binding
	Edit      key.Binding
	Reconcile key.Binding

	Close     key.Binding
	Delete    key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding
}

func defaultPlannerKeys() plannerKeyMap {
	return plannerKeyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		ZoomIn:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:   key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		Up:        key.NewBinding(key.WithKeys("up", "k")),
		Down:      key.NewBinding(key.WithKeys("down", "j")),
		Edit:      key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Reconcile: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reconcile")),

		Close:     key.NewBinding(key.WithKeys("esc")),
		Delete:    key.NewBinding(key.WithKeys("ctrl+d")),
		MoveUp:    key.NewBinding(key.WithKeys("ctrl+up")),
		MoveDown:  key.NewBinding(key.WithKeys("ctrl+down")),
		MoveLeft:  key.NewBinding(key.WithKeys("ctrl+left")),
		MoveRight: key.NewBinding(key.WithKeys("ctrl+right")),
	}
}

// plannerModel is the interactive timeline of one study. The board and
// controller are only touched from Update; persistence runs in Cmds and
// reports back through writeDoneMsg.
type plannerModel struct {
	ctx   context.Context
	app   *App
	keys  plannerKeyMap
	board *timeline.Board
	ctrl  *timeline.Controller
	edit  *timeline.Editor

	zoom      float64
	baseWeeks int
	layout    trackLayout
	width     int
	height    int

	selected  int
	selectRow int
	popup     *editPopup
	popupPos  prefs.Position

	reconciling bool
	status      notice
	quitting    bool
}

func newPlannerModel(ctx context.Context, app *App, study *domain.Study, items []*domain.BudgetLineItem, tasks []*domain.RecruitmentTask) *plannerModel {
	zoom := app.DefaultZoom
	if zoom <= 0 {
		zoom = timeline.DefaultZoom
	}
	pos := prefs.Position{X: 4, Y: 2}
	if app.Prefs != nil {
		zoom = app.Prefs.Zoom(zoom)
		if saved, ok := app.Prefs.PopupPosition(); ok {
			pos = saved
		}
	}

	board := timeline.NewBoard(study, items, tasks)
	m := &plannerModel{
		ctx:      ctx,
		app:      app,
		keys:     defaultPlannerKeys(),
		board:    board,
		ctrl:     timeline.NewController(board, app.LineItems, timeline.Mapper{}, timeline.Rect{}),
		edit:     timeline.NewEditor(board, app.LineItems),
		zoom:     timeline.NormalizeZoom(zoom),
		width:    80,
		height:   24,
		popupPos: pos,
	}
	m.relayout()
	return m
}

// loadPlanner reads a study's items and tasks and builds the planner.
func loadPlanner(ctx context.Context, app *App, studyID string) (*plannerModel, error) {
	study, err := app.Studies.GetByID(ctx, studyID)
	if err != nil {
		return nil, err
	}
	items, err := app.LineItems.ListByStudy(ctx, studyID)
	if err != nil {
		return nil, err
	}
	tasks, err := app.Recruitment.ListTasks(ctx, studyID)
	if err != nil {
		return nil, err
	}
	return newPlannerModel(ctx, app, study, items, tasks), nil
}

func (m *plannerModel) Init() tea.Cmd { return nil }

func (m *plannerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.relayout()
		return m, nil

	case writeDoneMsg:
		return m, m.resolveWrite(msg.result)

	case reconcileDoneMsg:
		m.applyReconcile(msg)
		return m, nil

	case prefsSavedMsg:
		if msg.err != nil {
			m.notify(fmt.Sprintf("saving preferences: %v", msg.err), true)
		}
		return m, nil

	case tea.BlurMsg:
		return m, m.pointer(timeline.PointerEvent{Phase: timeline.PhaseLeave})

	case tea.MouseMsg:
		if m.popup != nil {
			return m, nil
		}
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.popup != nil {
			return m, m.handlePopupKey(msg)
		}
		return m, m.handleKey(msg)
	}

	if m.popup != nil {
		return m, m.forwardPopup(msg)
	}
	return m, nil
}

// relayout recomputes the week span and cell layout. The mapper stays
// fixed while a gesture is active so percentages keep their meaning.
func (m *plannerModel) relayout() {
	items := m.board.Items()
	if !m.ctrl.Active() {
		m.baseWeeks = timeline.BaseWeekCount(m.board.Study(), items)
		visible := timeline.VisibleWeeks(m.baseWeeks, m.zoom)
		m.ctrl.SetMapper(timeline.NewMapper(m.board.Study(), visible))
	}
	m.layout = newTrackLayout(m.width, m.ctrl.Mapper(), items)
	m.ctrl.SetBounds(m.layout.Bounds())
	m.selected = min(max(m.selected, 0), max(len(items)-1, 0))
}

func (m *plannerModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m.setZoom(timeline.ZoomIn(m.zoom))
	case tea.MouseButtonWheelDown:
		return m.setZoom(timeline.ZoomOut(m.zoom))
	}

	ev := timeline.PointerEvent{X: m.layout.pointX(msg.X), Y: float64(msg.Y)}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		ev.Phase = timeline.PhaseDown
		ev.Target = m.layout.Hit(msg.X, msg.Y)
		m.selectRow = msg.Y - m.layout.top
		if row := m.layout.Row(msg.Y); row >= 0 {
			m.selected = row
		}
	case tea.MouseActionMotion:
		if !m.ctrl.Active() {
			return nil
		}
		ev.Phase = timeline.PhaseMove
		if !m.layout.Bounds().Contains(ev.X, ev.Y) {
			ev.Phase = timeline.PhaseLeave
		}
	case tea.MouseActionRelease:
		if !m.ctrl.Active() {
			return nil
		}
		ev.Phase = timeline.PhaseUp
	default:
		return nil
	}
	return m.pointer(ev)
}

// pointer feeds one event to the controller and acts on its outcome.
func (m *plannerModel) pointer(ev timeline.PointerEvent) tea.Cmd {
	out := m.ctrl.Handle(ev)
	m.relayout()

	var cmds []tea.Cmd
	if out.Write != nil {
		cmds = append(cmds, m.runWrite(out.Write))
	}
	if out.OpenEditor != "" {
		cmds = append(cmds, m.openEditor(out.OpenEditor))
	}
	return tea.Batch(cmds...)
}

func (m *plannerModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, m.keys.ZoomIn):
		return m.setZoom(timeline.ZoomIn(m.zoom))
	case key.Matches(msg, m.keys.ZoomOut):
		return m.setZoom(timeline.ZoomOut(m.zoom))
	case key.Matches(msg, m.keys.Up):
		m.selected = max(m.selected-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.selected = min(m.selected+1, max(len(m.board.Items())-1, 0))
	case key.Matches(msg, m.keys.Edit):
		if items := m.board.Items(); m.selected < len(items) {
			return m.openEditor(items[m.selected].ID)
		}
	case key.Matches(msg, m.keys.Reconcile):
		return m.reconcile()
	}
	return nil
}

func (m *plannerModel) setZoom(z float64) tea.Cmd {
	if m.ctrl.Active() || z == m.zoom {
		return nil
	}
	m.zoom = z
	m.relayout()
	m.notify(fmt.Sprintf("Zoom ×%g", z), false)

	store := m.app.Prefs
	if store == nil {
		return nil
	}
	return func() tea.Msg { return prefsSavedMsg{err: store.SetZoom(z)} }
}

// ── Edit popup ───────────────────────────────────────────────────────────────

func (m *plannerModel) openEditor(id string) tea.Cmd {
	m.edit.Open(id)
	m.popup = newEditPopup(m.edit.Item, timeNow)
	return m.popup.Init()
}

func (m *plannerModel) closeEditor() {
	m.edit.Close()
	m.popup = nil
	m.relayout()
}

func (m *plannerModel) handlePopupKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.closeEditor()
		return nil
	case key.Matches(msg, m.keys.Delete):
		w := m.edit.Delete()
		m.popup = nil
		m.relayout()
		m.notify("Line item deleted", false)
		if w == nil {
			return nil
		}
		return m.runWrite(w)
	case key.Matches(msg, m.keys.MoveUp):
		return m.movePopup(0, -1)
	case key.Matches(msg, m.keys.MoveDown):
		return m.movePopup(0, 1)
	case key.Matches(msg, m.keys.MoveLeft):
		return m.movePopup(-2, 0)
	case key.Matches(msg, m.keys.MoveRight):
		return m.movePopup(2, 0)
	}
	return m.forwardPopup(msg)
}

// forwardPopup passes msg to the form, saves any field the form let go of
// and closes the popup once the form is submitted.
func (m *plannerModel) forwardPopup(msg tea.Msg) tea.Cmd {
	cmd, ready := m.popup.Update(msg)
	cmds := []tea.Cmd{cmd}
	for _, f := range ready {
		if !m.popup.changed(f) {
			continue
		}
		w, err := m.edit.SetField(f, m.popup.value(f))
		if err != nil {
			m.notify(err.Error(), true)
			continue
		}
		m.popup.markSaved(f)
		if w != nil {
			cmds = append(cmds, m.runWrite(w))
		}
	}
	if m.popup.finished {
		m.closeEditor()
	}
	m.relayout()
	return tea.Batch(cmds...)
}

func (m *plannerModel) movePopup(dx, dy int) tea.Cmd {
	m.popupPos.X = max(m.popupPos.X+dx, 0)
	m.popupPos.Y = max(m.popupPos.Y+dy, 0)

	store, pos := m.app.Prefs, m.popupPos
	if store == nil {
		return nil
	}
	return func() tea.Msg { return prefsSavedMsg{err: store.SetPopupPosition(pos)} }
}

// ── Persistence ──────────────────────────────────────────────────────────────

func (m *plannerModel) runWrite(w timeline.Write) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return writeDoneMsg{result: w(ctx)}
	}
}

// resolveWrite applies a finished write on the loop. Failures are reported
// in the status line; in-memory state is not rolled back.
func (m *plannerModel) resolveWrite(r timeline.WriteResult) tea.Cmd {
	if r.Err != nil {
		m.notify(fmt.Sprintf("%s: %v", writeLabel(r.Op), r.Err), true)
	} else if r.Op == timeline.OpCreate {
		m.notify("Line item saved", false)
	}

	follow := m.board.Resolve(m.app.LineItems, r)
	m.relayout()
	if follow == nil {
		return nil
	}
	return m.runWrite(follow)
}

func writeLabel(op timeline.WriteOp) string {
	switch op {
	case timeline.OpCreate:
		return "creating line item"
	case timeline.OpDelete:
		return "deleting line item"
	case timeline.OpFields:
		return "saving line item"
	default:
		return "saving schedule"
	}
}

// reconcile recomputes aggregates off the loop on copies of the board and
// applies the resulting updates when they come back.
func (m *plannerModel) reconcile() tea.Cmd {
	if m.reconciling || m.app.Reconcile == nil {
		return nil
	}
	m.reconciling = true

	studyID := m.board.Study().ID
	items := make([]*domain.BudgetLineItem, 0, len(m.board.Items()))
	for _, it := range m.board.Items() {
		items = append(items, it.Clone())
	}
	tasks := make([]*domain.RecruitmentTask, 0, len(m.board.Tasks()))
	for _, t := range m.board.Tasks() {
		c := *t
		c.LinkedItems = append([]string(nil), t.LinkedItems...)
		tasks = append(tasks, &c)
	}
	svc, ctx := m.app.Reconcile, m.ctx
	return func() tea.Msg {
		res, err := svc.Reconcile(ctx, studyID, tasks, items)
		return reconcileDoneMsg{result: res, err: err}
	}
}

func (m *plannerModel) applyReconcile(msg reconcileDoneMsg) {
	m.reconciling = false
	if msg.result != nil {
		recruitment.Apply(m.board.Items(), msg.result.Updates)
	}
	if msg.err != nil {
		m.notify(fmt.Sprintf("reconciling: %v", msg.err), true)
		return
	}
	m.notify(formatter.FormatReconcileResult(msg.result.Stats), false)
}

func (m *plannerModel) notify(text string, isErr bool) {
	m.status = notice{text: text, isErr: isErr}
}
