package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/seatplan/pkg/canvas"
	"github.com/matzehuels/seatplan/pkg/dnd"
	"github.com/matzehuels/seatplan/pkg/errors"
	"github.com/matzehuels/seatplan/pkg/geometry"
	"github.com/matzehuels/seatplan/pkg/guest"
	"github.com/matzehuels/seatplan/pkg/planner"
	"github.com/matzehuels/seatplan/pkg/scene"
	"github.com/matzehuels/seatplan/pkg/seating"
)

// Terminal cells are roughly twice as tall as wide. Screen space in the
// editor is one unit per column and cellAspect units per row, so circles
// stay round.
const (
	cellAspect     = 2.0
	guestPaneWidth = 30
	headerLines    = 2
	footerLines    = 2
	fitPadding     = 2.0
	zoomStep       = 1.25
	panStep        = 4.0
	saveTick       = 200 * time.Millisecond
)

// Editor styles
var (
	editorSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	editorNormalStyle   = lipgloss.NewStyle().Foreground(colorText)
	editorDimStyle      = lipgloss.NewStyle().Foreground(colorFaint)
	editorOutlineStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	editorTableStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	editorSeatStyle     = lipgloss.NewStyle().Foreground(colorSeat)
	editorTakenStyle    = lipgloss.NewStyle().Foreground(colorTaken)
	editorHoverStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorOK)
	editorPointerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	editorPaneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorFaint)
	editorFocusStyle    = editorPaneStyle.BorderForeground(colorAccent)
)

type pane int

const (
	paneGuests pane = iota
	paneCanvas
)

type (
	tickMsg      time.Time
	saveErrorMsg struct{ err error }
)

// =============================================================================
// EditorModel - Interactive seating editor
// =============================================================================

// EditorModel is the bubbletea model of the seating editor. The guest list
// is on the left, the floor plan on the right. A guest picked up from the
// list follows the pointer until it is dropped on a seat; activating an
// occupied seat without a guest in hand frees it.
type EditorModel struct {
	session *planner.Session
	engine  *seating.Engine
	scene   *scene.Scene
	view    *canvas.Transform
	dnd     *dnd.Coordinator
	saveErr <-chan error

	Guests []guest.Guest
	Cursor int
	Offset int

	focus   pane
	pointer geometry.Point
	width   int
	height  int
	fitted  bool

	status string
	err    error

	// mouseDrag is set while a guest picked up with the mouse on row pressY
	// has not been released yet.
	mouseDrag bool
	pressY    int
}

// NewEditorModel creates an editor on an open seating session. Save
// failures reported on saveErr are shown in the status bar.
func NewEditorModel(ss *planner.Session, saveErr <-chan error, viewOpts ...canvas.Option) EditorModel {
	sc := scene.Build(ss.Layout)
	view := canvas.New(viewOpts...)
	coord := dnd.New(ss.Engine, sc, view, dnd.WithSnapRadius(3*geometry.SeatRadius))
	coord.SetGuests(ss.Guests)

	guests := guest.Accepted(ss.Guests)
	guest.SortByName(guests)

	return EditorModel{
		session: ss,
		engine:  ss.Engine,
		scene:   sc,
		view:    view,
		dnd:     coord,
		saveErr: saveErr,
		Guests:  guests,
		width:   80,
		height:  24,
	}
}

func (m EditorModel) Init() tea.Cmd {
	return tea.Batch(tick(), waitForSaveError(m.saveErr))
}

func tick() tea.Cmd {
	return tea.Tick(saveTick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func waitForSaveError(ch <-chan error) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		err, ok := <-ch
		if !ok {
			return nil
		}
		return saveErrorMsg{err}
	}
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if !m.fitted {
			m.fit()
		}
	case tickMsg:
		return m, tick()
	case saveErrorMsg:
		m.err = msg.err
		return m, waitForSaveError(m.saveErr)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m EditorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.toggleFocus()
		return m, nil
	case "esc":
		if m.dnd.State() == dnd.Dragging {
			m.dnd.Cancel()
			m.status = "Drag cancelled"
		}
		return m, nil
	case "+", "=":
		m.view.ZoomAt(m.pointer, 1, zoomStep)
		return m, nil
	case "-", "_":
		m.view.ZoomAt(m.pointer, -1, zoomStep)
		return m, nil
	case "0":
		m.fit()
		return m, nil
	case "H":
		m.view.Pan(geometry.Pt(panStep, 0))
		return m, nil
	case "L":
		m.view.Pan(geometry.Pt(-panStep, 0))
		return m, nil
	case "K":
		m.view.Pan(geometry.Pt(0, panStep*cellAspect))
		return m, nil
	case "J":
		m.view.Pan(geometry.Pt(0, -panStep*cellAspect))
		return m, nil
	}

	if m.focus == paneGuests {
		m.handleGuestKey(msg.String())
	} else {
		m.handleCanvasKey(msg.String())
	}
	return m, nil
}

func (m *EditorModel) handleGuestKey(key string) {
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Guests)-1 {
			m.Cursor++
		}
	case "enter", " ":
		m.pickUp(m.Cursor)
	}
	m.scrollGuests()
}

func (m *EditorModel) handleCanvasKey(key string) {
	switch key {
	case "up", "k":
		m.movePointer(geometry.Pt(0, -cellAspect))
	case "down", "j":
		m.movePointer(geometry.Pt(0, cellAspect))
	case "left", "h":
		m.movePointer(geometry.Pt(-1, 0))
	case "right", "l":
		m.movePointer(geometry.Pt(1, 0))
	case "enter", " ":
		m.activate()
	}
}

// pickUp starts dragging the guest at index i and moves focus to the plan.
func (m *EditorModel) pickUp(i int) {
	if i < 0 || i >= len(m.Guests) {
		return
	}
	g := m.Guests[i]
	if err := m.dnd.BeginDrag(g.ID); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.status = fmt.Sprintf("Placing %s; move to a seat and press enter", g.DisplayName())
	m.focus = paneCanvas
	m.dnd.Move(m.pointer)
}

// activate drops the dragged guest at the pointer, or frees the seat under
// it when nothing is being dragged.
func (m *EditorModel) activate() {
	m.err = nil
	if g, ok := m.dnd.Dragged(); ok {
		seatID, err := m.dnd.Drop(m.pointer)
		switch {
		case err != nil:
			m.err = err
		case seatID == "":
			m.status = fmt.Sprintf("No seat here; %s is back on the list", g.DisplayName())
		default:
			m.status = fmt.Sprintf("Seated %s at %s", g.DisplayName(), seatID)
		}
		return
	}
	if a, ok := m.dnd.ClickSeat(m.pointer); ok {
		m.status = fmt.Sprintf("Freed the seat of %s", a.GuestName)
	}
}

func (m *EditorModel) movePointer(d geometry.Point) {
	w, h := m.canvasSize()
	p := m.pointer.Add(d)
	p.X = min(max(p.X, 0), w-1)
	p.Y = min(max(p.Y, 0), h-cellAspect)
	m.pointer = p
	m.dnd.Move(p)
}

func (m *EditorModel) toggleFocus() {
	if m.focus == paneGuests {
		m.focus = paneCanvas
	} else {
		m.focus = paneGuests
	}
}

func (m *EditorModel) handleMouse(msg tea.MouseMsg) {
	pt, onCanvas := m.mouseToScreen(msg.X, msg.Y)

	switch {
	case msg.Button == tea.MouseButtonWheelUp && onCanvas:
		m.view.ZoomAt(pt, 1, zoomStep)
	case msg.Button == tea.MouseButtonWheelDown && onCanvas:
		m.view.ZoomAt(pt, -1, zoomStep)
	case msg.Action == tea.MouseActionMotion && onCanvas:
		m.pointer = pt
		m.dnd.Move(pt)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if onCanvas {
			m.pointer = pt
			if m.dnd.State() == dnd.Idle {
				m.focus = paneCanvas
				m.activate()
			}
			return
		}
		if i, ok := m.guestAtRow(msg.Y); ok {
			m.Cursor = i
			m.pickUp(i)
			m.mouseDrag = m.dnd.State() == dnd.Dragging
			m.pressY = msg.Y
		}
	case msg.Action == tea.MouseActionRelease && onCanvas:
		m.mouseDrag = false
		m.pointer = pt
		if m.dnd.State() == dnd.Dragging {
			m.activate()
		}
	case msg.Action == tea.MouseActionRelease:
		// Releasing on the row that was pressed is a click: the guest stays
		// picked up for a keyboard or click drop. Anywhere else off the plan
		// there is no drop target.
		if m.mouseDrag && msg.Y != m.pressY && m.dnd.State() == dnd.Dragging {
			g, _ := m.dnd.Dragged()
			m.dnd.Cancel()
			m.focus = paneGuests
			m.status = fmt.Sprintf("No seat here; %s is back on the list", g.DisplayName())
		}
		m.mouseDrag = false
	}
}

// =============================================================================
// Geometry
// =============================================================================

// canvasSize returns the plan pane's interior in screen units.
func (m EditorModel) canvasSize() (float64, float64) {
	cols, rows := m.canvasCells()
	return float64(cols), float64(rows) * cellAspect
}

// canvasCells returns the plan pane's interior in terminal cells.
func (m EditorModel) canvasCells() (int, int) {
	cols := m.width - guestPaneWidth - 4
	rows := m.height - headerLines - footerLines - 2
	return max(cols, 1), max(rows, 1)
}

func (m *EditorModel) fit() {
	w, h := m.canvasSize()
	m.view.Fit(m.scene.Bounds(), w, h, fitPadding)
	m.pointer = geometry.Pt(w/2, h/2)
	m.fitted = true
}

// mouseToScreen converts a terminal cell to a screen point in the plan pane.
func (m EditorModel) mouseToScreen(x, y int) (geometry.Point, bool) {
	cols, rows := m.canvasCells()
	col := x - (guestPaneWidth + 2) - 1
	row := y - headerLines - 1
	if col < 0 || row < 0 || col >= cols || row >= rows {
		return geometry.Point{}, false
	}
	return cellCenter(col, row), true
}

func (m EditorModel) guestAtRow(y int) (int, bool) {
	_, rows := m.canvasCells()
	row := y - headerLines - 1
	if row < 0 || row >= rows || m.Offset+row >= len(m.Guests) {
		return 0, false
	}
	return m.Offset + row, true
}

func (m *EditorModel) scrollGuests() {
	_, rows := m.canvasCells()
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+rows {
		m.Offset = m.Cursor - rows + 1
	}
}

func cellCenter(col, row int) geometry.Point {
	return geometry.Pt(float64(col)+0.5, (float64(row)+0.5)*cellAspect)
}

func screenToCell(p geometry.Point) (int, int) {
	return int(p.X), int(p.Y / cellAspect)
}

// =============================================================================
// View
// =============================================================================

func (m EditorModel) View() string {
	var b strings.Builder

	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(editorDimStyle.Render("tab pane  ↑↓←→ move  ⏎ pick/drop/free  esc cancel  +/- zoom  HJKL pan  0 fit  q quit"))
	b.WriteString("\n")

	guests, plan := editorPaneStyle, editorPaneStyle
	if m.focus == paneGuests {
		guests = editorFocusStyle
	} else {
		plan = editorFocusStyle
	}
	_, rows := m.canvasCells()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		guests.Width(guestPaneWidth).Height(rows).Render(m.guestList(rows)),
		plan.Render(m.plan()),
	))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m EditorModel) header() string {
	ss := m.session
	title := ss.Wedding.Name
	if title == "" {
		title = ss.Wedding.ID
	}
	layout := "no layout"
	capacity := 0
	if ss.Layout != nil {
		layout = ss.Layout.Name
		capacity = ss.Layout.TotalCapacity
	}
	return StyleTitle.Render(title) + StyleDim.Render(" · "+layout+" · ") +
		StyleNumber.Render(fmt.Sprintf("%d/%d", m.engine.Len(), capacity)) + StyleDim.Render(" seated · ") +
		StyleDim.Render(fmt.Sprintf("zoom %.0f%%", m.view.Scale()*100))
}

func (m EditorModel) guestList(rows int) string {
	var lines []string
	end := min(m.Offset+rows, len(m.Guests))
	for i := m.Offset; i < end; i++ {
		g := m.Guests[i]
		marker, style := "○", editorNormalStyle
		if m.engine.IsGuestAssigned(g.ID) {
			marker, style = "●", editorDimStyle
		}
		if d, ok := m.dnd.Dragged(); ok && d.ID == g.ID {
			marker = "✥"
		}
		cursor := "  "
		if i == m.Cursor && m.focus == paneGuests {
			cursor, style = "▸ ", editorSelectedStyle
		}
		line := truncate(cursor+marker+" "+g.DisplayName(), guestPaneWidth)
		lines = append(lines, style.Render(line))
	}
	if len(lines) == 0 {
		lines = append(lines, editorDimStyle.Render("No accepted guests"))
	}
	return strings.Join(lines, "\n")
}

type cellKind int

const (
	cellEmpty cellKind = iota
	cellOutline
	cellTable
	cellLabel
	cellSeat
	cellTaken
	cellHover
	cellPointer
)

type cell struct {
	r    rune
	kind cellKind
}

// plan rasterizes the floor plan into terminal cells.
func (m EditorModel) plan() string {
	cols, rows := m.canvasCells()
	grid := make([][]cell, rows)
	for r := range grid {
		grid[r] = make([]cell, cols)
		for c := range grid[r] {
			grid[r][c] = cell{' ', cellEmpty}
		}
	}
	set := func(p geometry.Point, cl cell) {
		c, r := screenToCell(p)
		if r >= 0 && r < rows && c >= 0 && c < cols {
			grid[r][c] = cl
		}
	}

	l := m.session.Layout
	if l == nil {
		return m.renderGrid(grid)
	}

	// Outline: inside cells with an outside neighbour.
	if l.Shape.Complete() {
		poly := l.Shape.Polygon()
		inside := func(c, r int) bool {
			return poly.Contains(m.view.ToCanvasSpace(cellCenter(c, r)))
		}
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if inside(c, r) && (!inside(c-1, r) || !inside(c+1, r) || !inside(c, r-1) || !inside(c, r+1)) {
					grid[r][c] = cell{'·', cellOutline}
				}
			}
		}
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if _, ok := m.scene.TableAt(m.view.ToCanvasSpace(cellCenter(c, r))); ok {
				grid[r][c] = cell{'▒', cellTable}
			}
		}
	}

	for i := range l.Tables {
		t := &l.Tables[i]
		label := []rune(t.DisplayLabel(i))
		center := m.view.ToScreenSpace(t.Position)
		start := center.Sub(geometry.Pt(float64(len(label))/2, 0))
		for j, ch := range label {
			set(start.Add(geometry.Pt(float64(j), 0)), cell{ch, cellLabel})
		}
		for _, seat := range t.Seats {
			p, ok := m.scene.SeatCenter(seat.ID)
			if !ok {
				continue
			}
			cl := cell{'○', cellSeat}
			if _, taken := m.engine.Occupant(seat.ID); taken {
				cl = cell{'●', cellTaken}
			}
			if seat.ID == m.dnd.Hover() {
				cl.kind = cellHover
			}
			set(m.view.ToScreenSpace(p), cl)
		}
	}

	if m.focus == paneCanvas || m.dnd.State() == dnd.Dragging {
		glyph := '+'
		if m.dnd.State() == dnd.Dragging {
			glyph = '✥'
		}
		set(m.pointer, cell{glyph, cellPointer})
	}
	return m.renderGrid(grid)
}

func (m EditorModel) renderGrid(grid [][]cell) string {
	var b strings.Builder
	for r, row := range grid {
		if r > 0 {
			b.WriteByte('\n')
		}
		// Style runs of equal kind together to keep the escape codes short.
		start := 0
		for c := 1; c <= len(row); c++ {
			if c < len(row) && row[c].kind == row[start].kind {
				continue
			}
			run := make([]rune, 0, c-start)
			for _, cl := range row[start:c] {
				run = append(run, cl.r)
			}
			b.WriteString(cellStyle(row[start].kind).Render(string(run)))
			start = c
		}
	}
	return b.String()
}

func cellStyle(k cellKind) lipgloss.Style {
	switch k {
	case cellOutline:
		return editorOutlineStyle
	case cellTable:
		return editorTableStyle
	case cellLabel:
		return editorNormalStyle
	case cellSeat:
		return editorSeatStyle
	case cellTaken:
		return editorTakenStyle
	case cellHover:
		return editorHoverStyle
	case cellPointer:
		return editorPointerStyle
	default:
		return lipgloss.NewStyle()
	}
}

func (m EditorModel) statusLine() string {
	var parts []string
	switch {
	case m.err != nil:
		parts = append(parts, StyleError.Render(iconError+" "+errors.UserMessage(m.err)))
	case m.status != "":
		parts = append(parts, m.status)
	}

	if g, ok := m.dnd.Dragged(); ok {
		target := "no seat"
		if h := m.dnd.Hover(); h != "" {
			target = h
		}
		parts = append(parts, StyleHighlight.Render(g.DisplayName()+" "+iconArrow+" "+target))
	} else if seatID, ok := m.seatUnderPointer(); ok && m.focus == paneCanvas {
		if a, taken := m.engine.Occupant(seatID); taken {
			parts = append(parts, StyleDim.Render(seatID+": "+a.GuestName))
		} else {
			parts = append(parts, StyleDim.Render(seatID+": empty"))
		}
	}

	if m.engine.Saving() {
		parts = append(parts, StyleWarning.Render("saving…"))
	} else {
		parts = append(parts, StyleSuccess.Render("saved"))
	}
	return strings.Join(parts, StyleDim.Render("  ·  "))
}

func (m EditorModel) seatUnderPointer() (string, bool) {
	p := m.view.ToCanvasSpace(m.pointer)
	if id, ok := m.scene.SeatAt(p); ok {
		return id, true
	}
	return m.scene.Nearest(p, 3*geometry.SeatRadius)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
