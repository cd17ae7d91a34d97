package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"outline-cli/internal/docs"
	"outline-cli/internal/export"
	"outline-cli/internal/lineedit"
	"outline-cli/internal/logging"
	"outline-cli/internal/model"
	"outline-cli/internal/projection"
	"outline-cli/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type view int

const (
	viewProjects view = iota
	viewOutline
	viewHelp
)

// chromeHeight is the rows used by the title, status, input and help lines.
const chromeHeight = 4

var errClipboardUnsupported = errors.New("clipboard not available on this system")

type appModel struct {
	ctx       context.Context
	store     *store.Store
	home      string
	exportDir string
	log       *logging.Log
	session   *store.Session

	view       view
	returnView view

	projects []model.Project
	project  model.Project
	tree     model.Tree
	lines    []model.DisplayLine
	collapse projection.Collapse

	// Target of "+": a subheading, or the heading's blank subheading when curSub is 0.
	curHeading int64
	curSub     int64

	edit *lineEdit

	input textinput.Model
	vp    viewport.Model
	help  help.Model
	keys  keyMap

	width  int
	height int

	status    string
	statusErr bool

	changes <-chan struct{}
}

func newAppModel(ctx context.Context, opts Options) appModel {
	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "command (? for help)"
	in.CharLimit = 4096
	in.Focus()

	lg := opts.Log
	if lg == nil {
		lg = logging.Nop()
	}

	m := appModel{
		ctx:       ctx,
		store:     opts.Store,
		home:      opts.Home,
		exportDir: opts.ExportDir,
		log:       lg,
		collapse:  projection.NewCollapse(),
		input:     in,
		vp:        viewport.New(80, 20),
		help:      help.New(),
		keys:      defaultKeyMap(),
		width:     80,
		height:    20 + chromeHeight,
	}

	st, err := store.LoadSession(opts.Home)
	if err != nil || st == nil {
		st = &store.Session{Version: 1}
	}
	m.session = st
	if st.Active() {
		if p, err := m.store.GetProject(ctx, st.ProjectID); err == nil {
			m.project = p
			m.view = viewOutline
		}
	}
	m.reload()
	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForChange(m.changes))
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.vp.Width = msg.Width
		m.vp.Height = max(1, msg.Height-chromeHeight)
		m.input.Width = max(10, msg.Width-4)
		m.help.Width = msg.Width
		m.refreshContent()
		return m, nil

	case dbChangedMsg:
		if m.edit == nil {
			m.reload()
		}
		return m, waitForChange(m.changes)

	case tea.KeyMsg:
		if m.edit != nil {
			return m.updateEdit(msg)
		}
		return m.updateKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.toggleHelp()
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.vp.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.vp.HalfViewDown()
		return m, nil
	}

	if m.view == viewHelp {
		switch msg.String() {
		case "esc", "q", "enter", "?":
			m.toggleHelp()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Clear):
		m.input.Reset()
		m.setStatus("")
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		line := m.input.Value()
		m.input.Reset()
		return m.run(line)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.edit = nil
		m.input.Focus()
		m.setStatus("edit cancelled")
		return m, nil
	}
	keys, ok := editKey(msg)
	if !ok {
		return m, nil
	}
	e := m.edit
	switch e.feed(keys) {
	case lineedit.Committed:
		m.edit = nil
		m.input.Focus()
		text := e.state.Text()
		if text == e.sentence.Content {
			m.setStatus(fmt.Sprintf("line %d unchanged", e.line))
			return m, nil
		}
		if _, err := m.store.UpdateSentence(m.ctx, e.sentence.ID, text); err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("line %d saved", e.line))
		m.reload()
	case lineedit.Cancelled:
		m.edit = nil
		m.input.Focus()
		m.setStatus("edit cancelled")
	}
	return m, nil
}

func (m *appModel) toggleHelp() {
	if m.view == viewHelp {
		m.view = m.returnView
	} else {
		m.returnView = m.view
		m.view = viewHelp
		m.vp.GotoTop()
	}
	m.refreshContent()
}

// run executes one command line.
func (m appModel) run(line string) (tea.Model, tea.Cmd) {
	if m.view == viewProjects {
		c, err := parseProjectCommand(line)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		return m.runProjectCommand(c)
	}
	c, err := parseOutlineCommand(line)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	return m.runOutlineCommand(c)
}

func (m appModel) runProjectCommand(c command) (tea.Model, tea.Cmd) {
	ctx := m.ctx
	switch c.kind {
	case cmdNone:
		return m, nil
	case cmdQuit:
		return m, tea.Quit
	case cmdHelp:
		m.toggleHelp()
		return m, nil
	case cmdRefresh:
		m.reload()
	case cmdNewProject:
		p, err := m.store.CreateProject(ctx, c.text)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.log.Info().Int64("project", p.ID).Str("name", p.Name).Msg("project created")
		m.openProject(p)
		m.setStatus(fmt.Sprintf("created %q", p.Name))
	case cmdOpenProject:
		p, ok := m.projectAt(c.line)
		if !ok {
			return m, nil
		}
		m.openProject(p)
		m.setStatus(fmt.Sprintf("opened %q", p.Name))
	case cmdRenameProject:
		p, ok := m.projectAt(c.line)
		if !ok {
			return m, nil
		}
		p, err := m.store.RenameProject(ctx, p.ID, c.text)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		if m.session.ProjectID == p.ID {
			m.session.ProjectName = p.Name
			m.saveSession()
		}
		m.setStatus(fmt.Sprintf("renamed to %q", p.Name))
		m.reload()
	case cmdDropProject:
		p, ok := m.projectAt(c.line)
		if !ok {
			return m, nil
		}
		if err := m.store.DeleteProject(ctx, p.ID); err != nil {
			m.setError(err)
			return m, nil
		}
		m.log.Info().Int64("project", p.ID).Msg("project deleted")
		if m.session.ProjectID == p.ID {
			m.session.Clear()
			m.saveSession()
		}
		m.setStatus(fmt.Sprintf("deleted %q", p.Name))
		m.reload()
	default:
		m.setError(errUsage)
	}
	return m, nil
}

func (m *appModel) projectAt(n int) (model.Project, bool) {
	if n < 1 || n > len(m.projects) {
		m.setError(fmt.Errorf("no project %d", n))
		return model.Project{}, false
	}
	return m.projects[n-1], true
}

func (m *appModel) openProject(p model.Project) {
	m.project = p
	m.view = viewOutline
	m.collapse = projection.NewCollapse()
	m.curHeading, m.curSub = 0, 0
	m.session.ProjectID = p.ID
	m.session.ProjectName = p.Name
	m.saveSession()
	m.vp.GotoTop()
	m.reload()
}

func (m *appModel) saveSession() {
	if err := store.SaveSession(m.home, m.session); err != nil {
		m.log.Warn().Err(err).Msg("save session")
	}
}

func (m appModel) runOutlineCommand(c command) (tea.Model, tea.Cmd) {
	ctx := m.ctx
	pid := m.project.ID

	switch c.kind {
	case cmdNone:
		return m, nil
	case cmdQuit:
		m.view = viewProjects
		m.setStatus("")
		m.reload()
		return m, nil
	case cmdHelp:
		m.toggleHelp()
		return m, nil
	case cmdRefresh:
		m.reload()
		m.setStatus("refreshed")
		return m, nil

	case cmdHeading:
		m.runHeading(c)
	case cmdSubheading:
		m.runSubheading(c)

	case cmdAdd:
		var err error
		switch {
		case m.curSub != 0:
			_, err = m.store.AddSentence(ctx, m.curSub, c.text)
		case m.curHeading != 0:
			_, err = m.store.AddSentenceToHeading(ctx, m.curHeading, c.text)
		default:
			err = errors.New("select a heading first (e.g. 'ha' or 'ha Topic Name')")
		}
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus("sentence added")

	case cmdInsert:
		if _, err := m.store.InsertSentenceBeforeLine(ctx, pid, c.line, c.text); err != nil {
			m.setError(lineErr(err, c.line))
			return m, nil
		}
		m.setStatus(fmt.Sprintf("inserted before line %d", c.line))

	case cmdEdit:
		st, err := m.sentenceAt(c.line)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.edit = &lineEdit{sentence: st, line: c.line, state: lineedit.New(st.Content, false)}
		m.input.Blur()
		m.setStatus("editing: esc/enter save, q cancels (normal mode)")
		return m, nil

	case cmdDelete:
		st, err := m.sentenceAt(c.line)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		if err := m.store.DeleteSentence(ctx, st.ID); err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("line %d deleted", c.line))

	case cmdYank:
		st, err := m.sentenceAt(c.line)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		if err := copyToClipboard(st.Content); err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("line %d copied to clipboard", c.line))
		return m, nil

	case cmdMove, cmdCopy:
		st, err := m.sentenceAt(c.line)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		verb := "moved"
		if c.kind == cmdCopy {
			verb = "copied"
		}
		if _, err := m.transfer(c, st.ID); err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("line %d %s to [%s]", c.line, verb, c.key))

	case cmdToggle:
		if c.sub == 0 {
			hn, ok := m.headingAt(c.heading)
			if !ok {
				m.setError(fmt.Errorf("heading [%s] doesn't exist", c.key))
				return m, nil
			}
			if m.collapse.ToggleHeading(hn.Heading.ID) {
				m.setStatus(fmt.Sprintf("heading [%s] collapsed", c.key))
			} else {
				m.setStatus(fmt.Sprintf("heading [%s] expanded", c.key))
			}
		} else {
			sh, ok := m.namedSubheading(c.heading, c.sub)
			if !ok {
				m.setError(fmt.Errorf("subheading [%s] doesn't exist", c.key))
				return m, nil
			}
			if m.collapse.ToggleSubheading(sh.ID) {
				m.setStatus(fmt.Sprintf("subheading [%s] collapsed", c.key))
			} else {
				m.setStatus(fmt.Sprintf("subheading [%s] expanded", c.key))
			}
		}
		m.refreshLines()
		return m, nil
	case cmdExpandAll:
		m.collapse.ExpandAll()
		m.refreshLines()
		m.setStatus("expanded all")
		return m, nil

	case cmdDeleteHeading:
		hn, ok := m.headingAt(c.heading)
		if !ok {
			m.setError(fmt.Errorf("heading [%s] doesn't exist", c.key))
			return m, nil
		}
		if err := m.store.DeleteHeading(ctx, hn.Heading.ID); err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("heading %q deleted", hn.Heading.Name))
	case cmdDeleteSubheading:
		sh, ok := m.namedSubheading(c.heading, c.sub)
		if !ok {
			m.setError(fmt.Errorf("subheading [%s] doesn't exist", c.key))
			return m, nil
		}
		if err := m.store.DeleteSubheading(ctx, sh.ID); err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("subheading %q deleted", sh.Name))

	case cmdExport:
		f, err := export.ParseFormat(c.text)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		res, err := export.Write(ctx, m.store, pid, export.Options{Format: f, Root: m.exportDir})
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.log.Info().Str("path", res.Path).Msg("exported")
		m.setStatus("exported to " + res.Path)
		return m, nil

	default:
		m.setError(errUsage)
		return m, nil
	}

	m.reload()
	return m, nil
}

// runHeading handles "hX" (select) and "hX NAME" (create or rename).
// New headings must take the next free key.
func (m *appModel) runHeading(c command) {
	hn, ok := m.headingAt(c.heading)
	if ok {
		h := hn.Heading
		if c.text != "" && c.text != h.Name {
			var err error
			if h, err = m.store.RenameHeading(m.ctx, h.ID, c.text); err != nil {
				m.setError(err)
				return
			}
			m.setStatus(fmt.Sprintf("heading [%s] renamed to: %s", c.key, h.Name))
		} else {
			m.setStatus(fmt.Sprintf("selected heading [%s] %s", c.key, h.Name))
		}
		m.curHeading, m.curSub = h.ID, 0
		return
	}
	if c.text == "" {
		m.setError(fmt.Errorf("heading [%s] doesn't exist; use 'h%s <name>' to create it", c.key, c.key))
		return
	}
	if next := projection.HeadingKey(len(m.tree.Headings)); c.key != next {
		m.setError(fmt.Errorf("next heading should be '%s'; use 'h%s <name>'", next, next))
		return
	}
	h, err := m.store.CreateOrRenameHeading(m.ctx, m.project.ID, c.text)
	if err != nil {
		m.setError(err)
		return
	}
	m.curHeading, m.curSub = h.ID, 0
	m.setStatus(fmt.Sprintf("heading [%s] created: %s", c.key, h.Name))
}

// runSubheading handles "hX1" (select) and "hX1 NAME" (create or rename).
func (m *appModel) runSubheading(c command) {
	hn, ok := m.headingAt(c.heading)
	if !ok {
		hk := projection.HeadingKey(c.heading)
		m.setError(fmt.Errorf("heading [%s] doesn't exist; create it first with 'h%s <name>'", hk, hk))
		return
	}
	if sh, ok := m.namedSubheading(c.heading, c.sub); ok {
		if c.text != "" && c.text != sh.Name {
			var err error
			if sh, err = m.store.RenameSubheading(m.ctx, sh.ID, c.text); err != nil {
				m.setError(err)
				return
			}
			m.setStatus(fmt.Sprintf("subheading [%s] renamed to: %s", c.key, sh.Name))
		} else {
			m.setStatus(fmt.Sprintf("selected subheading [%s] %s", c.key, sh.Name))
		}
		m.curHeading, m.curSub = hn.Heading.ID, sh.ID
		return
	}
	if c.text == "" {
		m.setError(fmt.Errorf("subheading name required, e.g. h%s Your Subheading", c.key))
		return
	}
	next := namedCount(hn) + 1
	if c.sub != next {
		k := projection.SubheadingKey(projection.HeadingKey(c.heading), next)
		m.setError(fmt.Errorf("next subheading should be '%s'; use 'h%s <name>'", k, k))
		return
	}
	sh, err := m.store.CreateOrRenameSubheading(m.ctx, hn.Heading.ID, c.text)
	if err != nil {
		m.setError(err)
		return
	}
	m.curHeading, m.curSub = hn.Heading.ID, sh.ID
	m.setStatus(fmt.Sprintf("subheading [%s] created: %s", c.key, sh.Name))
}

func (m *appModel) headingAt(i int) (model.HeadingNode, bool) {
	if i < 0 || i >= len(m.tree.Headings) {
		return model.HeadingNode{}, false
	}
	return m.tree.Headings[i], true
}

// namedSubheading returns the n-th (1-based) named subheading of heading i.
func (m *appModel) namedSubheading(i, n int) (model.Subheading, bool) {
	hn, ok := m.headingAt(i)
	if !ok {
		return model.Subheading{}, false
	}
	seen := 0
	for _, sn := range hn.Subheadings {
		if sn.Subheading.IsBlank() {
			continue
		}
		seen++
		if seen == n {
			return sn.Subheading, true
		}
	}
	return model.Subheading{}, false
}

func namedCount(hn model.HeadingNode) int {
	n := 0
	for _, sn := range hn.Subheadings {
		if !sn.Subheading.IsBlank() {
			n++
		}
	}
	return n
}

// transfer moves or copies a sentence to the key's subheading. A heading key
// targets the heading's blank subheading.
func (m *appModel) transfer(c command, sentenceID int64) (model.Sentence, error) {
	if c.sub > 0 {
		sh, ok := m.namedSubheading(c.heading, c.sub)
		if !ok {
			return model.Sentence{}, fmt.Errorf("subheading [%s] doesn't exist", c.key)
		}
		if c.kind == cmdCopy {
			return m.store.CopySentence(m.ctx, sentenceID, sh.ID)
		}
		return m.store.MoveSentence(m.ctx, sentenceID, sh.ID)
	}
	hn, ok := m.headingAt(c.heading)
	if !ok {
		return model.Sentence{}, fmt.Errorf("heading [%s] doesn't exist", c.key)
	}
	if c.kind == cmdCopy {
		return m.store.CopySentenceToHeading(m.ctx, sentenceID, hn.Heading.ID)
	}
	return m.store.MoveSentenceToHeading(m.ctx, sentenceID, hn.Heading.ID)
}

// sentenceAt resolves a line number against the store, so collapsed lines
// remain addressable.
func (m *appModel) sentenceAt(n int) (model.Sentence, error) {
	lines, err := m.store.Lines(m.ctx, m.project.ID)
	if err != nil {
		return model.Sentence{}, err
	}
	if n < 1 || n > len(lines) {
		return model.Sentence{}, fmt.Errorf("line %d does not exist", n)
	}
	return m.store.GetSentence(m.ctx, lines[n-1].SentenceID)
}

func lineErr(err error, n int) error {
	var nf store.NotFoundError
	if errors.As(err, &nf) && nf.Kind == "line" {
		return fmt.Errorf("line %d does not exist", n)
	}
	return err
}

func (m *appModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *appModel) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
	ev := m.log.Debug()
	if errors.Is(err, store.ErrPersistence) {
		ev = m.log.Error()
	}
	ev.Err(err).Str("view", m.viewName()).Msg("command failed")
}

func (m *appModel) viewName() string {
	switch m.view {
	case viewOutline:
		return "outline"
	case viewHelp:
		return "help"
	default:
		return "projects"
	}
}

// reload re-reads whatever the current view shows from the store.
func (m *appModel) reload() {
	ps, err := m.store.ListProjects(m.ctx)
	if err != nil {
		m.setError(err)
	} else {
		m.projects = ps
	}

	if m.view == viewOutline || (m.view == viewHelp && m.returnView == viewOutline) {
		tree, err := m.store.Tree(m.ctx, m.project.ID)
		if errors.Is(err, store.ErrNotFound) {
			m.view = viewProjects
			m.session.Clear()
			m.saveSession()
			m.setError(fmt.Errorf("project %q no longer exists", m.project.Name))
		} else if err != nil {
			m.setError(err)
		} else {
			m.tree = tree
			m.project = tree.Project
			m.dropStaleSelection()
		}
	}
	m.refreshLines()
}

func (m *appModel) dropStaleSelection() {
	foundH, foundS := false, false
	for _, hn := range m.tree.Headings {
		if hn.Heading.ID != m.curHeading {
			continue
		}
		foundH = true
		for _, sn := range hn.Subheadings {
			if sn.Subheading.ID == m.curSub {
				foundS = true
			}
		}
	}
	if !foundH {
		m.curHeading = 0
	}
	if !foundH || !foundS {
		m.curSub = 0
	}
}

func (m *appModel) refreshLines() {
	m.lines = projection.FromTree(m.tree, m.collapse)
	m.refreshContent()
}

func (m *appModel) refreshContent() {
	switch m.view {
	case viewOutline:
		m.vp.SetContent(renderOutline(m.lines, m.curHeading, m.curSub, m.vp.Width))
	case viewHelp:
		m.vp.SetContent(export.Preview(helpMarkdown(), max(20, m.vp.Width-2)))
	default:
		m.vp.SetContent(renderProjects(m.projects, m.session.ProjectID))
	}
}

func (m appModel) View() string {
	title := "outline"
	switch m.view {
	case viewOutline:
		title = "outline " + glyphSep() + " " + m.project.Name
	case viewHelp:
		title = "outline " + glyphSep() + " help"
	}
	bar := styleTitleBar().Width(max(0, m.width)).Render(title)

	status := ""
	if m.status != "" {
		status = styleStatus(m.statusErr).Render(m.status)
	}

	bottom := m.input.View()
	if m.edit != nil {
		bottom = m.edit.view()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		bar,
		m.vp.View(),
		status,
		bottom,
		styleMuted().Render(m.help.View(m.keys)),
	)
}

func renderProjects(ps []model.Project, active int64) string {
	if len(ps) == 0 {
		return styleMuted().Render("No projects yet. Create one with: n <name>")
	}
	var b strings.Builder
	for i, p := range ps {
		marker := "  "
		if p.ID == active {
			marker = glyphActive() + " "
		}
		line := fmt.Sprintf("%s%s %s", marker, styleLineNo().Render(fmt.Sprintf("%2d.", i+1)), p.Name)
		if p.ID == active {
			line = styleSelected().Render(line)
		}
		b.WriteString(line)
		b.WriteString("  ")
		b.WriteString(styleMuted().Render(p.UpdatedAt.Local().Format("2006-01-02 15:04")))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	sep := " " + glyphSep() + " "
	b.WriteString(styleMuted().Render(strings.Join([]string{"<number> open", "n <name> new", "r <number> <name> rename", "x <number> delete", "q quit"}, sep)))
	return b.String()
}

func renderOutline(lines []model.DisplayLine, curHeading, curSub int64, width int) string {
	if len(lines) == 0 {
		return styleMuted().Render("Empty outline. Start with: ha <heading name>")
	}
	if width < 20 {
		width = 20
	}
	var b strings.Builder
	for i, l := range lines {
		switch l.Kind {
		case model.LineKindHeading:
			if i > 0 {
				b.WriteString("\n")
			}
			marker := "[-]"
			if l.Collapsed {
				marker = "[+]"
			}
			row := fmt.Sprintf("%s %s %s", styleMuted().Render(marker), styleHeading().Render("["+l.Key+"]"), styleHeading().Render(l.Text))
			if l.ID == curHeading && curSub == 0 {
				row = styleSelected().Render(row)
			}
			b.WriteString(row + "\n")
		case model.LineKindSubheading:
			row := "  " + styleSubheading().Render("["+l.Key+"] "+l.Text)
			if l.Collapsed {
				row += styleMuted().Render(" [+]")
			}
			if l.ID == curSub {
				row = styleSelected().Render(row)
			}
			b.WriteString(row + "\n")
		case model.LineKindSentence:
			num := fmt.Sprintf("[%d] ", l.Line)
			indent := 4 + len(num)
			text := lipgloss.NewStyle().Width(max(10, width-indent)).Render(l.Text)
			parts := strings.Split(text, "\n")
			b.WriteString("    " + styleLineNo().Render(num) + strings.TrimRight(parts[0], " ") + "\n")
			for _, p := range parts[1:] {
				b.WriteString(strings.Repeat(" ", indent) + strings.TrimRight(p, " ") + "\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func helpMarkdown() string {
	if body, ok := docs.Get("tui"); ok {
		return body
	}
	return "# Outline editor\n\nType `?` to toggle this screen.\n"
}
