package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/twistedxcom/resume-deck/internal/logging"
	"github.com/twistedxcom/resume-deck/internal/session"
)

var pickerLog = logging.ForComponent(logging.CompUI)

// LayoutMode selects between the dual-panel and full-preview layouts.
type LayoutMode int

const (
	LayoutSplit LayoutMode = iota
	LayoutFull
)

// navStep is how far page-up/page-down move the selection.
const navStep = 5

// Config is the picker's start-time configuration surface.
type Config struct {
	HiddenRoles   map[session.Role]bool
	WorkspaceMode bool   // enables the "s" (create workspace session) key
	ExtraArgs     string // seed for the edit-options dialog
	PageSize      int    // sessions per page, default 30
	PreviewTurns  int    // dialog turns shown in a preview, default 6
}

// Collaborators are the external operations the picker depends on. All of
// them are best-effort from the picker's perspective; a failed fetch
// leaves a row unloaded, never aborts the picker.
type Collaborators struct {
	QuickMeta func(session.FileRef) (session.Meta, error)
	FullParse func(string) ([]session.DialogTurn, error)
	Delete    func(string) error
	Copy      func(string) (string, error)
	Discover  func() ([]session.FileRef, error) // nil disables refresh
	ReloadCh  <-chan struct{}                   // nil disables auto-refresh
}

// Messages.
type prefetchResultMsg struct{ res fetchResult }

type previewFetchedMsg struct {
	gen      uint64
	path     string
	width    int
	rendered string
	err      error
}

type reloadRequestMsg struct{}

type filesReloadedMsg struct {
	refs []session.FileRef
	err  error
}

// Picker is the interactive session browser. It owns all mutable state:
// the visible file list, pagination, selection, layout, modal focus and
// the prefetch caches. Background workers only ever deliver messages;
// every mutation happens in Update.
type Picker struct {
	cfg    Config
	collab Collaborators

	allFiles     []session.FileRef // unfiltered discovery result
	visibleFiles []session.FileRef // after fuzzy filter
	page         int
	selected     int // index within the current page
	layout       LayoutMode

	cache      *PrefetchCache
	prefetcher *Prefetcher

	confirm   *ConfirmDialog
	argsinput *ArgsDialog
	filterBar *FilterBar

	extraArgs     string
	previewScroll int
	fetchingPath  string // preview fetch in flight for this path
	fetchingWidth int

	width  int
	height int

	err    error
	notice string

	result   *Action
	quitting bool

	now func() time.Time // injectable for tests
}

// NewPicker builds a picker over the discovered files.
func NewPicker(files []session.FileRef, cfg Config, collab Collaborators) *Picker {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 30
	}
	if cfg.PreviewTurns <= 0 {
		cfg.PreviewTurns = 6
	}
	p := &Picker{
		cfg:          cfg,
		collab:       collab,
		allFiles:     files,
		visibleFiles: files,
		layout:       LayoutSplit,
		cache:        NewPrefetchCache(),
		prefetcher:   NewPrefetcher(collab.QuickMeta, collab.FullParse),
		confirm:      NewConfirmDialog(),
		argsinput:    NewArgsDialog(),
		filterBar:    NewFilterBar(),
		extraArgs:    cfg.ExtraArgs,
		width:        120,
		height:       30,
		now:          time.Now,
	}
	return p
}

// Result returns the resolved action, or nil on abort.
func (p *Picker) Result() *Action {
	return p.result
}

// Init starts prefetch for the first page and the completion listeners.
func (p *Picker) Init() tea.Cmd {
	if len(p.visibleFiles) == 0 {
		// Nothing to show: exit immediately with no Action.
		p.quitting = true
		return tea.Quit
	}
	cmds := []tea.Cmd{p.listenPrefetch()}
	if p.collab.ReloadCh != nil {
		cmds = append(cmds, p.listenReload())
	}
	p.startPagePrefetch()
	if cmd := p.requestPreview(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// --- pagination helpers ---

func (p *Picker) pageCount() int {
	if len(p.visibleFiles) == 0 {
		return 0
	}
	return (len(p.visibleFiles) + p.cfg.PageSize - 1) / p.cfg.PageSize
}

// pageItems returns the contiguous slice of visibleFiles for the current
// page. Never larger than the page size.
func (p *Picker) pageItems() []session.FileRef {
	start := p.page * p.cfg.PageSize
	if start >= len(p.visibleFiles) {
		return nil
	}
	end := start + p.cfg.PageSize
	if end > len(p.visibleFiles) {
		end = len(p.visibleFiles)
	}
	return p.visibleFiles[start:end]
}

func (p *Picker) selectedRef() (session.FileRef, bool) {
	items := p.pageItems()
	if p.selected < 0 || p.selected >= len(items) {
		return session.FileRef{}, false
	}
	return items[p.selected], true
}

func (p *Picker) clampPage() {
	if last := p.pageCount() - 1; p.page > last {
		p.page = last
	}
	if p.page < 0 {
		p.page = 0
	}
}

func (p *Picker) clampSelected() {
	if last := len(p.pageItems()) - 1; p.selected > last {
		p.selected = last
	}
	if p.selected < 0 {
		p.selected = 0
	}
}

// --- prefetch wiring ---

// startPagePrefetch abandons the previous page's workers and schedules
// fetches for every item on the current page that is not already cached.
func (p *Picker) startPagePrefetch() {
	items := p.pageItems()
	var needMeta, needSummary []session.FileRef
	for _, ref := range items {
		if _, ok := p.cache.Meta(ref.Path); !ok {
			needMeta = append(needMeta, ref)
		}
		if _, ok := p.cache.Summary(ref.Path); !ok {
			needSummary = append(needSummary, ref)
		}
	}
	p.prefetcher.StartPage(needMeta, needSummary)
}

func (p *Picker) listenPrefetch() tea.Cmd {
	ch := p.prefetcher.Results()
	return func() tea.Msg {
		res, ok := <-ch
		if !ok {
			return nil
		}
		return prefetchResultMsg{res: res}
	}
}

func (p *Picker) listenReload() tea.Cmd {
	ch := p.collab.ReloadCh
	return func() tea.Msg {
		_, ok := <-ch
		if !ok {
			return nil
		}
		return reloadRequestMsg{}
	}
}

// fetchNeighborCmd fetches one off-schedule item (selection neighbor)
// under the current generation.
func (p *Picker) fetchNeighborCmd(ref session.FileRef) tea.Cmd {
	if _, ok := p.cache.Meta(ref.Path); ok {
		return nil
	}
	gen := p.prefetcher.Generation()
	return func() tea.Msg {
		meta, err := p.collab.QuickMeta(ref)
		return prefetchResultMsg{res: fetchResult{gen: gen, path: ref.Path, meta: &meta, err: err}}
	}
}

// previewWidth is the wrap width for the current layout, accounting for
// the preview panel border and padding.
func (p *Picker) previewWidth() int {
	var w int
	if p.layout == LayoutSplit {
		w = p.width - p.listWidth() - 1
	} else {
		w = p.width
	}
	w -= 4 // panel border + padding
	if w < 20 {
		w = 20
	}
	return w
}

func (p *Picker) listWidth() int {
	w := p.width * 35 / 100
	if w < 30 {
		w = 30
	}
	if w > p.width-20 {
		w = p.width - 20
	}
	return w
}

// requestPreview lazily renders the selected item's preview at the
// current width. No-op when cached or already in flight.
func (p *Picker) requestPreview() tea.Cmd {
	ref, ok := p.selectedRef()
	if !ok {
		return nil
	}
	width := p.previewWidth()
	if _, ok := p.cache.Preview(ref.Path, width); ok {
		return nil
	}
	if p.fetchingPath == ref.Path && p.fetchingWidth == width {
		return nil
	}
	p.fetchingPath = ref.Path
	p.fetchingWidth = width

	gen := p.prefetcher.Generation()
	path := ref.Path
	maxTurns := p.cfg.PreviewTurns
	opts := FormatOptions{HiddenRoles: p.cfg.HiddenRoles, WrapWidth: width}
	parse := p.prefetcher.ParseTurns
	return func() tea.Msg {
		turns, err := parse(path)
		if err != nil {
			return previewFetchedMsg{gen: gen, path: path, width: width, err: err}
		}
		if len(turns) > maxTurns {
			turns = turns[len(turns)-maxTurns:]
		}
		return previewFetchedMsg{gen: gen, path: path, width: width, rendered: FormatTurns(turns, opts)}
	}
}

// --- update ---

func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.confirm.SetSize(msg.Width, msg.Height)
		p.argsinput.SetSize(msg.Width, msg.Height)
		// Preview is keyed by width; a resize just renders the selected
		// item at the new width.
		return p, p.requestPreview()

	case prefetchResultMsg:
		p.applyFetchResult(msg.res)
		return p, p.listenPrefetch()

	case previewFetchedMsg:
		if p.fetchingPath == msg.path && p.fetchingWidth == msg.width {
			p.fetchingPath = ""
		}
		// Stale generations and errors are dropped; the row re-requests
		// on the next selection.
		if msg.gen == p.prefetcher.Generation() && msg.err == nil {
			p.cache.SetPreview(msg.path, msg.width, msg.rendered)
		}
		return p, nil

	case reloadRequestMsg:
		cmds := []tea.Cmd{p.listenReload()}
		if p.collab.Discover != nil {
			discover := p.collab.Discover
			cmds = append(cmds, func() tea.Msg {
				refs, err := discover()
				return filesReloadedMsg{refs: refs, err: err}
			})
		}
		return p, tea.Batch(cmds...)

	case filesReloadedMsg:
		if msg.err != nil {
			pickerLog.Debug("reload_failed", slog.String("error", msg.err.Error()))
			return p, nil
		}
		return p, p.applyReload(msg.refs)

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	return p, nil
}

func (p *Picker) applyFetchResult(res fetchResult) {
	if res.gen != p.prefetcher.Generation() {
		return // abandoned page
	}
	if res.err != nil {
		return // row stays unloaded; retried on next page visit
	}
	if res.meta != nil {
		p.cache.SetMeta(res.path, *res.meta)
	}
	if res.summary != nil {
		p.cache.SetSummary(res.path, *res.summary)
	}
}

// applyReload swaps in a fresh discovery result, keeping the selection on
// the same file when it survived.
func (p *Picker) applyReload(refs []session.FileRef) tea.Cmd {
	var selectedPath string
	if ref, ok := p.selectedRef(); ok {
		selectedPath = ref.Path
	}

	p.allFiles = refs
	p.applyFilter()

	if selectedPath != "" {
		for i, ref := range p.visibleFiles {
			if ref.Path == selectedPath {
				p.page = i / p.cfg.PageSize
				p.selected = i % p.cfg.PageSize
				break
			}
		}
	}
	p.clampPage()
	p.clampSelected()

	if len(p.visibleFiles) == 0 && !p.filterBar.Active() {
		p.quitting = true
		return tea.Quit
	}
	p.startPagePrefetch()
	return p.requestPreview()
}

// applyFilter recomputes visibleFiles from allFiles and the filter query,
// resetting pagination.
func (p *Picker) applyFilter() {
	if p.filterBar.Active() {
		p.visibleFiles = session.Filter(p.allFiles, p.cache.MetaSnapshot(), p.filterBar.Query())
	} else {
		p.visibleFiles = p.allFiles
	}
	p.page = 0
	p.selected = 0
	p.previewScroll = 0
}

func (p *Picker) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal gate: while a dialog owns focus nothing else sees keys.
	if p.confirm.IsVisible() {
		return p.handleConfirmKey(msg)
	}
	if p.argsinput.IsVisible() {
		switch res, cmd := p.argsinput.HandleKey(msg); res {
		case ArgsSubmit:
			p.extraArgs = p.argsinput.Value()
			p.argsinput.Hide()
			return p, nil
		case ArgsCancel:
			p.argsinput.Hide()
			return p, nil
		default:
			return p, cmd
		}
	}
	if p.filterBar.Focused() {
		ev, cmd := p.filterBar.HandleKey(msg)
		if ev == FilterChanged || ev == FilterCancel {
			p.applyFilter()
			p.startPagePrefetch()
			return p, tea.Batch(cmd, p.requestPreview())
		}
		return p, cmd
	}

	// Any keypress dismisses a pending notice.
	p.err = nil
	p.notice = ""

	switch msg.String() {
	case "up":
		return p, p.moveSelection(-1)
	case "down":
		return p, p.moveSelection(1)
	case "pgup":
		return p, p.moveSelection(-navStep)
	case "pgdown":
		return p, p.moveSelection(navStep)
	case "home":
		return p, p.moveSelectionTo(0)
	case "end":
		return p, p.moveSelectionTo(len(p.pageItems()) - 1)
	case "left":
		return p, p.changePage(-1)
	case "right":
		return p, p.changePage(1)

	case "j":
		p.previewScroll++
		return p, nil
	case "k":
		if p.previewScroll > 0 {
			p.previewScroll--
		}
		return p, nil

	case "f":
		if p.layout == LayoutSplit {
			p.layout = LayoutFull
		} else {
			p.layout = LayoutSplit
		}
		// Width changed with the layout: re-render only the selection.
		return p, p.requestPreview()

	case "enter":
		return p.resolveResume()
	case "n":
		return p.resolveStartNew()
	case "s":
		if p.cfg.WorkspaceMode {
			p.result = &Action{Kind: ActionWorkspaceCreate, ExtraArgs: p.extraArgs}
			p.quitting = true
			return p, tea.Quit
		}
		return p, nil

	case "d":
		if ref, ok := p.selectedRef(); ok {
			p.confirm.ShowDelete(p.displayID(ref), ref.Path)
		}
		return p, nil

	case "-":
		p.argsinput.Show(p.extraArgs)
		return p, nil

	case "c":
		return p, p.copySelectedID()

	case "/":
		p.filterBar.Focus()
		return p, nil

	case "r":
		if p.collab.Discover != nil {
			discover := p.collab.Discover
			return p, func() tea.Msg {
				refs, err := discover()
				return filesReloadedMsg{refs: refs, err: err}
			}
		}
		return p, nil

	case "q", "esc", "ctrl+c":
		p.result = nil
		p.quitting = true
		p.prefetcher.Stop()
		return p, tea.Quit
	}

	return p, nil
}

func (p *Picker) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch p.confirm.HandleKey(msg) {
	case ConfirmYes:
		return p.performDelete()
	case ConfirmNo:
		p.confirm.Hide()
	}
	return p, nil
}

// moveSelection moves within the current page, clamped at the edges.
func (p *Picker) moveSelection(delta int) tea.Cmd {
	items := p.pageItems()
	if len(items) == 0 {
		return nil
	}
	next := p.selected + delta
	if next < 0 {
		next = 0
	}
	if next > len(items)-1 {
		next = len(items) - 1
	}
	return p.moveSelectionTo(next)
}

func (p *Picker) moveSelectionTo(idx int) tea.Cmd {
	items := p.pageItems()
	if len(items) == 0 || idx < 0 || idx >= len(items) {
		return nil
	}
	p.selected = idx
	p.previewScroll = 0

	cmds := []tea.Cmd{p.requestPreview()}
	// Opportunistic metadata prefetch for the immediate neighbors.
	if idx+1 < len(items) {
		cmds = append(cmds, p.fetchNeighborCmd(items[idx+1]))
	}
	if idx > 0 {
		cmds = append(cmds, p.fetchNeighborCmd(items[idx-1]))
	}
	return tea.Batch(cmds...)
}

// changePage switches page when one exists in that direction, resets the
// selection and restarts the prefetch pools for the new page.
func (p *Picker) changePage(delta int) tea.Cmd {
	next := p.page + delta
	if next < 0 || next >= p.pageCount() {
		return nil
	}
	p.page = next
	p.selected = 0
	p.previewScroll = 0
	p.startPagePrefetch()
	return p.requestPreview()
}

func (p *Picker) resolveResume() (tea.Model, tea.Cmd) {
	ref, ok := p.selectedRef()
	if !ok {
		return p, nil
	}
	meta, _ := p.cache.Meta(ref.Path)
	id := meta.ID
	if id == "" {
		id = ref.RelPath
	}
	p.result = &Action{
		Kind:       ActionResume,
		Path:       ref.Path,
		SessionID:  id,
		WorkingDir: meta.WorkingDir,
		ExtraArgs:  p.extraArgs,
	}
	p.quitting = true
	p.prefetcher.Stop()
	return p, tea.Quit
}

func (p *Picker) resolveStartNew() (tea.Model, tea.Cmd) {
	ref, ok := p.selectedRef()
	if !ok {
		return p, nil
	}
	meta, _ := p.cache.Meta(ref.Path)
	// Empty WorkingDir means the caller falls back to its own cwd.
	p.result = &Action{
		Kind:       ActionStartNew,
		WorkingDir: meta.WorkingDir,
		ExtraArgs:  p.extraArgs,
	}
	p.quitting = true
	p.prefetcher.Stop()
	return p, tea.Quit
}

// performDelete is the single atomic transition that removes a session:
// disk, caches, list membership and pagination together. A storage
// failure mutates nothing and surfaces a dismissible notice.
func (p *Picker) performDelete() (tea.Model, tea.Cmd) {
	path := p.confirm.TargetPath()
	p.confirm.Hide()

	if err := p.collab.Delete(path); err != nil {
		pickerLog.Warn("delete_failed", slog.String("path", path), slog.String("error", err.Error()))
		p.err = err
		return p, nil
	}

	p.cache.PurgePath(path)
	p.allFiles = removeRef(p.allFiles, path)
	p.visibleFiles = removeRef(p.visibleFiles, path)

	if len(p.visibleFiles) == 0 && p.filterBar.Active() && len(p.allFiles) > 0 {
		// Last match of a filter removed; drop the filter rather than exit.
		p.filterBar.Clear()
		p.applyFilter()
	}
	if len(p.visibleFiles) == 0 {
		p.result = nil
		p.quitting = true
		p.prefetcher.Stop()
		return p, tea.Quit
	}

	p.clampPage()
	p.clampSelected()
	p.startPagePrefetch()
	return p, p.requestPreview()
}

// removeRef never mutates refs: allFiles and visibleFiles alias the same
// backing array when no filter is active.
func removeRef(refs []session.FileRef, path string) []session.FileRef {
	out := make([]session.FileRef, 0, len(refs))
	for _, ref := range refs {
		if ref.Path != path {
			out = append(out, ref)
		}
	}
	return out
}

func (p *Picker) copySelectedID() tea.Cmd {
	ref, ok := p.selectedRef()
	if !ok || p.collab.Copy == nil {
		return nil
	}
	id := p.displayID(ref)
	method, err := p.collab.Copy(id)
	if err != nil {
		// Best-effort: clipboard failure is not worth a modal.
		pickerLog.Debug("copy_failed", slog.String("error", err.Error()))
		return nil
	}
	p.notice = fmt.Sprintf("copied %s (%s)", id, method)
	return nil
}

// displayID is the row identity: the session id when known, otherwise the
// relative path, visibly marked as a path fallback.
func (p *Picker) displayID(ref session.FileRef) string {
	if meta, ok := p.cache.Meta(ref.Path); ok && !meta.IDFromPath {
		return meta.ID
	}
	return ref.RelPath
}

// --- view ---

func (p *Picker) View() string {
	if p.quitting {
		return ""
	}
	if p.confirm.IsVisible() {
		return p.confirm.View()
	}
	if p.argsinput.IsVisible() {
		return p.argsinput.View()
	}

	var b strings.Builder

	pages := p.pageCount()
	if pages < 1 {
		pages = 1
	}
	title := fmt.Sprintf("Resume Session · %d sessions · page %d/%d",
		len(p.visibleFiles), p.page+1, pages)
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n")

	if fb := p.filterBar.View(); fb != "" {
		b.WriteString(fb)
		b.WriteString("\n")
	}

	contentHeight := p.height - 5
	if contentHeight < 5 {
		contentHeight = 5
	}

	if p.layout == LayoutFull {
		b.WriteString(p.renderPreviewPanel(p.width-2, contentHeight))
	} else {
		list := p.renderList(p.listWidth(), contentHeight)
		preview := p.renderPreviewPanel(p.width-p.listWidth()-1, contentHeight)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, " ", preview))
	}
	b.WriteString("\n")

	if p.err != nil {
		b.WriteString(ErrorStyle.Render("✗ " + p.err.Error() + " (any key dismisses)"))
	} else if p.notice != "" {
		b.WriteString(HighlightStyle.Render(p.notice))
	} else {
		b.WriteString(p.renderFooter())
	}

	return b.String()
}

func (p *Picker) renderList(width, height int) string {
	items := p.pageItems()
	lines := make([]string, 0, len(items))
	nowTime := p.now()

	for i, ref := range items {
		marker := "  "
		if i == p.selected {
			marker = "▶ "
		}

		id := p.displayID(ref)
		idPrefix := ""
		if meta, ok := p.cache.Meta(ref.Path); !ok || meta.IDFromPath {
			idPrefix = "path:" // id not yet known, or log carried none
		}

		age := session.FormatRelAge(ref.ModTime, nowTime)
		detail := "…"
		if sum, ok := p.cache.Summary(ref.Path); ok {
			if sum.TurnCount == 0 {
				detail = "no messages"
			} else {
				detail = fmt.Sprintf("%d turns · last %s", sum.TurnCount, sum.LastRole)
			}
		}

		row := fmt.Sprintf("%s%s%s  %s · %s", marker, idPrefix, id, age, detail)
		row = runewidth.Truncate(row, width, "…")
		if i == p.selected {
			lines = append(lines, RowSelectedStyle.Render(row))
		} else {
			lines = append(lines, RowStyle.Render(row))
		}
	}

	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines[:height], "\n")
}

func (p *Picker) renderPreviewPanel(width, height int) string {
	ref, ok := p.selectedRef()
	if !ok {
		return PreviewPanelStyle.Width(width - 2).Height(height - 2).Render(DimStyle.Render("no selection"))
	}

	header := p.displayID(ref)
	if meta, ok := p.cache.Meta(ref.Path); ok && meta.WorkingDir != "" {
		header += "  " + DimStyle.Render(meta.WorkingDir)
	}

	body, ok := p.cache.Preview(ref.Path, p.previewWidth())
	if !ok {
		body = DimStyle.Render("loading…")
	}

	bodyLines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	maxScroll := len(bodyLines) - 1
	scroll := p.previewScroll
	if scroll > maxScroll {
		scroll = maxScroll
	}
	if scroll < 0 {
		scroll = 0
	}
	visible := bodyLines[scroll:]
	if len(visible) > height-3 && height > 3 {
		visible = visible[:height-3]
	}

	content := PreviewTitleStyle.Render(header) + "\n\n" + strings.Join(visible, "\n")
	return PreviewPanelStyle.Width(width - 2).Height(height - 2).Render(content)
}

func (p *Picker) renderFooter() string {
	keys := []struct{ key, desc string }{
		{"↑↓", "select"},
		{"←→", "page"},
		{"enter", "resume"},
		{"n", "new"},
		{"d", "delete"},
		{"-", "args"},
		{"c", "copy id"},
		{"f", "layout"},
		{"/", "filter"},
		{"q", "quit"},
	}
	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		parts = append(parts, MenuKeyStyle.Render(k.key)+" "+MenuDescStyle.Render(k.desc))
	}
	if p.cfg.WorkspaceMode {
		parts = append(parts, MenuKeyStyle.Render("s")+" "+MenuDescStyle.Render("workspace"))
	}
	return strings.Join(parts, MenuDescStyle.Render(" | "))
}
