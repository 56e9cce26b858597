// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package sidebar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/junegunn/fzf/src/util"

	"github.com/harbor-crm/harbor/lib/clock"
	"github.com/harbor-crm/harbor/lib/crm"
	"github.com/harbor-crm/harbor/lib/crmclient"
	"github.com/harbor-crm/harbor/lib/querycache"
	"github.com/harbor-crm/harbor/lib/tui"
)

// fetchPhase is the lifecycle of one tab's fetch.
type fetchPhase int

const (
	phaseIdle fetchPhase = iota
	phaseLoading
	phaseLoaded
	phaseFailed
)

// tabState is the per-tab fetch state. Records live in the typed
// updates/files slices on the panel; this tracks only the phase and
// the last error. Failures are contained here: one tab failing never
// touches the other tab's state.
type tabState struct {
	phase fetchPhase
	err   string
}

// listRow is one renderable row of the active tab, after filtering.
// Exactly one of update/file is set. positions are the fuzzy-match
// rune positions within the row's primary text, for highlighting.
type listRow struct {
	id        string
	update    *crm.Update
	file      *crm.File
	positions []int
}

// ShowEntityMsg asks the panel to display an entity. Sent by the
// embedding program; an empty ID is equivalent to CloseEntityMsg.
type ShowEntityMsg struct {
	ID   string
	Name string
}

// CloseEntityMsg asks the panel to clear the displayed entity.
type CloseEntityMsg struct{}

// updatesLoadedMsg delivers a completed updates fetch. The panel
// discards it when the generation no longer matches the current
// selection.
type updatesLoadedMsg struct {
	generation int
	updates    []crm.Update
	err        error
}

// filesLoadedMsg delivers a completed files fetch.
type filesLoadedMsg struct {
	generation int
	files      []crm.File
	err        error
}

// mutationResultMsg delivers the outcome of a create or delete call.
type mutationResultMsg struct {
	entityID  string
	tab       Tab    // The tab whose list the mutation affects.
	label     string // Human-readable action for notices ("create update").
	createdID string // Non-empty for creates, for the glow highlight.
	err       error
}

// noticeFadeMsg clears the transient status-bar notice.
type noticeFadeMsg struct{}

// glowTickMsg drives the row glow animation while any row is glowing.
type glowTickMsg struct{}

// noticeFadeDelay is how long transient notices stay in the status
// bar.
const noticeFadeDelay = 5 * time.Second

// Panel is the entity sidebar bubbletea model. Create it with
// NewPanel, then drive it with SetEntity/ClearEntity (or the
// equivalent messages) and the usual bubbletea message flow.
type Panel struct {
	config SidebarConfig
	client Client
	cache  *querycache.Cache
	keys   KeyMap
	theme  tui.Theme
	clock  clock.Clock
	logger *slog.Logger

	width  int
	height int
	ready  bool

	// Selection: the displayed entity and tab. generation increments
	// on every selection change so in-flight fetch completions for an
	// abandoned selection can be recognized and discarded.
	entityID   string
	entityName string
	activeTab  Tab
	generation int

	updatesState tabState
	filesState   tabState
	updates      []crm.Update
	files        []crm.File

	rows         []listRow
	cursor       int
	scrollOffset int

	filterInput  string
	filterActive bool
	matchSlab    *util.Slab

	compose *tui.ComposeModal
	menu    *tui.MenuOverlay
	glow    *tui.GlowTracker
	spinner spinner.Model

	notice      string
	noticeIsErr bool
}

// requiredOperations is every route the panel expands at runtime.
// Checked up front so a missing route is a constructor error instead
// of a mid-session failure.
var requiredOperations = []string{
	crm.OpListUpdates,
	crm.OpCreateUpdate,
	crm.OpDeleteUpdate,
	crm.OpListFiles,
	crm.OpDeleteFile,
}

// NewPanel creates a sidebar panel bound by config, fetching through
// client and cache. The panel starts with no entity; call SetEntity
// (or send ShowEntityMsg) to display one.
func NewPanel(config SidebarConfig, client Client, cache *querycache.Cache) (Panel, error) {
	if !config.Kind.Valid() {
		return Panel{}, fmt.Errorf("sidebar config: invalid entity kind %q", config.Kind)
	}
	if err := config.Routes.Validate(requiredOperations...); err != nil {
		return Panel{}, fmt.Errorf("sidebar config for %s: %w", config.Kind, err)
	}
	if config.TestIDPrefix == "" {
		return Panel{}, fmt.Errorf("sidebar config for %s: test ID prefix required", config.Kind)
	}
	if client == nil {
		return Panel{}, fmt.Errorf("sidebar config for %s: client required", config.Kind)
	}
	if cache == nil {
		return Panel{}, fmt.Errorf("sidebar config for %s: cache required", config.Kind)
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	loading := spinner.New(spinner.WithSpinner(spinner.Dot))
	return Panel{
		config:    config,
		client:    client,
		cache:     cache,
		keys:      DefaultKeyMap,
		theme:     tui.DefaultTheme,
		clock:     config.Clock,
		logger:    config.Logger,
		activeTab: config.InitialTab,
		matchSlab: util.MakeSlab(100*1024, 2048),
		glow:      tui.NewGlowTracker(),
		spinner:   loading,
	}, nil
}

// TestID returns the panel's stable identifier for a region part.
func (panel Panel) TestID(part string) string {
	return panel.config.TestID(part)
}

// EntityID returns the currently displayed entity id, empty when the
// panel is closed.
func (panel Panel) EntityID() string {
	return panel.entityID
}

// SetEntity switches the panel to the given entity and returns the
// command that fetches the initial tab. Setting the id already shown
// only refreshes the display name. An empty id clears the panel.
func (panel *Panel) SetEntity(id, name string) tea.Cmd {
	if id == "" {
		panel.ClearEntity()
		return nil
	}
	if id == panel.entityID {
		panel.entityName = name
		return nil
	}

	// All state from the previous entity is gone before the new
	// entity's data can render.
	panel.resetEntityState()
	panel.entityID = id
	panel.entityName = name
	panel.activeTab = panel.config.InitialTab
	panel.logger.Info("entity shown",
		"test_id", panel.TestID("panel"),
		"kind", panel.config.Kind,
		"entity", id)
	return panel.fetchActiveTab()
}

// ClearEntity closes the panel's entity. Idempotent: clearing an
// already-clear panel changes nothing.
func (panel *Panel) ClearEntity() {
	if panel.entityID == "" {
		return
	}
	panel.logger.Info("entity cleared",
		"test_id", panel.TestID("panel"),
		"entity", panel.entityID)
	panel.resetEntityState()
}

// resetEntityState discards everything tied to the current entity and
// bumps the generation so in-flight fetch completions are orphaned.
func (panel *Panel) resetEntityState() {
	panel.generation++
	panel.entityID = ""
	panel.entityName = ""
	panel.updatesState = tabState{}
	panel.filesState = tabState{}
	panel.updates = nil
	panel.files = nil
	panel.rows = nil
	panel.cursor = 0
	panel.scrollOffset = 0
	panel.filterInput = ""
	panel.filterActive = false
	panel.compose = nil
	panel.menu = nil
	panel.glow = tui.NewGlowTracker()
}

// Init implements tea.Model. The panel starts idle; fetches launch
// when an entity is shown.
func (panel Panel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (panel Panel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		panel.width = message.Width
		panel.height = message.Height
		panel.ready = true
		panel.ensureCursorVisible()

	case ShowEntityMsg:
		return panel, panel.SetEntity(message.ID, message.Name)

	case CloseEntityMsg:
		panel.ClearEntity()

	case tea.KeyMsg:
		return panel.handleKey(message)

	case updatesLoadedMsg:
		if message.generation != panel.generation {
			// Abandoned fetch. The tab must not stay stuck in loading:
			// marking it idle lets the next activation fetch again
			// (served from the cache when this completion populated it).
			if panel.updatesState.phase == phaseLoading {
				panel.updatesState = tabState{}
			}
			return panel, nil
		}
		panel.applyUpdatesResult(message)

	case filesLoadedMsg:
		if message.generation != panel.generation {
			if panel.filesState.phase == phaseLoading {
				panel.filesState = tabState{}
			}
			return panel, nil
		}
		panel.applyFilesResult(message)

	case mutationResultMsg:
		return panel.handleMutationResult(message)

	case spinner.TickMsg:
		if panel.loading() {
			var cmd tea.Cmd
			panel.spinner, cmd = panel.spinner.Update(message)
			return panel, cmd
		}

	case glowTickMsg:
		if panel.glow.HasGlowing(panel.clock.Now()) {
			return panel, panel.glowTick()
		}

	case noticeFadeMsg:
		panel.notice = ""
		panel.noticeIsErr = false

	case logRecordMsg:
		panel.notice = message.Summary
		panel.noticeIsErr = message.Level >= slog.LevelError
		return panel, noticeFade()
	}
	return panel, nil
}

// handleKey routes keyboard input. Overlays capture all input while
// active; otherwise keys act on the list.
func (panel Panel) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if panel.compose != nil {
		return panel.handleComposeKeys(message)
	}
	if panel.menu != nil {
		return panel.handleMenuKeys(message)
	}
	if panel.filterActive {
		return panel.handleFilterKeys(message)
	}

	switch {
	case key.Matches(message, panel.keys.Close):
		if panel.filterInput != "" && message.String() == "q" {
			// q with a standing filter clears it first; a second q
			// closes.
			panel.filterInput = ""
			panel.rebuildRows()
			return panel, nil
		}
		if panel.config.OnClose != nil {
			return panel, panel.config.OnClose
		}
		return panel, tea.Quit

	case key.Matches(message, panel.keys.FilterClear):
		if panel.filterInput != "" {
			panel.filterInput = ""
			panel.rebuildRows()
			return panel, nil
		}
		if panel.config.OnClose != nil {
			return panel, panel.config.OnClose
		}
		return panel, tea.Quit
	}

	if panel.entityID == "" {
		return panel, nil
	}

	switch {
	case key.Matches(message, panel.keys.TabUpdates):
		return panel, panel.switchTab(TabUpdates)

	case key.Matches(message, panel.keys.TabFiles):
		return panel, panel.switchTab(TabFiles)

	case key.Matches(message, panel.keys.TabCycle):
		if panel.activeTab == TabUpdates {
			return panel, panel.switchTab(TabFiles)
		}
		return panel, panel.switchTab(TabUpdates)

	case key.Matches(message, panel.keys.Up):
		if panel.cursor > 0 {
			panel.cursor--
			panel.ensureCursorVisible()
		}

	case key.Matches(message, panel.keys.Down):
		if panel.cursor < len(panel.rows)-1 {
			panel.cursor++
			panel.ensureCursorVisible()
		}

	case key.Matches(message, panel.keys.Home):
		panel.cursor = 0
		panel.ensureCursorVisible()

	case key.Matches(message, panel.keys.End):
		if len(panel.rows) > 0 {
			panel.cursor = len(panel.rows) - 1
		}
		panel.ensureCursorVisible()

	case key.Matches(message, panel.keys.Refresh):
		return panel, panel.refreshActiveTab()

	case key.Matches(message, panel.keys.FilterActivate):
		panel.filterActive = true
		panel.cursor = 0
		panel.scrollOffset = 0

	case key.Matches(message, panel.keys.NewUpdate):
		modal := tui.NewComposeModal(panel.entityName, panel.theme)
		panel.compose = &modal

	case key.Matches(message, panel.keys.Delete):
		panel.openDeleteMenu()
	}
	return panel, nil
}

// handleComposeKeys routes input to the compose modal. Ctrl+D submits,
// Esc cancels, everything else edits.
func (panel Panel) handleComposeKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyEsc:
		panel.compose = nil
		return panel, nil
	case tea.KeyCtrlD:
		draft := panel.compose.Draft()
		if err := draft.Validate(); err != nil {
			panel.notice = err.Error()
			panel.noticeIsErr = true
			return panel, noticeFade()
		}
		panel.compose = nil
		return panel, panel.createUpdate(draft)
	}
	panel.compose.Update(message)
	return panel, nil
}

// handleMenuKeys routes input to the delete-confirm menu.
func (panel Panel) handleMenuKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case message.Type == tea.KeyEsc:
		panel.menu = nil

	case key.Matches(message, panel.keys.Up):
		panel.menu.MoveUp()

	case key.Matches(message, panel.keys.Down):
		panel.menu.MoveDown()

	case message.Type == tea.KeyEnter:
		menu := panel.menu
		panel.menu = nil
		if menu.Selected().Value != "confirm" {
			return panel, nil
		}
		return panel, panel.deleteRecord(menu.Action, menu.RowID)
	}
	return panel, nil
}

// handleFilterKeys edits the filter input while it has focus. Enter
// keeps the filter and returns focus to the list; Esc clears it.
func (panel Panel) handleFilterKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyEsc:
		panel.filterActive = false
		panel.filterInput = ""
		panel.rebuildRows()
	case tea.KeyEnter:
		panel.filterActive = false
	case tea.KeyBackspace:
		if len(panel.filterInput) > 0 {
			runes := []rune(panel.filterInput)
			panel.filterInput = string(runes[:len(runes)-1])
			panel.rebuildRows()
		}
	case tea.KeyRunes, tea.KeySpace:
		panel.filterInput += string(message.Runes)
		panel.cursor = 0
		panel.scrollOffset = 0
		panel.rebuildRows()
	}
	return panel, nil
}

// switchTab activates a tab. Switching is pure UI state; it issues a
// fetch only when the tab has no usable data yet. Re-selecting a
// failed tab retries it.
func (panel *Panel) switchTab(tab Tab) tea.Cmd {
	if tab == panel.activeTab {
		return nil
	}
	panel.generation++
	panel.activeTab = tab
	panel.cursor = 0
	panel.scrollOffset = 0
	panel.filterInput = ""
	panel.filterActive = false
	panel.rebuildRows()
	return panel.fetchActiveTab()
}

// fetchActiveTab launches a fetch for the active tab if it needs one.
func (panel *Panel) fetchActiveTab() tea.Cmd {
	if panel.entityID == "" {
		return nil
	}
	switch panel.activeTab {
	case TabUpdates:
		if panel.updatesState.phase == phaseIdle || panel.updatesState.phase == phaseFailed {
			return panel.fetchUpdates()
		}
	case TabFiles:
		if panel.filesState.phase == phaseIdle || panel.filesState.phase == phaseFailed {
			return panel.fetchFiles()
		}
	}
	return nil
}

// refreshActiveTab invalidates the active tab's cache entry and
// re-fetches, regardless of current phase. Bound to the refresh key;
// also the retry path for failed tabs.
func (panel *Panel) refreshActiveTab() tea.Cmd {
	if panel.entityID == "" {
		return nil
	}
	switch panel.activeTab {
	case TabUpdates:
		panel.cache.Invalidate(querycache.Key{crm.OpListUpdates, panel.entityID})
		return panel.fetchUpdates()
	case TabFiles:
		panel.cache.Invalidate(querycache.Key{crm.OpListFiles, panel.entityID})
		return panel.fetchFiles()
	}
	return nil
}

// fetchUpdates launches the updates fetch for the current entity. The
// returned command reads through the query cache; concurrent panels
// asking for the same key share one server round trip.
func (panel *Panel) fetchUpdates() tea.Cmd {
	panel.updatesState = tabState{phase: phaseLoading}
	generation := panel.generation
	path, err := panel.config.Routes.Expand(crm.OpListUpdates, panel.entityID)
	if err != nil {
		return func() tea.Msg {
			return updatesLoadedMsg{generation: generation, err: err}
		}
	}
	fetchKey := querycache.Key{crm.OpListUpdates, panel.entityID}
	client, cache := panel.client, panel.cache
	return tea.Batch(panel.spinner.Tick, func() tea.Msg {
		updates, err := querycache.Fetch(context.Background(), cache, fetchKey,
			func(ctx context.Context) ([]crm.Update, error) {
				return client.ListUpdates(ctx, path)
			})
		return updatesLoadedMsg{generation: generation, updates: updates, err: err}
	})
}

// fetchFiles launches the files fetch for the current entity.
func (panel *Panel) fetchFiles() tea.Cmd {
	panel.filesState = tabState{phase: phaseLoading}
	generation := panel.generation
	path, err := panel.config.Routes.Expand(crm.OpListFiles, panel.entityID)
	if err != nil {
		return func() tea.Msg {
			return filesLoadedMsg{generation: generation, err: err}
		}
	}
	fetchKey := querycache.Key{crm.OpListFiles, panel.entityID}
	client, cache := panel.client, panel.cache
	return tea.Batch(panel.spinner.Tick, func() tea.Msg {
		files, err := querycache.Fetch(context.Background(), cache, fetchKey,
			func(ctx context.Context) ([]crm.File, error) {
				return client.ListFiles(ctx, path)
			})
		return filesLoadedMsg{generation: generation, files: files, err: err}
	})
}

// applyUpdatesResult applies a current-generation updates completion.
// An entity the server does not know renders as an empty timeline,
// not an error.
func (panel *Panel) applyUpdatesResult(message updatesLoadedMsg) {
	if message.err != nil && !crmclient.IsNotFound(message.err) {
		panel.updatesState = tabState{phase: phaseFailed, err: fetchErrorText(message.err)}
		panel.logger.Warn("updates fetch failed",
			"test_id", panel.TestID("updates-tab"),
			"entity", panel.entityID,
			"error", message.err)
		return
	}
	panel.updatesState = tabState{phase: phaseLoaded}
	panel.updates = message.updates
	if panel.activeTab == TabUpdates {
		panel.rebuildRows()
	}
}

// applyFilesResult applies a current-generation files completion.
func (panel *Panel) applyFilesResult(message filesLoadedMsg) {
	if message.err != nil && !crmclient.IsNotFound(message.err) {
		panel.filesState = tabState{phase: phaseFailed, err: fetchErrorText(message.err)}
		panel.logger.Warn("files fetch failed",
			"test_id", panel.TestID("files-tab"),
			"entity", panel.entityID,
			"error", message.err)
		return
	}
	panel.filesState = tabState{phase: phaseLoaded}
	panel.files = message.files
	if panel.activeTab == TabFiles {
		panel.rebuildRows()
	}
}

// fetchErrorText renders a fetch error for the inline tab banner. A
// rejected token gets an actionable message instead of the raw HTTP
// error, since retrying will not help until the config changes.
func fetchErrorText(err error) string {
	if crmclient.IsUnauthorized(err) {
		return "authentication failed; check your API token"
	}
	return err.Error()
}

// createUpdate posts the draft against the current entity.
func (panel *Panel) createUpdate(draft crm.UpdateDraft) tea.Cmd {
	entityID := panel.entityID
	path, err := panel.config.Routes.Expand(crm.OpCreateUpdate, entityID)
	if err != nil {
		return func() tea.Msg {
			return mutationResultMsg{entityID: entityID, tab: TabUpdates, label: "create update", err: err}
		}
	}
	client := panel.client
	return func() tea.Msg {
		created, err := client.CreateUpdate(context.Background(), path, draft)
		return mutationResultMsg{
			entityID:  entityID,
			tab:       TabUpdates,
			label:     "create update",
			createdID: created.ID,
			err:       err,
		}
	}
}

// deleteRecord deletes an update or file record on the current
// entity. operation is one of the delete route operations.
func (panel *Panel) deleteRecord(operation, recordID string) tea.Cmd {
	entityID := panel.entityID
	tab, label := TabUpdates, "delete update"
	if operation == crm.OpDeleteFile {
		tab, label = TabFiles, "delete file"
	}
	path, err := panel.config.Routes.ExpandRecord(operation, entityID, recordID)
	if err != nil {
		return func() tea.Msg {
			return mutationResultMsg{entityID: entityID, tab: tab, label: label, err: err}
		}
	}
	client := panel.client
	if tab == TabFiles {
		return func() tea.Msg {
			err := client.DeleteFile(context.Background(), path)
			return mutationResultMsg{entityID: entityID, tab: tab, label: label, err: err}
		}
	}
	return func() tea.Msg {
		err := client.DeleteUpdate(context.Background(), path)
		return mutationResultMsg{entityID: entityID, tab: tab, label: label, err: err}
	}
}

// handleMutationResult applies a mutation outcome. Success invalidates
// the mutated tab's list key plus every configured invalidation key,
// then re-fetches. Failure surfaces a transient notice and invalidates
// nothing: the panel holds no optimistic state to roll back.
func (panel Panel) handleMutationResult(message mutationResultMsg) (tea.Model, tea.Cmd) {
	if message.entityID != panel.entityID {
		return panel, nil
	}

	if message.err != nil {
		panel.logger.Warn("mutation failed",
			"test_id", panel.TestID("panel"),
			"action", message.label,
			"entity", message.entityID,
			"error", message.err)
		panel.notice = fmt.Sprintf("Could not %s: %s", message.label, message.err)
		panel.noticeIsErr = true
		return panel, noticeFade()
	}

	listOp := crm.OpListUpdates
	if message.tab == TabFiles {
		listOp = crm.OpListFiles
	}
	panel.cache.InvalidatePrefix(querycache.Key{listOp, message.entityID})
	for _, invalidation := range panel.config.InvalidationKeys {
		panel.cache.InvalidatePrefix(invalidation)
	}
	panel.logger.Info("mutation applied",
		"test_id", panel.TestID("panel"),
		"action", message.label,
		"entity", message.entityID)

	var cmds []tea.Cmd
	if message.createdID != "" {
		panel.glow.Ignite(message.createdID, tui.GlowPut, panel.clock.Now())
		cmds = append(cmds, panel.glowTick())
	}

	// Re-fetch the mutated tab now if it is on screen; otherwise mark
	// it stale so its next activation re-fetches.
	if message.tab == TabUpdates {
		panel.updatesState = tabState{}
		if panel.activeTab == TabUpdates {
			cmds = append(cmds, panel.fetchUpdates())
		}
	} else {
		panel.filesState = tabState{}
		if panel.activeTab == TabFiles {
			cmds = append(cmds, panel.fetchFiles())
		}
	}
	return panel, tea.Batch(cmds...)
}

// openDeleteMenu opens the confirm menu anchored at the selected row.
func (panel *Panel) openDeleteMenu() {
	if len(panel.rows) == 0 || panel.cursor >= len(panel.rows) {
		return
	}
	row := panel.rows[panel.cursor]
	title, action := "Delete update?", crm.OpDeleteUpdate
	if row.file != nil {
		title, action = "Delete file?", crm.OpDeleteFile
	}
	panel.menu = &tui.MenuOverlay{
		Title: title,
		Options: []tui.MenuOption{
			{Label: "Delete", Value: "confirm"},
			{Label: "Cancel", Value: "cancel"},
		},
		Cursor:  1, // Default to Cancel; destructive choice is deliberate.
		AnchorX: 4,
		AnchorY: contentStartY + panel.cursor - panel.scrollOffset,
		Action:  action,
		RowID:   row.id,
	}
}

// rebuildRows recomputes the visible rows for the active tab from the
// records and the filter. Record order is preserved; filtering only
// removes non-matching rows and annotates match positions.
func (panel *Panel) rebuildRows() {
	panel.rows = panel.rows[:0]
	pattern := []rune(panel.filterInput)

	appendRow := func(row listRow, haystack string) {
		if len(pattern) == 0 {
			panel.rows = append(panel.rows, row)
			return
		}
		match := tui.FuzzyMatch(haystack, pattern, panel.matchSlab)
		if match.Score <= 0 {
			return
		}
		row.positions = match.Positions
		panel.rows = append(panel.rows, row)
	}

	switch panel.activeTab {
	case TabUpdates:
		for index := range panel.updates {
			update := &panel.updates[index]
			appendRow(listRow{id: update.ID, update: update},
				update.Title()+" "+update.Author+" "+string(update.Kind))
		}
	case TabFiles:
		for index := range panel.files {
			file := &panel.files[index]
			appendRow(listRow{id: file.ID, file: file},
				file.Name+" "+file.UploadedBy)
		}
	}

	if panel.cursor >= len(panel.rows) {
		panel.cursor = len(panel.rows) - 1
	}
	if panel.cursor < 0 {
		panel.cursor = 0
	}
	panel.ensureCursorVisible()
}

// loading reports whether any tab has a fetch in flight.
func (panel Panel) loading() bool {
	return panel.updatesState.phase == phaseLoading || panel.filesState.phase == phaseLoading
}

// glowTick schedules the next glow animation frame.
func (panel Panel) glowTick() tea.Cmd {
	return tea.Tick(tui.GlowTickInterval, func(time.Time) tea.Msg {
		return glowTickMsg{}
	})
}

// noticeFade schedules clearing the status-bar notice.
func noticeFade() tea.Cmd {
	return tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg {
		return noticeFadeMsg{}
	})
}

// ensureCursorVisible adjusts scrollOffset so the cursor stays within
// the visible list window.
func (panel *Panel) ensureCursorVisible() {
	visible := panel.listHeight()
	if visible <= 0 {
		return
	}
	maxOffset := len(panel.rows) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if panel.scrollOffset > maxOffset {
		panel.scrollOffset = maxOffset
	}
	if panel.cursor < panel.scrollOffset {
		panel.scrollOffset = panel.cursor
	}
	if panel.cursor >= panel.scrollOffset+visible {
		panel.scrollOffset = panel.cursor - visible + 1
	}
}
