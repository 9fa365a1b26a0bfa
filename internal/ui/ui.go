package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vkdrive/vkdrive/internal/services"
	"github.com/vkdrive/vkdrive/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PhotoListView ViewState = iota
	ConfirmView
	TransferView
	ResultView
)

// PhotoSource fetches the user's VK photos. The CLI layer binds owner ID
// and access token before handing the source to the TUI.
type PhotoSource interface {
	Photos(ctx context.Context) ([]services.Photo, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	source       PhotoSource
	engine       *tasks.TransferEngine
	folder       string
	width        int
	height       int
	photoList    list.Model
	photos       []services.Photo
	selected     map[int64]bool
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.TransferResult
	err          error
	help         help.Model
	keys         keyMap
}

type photosFetchedMsg struct {
	photos []services.Photo
	err    error
}

type progressUpdateMsg tasks.ProgressUpdate

type transferCompleteMsg struct {
	result *tasks.TransferResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, source PhotoSource, engine *tasks.TransferEngine, folder string) *Model {
	return &Model{
		ctx:      ctx,
		view:     PhotoListView,
		source:   source,
		engine:   engine,
		folder:   folder,
		selected: map[int64]bool{},
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init initializes the TUI by fetching photos from VK.
func (m *Model) Init() tea.Cmd {
	return m.fetchPhotos()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.photoList.Width() == 0 {
			m.photoList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PhotoListView:
			return m.handlePhotoListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case photosFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.photos = msg.photos
		m.rebuildPhotoList()
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case transferCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PhotoListView:
		return m.renderPhotoList()
	case ConfirmView:
		return m.renderConfirm()
	case TransferView:
		return m.renderTransfer()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePhotoListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		if item, ok := m.photoList.SelectedItem().(photoItem); ok {
			m.selected[item.photo.ID] = !m.selected[item.photo.ID]
			m.refreshItems()
		}
		return m, nil
	case "a":
		for _, photo := range m.photos {
			m.selected[photo.ID] = true
		}
		m.refreshItems()
		return m, nil
	case "enter":
		if m.selectedCount() > 0 {
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.photoList, cmd = m.photoList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = PhotoListView
		return m, nil
	case "y":
		m.view = TransferView
		return m, m.startTransfer()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = PhotoListView
		m.selected = map[int64]bool{}
		m.result = nil
		m.err = nil
		return m, m.fetchPhotos()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == PhotoListView {
		m.photoList, cmd = m.photoList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchPhotos() tea.Cmd {
	return func() tea.Msg {
		photos, err := m.source.Photos(m.ctx)
		return photosFetchedMsg{photos: photos, err: err}
	}
}

func (m *Model) rebuildPhotoList() {
	items := make([]list.Item, len(m.photos))
	for i, photo := range m.photos {
		items[i] = photoItem{photo: photo, selected: m.selected[photo.ID]}
	}
	m.photoList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.photoList.Title = "VK Profile Photos"
	m.photoList.SetSize(m.width-4, m.height-8)
}

// refreshItems re-renders selection markers without resetting the cursor.
func (m *Model) refreshItems() {
	for i, photo := range m.photos {
		m.photoList.SetItem(i, photoItem{photo: photo, selected: m.selected[photo.ID]})
	}
}

func (m *Model) selectedCount() int {
	count := 0
	for _, on := range m.selected {
		if on {
			count++
		}
	}
	return count
}

func (m *Model) selectedBatch() *tasks.Batch {
	var items []tasks.Item
	for _, photo := range m.photos {
		if !m.selected[photo.ID] {
			continue
		}
		url := services.LargestSize(photo)
		if url == "" {
			continue
		}
		items = append(items, tasks.Item{
			Name:      fmt.Sprintf("photo_%d", photo.ID),
			SourceURL: url,
		})
	}
	return tasks.NewBatch(items)
}

func (m *Model) startTransfer() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progressChan := m.progressChan

	go func() {
		result, err := m.engine.Run(m.ctx, m.selectedBatch(), progressChan)
		m.result = result
		m.err = err
		close(progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return transferCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return transferCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderPhotoList() string {
	helpKeys := []key.Binding{m.keys.toggle, m.keys.all, m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	status := fmt.Sprintf("%d of %d selected", m.selectedCount(), len(m.photos))
	return fmt.Sprintf("%s\n%s\n\n%s", m.photoList.View(), styles.help.Render(status), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Transfer %d photos to Yandex.Disk?", m.selectedCount()))
	info := fmt.Sprintf("\nTarget folder: %s\n", m.folder)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderTransfer() string {
	title := styles.title.Render("Transferring Photos")

	var phase string
	switch m.progress.Phase {
	case tasks.ProvisionFolder:
		phase = "Preparing folder on Yandex.Disk..."
	case tasks.UploadItem:
		phase = fmt.Sprintf("Uploading (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.BatchComplete:
		phase = "Finishing up..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Transfer failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	title := styles.ok.Render("✓ Transfer Complete!")
	if !m.result.Complete {
		title = styles.warn.Render("Transfer finished with failures")
	}
	info := fmt.Sprintf("\nUploaded: %d/%d\nFolder: %s", m.result.Succeeded, m.result.Total, m.folder)

	var failed string
	if m.result.Failed > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Failed to upload %d photos:", m.result.Failed)))
		for _, outcome := range m.result.Outcomes {
			if outcome.Err != nil {
				failed += fmt.Sprintf("\n  • %s (%s)", outcome.Item.Name, outcome.Reason)
			}
		}
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}
