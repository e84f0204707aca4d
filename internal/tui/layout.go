package tui

// Layout proportions
const (
	ParentColumnPercent    = 25
	InspectorColumnPercent = 35
	RootColumnPercent      = 55

	MinColumnWidth = 15

	// Tab bar above, footer below
	ChromeHeight = 2
)

// columnLayout holds calculated column widths for the View
type columnLayout struct {
	parentWidth    int // 0 if not shown
	activeWidth    int
	inspectorWidth int // 0 if not shown
}

// calculateColumnLayout computes column widths based on stack depth and inspector visibility
func (m Model) calculateColumnLayout(availableWidth int) columnLayout {
	layout := columnLayout{}
	applyMin := func(width int) int {
		return max(width, MinColumnWidth)
	}

	stack := m.stack()
	deep := stack != nil && stack.CanGoBack()

	switch {
	case !deep && m.ShowInspector:
		layout.activeWidth = applyMin(availableWidth * RootColumnPercent / 100)
		layout.inspectorWidth = availableWidth - layout.activeWidth
	case !deep:
		layout.activeWidth = availableWidth
	case m.ShowInspector:
		// [Parent | Active | Inspector]
		layout.parentWidth = applyMin(availableWidth * ParentColumnPercent / 100)
		layout.inspectorWidth = applyMin(availableWidth * InspectorColumnPercent / 100)
		layout.activeWidth = applyMin(availableWidth - layout.parentWidth - layout.inspectorWidth)
	default:
		// [Parent | Active]
		layout.parentWidth = applyMin(availableWidth * ParentColumnPercent / 100)
		layout.activeWidth = applyMin(availableWidth - layout.parentWidth)
	}

	return layout
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	contentHeight := m.Height - ChromeHeight
	m.Tabs.SetWidth(m.Width)
	m.Omnibar.SetSize(m.Width, m.Height)

	stack := m.stack()
	if stack == nil {
		return
	}

	layout := m.calculateColumnLayout(m.Width)
	stack.Top().SetSize(layout.activeWidth, contentHeight)
	if parent := stack.Parent(); parent != nil && layout.parentWidth > 0 {
		parent.SetSize(layout.parentWidth, contentHeight)
	}
	if m.ShowInspector {
		m.Inspector.SetSize(layout.inspectorWidth, contentHeight)
	}
}
