package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/venuemap/pkg/render/diagram"
	"github.com/matzehuels/venuemap/pkg/render/geojson"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listGroupStyle    = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// LayerPickerModel - Interactive layer and category selection
// =============================================================================

// layerSelection is the outcome of the picker.
type layerSelection struct {
	Layers      diagram.Layers
	Categories  geojson.Categories
	AutoAnchors bool
}

type toggleItem struct {
	group string
	label string
	on    bool
}

// LayerPickerModel is the bubbletea model for choosing which SVG layers and
// GeoJSON categories to generate.
type LayerPickerModel struct {
	Items     []toggleItem
	Cursor    int
	Confirmed bool
}

// Item order; selection() reads the items back by index.
const (
	itemStructure = iota
	itemMeasurements
	itemLabels
	itemMarkers
	itemRooms
	itemZones
	itemPolygons
	itemPins
	itemAnchors
	itemMetadata
	itemAutoAnchors
)

// NewLayerPickerModel creates a picker preset to the given selection.
func NewLayerPickerModel(l diagram.Layers, c geojson.Categories) LayerPickerModel {
	return LayerPickerModel{Items: []toggleItem{
		{"SVG layers", "structure", l.Structure},
		{"SVG layers", "measurements", l.Measurements},
		{"SVG layers", "labels", l.Labels},
		{"SVG layers", "markers", l.Markers},
		{"GeoJSON features", "rooms", c.Rooms},
		{"GeoJSON features", "zones", c.Zones},
		{"GeoJSON features", "polygons", c.Polygons},
		{"GeoJSON features", "pins", c.Pins},
		{"GeoJSON features", "anchors", c.Anchors},
		{"GeoJSON features", "metadata", c.Metadata},
		{"Anchors", "add suggested anchors", false},
	}}
}

func (m LayerPickerModel) Init() tea.Cmd {
	return nil
}

func (m LayerPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
			}
		case " ", "space", "x":
			m.Items = toggled(m.Items, m.Cursor)
		case "a":
			m.Items = allSet(m.Items, true)
		case "n":
			m.Items = allSet(m.Items, false)
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m LayerPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Outputs"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  n none  ⏎ generate  q quit"))
	b.WriteString("\n")

	group := ""
	for i, it := range m.Items {
		if it.group != group {
			group = it.group
			b.WriteString("\n")
			b.WriteString(listGroupStyle.Render(group))
			b.WriteString("\n")
		}

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		box := "[ ]"
		if it.on {
			box = StyleSuccess.Render("[x]")
		}
		line := fmt.Sprintf("%s%s %s", cursor, box, it.label)

		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case it.on:
			b.WriteString(listNormalStyle.Render(line))
		default:
			b.WriteString(listDimStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// Selection returns the current choice.
func (m LayerPickerModel) Selection() layerSelection {
	on := func(i int) bool { return m.Items[i].on }
	return layerSelection{
		Layers: diagram.Layers{
			Structure:    on(itemStructure),
			Measurements: on(itemMeasurements),
			Labels:       on(itemLabels),
			Markers:      on(itemMarkers),
		},
		Categories: geojson.Categories{
			Rooms:    on(itemRooms),
			Zones:    on(itemZones),
			Polygons: on(itemPolygons),
			Pins:     on(itemPins),
			Anchors:  on(itemAnchors),
			Metadata: on(itemMetadata),
		},
		AutoAnchors: on(itemAutoAnchors),
	}
}

// pickLayers runs the picker. ok is false when the user quit without
// confirming.
func pickLayers(l diagram.Layers, c geojson.Categories) (sel layerSelection, ok bool, err error) {
	final, err := tea.NewProgram(NewLayerPickerModel(l, c)).Run()
	if err != nil {
		return layerSelection{}, false, fmt.Errorf("layer picker: %w", err)
	}
	m := final.(LayerPickerModel)
	if !m.Confirmed {
		return layerSelection{}, false, nil
	}
	return m.Selection(), true, nil
}

// =============================================================================
// Helpers
// =============================================================================

// toggled returns a copy of items with item i flipped, so earlier models
// handed out by Update keep their state.
func toggled(items []toggleItem, i int) []toggleItem {
	out := append([]toggleItem(nil), items...)
	out[i].on = !out[i].on
	return out
}

func allSet(items []toggleItem, on bool) []toggleItem {
	out := append([]toggleItem(nil), items...)
	for i := range out {
		out[i].on = on
	}
	return out
}
