package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"github.com/srf-tools/microphonics/internal/model"
)

// treeSeparator joins the parts of a node ID: "L1B", "L1B/02", "L1B/02/3".
const treeSeparator = "/"

// SelectionTree shows the linac, cryomodule and cavity check tree. Parent nodes
// render their derived state; a partially selected parent carries PartialMarker.
type SelectionTree struct {
	selection *model.Selection
	tree      *widget.Tree
	onChanged func()
}

// NewSelectionTree creates the tree widget over sel.
func NewSelectionTree(sel *model.Selection, onChanged func()) *SelectionTree {
	st := &SelectionTree{selection: sel, onChanged: onChanged}
	st.tree = widget.NewTree(st.childIDs, st.isBranch, st.createNode, st.updateNode)
	return st
}

// Widget returns the canvas object to place in a layout.
func (st *SelectionTree) Widget() fyne.CanvasObject {
	return st.tree
}

// Refresh redraws every node after the selection changed elsewhere.
func (st *SelectionTree) Refresh() {
	st.tree.Refresh()
}

func splitNode(id widget.TreeNodeID) []string {
	if id == "" {
		return nil
	}
	return strings.Split(id, treeSeparator)
}

func (st *SelectionTree) childIDs(id widget.TreeNodeID) []widget.TreeNodeID {
	parts := splitNode(id)
	var ids []widget.TreeNodeID
	switch len(parts) {
	case 0:
		for _, linac := range st.selection.Linacs() {
			ids = append(ids, linac.Name)
		}
	case 1:
		for _, linac := range st.selection.Linacs() {
			if linac.Name != parts[0] {
				continue
			}
			for _, cm := range linac.Cryomodules {
				ids = append(ids, id+treeSeparator+cm.Name)
			}
		}
	case 2:
		for cav := 1; cav <= model.CavitiesPerCryomodule; cav++ {
			ids = append(ids, id+treeSeparator+strconv.Itoa(cav))
		}
	}
	return ids
}

func (st *SelectionTree) isBranch(id widget.TreeNodeID) bool {
	return len(splitNode(id)) < 3
}

func (st *SelectionTree) createNode(bool) fyne.CanvasObject {
	return widget.NewCheck("", nil)
}

func (st *SelectionTree) updateNode(id widget.TreeNodeID, _ bool, obj fyne.CanvasObject) {
	check := obj.(*widget.Check)
	label, state := st.nodeState(id)
	if state == model.Partial {
		label += PartialMarker
	}

	// assigning fields directly does not fire OnChanged
	check.Text = label
	check.Checked = state == model.Checked
	check.Refresh()
	check.OnChanged = func(on bool) {
		st.Toggle(id, on)
	}
}

// nodeState returns the display label and check state of a node.
func (st *SelectionTree) nodeState(id widget.TreeNodeID) (string, model.CheckState) {
	parts := splitNode(id)
	switch len(parts) {
	case 1:
		return parts[0], st.selection.LinacState(parts[0])
	case 2:
		return "CM" + parts[1], st.selection.CryomoduleState(parts[1])
	case 3:
		cav, _ := strconv.Atoi(parts[2])
		rack, _ := model.RackForCavity(cav)
		return fmt.Sprintf("Cavity %d (rack %s)", cav, rack), st.selection.CavityState(parts[1], cav)
	}
	return id, model.Unchecked
}

// Toggle checks or unchecks a node and everything below it.
func (st *SelectionTree) Toggle(id widget.TreeNodeID, on bool) {
	parts := splitNode(id)
	var err error
	switch len(parts) {
	case 1:
		err = st.selection.SetLinac(parts[0], on)
	case 2:
		err = st.selection.SetCryomodule(parts[1], on)
	case 3:
		cav, convErr := strconv.Atoi(parts[2])
		if convErr != nil {
			return
		}
		err = st.selection.SetCavity(parts[1], cav, on)
	}
	if err != nil {
		return
	}

	st.tree.Refresh()
	if st.onChanged != nil {
		st.onChanged()
	}
}
