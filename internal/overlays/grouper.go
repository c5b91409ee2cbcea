// Package overlays partitions overlay-type layers into named display
// groups for the layer sidebar.
package overlays

import (
	"layer-timeline/internal/layers"
)

// Group is a named bucket of overlay layers with its UI collapse state
type Group struct {
	GroupName string   `json:"groupName"`
	Layers    []string `json:"layers"`
	Collapsed bool     `json:"collapsed"`
}

// ComputeGroups buckets overlay layers by their layergroup, preserving both
// the order in which groups first appear and the member order within each
// group. Each group's collapsed flag carries forward from a previous group
// of the same name, so recomputing from an unchanged layer list never
// resets the UI state.
func ComputeGroups(defs []*layers.LayerDefinition, previous []Group) []Group {
	collapsed := make(map[string]bool, len(previous))
	for _, g := range previous {
		collapsed[g.GroupName] = g.Collapsed
	}

	index := make(map[string]int)
	var groups []Group

	for _, def := range defs {
		if def == nil || def.Group != "overlays" {
			continue
		}

		name := def.LayerGroup
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{
				GroupName: name,
				Collapsed: collapsed[name],
			})
		}
		groups[i].Layers = append(groups[i].Layers, def.ID)
	}

	return groups
}
