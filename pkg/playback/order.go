package playback

import (
	"sort"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/models"
)

// ComponentPriority pairs a component type with the priority it was given.
type ComponentPriority struct {
	Type     models.ComponentType
	Priority int
}

// ComponentOrder sorts the four component types by ascending priority. Ties keep the
// declaration order POI, Zone, Layer, Timeline.
func ComponentOrder(order models.ExecutionOrder) []ComponentPriority {
	components := []ComponentPriority{
		{Type: models.ComponentTypePOI, Priority: order.POI},
		{Type: models.ComponentTypeZone, Priority: order.Zone},
		{Type: models.ComponentTypeLayer, Priority: order.Layer},
		{Type: models.ComponentTypeTimeline, Priority: order.Timeline},
	}

	sort.SliceStable(components, func(i, j int) bool {
		return components[i].Priority < components[j].Priority
	})

	return components
}
