package playback

import (
	"testing"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/models"
	"github.com/stretchr/testify/assert"
)

func orderTypes(order []ComponentPriority) []models.ComponentType {
	types := make([]models.ComponentType, 0, len(order))
	for _, c := range order {
		types = append(types, c.Type)
	}

	return types
}

func TestComponentOrder(t *testing.T) {
	tests := []struct {
		name  string
		order models.ExecutionOrder
		want  []models.ComponentType
	}{
		{
			name:  "defaults",
			order: models.DefaultExecutionOrder(),
			want: []models.ComponentType{
				models.ComponentTypePOI, models.ComponentTypeZone,
				models.ComponentTypeLayer, models.ComponentTypeTimeline,
			},
		},
		{
			name:  "zone first",
			order: models.ExecutionOrder{POI: 2, Zone: 1, Layer: 3, Timeline: 4},
			want: []models.ComponentType{
				models.ComponentTypeZone, models.ComponentTypePOI,
				models.ComponentTypeLayer, models.ComponentTypeTimeline,
			},
		},
		{
			name:  "reversed",
			order: models.ExecutionOrder{POI: 4, Zone: 3, Layer: 2, Timeline: 1},
			want: []models.ComponentType{
				models.ComponentTypeTimeline, models.ComponentTypeLayer,
				models.ComponentTypeZone, models.ComponentTypePOI,
			},
		},
		{
			name:  "ties keep declaration order",
			order: models.ExecutionOrder{POI: 5, Zone: 5, Layer: 1, Timeline: 5},
			want: []models.ComponentType{
				models.ComponentTypeLayer, models.ComponentTypePOI,
				models.ComponentTypeZone, models.ComponentTypeTimeline,
			},
		},
		{
			name:  "all equal",
			order: models.ExecutionOrder{},
			want: []models.ComponentType{
				models.ComponentTypePOI, models.ComponentTypeZone,
				models.ComponentTypeLayer, models.ComponentTypeTimeline,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderTypes(ComponentOrder(tt.order)))
		})
	}
}

func TestComponentOrder_KeepsPriorities(t *testing.T) {
	order := ComponentOrder(models.ExecutionOrder{POI: 7, Zone: 3, Layer: 9, Timeline: 1})

	assert.Equal(t, ComponentPriority{Type: models.ComponentTypeTimeline, Priority: 1}, order[0])
	assert.Equal(t, ComponentPriority{Type: models.ComponentTypeLayer, Priority: 9}, order[3])
}
