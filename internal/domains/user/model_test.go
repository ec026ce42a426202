package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettingsMerge_UntouchedSectionsSurvive(t *testing.T) {
	s := Settings{
		Notifications: map[string]interface{}{"email": true, "push": false},
		Privacy:       map[string]interface{}{"show_profile": true},
	}

	s.Merge(Settings{
		Notifications: map[string]interface{}{"push": true},
	})

	assert.Equal(t, map[string]interface{}{"email": true, "push": true}, s.Notifications)
	assert.Equal(t, map[string]interface{}{"show_profile": true}, s.Privacy)
	assert.Nil(t, s.Preferences)
}

func TestSettingsMerge_ShallowPerSection(t *testing.T) {
	// Nested objects are replaced wholesale, not deep-merged
	s := Settings{
		Preferences: map[string]interface{}{
			"map": map[string]interface{}{"zoom": 12, "layer": "satellite"},
		},
	}

	s.Merge(Settings{
		Preferences: map[string]interface{}{
			"map": map[string]interface{}{"zoom": 15},
		},
	})

	assert.Equal(t, map[string]interface{}{"zoom": 15}, s.Preferences["map"])
}

func TestSettingsMerge_IntoEmptySettings(t *testing.T) {
	var s Settings

	s.Merge(Settings{
		Privacy: map[string]interface{}{"show_profile": false},
	})

	assert.Equal(t, map[string]interface{}{"show_profile": false}, s.Privacy)
	assert.Nil(t, s.Notifications)
}
