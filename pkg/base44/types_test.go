package base44_test

import (
	"encoding/json"
	"testing"

	"github.com/base44-io/base44-client/pkg/base44"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntity_Helpers(t *testing.T) {
	t.Parallel()

	entity := base44.Entity{
		"id":       "t1",
		"title":    "first",
		"priority": float64(3),
	}

	assert.Equal(t, "t1", entity.ID())
	assert.Equal(t, "first", entity.String("title"))

	// Absent and non-string fields read as empty.
	assert.Empty(t, entity.String("missing"))
	assert.Empty(t, entity.String("priority"))
	assert.Empty(t, base44.Entity{}.ID())
}

func TestUser_Unmarshal(t *testing.T) {
	t.Parallel()

	payload := `{
		"id": "u1",
		"email": "dev@example.com",
		"full_name": "Dev Eloper",
		"role": "admin",
		"disabled": false,
		"custom_field": "ignored by the typed view"
	}`

	var user base44.User

	require.NoError(t, json.Unmarshal([]byte(payload), &user))
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "dev@example.com", user.Email)
	assert.Equal(t, "Dev Eloper", user.FullName)
	assert.Equal(t, "admin", user.Role)
	assert.False(t, user.Disabled)
}
