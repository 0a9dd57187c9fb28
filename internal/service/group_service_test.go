package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/runmap-backend-go/internal/models"
	"github.com/jengzang/runmap-backend-go/internal/repository"
	"github.com/jengzang/runmap-backend-go/internal/timeutil"
)

func newGroupService(t *testing.T) *GroupService {
	return NewGroupService(repository.NewGroupRepository(openTestDB(t)), timeutil.NewMockClock(now))
}

func TestNewGroupID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewGroupID()
		assert.True(t, ValidGroupID(id), id)
		seen[id] = true
	}
	assert.Len(t, seen, 100)
}

func TestValidGroupID(t *testing.T) {
	assert.True(t, ValidGroupID("0123456789ab"))
	assert.False(t, ValidGroupID("0123456789AB"))
	assert.False(t, ValidGroupID("0123456789a"))
	assert.False(t, ValidGroupID("0123456789abc"))
	assert.False(t, ValidGroupID("../etc/passw"))
}

func TestSaveAndGetGroup(t *testing.T) {
	s := newGroupService(t)
	later := testActivity("Later", now.Add(time.Hour), 1)
	earlier := testActivity("Earlier", now, 2)

	resp, err := s.Save(models.SaveGroupRequest{
		Name:       "  Spring Block  ",
		Activities: []models.Activity{later, earlier, later},
	})
	require.NoError(t, err)
	assert.True(t, ValidGroupID(resp.ID))
	assert.Equal(t, "/group/"+resp.ID, resp.URL)

	g, err := s.Get(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spring Block", g.Name)
	assert.Equal(t, "2025-06-01T12:00:00Z", g.CreatedAt)
	require.Len(t, g.Activities, 2)
	assert.Equal(t, "Earlier", g.Activities[0].Name)
	assert.Equal(t, "Later", g.Activities[1].Name)
	assert.InDelta(t, earlier.DistanceMiles, g.Activities[0].DistanceMiles, 1e-9)
	assert.Equal(t, earlier.Bounds, g.Activities[0].Bounds)
}

func TestSaveGroupValidation(t *testing.T) {
	s := newGroupService(t)
	a := []models.Activity{testActivity("a", now, 0)}

	tests := []struct {
		name string
		req  models.SaveGroupRequest
	}{
		{"blank name", models.SaveGroupRequest{Name: "   ", Activities: a}},
		{"long name", models.SaveGroupRequest{Name: strings.Repeat("é", 256), Activities: a}},
		{"no activities", models.SaveGroupRequest{Name: "ok"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Save(tt.req)
			assert.ErrorIs(t, err, ErrInvalidGroup)
		})
	}

	_, err := s.Save(models.SaveGroupRequest{Name: strings.Repeat("é", 255), Activities: a})
	assert.NoError(t, err, "255 multi-byte characters fit")
}

func TestSaveGroupRetriesTakenID(t *testing.T) {
	s := newGroupService(t)
	ids := []string{"aaaaaaaaaaaa", "aaaaaaaaaaaa", "bbbbbbbbbbbb"}
	s.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	a := []models.Activity{testActivity("a", now, 0)}
	first, err := s.Save(models.SaveGroupRequest{Name: "one", Activities: a})
	require.NoError(t, err)
	second, err := s.Save(models.SaveGroupRequest{Name: "two", Activities: a})
	require.NoError(t, err)

	assert.Equal(t, "aaaaaaaaaaaa", first.ID)
	assert.Equal(t, "bbbbbbbbbbbb", second.ID)
}

func TestGetGroupErrors(t *testing.T) {
	s := newGroupService(t)

	_, err := s.Get("NOT-VALID")
	assert.ErrorIs(t, err, ErrInvalidGroupID)

	_, err = s.Get("abcdefabcdef")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}
