package view_test

import (
	"sync"
	"testing"

	"github.com/javivarba/chatbots/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_InitialState(t *testing.T) {
	doc := view.NewDocument()

	assert.False(t, doc.HasClass(view.StatsSectionID, view.HiddenClass))
	assert.True(t, doc.HasClass(view.AppointmentsSectionID, view.HiddenClass))
	assert.True(t, doc.HasClass(view.ConversationModalID, view.HiddenClass))
	assert.True(t, doc.HasClass(view.StatsButtonID, view.ActiveClass))
	assert.False(t, doc.HasClass(view.AppointmentsButtonID, view.ActiveClass))
	assert.Equal(t, uint64(0), doc.Version())

	snapshot := doc.Snapshot()
	require.Len(t, snapshot, len(view.ElementIDs))
	for i, id := range view.ElementIDs {
		assert.Equal(t, id, snapshot[i].ID)
	}
}

func TestDocument_Mutations(t *testing.T) {
	t.Run("set inner html notifies listeners once per change", func(t *testing.T) {
		doc := view.NewDocument()

		var changes []view.Element
		doc.Subscribe(func(el view.Element) { changes = append(changes, el) })

		doc.SetInnerHTML(view.LeadsBodyID, "<tr></tr>")
		doc.SetInnerHTML(view.LeadsBodyID, "<tr></tr>")

		require.Len(t, changes, 1)
		assert.Equal(t, view.LeadsBodyID, changes[0].ID)
		assert.Equal(t, "<tr></tr>", changes[0].HTML)
		assert.Equal(t, uint64(1), changes[0].Version)
		assert.Equal(t, uint64(1), doc.Version())
	})

	t.Run("toggle class adds and removes", func(t *testing.T) {
		doc := view.NewDocument()

		doc.AddClass(view.ConversationModalID, view.HiddenClass)
		assert.Equal(t, uint64(0), doc.Version())

		doc.RemoveClass(view.ConversationModalID, view.HiddenClass)
		assert.False(t, doc.HasClass(view.ConversationModalID, view.HiddenClass))

		doc.ToggleClass(view.ConversationModalID, view.HiddenClass, true)
		assert.True(t, doc.HasClass(view.ConversationModalID, view.HiddenClass))
		assert.Equal(t, uint64(2), doc.Version())
	})

	t.Run("element returns a copy", func(t *testing.T) {
		doc := view.NewDocument()

		el, ok := doc.Element(view.StatsButtonID)
		require.True(t, ok)
		el.Classes[0] = "mutated"

		assert.True(t, doc.HasClass(view.StatsButtonID, view.ActiveClass))

		_, ok = doc.Element("missing")
		assert.False(t, ok)
	})

	t.Run("concurrent writers keep a consistent version", func(t *testing.T) {
		doc := view.NewDocument()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				doc.SetInnerHTML(view.StatsContainerID, string(rune('a'+i%26))+"-"+string(rune('A'+i/26)))
			}(i)
		}
		wg.Wait()

		assert.Equal(t, uint64(50), doc.Version())
	})
}
