package sync_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/wordblox/pkg/errors"
	"github.com/agentstation/wordblox/pkg/logging"
	"github.com/agentstation/wordblox/pkg/sync"
	"github.com/agentstation/wordblox/pkg/wordtag"
)

func TestDefaultPolicyIsZeroValue(t *testing.T) {
	assert.Equal(t, sync.Policy{}, sync.DefaultPolicy())
	assert.Equal(t, "override/external/merge", sync.DefaultPolicy().String())
}

func TestSanitize(t *testing.T) {
	p := sync.Policy{
		ConflictMethod:  wordtag.ConflictMethod(9),
		SourcePriority:  sync.SourcePriority(-1),
		DeletionControl: sync.DeletionControl(4),
	}
	require.Error(t, p.Validate())

	got := p.Sanitize()
	assert.Equal(t, sync.DefaultPolicy(), got)
	assert.NoError(t, got.Validate())

	t.Run("valid settings survive", func(t *testing.T) {
		p := sync.Policy{
			ConflictMethod:  wordtag.Join,
			SourcePriority:  sync.SourcePriority(42),
			DeletionControl: sync.Delete,
		}
		got := p.Sanitize()
		assert.Equal(t, wordtag.Join, got.ConflictMethod)
		assert.Equal(t, sync.PriorityExternal, got.SourcePriority)
		assert.Equal(t, sync.Delete, got.DeletionControl)
	})
}

func TestParsePolicy(t *testing.T) {
	t.Run("all set", func(t *testing.T) {
		p, err := sync.ParsePolicy("Join", "CACHED", "delete")
		require.NoError(t, err)
		assert.Equal(t, sync.NewPolicy(
			sync.WithConflictMethod(wordtag.Join),
			sync.WithSourcePriority(sync.PriorityCached),
			sync.WithDeletionControl(sync.Delete),
		), p)
	})

	t.Run("empty means default", func(t *testing.T) {
		p, err := sync.ParsePolicy("", "", "")
		require.NoError(t, err)
		assert.Equal(t, sync.DefaultPolicy(), p)
	})

	for _, tc := range []struct {
		name, conflict, priority, deletion, field string
	}{
		{"bad conflict", "replace", "", "", "conflict"},
		{"bad priority", "", "local", "", "priority"},
		{"bad deletion", "", "", "purge", "deletion"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := sync.ParsePolicy(tc.conflict, tc.priority, tc.deletion)
			var valErr *errors.ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tc.field, valErr.Field)
		})
	}
}

func TestPolicyFromStrings(t *testing.T) {
	capture := logging.CaptureLoggingForTest(t)

	base := sync.NewPolicy(sync.WithDeletionControl(sync.Delete))
	p := sync.PolicyFromStrings(base, "join", "sideways", "")

	assert.Equal(t, wordtag.Join, p.ConflictMethod)
	assert.Equal(t, sync.PriorityExternal, p.SourcePriority)
	assert.Equal(t, sync.Delete, p.DeletionControl)
	capture.AssertContains(t, "Unknown source priority")
}

func TestDeletesMissing(t *testing.T) {
	assert.False(t, sync.DefaultPolicy().DeletesMissing())
	assert.True(t, sync.NewPolicy(sync.WithDeletionControl(sync.Delete)).DeletesMissing())
	assert.False(t, sync.NewPolicy(
		sync.WithDeletionControl(sync.Delete),
		sync.WithSourcePriority(sync.PriorityCached),
	).DeletesMissing())
}

func TestResultSummary(t *testing.T) {
	r := &sync.Result{Domain: "example.com", Unchanged: 2}
	assert.False(t, r.HasChanges())
	assert.Equal(t, "example.com: No changes (2 unchanged)", r.Summary())

	r.TagsCreated = 1
	r.WordsCreated = 3
	r.WordsDeleted = 1
	assert.Equal(t, 5, r.TotalChanges())
	assert.Equal(t, "example.com: 1 tags created, 3 words created, 0 updated, 1 deleted", r.Summary())
}

func TestPolicyJSON(t *testing.T) {
	p := sync.NewPolicy(sync.WithConflictMethod(wordtag.Join), sync.WithSourcePriority(sync.PriorityCached))
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"conflict":"join","priority":"cached","deletion":"merge"}`, string(data))

	var back sync.Policy
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p, back)

	assert.Error(t, json.Unmarshal([]byte(`{"deletion":"purge"}`), &back))
}
