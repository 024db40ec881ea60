package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nodedialog"
	"github.com/aretw0/nodedialog/pkg/domain"
)

type nopWriter struct{}

func (*nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func mustLabel(t *testing.T, engine *nodedialog.Engine, id domain.NodeID) string {
	t.Helper()
	node, err := engine.Graph().Node(id)
	require.NoError(t, err)
	return node.Label()
}

func TestConsole_PrintsStatementsAndChoices(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole("ana", &buf, WithVars())
	assert.Equal(t, "ana", c.ID())

	c.OnStatement(map[string]string{"mood": "tired", "at": "inn"}, "Evening.")
	c.OnChoice(nil, "Room or meal?", []domain.Option{
		{Label: "Room", Connection: domain.ConnectionID{Index: 0, Gen: 1}},
		{Label: "Meal", Connection: domain.ConnectionID{Index: 1, Gen: 1}},
	}, nil)

	assert.Equal(t, "[at=inn mood=tired]\nEvening.\n? Room or meal?\n  1) Room\n  2) Meal\n", buf.String())
}

func TestConsole_Pick(t *testing.T) {
	var got domain.ConnectionID
	calls := 0
	choose := func(ctx context.Context, cid domain.ConnectionID) (*domain.ChoiceResult, error) {
		calls++
		got = cid
		return &domain.ChoiceResult{Connection: cid}, nil
	}

	c := NewConsole("ana", &nopWriter{})
	_, err := c.Pick(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrInvalidChoice, "nothing pending")

	meal := domain.ConnectionID{Index: 1, Gen: 1}
	c.OnChoice(nil, "?", []domain.Option{
		{Label: "Room", Connection: domain.ConnectionID{Index: 0, Gen: 1}},
		{Label: "Meal", Connection: meal},
	}, choose)
	require.True(t, c.Pending())

	_, err = c.Pick(context.Background(), 3)
	assert.ErrorIs(t, err, domain.ErrInvalidChoice)
	assert.True(t, c.Pending(), "out of range keeps the choice")

	_, err = c.Pick(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, meal, got)
	assert.Equal(t, 1, calls)
	assert.False(t, c.Pending())
}
