package memory

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"testing"

	"github.com/awbwapp/replay/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildExport(t *testing.T) {
	r := testReplay(1001, "Test Match")
	r.Turns[0].Buildings[core.Vec2{X: 1, Y: 4}] = core.Building{ID: 2, Position: core.Vec2{X: 1, Y: 4}}
	r.Turns[0].Units[3] = core.Unit{ID: 3, PlayerID: 100, Position: &core.Vec2{X: 0, Y: 0}}

	export := BuildExport(r)

	require.Len(t, export.Players, 1)
	assert.Equal(t, "100", export.Players[0].TeamName)

	turn := export.Turns[0]
	require.Len(t, turn.Buildings, 2)
	assert.Equal(t, 2, turn.Buildings[0].ID, "ordered by row then column")
	require.Len(t, turn.Units, 2)
	assert.Equal(t, 3, turn.Units[0].ID, "ordered by id")
	assert.Equal(t, core.Vec2{X: 5, Y: 6}, turn.Units[1].Position)
	assert.Nil(t, turn.Weather)
}

func TestWriteExport_ActionEnvelope(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExport(&buf, BuildExport(testReplay(1, "x")), false))

	var raw struct {
		Turns []struct {
			Actions []map[string]any `json:"actions"`
		} `json:"turns"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))

	actions := raw.Turns[0].Actions
	require.Len(t, actions, 2)
	assert.Equal(t, "Delete", actions[0]["kind"])
	assert.Equal(t, map[string]any{"unitId": float64(9)}, actions[0]["data"])
	assert.Equal(t, "Empty", actions[1]["kind"])
	assert.Equal(t, map[string]any{}, actions[1]["data"])
}

func TestWriteExport_RoundTripsActions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExport(&buf, BuildExport(testReplay(1, "x")), true))

	var export ReplayExport
	gz, err := gzip.NewReader(&buf)
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(gz).Decode(&export))

	assert.Equal(t, []ActionJSON{
		{Kind: "Delete", Data: core.DeleteUnitAction{UnitID: 9}},
		{Kind: "Empty", Data: core.EmptyAction{}},
	}, export.Turns[0].Actions)
}

func TestActionJSON_UnknownKind(t *testing.T) {
	var a ActionJSON
	assert.Error(t, json.Unmarshal([]byte(`{"kind":"Dance","data":{}}`), &a))
}

func TestExportFileName(t *testing.T) {
	tests := []struct {
		name     string
		compress bool
		want     string
	}{
		{"Plain", false, "1_Plain.json"},
		{"a/b:c d", false, "1_a_b_c_d.json"},
		{"zipped", true, "1_zipped.json.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, exportFileName(testReplay(1, tt.name), tt.compress))
		})
	}
}
