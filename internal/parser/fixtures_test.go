package parser

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Builders for the serialized text the readers consume.

const phpNull = "N;"

func phpStr(s string) string {
	return fmt.Sprintf(`s:%d:"%s";`, len(s), s)
}

func phpInt(v int) string {
	return fmt.Sprintf("i:%d;", v)
}

func phpFloat(v float64) string {
	return "d:" + strconv.FormatFloat(v, 'f', -1, 64) + ";"
}

type kv struct {
	key, value string
}

func phpObject(class string, fields []kv) string {
	var b strings.Builder
	fmt.Fprintf(&b, `O:%d:"%s":%d:{`, len(class), class, len(fields))
	for _, f := range fields {
		b.WriteString(phpStr(f.key))
		b.WriteString(f.value)
	}
	b.WriteString("}")
	return b.String()
}

// phpArray wraps values as a zero-indexed array.
func phpArray(values ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "a:%d:{", len(values))
	for i, v := range values {
		b.WriteString(phpInt(i))
		b.WriteString(v)
	}
	b.WriteString("}")
	return b.String()
}

// set replaces the value of key, or appends it if missing.
func set(fields []kv, key, value string) []kv {
	out := append([]kv(nil), fields...)
	for i := range out {
		if out[i].key == key {
			out[i].value = value
			return out
		}
	}
	return append(out, kv{key, value})
}

func drop(fields []kv, key string) []kv {
	out := make([]kv, 0, len(fields))
	for _, f := range fields {
		if f.key != key {
			out = append(out, f)
		}
	}
	return out
}

func playerFields() []kv {
	return []kv{
		{"id", phpInt(100)},
		{"users_id", phpInt(5000)},
		{"games_id", phpInt(1001)},
		{"countries_id", phpInt(1)},
		{"co_id", phpInt(3)},
		{"funds", phpInt(1000)},
		{"turn", phpNull},
		{"email", phpNull},
		{"uniq_id", phpStr("abc")},
		{"eliminated", phpStr("N")},
		{"last_read", phpStr("2022-01-01 00:00:00")},
		{"last_read_broadcasts", phpNull},
		{"emailpress", phpStr("Y")},
		{"signature", phpNull},
		{"co_power", phpInt(0)},
		{"co_power_on", phpStr("N")},
		{"order", phpInt(0)},
		{"accept_draw", phpStr("N")},
		{"co_max_power", phpInt(270000)},
		{"co_max_spower", phpInt(450000)},
		{"co_image", phpStr("andy.png")},
		{"team", phpStr("100")},
		{"aet_count", phpInt(0)},
		{"turn_start", phpStr("2022-01-01 00:00:00")},
		{"turn_clock", phpInt(0)},
		{"tags_co_id", phpNull},
		{"tags_co_power", phpNull},
		{"tags_co_max_power", phpNull},
		{"tags_co_max_spower", phpNull},
		{"interface", phpStr("N")},
	}
}

func buildingFields() []kv {
	return []kv{
		{"id", phpInt(1)},
		{"games_id", phpInt(1001)},
		{"terrain_id", phpInt(34)},
		{"x", phpInt(3)},
		{"y", phpInt(4)},
		{"capture", phpInt(20)},
		{"last_capture", phpInt(20)},
		{"last_updated", phpStr("2022-01-01 00:00:00")},
	}
}

func unitFields() []kv {
	return []kv{
		{"id", phpInt(9)},
		{"games_id", phpInt(1001)},
		{"players_id", phpInt(100)},
		{"name", phpStr("Infantry")},
		{"movement_points", phpInt(3)},
		{"vision", phpInt(2)},
		{"fuel", phpInt(99)},
		{"fuel_per_turn", phpInt(0)},
		{"sub_dive", phpStr("N")},
		{"ammo", phpInt(0)},
		{"short_range", phpInt(0)},
		{"long_range", phpInt(0)},
		{"second_weapon", phpStr("N")},
		{"symbol", phpStr("G")},
		{"cost", phpInt(1000)},
		{"movement_type", phpStr("F")},
		{"x", phpInt(5)},
		{"y", phpInt(6)},
		{"moved", phpInt(0)},
		{"capture", phpInt(0)},
		{"fired", phpInt(0)},
		{"hit_points", phpFloat(10)},
		{"cargo1_units_id", phpInt(0)},
		{"cargo2_units_id", phpInt(0)},
		{"carried", phpStr("N")},
	}
}

func gameFields() []kv {
	return []kv{
		{"id", phpInt(1001)},
		{"name", phpStr("Test Match")},
		{"password", phpNull},
		{"creator", phpInt(7)},
		{"maps_id", phpInt(55)},
		{"players", phpArray(phpObject(classPlayer, playerFields()))},
		{"buildings", phpArray(phpObject(classBuilding, buildingFields()))},
		{"units", phpArray(phpObject(classUnit, unitFields()))},
		{"funds", phpInt(1000)},
		{"starting_funds", phpInt(0)},
		{"weather_type", phpStr("Clear")},
		{"weather_start", phpNull},
		{"weather_code", phpStr("C")},
		{"win_condition", phpNull},
		{"turn", phpInt(100)},
		{"day", phpInt(1)},
		{"active", phpStr("Y")},
		{"fog", phpStr("N")},
		{"comment", phpNull},
		{"type", phpStr("N")},
		{"boot_interval", phpInt(-1)},
		{"start_date", phpStr("2022-01-01 00:00:00")},
		{"end_date", phpNull},
		{"use_powers", phpStr("Y")},
		{"official", phpStr("N")},
		{"league", phpNull},
		{"team", phpStr("N")},
		{"aet_interval", phpInt(-1)},
		{"aet_date", phpStr("2022-01-01")},
		{"activity_date", phpStr("2022-01-01")},
		{"capture_win", phpInt(1000)},
		{"min_rating", phpInt(0)},
		{"max_rating", phpNull},
		{"timers_initial", phpInt(0)},
		{"timers_increment", phpInt(0)},
		{"timers_max_turn", phpInt(0)},
	}
}

func game(fields []kv) string {
	return phpObject(classGame, fields)
}

// twoTurns is a state stream of one player on days 1 and 2.
func twoTurns() string {
	return game(gameFields()) + "\n" + game(set(gameFields(), "day", phpInt(2)))
}

func actionBatch(playerID, day, seq int, payloads ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "p:%d;d:%d;a:a:3:{i:0;i:%d;i:1;i:%d;i:2;a:%d:{", playerID, day, playerID, seq, len(payloads))
	for i, p := range payloads {
		b.WriteString(phpInt(i))
		b.WriteString(phpStr(p))
	}
	b.WriteString("}}")
	return b.String()
}

func gzipText(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(text))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

// replayZip packs state and action streams the way replay archives do.
func replayZip(t *testing.T, state, actions string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, m := range []struct{ name, text string }{{"1001", state}, {"a1001", actions}} {
		w, err := zw.Create(m.name)
		require.NoError(t, err)
		_, err = w.Write(gzipText(t, m.text))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
