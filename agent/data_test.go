package agent

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillon/agentdeck/core"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestData_ReadCSV(t *testing.T) {
	source := writeFile(t, "sample.csv", "name,score,active\nada,90,true\nlin,85,false\n")

	output, err := NewData().Invoke(context.Background(), core.Payload{
		"format": "csv",
		"source": source,
	}, core.NewStepResults())
	require.NoError(t, err)

	rows, ok := output["data"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 2)

	first := rows[0].(map[string]any)
	assert.Equal(t, "ada", first["name"])
	assert.Equal(t, float64(90), first["score"])
	assert.Equal(t, true, first["active"])
}

func TestData_ReadJSON(t *testing.T) {
	source := writeFile(t, "sample.json", `{"items": [1, 2, 3]}`)

	output, err := NewData().Invoke(context.Background(), core.Payload{
		"operation": "read",
		"format":    "json",
		"source":    source,
	}, core.NewStepResults())
	require.NoError(t, err)

	data := output["data"].(map[string]any)
	assert.Len(t, data["items"], 3)
}

func TestData_ReadYAML(t *testing.T) {
	source := writeFile(t, "sample.yaml", "name: pipeline\nsteps: 4\n")

	output, err := NewData().Invoke(context.Background(), core.Payload{
		"format": "yaml",
		"source": source,
	}, core.NewStepResults())
	require.NoError(t, err)

	data := output["data"].(map[string]any)
	assert.Equal(t, "pipeline", data["name"])
	assert.Equal(t, 4, data["steps"])
}

func TestData_QuerySQLite(t *testing.T) {
	source := filepath.Join(t.TempDir(), "sample.db")
	db, err := sql.Open("sqlite", source)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE records (name TEXT, score INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO records VALUES ('ada', 90), ('lin', 85)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	output, err := NewData().Invoke(context.Background(), core.Payload{
		"operation": "query",
		"format":    "sqlite",
		"source":    source,
		"query":     "SELECT name, score FROM records ORDER BY score DESC",
	}, core.NewStepResults())
	require.NoError(t, err)

	rows := output["data"].([]any)
	require.Len(t, rows, 2)
	first := rows[0].(map[string]any)
	assert.Equal(t, "ada", first["name"])
	assert.Equal(t, float64(90), first["score"])
}

func TestData_WriteAndReadBackJSON(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.json")
	agent := NewData()

	_, err := agent.Invoke(context.Background(), core.Payload{
		"operation": "write",
		"format":    "json",
		"source":    target,
		"data":      map[string]any{"status": "done"},
	}, core.NewStepResults())
	require.NoError(t, err)

	output, err := agent.Invoke(context.Background(), core.Payload{
		"format": "json",
		"source": target,
	}, core.NewStepResults())
	require.NoError(t, err)
	assert.Equal(t, "done", output["data"].(map[string]any)["status"])
}

func TestData_WriteCSV(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.csv")

	_, err := NewData().Invoke(context.Background(), core.Payload{
		"operation": "write",
		"format":    "csv",
		"source":    target,
		"data": []any{
			map[string]any{"name": "ada", "score": float64(90)},
		},
	}, core.NewStepResults())
	require.NoError(t, err)

	raw, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "name,score\nada,90\n", string(raw))
}

func TestData_Errors(t *testing.T) {
	agent := NewData()
	ctx := context.Background()

	_, err := agent.Invoke(ctx, core.Payload{"format": "csv"}, core.NewStepResults())
	assert.ErrorContains(t, err, "source is required")

	_, err = agent.Invoke(ctx, core.Payload{"operation": "transmogrify", "source": "x"}, core.NewStepResults())
	assert.ErrorContains(t, err, "unsupported operation")

	_, err = agent.Invoke(ctx, core.Payload{"format": "parquet", "source": "x"}, core.NewStepResults())
	assert.ErrorContains(t, err, "unsupported format")

	_, err = agent.Invoke(ctx, core.Payload{"operation": "query", "format": "csv", "source": "x", "query": "y"}, core.NewStepResults())
	assert.ErrorContains(t, err, "querying not supported")
}
