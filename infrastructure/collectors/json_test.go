package collectors_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/infrastructure/collectors"
)

func TestJSONRecord_Collect_ParsesNestedDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"users":[{"role":"user"},{"role":"admin"}]}`), 0644))

	c := collectors.NewJSONRecord("json_record")
	object := entities.ResolvedObject{ID: "obj1", Fields: map[string]entities.Value{"path": entities.StringValue(path)}}

	data, err := c.Collect(context.Background(), object, &entities.Contract{CtnType: "json_record"})
	require.NoError(t, err)

	doc := data.Fields["document"]
	require.Equal(t, entities.KindRecord, doc.Kind)
	users, ok := doc.Record.Get("users")
	require.True(t, ok)
	assert.Equal(t, entities.RecordKindSeq, users.Record.Kind)
	assert.Len(t, users.Record.Items, 2)

	keys := data.Fields["top_level_keys"]
	require.Equal(t, entities.KindRecord, keys.Kind)
	require.Len(t, keys.Record.Items, 1)
	assert.Equal(t, "users", keys.Record.Items[0].Str)
}

func TestJSONRecord_Collect_OmitsTopLevelKeysForNonObjectDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`[1, 2, 3]`), 0644))

	c := collectors.NewJSONRecord("json_record")
	object := entities.ResolvedObject{ID: "obj1", Fields: map[string]entities.Value{"path": entities.StringValue(path)}}

	data, err := c.Collect(context.Background(), object, &entities.Contract{CtnType: "json_record"})
	require.NoError(t, err)

	_, ok := data.Fields["top_level_keys"]
	assert.False(t, ok, "an array document has no top-level keys to report")
}

func TestJSONRecord_Collect_RejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not valid json`), 0644))

	c := collectors.NewJSONRecord("json_record")
	object := entities.ResolvedObject{ID: "obj1", Fields: map[string]entities.Value{"path": entities.StringValue(path)}}

	_, err := c.Collect(context.Background(), object, &entities.Contract{CtnType: "json_record"})
	require.Error(t, err)
}
