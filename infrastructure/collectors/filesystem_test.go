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

func TestFilesystem_Collect_MetadataMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "target.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	c := collectors.NewFilesystem("file_metadata", collectors.FilesystemMetadata)
	object := entities.ResolvedObject{ID: "obj1", Fields: map[string]entities.Value{"path": entities.StringValue(path)}}

	data, err := c.Collect(context.Background(), object, &entities.Contract{CtnType: "file_metadata"})
	require.NoError(t, err)
	assert.True(t, data.Fields["exists"].Bool)
	assert.Equal(t, "0644", data.Fields["permissions"].Str)
	assert.False(t, data.Fields["is_directory"].Bool)
}

func TestFilesystem_Collect_ObjectNotFound(t *testing.T) {
	c := collectors.NewFilesystem("file_metadata", collectors.FilesystemMetadata)
	object := entities.ResolvedObject{ID: "obj1", Fields: map[string]entities.Value{"path": entities.StringValue("/does/not/exist")}}

	_, err := c.Collect(context.Background(), object, &entities.Contract{CtnType: "file_metadata"})
	require.Error(t, err)
	var collErr *entities.CollectionObjectError
	require.ErrorAs(t, err, &collErr)
	assert.Equal(t, "ObjectNotFound", collErr.Kind)
	assert.True(t, collErr.IsAbsent())
}

func TestFilesystem_Collect_ContentMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "target.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0644))

	c := collectors.NewFilesystem("file_content", collectors.FilesystemContent)
	object := entities.ResolvedObject{ID: "obj1", Fields: map[string]entities.Value{"path": entities.StringValue(path)}}

	data, err := c.Collect(context.Background(), object, &entities.Contract{CtnType: "file_content"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", data.Fields["content"].Str)
}

func TestFilesystem_Collect_ContentMode_RejectsNonUTF8WithoutBinaryMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "target.bin")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x01}, 0644))

	c := collectors.NewFilesystem("file_content", collectors.FilesystemContent)
	object := entities.ResolvedObject{ID: "obj1", Fields: map[string]entities.Value{"path": entities.StringValue(path)}}

	_, err := c.Collect(context.Background(), object, &entities.Contract{CtnType: "file_content"})
	require.Error(t, err)
}

func TestFilesystem_Collect_ContentMode_BinaryModeAcceptsNonUTF8(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "target.bin")
	raw := []byte{0xff, 0xfe, 0x00, 0x01}
	require.NoError(t, os.WriteFile(path, raw, 0644))

	c := collectors.NewFilesystem("file_content", collectors.FilesystemContent)
	object := entities.ResolvedObject{
		ID:       "obj1",
		Fields:   map[string]entities.Value{"path": entities.StringValue(path)},
		Behavior: entities.BehaviorHints{BinaryMode: true},
	}

	data, err := c.Collect(context.Background(), object, &entities.Contract{CtnType: "file_content"})
	require.NoError(t, err)
	assert.Equal(t, entities.KindBinary, data.Fields["content"].Kind)
	assert.Equal(t, raw, data.Fields["content"].Binary)
}

func TestFilesystem_ValidateCtnCompatibility_RequiresPathField(t *testing.T) {
	c := collectors.NewFilesystem("file_metadata", collectors.FilesystemMetadata)
	err := c.ValidateCtnCompatibility(&entities.Contract{CtnType: "file_metadata"})
	require.Error(t, err)

	err = c.ValidateCtnCompatibility(&entities.Contract{
		CtnType:      "file_metadata",
		ObjectFields: []entities.ObjectFieldSpec{{Name: "path", Type: entities.KindString}},
	})
	require.NoError(t, err)
}
