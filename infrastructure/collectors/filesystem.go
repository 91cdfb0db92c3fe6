package collectors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"syscall"
	"unicode/utf8"

	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
)

// FilesystemMode selects what the filesystem primitive returns: stat
// metadata, file content, or a parsed record (spec.md §4.7).
type FilesystemMode string

const (
	FilesystemMetadata FilesystemMode = "metadata"
	FilesystemContent  FilesystemMode = "content"
	FilesystemRecord   FilesystemMode = "record"
)

// Filesystem is the generic filesystem collection primitive. Concrete CTN
// types (file_metadata, file_content) bind it with a mode; json_record is
// served by the JSONRecord collector instead.
type Filesystem struct {
	ctnType string
	mode    FilesystemMode
}

// NewFilesystem builds a Filesystem collector for one CTN type and mode.
func NewFilesystem(ctnType string, mode FilesystemMode) *Filesystem {
	return &Filesystem{ctnType: ctnType, mode: mode}
}

func (f *Filesystem) SupportedCtnTypes() []string { return []string{f.ctnType} }

func (f *Filesystem) ValidateCtnCompatibility(contract *entities.Contract) error {
	if _, ok := contract.ObjectFieldSpecByName("path"); !ok {
		return fmt.Errorf("collectors: contract %s has no \"path\" object field for the filesystem primitive", contract.CtnType)
	}
	return nil
}

func (f *Filesystem) Collect(ctx context.Context, object entities.ResolvedObject, contract *entities.Contract) (*entities.CollectedData, error) {
	pathVal, ok := object.Fields["path"]
	if !ok {
		return nil, &entities.CollectionObjectError{Kind: "InvalidObjectConfiguration", ObjectID: object.ID, CtnType: f.ctnType, Reason: "object has no path field"}
	}
	path := pathVal.Str

	var info os.FileInfo
	var err error
	if object.Behavior.FollowSymlinks {
		info, err = os.Stat(path)
	} else {
		info, err = os.Lstat(path)
	}
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &entities.CollectionObjectError{Kind: "ObjectNotFound", ObjectID: object.ID, CtnType: f.ctnType, Reason: path, Cause: err}
		}
		if errors.Is(err, os.ErrPermission) {
			return nil, &entities.CollectionObjectError{Kind: "AccessDenied", ObjectID: object.ID, CtnType: f.ctnType, Reason: path, Cause: err}
		}
		return nil, &entities.CollectionObjectError{Kind: "CollectionFailed", ObjectID: object.ID, CtnType: f.ctnType, Reason: path, Cause: err}
	}

	fields := map[string]entities.Value{}
	method := entities.CollectionMethod{Type: entities.MethodFileRead, Description: "filesystem stat/read", Target: path}

	switch f.mode {
	case FilesystemContent:
		content, err := readContent(path, object.Behavior.BinaryMode)
		if err != nil {
			return nil, &entities.CollectionObjectError{Kind: "CollectionFailed", ObjectID: object.ID, CtnType: f.ctnType, Reason: path, Cause: err}
		}
		fields["content"] = content
		setMetadataFields(fields, info, path)
	case FilesystemRecord:
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, &entities.CollectionObjectError{Kind: "CollectionFailed", ObjectID: object.ID, CtnType: f.ctnType, Reason: path, Cause: err}
		}
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return nil, &entities.CollectionObjectError{Kind: "CollectionFailed", ObjectID: object.ID, CtnType: f.ctnType, Reason: "invalid JSON in " + path, Cause: err}
		}
		fields["document"] = jsonToValue(decoded)
	default: // metadata
		setMetadataFields(fields, info, path)
	}

	return &entities.CollectedData{
		ObjectID:    object.ID,
		CtnType:     f.ctnType,
		CollectorID: "filesystem",
		Fields:      fields,
		Method:      method,
	}, nil
}

func (f *Filesystem) CollectBatch(ctx context.Context, objects []entities.ResolvedObject, contract *entities.Contract) ([]entities.CollectionResult, error) {
	out := make([]entities.CollectionResult, 0, len(objects))
	for _, obj := range objects {
		data, err := f.Collect(ctx, obj, contract)
		if err != nil {
			var collErr *entities.CollectionObjectError
			if errors.As(err, &collErr) && collErr.IsAbsent() {
				out = append(out, entities.CollectionResult{ObjectID: obj.ID, Kind: entities.CollectionAbsent, Err: err})
				continue
			}
			out = append(out, entities.CollectionResult{ObjectID: obj.ID, Kind: entities.CollectionError, Err: err})
			continue
		}
		out = append(out, entities.CollectionResult{ObjectID: obj.ID, Kind: entities.CollectionOK, Data: data})
	}
	return out, nil
}

// readContent reads a file's bytes as UTF-8 text unless binaryMode is set,
// in which case it is returned as a binary Value (spec.md §4.7). Non-UTF-8
// content without binaryMode is a collection error, not a silent binary
// fallback.
func readContent(path string, binaryMode bool) (entities.Value, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return entities.Value{}, err
	}
	if binaryMode {
		return entities.BinaryValue(raw), nil
	}
	if !utf8.Valid(raw) {
		return entities.Value{}, fmt.Errorf("content is not valid UTF-8; set binary_mode to collect it as binary")
	}
	return entities.StringValue(string(raw)), nil
}

// setMetadataFields populates the stat-derived fields of spec.md §4.7 plus
// the portable fields supplemented from original_source/ (is_directory,
// writable).
func setMetadataFields(fields map[string]entities.Value, info os.FileInfo, path string) {
	fields["exists"] = entities.BoolValue(true)
	fields["size"] = entities.IntValue(info.Size())
	fields["permissions"] = entities.StringValue(fmt.Sprintf("%04o", info.Mode().Perm()))
	fields["is_directory"] = entities.BoolValue(info.IsDir())
	fields["readable"] = entities.BoolValue(isReadable(path))
	fields["writable"] = entities.BoolValue(isWritable(path))

	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		fields["owner"] = entities.StringValue(fmt.Sprintf("%d", stat.Uid))
		fields["group"] = entities.StringValue(fmt.Sprintf("%d", stat.Gid))
	}
}

func isReadable(path string) bool {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

func isWritable(path string) bool {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

var _ ports.Collector = (*Filesystem)(nil)
