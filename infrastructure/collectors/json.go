package collectors

import (
	"context"
	"fmt"
	"os"

	"github.com/buger/jsonparser"

	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
)

// JSONRecord collects a JSON document from a path object field: a generic
// record decode plus a jsonparser-derived top-level key listing (spec.md
// §4.7: "JSON record via filesystem + JSON parse").
type JSONRecord struct {
	ctnType string
}

// NewJSONRecord builds a JSONRecord collector for ctnType.
func NewJSONRecord(ctnType string) *JSONRecord {
	return &JSONRecord{ctnType: ctnType}
}

func (j *JSONRecord) SupportedCtnTypes() []string { return []string{j.ctnType} }

func (j *JSONRecord) ValidateCtnCompatibility(contract *entities.Contract) error {
	if _, ok := contract.ObjectFieldSpecByName("path"); !ok {
		return fmt.Errorf("collectors: contract %s has no \"path\" object field for the json_record primitive", contract.CtnType)
	}
	return nil
}

func (j *JSONRecord) Collect(ctx context.Context, object entities.ResolvedObject, contract *entities.Contract) (*entities.CollectedData, error) {
	pathVal, ok := object.Fields["path"]
	if !ok {
		return nil, &entities.CollectionObjectError{Kind: "InvalidObjectConfiguration", ObjectID: object.ID, CtnType: j.ctnType, Reason: "object has no path field"}
	}
	path := pathVal.Str

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &entities.CollectionObjectError{Kind: "ObjectNotFound", ObjectID: object.ID, CtnType: j.ctnType, Reason: path, Cause: err}
		}
		return nil, &entities.CollectionObjectError{Kind: "CollectionFailed", ObjectID: object.ID, CtnType: j.ctnType, Reason: path, Cause: err}
	}

	doc, err := decodeGenericJSON(raw)
	if err != nil {
		return nil, &entities.CollectionObjectError{Kind: "CollectionFailed", ObjectID: object.ID, CtnType: j.ctnType, Reason: "invalid JSON in " + path, Cause: err}
	}

	fields := map[string]entities.Value{"document": jsonToValue(doc)}
	if keys := topLevelKeys(raw); keys != nil {
		fields["top_level_keys"] = entities.RecordValue(stringSeq(keys))
	}

	return &entities.CollectedData{
		ObjectID:    object.ID,
		CtnType:     j.ctnType,
		CollectorID: "json_record",
		Fields:      fields,
		Method:      entities.CollectionMethod{Type: entities.MethodFileRead, Description: "read + parse JSON", Target: path},
	}, nil
}

// topLevelKeys lists raw's top-level object keys in document order, using
// jsonparser.ObjectEach to walk the bytes directly rather than paying for a
// full decode just to read key names. Returns nil (not an error) when raw's
// top-level value isn't an object — an array or scalar document has no
// top-level keys to report.
func topLevelKeys(raw []byte) []string {
	var keys []string
	_ = jsonparser.ObjectEach(raw, func(key, _ []byte, _ jsonparser.ValueType, _ int) error {
		keys = append(keys, string(key))
		return nil
	})
	return keys
}

// stringSeq builds a RecordData sequence of string values, in order.
func stringSeq(values []string) *entities.RecordData {
	rec := entities.NewRecordSeq()
	for _, v := range values {
		rec.Append(entities.StringValue(v))
	}
	return rec
}

func (j *JSONRecord) CollectBatch(ctx context.Context, objects []entities.ResolvedObject, contract *entities.Contract) ([]entities.CollectionResult, error) {
	out := make([]entities.CollectionResult, 0, len(objects))
	for _, obj := range objects {
		data, err := j.Collect(ctx, obj, contract)
		if err != nil {
			out = append(out, entities.CollectionResult{ObjectID: obj.ID, Kind: entities.CollectionError, Err: err})
			continue
		}
		out = append(out, entities.CollectionResult{ObjectID: obj.ID, Kind: entities.CollectionOK, Data: data})
	}
	return out, nil
}

var _ ports.Collector = (*JSONRecord)(nil)
