// Package evidence assembles the deterministic evidence envelope of
// spec.md §4.8: canonicalize each policy's collected data, frame it, and
// hash it with SHA-256.
package evidence

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/escanio/escan-core/domain/entities"
)

// Build assembles an EvidenceEnvelope from a batch's policy outcomes and
// computes its evidence_hash. started and completed are Unix seconds
// marking when the scan began and ended (spec.md §3 EvidenceEnvelope.
// StartedAt/CompletedAt).
func Build(resultID, agentID, hostID string, started, completed int64, policies []entities.PolicyOutcome) (*entities.EvidenceEnvelope, error) {
	hash, err := Hash(policies)
	if err != nil {
		return nil, &entities.EnvelopeError{Kind: "HashingFailed", Detail: "computing evidence_hash", Cause: err}
	}

	return &entities.EvidenceEnvelope{
		ResultID:     resultID,
		AgentID:      agentID,
		HostID:       hostID,
		StartedAt:    time.Unix(started, 0).UTC(),
		CompletedAt:  time.Unix(completed, 0).UTC(),
		EvidenceHash: hash,
		Policies:     policies,
	}, nil
}

// Hash computes "sha256:" + lowercase hex over the canonical framing of
// every policy's collected data. Policies and their collected data are
// visited in a fixed, sorted order so that reordering fields (or
// policies) never changes the hash.
func Hash(policies []entities.PolicyOutcome) (string, error) {
	h := sha256.New()

	sorted := make([]entities.PolicyOutcome, len(policies))
	copy(sorted, policies)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Identity.EspScanID < sorted[j].Identity.EspScanID
	})

	for _, policy := range sorted {
		policyID := policy.Identity.EspScanID
		data := make([]entities.CollectedData, len(policy.Evidence))
		copy(data, policy.Evidence)
		sort.Slice(data, func(i, j int) bool {
			if data[i].CtnType != data[j].CtnType {
				return data[i].CtnType < data[j].CtnType
			}
			return data[i].ObjectID < data[j].ObjectID
		})

		for _, cd := range data {
			fieldNames := make([]string, 0, len(cd.Fields))
			for name := range cd.Fields {
				fieldNames = append(fieldNames, name)
			}
			sort.Strings(fieldNames)

			for _, name := range fieldNames {
				frame, err := frameRecord(policyID, cd.CtnType, cd.ObjectID, name, cd.Fields[name])
				if err != nil {
					return "", err
				}
				if _, err := h.Write(frame); err != nil {
					return "", err
				}
			}
		}
	}

	return "sha256:" + hex.EncodeToString(h.Sum(nil)), nil
}

// frameRecord builds the "policy_id || ctn_type || object_id ||
// field_name || field_value" frame for one field, with field_value
// canonicalized per canonicalizeValue.
func frameRecord(policyID, ctnType, objectID, fieldName string, value entities.Value) ([]byte, error) {
	canonical, err := canonicalizeValue(value)
	if err != nil {
		return nil, err
	}
	frame := norm.NFC.String(policyID) + "\x00" +
		norm.NFC.String(ctnType) + "\x00" +
		norm.NFC.String(objectID) + "\x00" +
		norm.NFC.String(fieldName) + "\x00" +
		canonical
	return []byte(frame), nil
}

// canonicalizeValue renders a Value deterministically: strings are
// normalized to NFC, numbers use a fixed textual form, and record data
// is recursively canonicalized with mapping keys sorted and sequence
// order preserved.
func canonicalizeValue(v entities.Value) (string, error) {
	switch v.Kind {
	case entities.KindString, entities.KindVersion, entities.KindEVR:
		return norm.NFC.String(v.String()), nil
	case entities.KindInt:
		return strconv.FormatInt(v.Int, 10), nil
	case entities.KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64), nil
	case entities.KindBool:
		return strconv.FormatBool(v.Bool), nil
	case entities.KindBinary:
		return hex.EncodeToString(v.Binary), nil
	case entities.KindRecord:
		return canonicalizeRecord(v.Record)
	default:
		return "", &entities.EnvelopeError{Kind: "SerializationFailed", Detail: fmt.Sprintf("unknown value kind %v", v.Kind)}
	}
}

func canonicalizeRecord(r *entities.RecordData) (string, error) {
	if r == nil {
		return "null", nil
	}
	switch r.Kind {
	case entities.RecordKindMap:
		names := make([]string, len(r.Fields))
		byName := make(map[string]entities.Value, len(r.Fields))
		for i, f := range r.Fields {
			names[i] = f.Name
			byName[f.Name] = f.Value
		}
		sort.Strings(names)

		out := "{"
		for i, name := range names {
			if i > 0 {
				out += ","
			}
			val, err := canonicalizeValue(byName[name])
			if err != nil {
				return "", err
			}
			out += norm.NFC.String(name) + ":" + val
		}
		return out + "}", nil
	case entities.RecordKindSeq:
		out := "["
		for i, item := range r.Items {
			if i > 0 {
				out += ","
			}
			val, err := canonicalizeValue(item)
			if err != nil {
				return "", err
			}
			out += val
		}
		return out + "]", nil
	default:
		return "", &entities.EnvelopeError{Kind: "SerializationFailed", Detail: "unknown record kind"}
	}
}
