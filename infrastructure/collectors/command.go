package collectors

import (
	"context"
	"strconv"
	"strings"

	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
)

// ParseFunc turns one command's stdout into collected fields.
type ParseFunc func(stdout []byte) (map[string]entities.Value, error)

// Command is the generic command collection primitive: it invokes the
// sandboxed executor with whitelisted, literal argv and hands stdout to a
// contract-specific parser (spec.md §4.7).
type Command struct {
	ctnType  string
	executor ports.CommandExecutor
	argv     func(object entities.ResolvedObject) ([]string, error)
	parse    ParseFunc
	timeout  int
}

// NewCommand builds a Command collector. argv derives the literal argv
// from a resolved object; parse turns stdout into collected fields.
func NewCommand(ctnType string, executor ports.CommandExecutor, argv func(entities.ResolvedObject) ([]string, error), parse ParseFunc, timeoutSec int) *Command {
	return &Command{ctnType: ctnType, executor: executor, argv: argv, parse: parse, timeout: timeoutSec}
}

func (c *Command) SupportedCtnTypes() []string { return []string{c.ctnType} }

func (c *Command) ValidateCtnCompatibility(contract *entities.Contract) error { return nil }

func (c *Command) Collect(ctx context.Context, object entities.ResolvedObject, contract *entities.Contract) (*entities.CollectedData, error) {
	argv, err := c.argv(object)
	if err != nil {
		return nil, &entities.CollectionObjectError{Kind: "InvalidObjectConfiguration", ObjectID: object.ID, CtnType: c.ctnType, Reason: err.Error()}
	}
	if len(argv) == 0 {
		return nil, &entities.CollectionObjectError{Kind: "InvalidObjectConfiguration", ObjectID: object.ID, CtnType: c.ctnType, Reason: "empty argv"}
	}

	timeout := c.timeout
	if object.Behavior.TimeoutSeconds > 0 {
		timeout = object.Behavior.TimeoutSeconds
	}

	result, err := c.executor.Run(ctx, ports.CommandRequest{Program: argv[0], Args: argv[1:], TimeoutSec: timeout})
	if err != nil {
		if sandboxErr, ok := err.(*entities.SandboxError); ok && sandboxErr.Kind == "CommandNotAllowed" {
			return nil, &entities.CollectionObjectError{Kind: "CommandNotAllowed", ObjectID: object.ID, CtnType: c.ctnType, Reason: sandboxErr.Detail, Cause: err}
		}
		if sandboxErr, ok := err.(*entities.SandboxError); ok && sandboxErr.Timeout() {
			return nil, &entities.CollectionObjectError{Kind: "Timeout", ObjectID: object.ID, CtnType: c.ctnType, Reason: sandboxErr.Detail, Cause: err}
		}
		return nil, &entities.CollectionObjectError{Kind: "CollectionFailed", ObjectID: object.ID, CtnType: c.ctnType, Reason: "command spawn failed", Cause: err}
	}

	if result.ExitCode != 0 {
		return nil, &entities.CollectionObjectError{Kind: "CollectionFailed", ObjectID: object.ID, CtnType: c.ctnType, Reason: "exit code " + strconv.Itoa(result.ExitCode) + ": " + string(result.Stderr)}
	}

	fields, err := c.parse(result.Stdout)
	if err != nil {
		return nil, &entities.CollectionObjectError{Kind: "CollectionFailed", ObjectID: object.ID, CtnType: c.ctnType, Reason: "parse failed", Cause: err}
	}

	return &entities.CollectedData{
		ObjectID:    object.ID,
		CtnType:     c.ctnType,
		CollectorID: "command",
		Fields:      fields,
		Method: entities.CollectionMethod{
			Type:        entities.MethodCommand,
			Description: "sandboxed command invocation",
			Target:      argv[0],
			Command:     argv,
		},
	}, nil
}

func (c *Command) CollectBatch(ctx context.Context, objects []entities.ResolvedObject, contract *entities.Contract) ([]entities.CollectionResult, error) {
	out := make([]entities.CollectionResult, 0, len(objects))
	for _, obj := range objects {
		data, err := c.Collect(ctx, obj, contract)
		if err != nil {
			out = append(out, entities.CollectionResult{ObjectID: obj.ID, Kind: entities.CollectionError, Err: err})
			continue
		}
		out = append(out, entities.CollectionResult{ObjectID: obj.ID, Kind: entities.CollectionOK, Data: data})
	}
	return out, nil
}

// ParseRPMQueryOutput parses `rpm -q --qf '%{NAME}-%{VERSION}-%{RELEASE}.%{ARCH}\n' <pkg>`
// style output of the form name-version-release.arch, splitting on the
// last two hyphen separators (ported from contract_kit's parse_rpm_output).
func ParseRPMQueryOutput(stdout []byte) (map[string]entities.Value, error) {
	line := strings.TrimSpace(strings.SplitN(string(stdout), "\n", 2)[0])
	if line == "" {
		return nil, &entities.ValidationError{Kind: "InvalidPattern", Field: "rpm_query_output", Detail: "empty rpm -q output"}
	}

	releaseArch := lastSplit(line, '-')
	nameVersion := releaseArch.head
	releaseArchPart := releaseArch.tail

	nv := lastSplit(nameVersion, '-')
	name := nv.head
	version := nv.tail

	release := releaseArchPart
	arch := ""
	if idx := strings.LastIndexByte(releaseArchPart, '.'); idx >= 0 {
		release = releaseArchPart[:idx]
		arch = releaseArchPart[idx+1:]
	}

	if name == "" || version == "" {
		return nil, &entities.ValidationError{Kind: "InvalidPattern", Field: "rpm_query_output", Detail: "could not split \"" + line + "\" into name-version-release.arch"}
	}

	return map[string]entities.Value{
		"name":    entities.StringValue(name),
		"version": entities.VersionValue(version),
		"release": entities.StringValue(release),
		"arch":    entities.StringValue(arch),
		"evr":     entities.EVRValue("0:" + version + "-" + release),
	}, nil
}

type headTail struct{ head, tail string }

func lastSplit(s string, sep byte) headTail {
	idx := strings.LastIndexByte(s, sep)
	if idx < 0 {
		return headTail{head: s, tail: ""}
	}
	return headTail{head: s[:idx], tail: s[idx+1:]}
}

var _ ports.Collector = (*Command)(nil)
