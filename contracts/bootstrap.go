package contracts

import (
	"log/slog"

	"github.com/escanio/escan-core/application/registry"
	"github.com/escanio/escan-core/domain/entities"
	"github.com/escanio/escan-core/domain/ports"
)

// Register installs every contract defined in this package into reg. exec
// is the sandboxed command executor used by the command-based contracts
// (k8s_resource, rpm_package); timeoutSec bounds their invocations.
//
// grants is the capability grant applied to every installed contract,
// host-side, before any of them is reachable by a scan: the registry
// rejects a contract whose RequiredCapabilities aren't covered by grants,
// and the execution engine re-checks grants against the real resource
// (path, command) each collection attempt touches. Register runs a risk
// analysis over grants first and logs it — a HIGH or CRITICAL grant is a
// host misconfiguration worth surfacing before any contract is even
// installed, not just once a scan trips over a denied access. logger may
// be nil.
func Register(reg *registry.Registry, exec ports.CommandExecutor, timeoutSec int, grants entities.GrantSet, logger *slog.Logger) error {
	if logger != nil {
		report := entities.NewSimpleRiskAnalyzer().Analyze(grants)
		logger.Info("capability grant risk assessed", "level", report.Level.String(), "factors", len(report.RiskFactors))
		for _, f := range report.RiskFactors {
			logger.Warn("capability risk factor", "level", f.Level.String(), "description", f.Description, "rule", f.Rule)
		}
	}

	install := func(collector ports.Collector, executor ports.Executor) error {
		executor.Contract().Grants = grants
		return reg.Register(collector, executor)
	}

	if err := install(FileMetadata()); err != nil {
		return err
	}

	if err := install(FileContent()); err != nil {
		return err
	}

	if err := install(TCPListener()); err != nil {
		return err
	}

	if err := install(JSONRecord()); err != nil {
		return err
	}

	if err := install(ComputedValues()); err != nil {
		return err
	}

	if err := install(K8sResource(exec, timeoutSec)); err != nil {
		return err
	}

	if err := install(RPMPackage(exec, timeoutSec)); err != nil {
		return err
	}

	return nil
}
