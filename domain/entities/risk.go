package entities

import "fmt"

// RiskLevel is the security risk level of a requested capability grant.
type RiskLevel int

const (
	RiskNone RiskLevel = iota
	RiskLow
	RiskMedium
	RiskHigh
	RiskCritical
)

func (r RiskLevel) String() string {
	switch r {
	case RiskNone:
		return "NONE"
	case RiskLow:
		return "LOW"
	case RiskMedium:
		return "MEDIUM"
	case RiskHigh:
		return "HIGH"
	case RiskCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// RiskAnalyzer assesses the risk of a policy's requested capabilities,
// informing host-side approval before a scan runs.
type RiskAnalyzer interface {
	Analyze(grants GrantSet) RiskReport
}

// RiskReport is the outcome of a risk analysis: an overall level and the
// contributing factors, most to least specific.
type RiskReport struct {
	Level       RiskLevel
	RiskFactors []RiskFactor
}

// RiskFactor describes one specific capability that contributed risk.
type RiskFactor struct {
	Level       RiskLevel
	Description string
	Rule        string
}

// SimpleRiskAnalyzer implements a fixed heuristic over GrantSet contents:
// wildcard network hosts and any command execution grant are critical,
// filesystem and key-value writes are high, filesystem reads and
// non-wildcard network access are medium, and environment variables and
// key-value reads are low.
type SimpleRiskAnalyzer struct{}

func NewSimpleRiskAnalyzer() RiskAnalyzer {
	return &SimpleRiskAnalyzer{}
}

func (a *SimpleRiskAnalyzer) Analyze(grants GrantSet) RiskReport {
	report := RiskReport{Level: RiskNone}

	addFactor := func(level RiskLevel, desc, rule string) {
		if level <= RiskNone {
			return
		}
		report.RiskFactors = append(report.RiskFactors, RiskFactor{
			Level:       level,
			Description: desc,
			Rule:        rule,
		})
		if level > report.Level {
			report.Level = level
		}
	}

	if len(grants.Network.Hosts) > 0 {
		wildcard := false
		for _, h := range grants.Network.Hosts {
			if h == "*" || h == "0.0.0.0" {
				wildcard = true
				break
			}
		}
		rule := fmt.Sprintf("network: %v:%v", grants.Network.Hosts, grants.Network.Ports)
		if wildcard {
			addFactor(RiskCritical, "unrestricted network access", rule)
		} else {
			addFactor(RiskMedium, "outbound network access", rule)
		}
	}

	if len(grants.FS.Write) > 0 {
		addFactor(RiskHigh, "filesystem write access", fmt.Sprintf("fs write: %v", grants.FS.Write))
	}
	if len(grants.FS.Read) > 0 {
		addFactor(RiskMedium, "filesystem read access", fmt.Sprintf("fs read: %v", grants.FS.Read))
	}

	if len(grants.Exec.Commands) > 0 {
		addFactor(RiskCritical, "arbitrary command execution", fmt.Sprintf("exec: %v", grants.Exec.Commands))
	}

	if len(grants.Env.Variables) > 0 {
		addFactor(RiskLow, "environment variable access", fmt.Sprintf("env: %v", grants.Env.Variables))
	}

	for _, rule := range grants.KV.Rules {
		if rule.Operation == KVOperationWrite {
			addFactor(RiskHigh, "key-value write access", fmt.Sprintf("kv write: %v", rule.Keys))
		} else {
			addFactor(RiskLow, "key-value read access", fmt.Sprintf("kv read: %v", rule.Keys))
		}
	}

	return report
}
