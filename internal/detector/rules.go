package detector

// Finding types emitted by the built-in rules.
const (
	TypeFailedLogin         = "Failed Login Attempt"
	TypeBruteForce          = "Brute Force Attempt"
	TypePrivilegeEscalation = "Privilege Escalation Attempt"
	TypeInvalidUser         = "Invalid User Login Attempt"
	TypeWindowsLogonFailure = "Windows Logon Failure"
	TypeExplicitCredentials = "Explicit Credential Logon"
	TypeSpecialPrivileges   = "Special Privileges Assigned"
)

// Rule describes one finding type: its fixed severity and remediation.
type Rule struct {
	Type           string
	Severity       int
	Recommendation string
}

// DefaultRules returns the built-in finding catalog in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Type:           TypeFailedLogin,
			Severity:       3,
			Recommendation: "Verify the login attempt with the account owner and review authentication logs for repeated failures.",
		},
		{
			Type:           TypeBruteForce,
			Severity:       5,
			Recommendation: "Block the source IP at the firewall, enable account lockout or fail2ban, and require key-based authentication.",
		},
		{
			Type:           TypePrivilegeEscalation,
			Severity:       4,
			Recommendation: "Review sudoers entries for the user and confirm the attempt was authorized.",
		},
		{
			Type:           TypeInvalidUser,
			Severity:       2,
			Recommendation: "Check whether the source is scanning for account names and consider restricting SSH access by network.",
		},
		{
			Type:           TypeWindowsLogonFailure,
			Severity:       4,
			Recommendation: "Investigate the account and source workstation; enable account lockout policy if not already set.",
		},
		{
			Type:           TypeExplicitCredentials,
			Severity:       5,
			Recommendation: "Confirm the process that supplied explicit credentials; this pattern is common in lateral movement.",
		},
		{
			Type:           TypeSpecialPrivileges,
			Severity:       4,
			Recommendation: "Confirm the logon was expected to receive administrative privileges.",
		},
	}
}

// windowsRuleTypes maps Security-channel event ids to finding types.
var windowsRuleTypes = map[int]string{
	4625: TypeWindowsLogonFailure,
	4648: TypeExplicitCredentials,
	4672: TypeSpecialPrivileges,
}
