package parser

import "strings"

// securityKeywords is matched as plain substrings of the lower-cased message.
// Short entries such as "su" deliberately over-match ("sue", "result"); the
// detector downstream relies on that recall.
var securityKeywords = []string{
	"fail", "error", "warning", "password", "login", "attack", "malware",
	"invalid", "intrusion", "breach", "unauthorized", "root", "admin",
	"privilege", "escalation", "injection", "xss", "sql", "brute force",
	"ddos", "exploit", "su", "auth", "preauth", "denied", "alert",
	"critical", "virus", "trojan", "worm", "spyware", "ransomware",
	"phishing", "scan", "probe", "audit", "firewall", "blocked",
}

// IsSecurityRelevant reports whether message contains any security keyword,
// ignoring case.
func IsSecurityRelevant(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range securityKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// SecurityKeywords returns a copy of the keyword list.
func SecurityKeywords() []string {
	out := make([]string, len(securityKeywords))
	copy(out, securityKeywords)
	return out
}
