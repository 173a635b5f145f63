// Package logsentry parses syslog, Windows Event XML and CSV log exports and
// detects security events in them: failed logins, brute-force bursts,
// failed privilege escalation and well-known Windows Security ids.
//
// Quick start:
//
//	s := logsentry.New()
//	entries, stats, err := s.ParseFile("/var/log/auth.log", logsentry.FormatAuto)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, f := range s.Analyze(entries) {
//	    fmt.Println(f.Severity, f.Type, f.Description)
//	}
//
// Findings are ranked by severity, highest first. A Sentry is safe for
// concurrent use.
package logsentry
