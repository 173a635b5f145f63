package logsentry_test

import (
	"fmt"
	"log"

	"github.com/hejijunhao/logsentry/pkg/logsentry"
)

func Example() {
	const authLog = `Mar 10 10:00:00 host1 sshd[123]: Failed password for user=root from 10.0.0.5 port 22
Mar 10 10:00:01 host1 sshd[123]: Failed password for user=root from 10.0.0.5 port 22
Mar 10 10:00:02 host1 sshd[123]: Failed password for user=root from 10.0.0.5 port 22
`
	s := logsentry.New()
	entries, _, err := s.ParseContent("auth.log", authLog, logsentry.FormatAuto)
	if err != nil {
		log.Fatal(err)
	}

	for _, f := range s.Analyze(entries) {
		fmt.Printf("[%d] %s: %s\n", f.Severity, f.Type, f.Description)
	}
	// Output:
	// [5] Brute Force Attempt: Possible brute force attack: 3 consecutive failed password attempts from 10.0.0.5
	// [3] Failed Login Attempt: Failed login attempt for user=root from 10.0.0.5
}
