package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hejijunhao/logsentry/internal/model"
	"github.com/hejijunhao/logsentry/internal/testdata"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    model.Format
	}{
		{"syslog", "Mar 10 10:00:00 host1 sshd[123]: hello", model.FormatSyslog},
		{"syslog single digit day", "Mar  9 23:59:59 host2 systemd[1]: Started", model.FormatSyslog},
		{"syslog on later line", "garbage\nJan 01 00:00:00 box cron: tick", model.FormatSyslog},
		{"xml namespace", `<Event xmlns="http://schemas.microsoft.com/win/2004/08/events/event"></Event>`, model.FormatWindowsEvent},
		{"events wrapper", "<Events>\n</Events>", model.FormatWindowsEvent},
		{"bare event tag", "<Event><Message>x</Message></Event>", model.FormatWindowsEvent},
		{"xml wins over syslog", "Mar 10 10:00:00 host1 x: y\n<Event>", model.FormatWindowsEvent},
		{"prose", "The quick brown fox jumps over the lazy dog.\nNothing to see.", model.FormatUnknown},
		{"empty", "", model.FormatUnknown},
		{"csv is never sniffed", "date,host,message\n2024-01-01,a,b", model.FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.content))
		})
	}
}

func TestDetectSamples(t *testing.T) {
	assert.Equal(t, model.FormatSyslog, Detect(testdata.AuthLog))
	assert.Equal(t, model.FormatWindowsEvent, Detect(testdata.SecurityXML))
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, model.FormatCSV, FormatForPath("/tmp/export.CSV"))
	assert.Equal(t, model.FormatCSV, FormatForPath("export.csv.gz"))
	assert.Equal(t, model.FormatWindowsEvent, FormatForPath("security.evtx"))
	assert.Equal(t, model.FormatWindowsEvent, FormatForPath("security.xml"))
	assert.Equal(t, model.FormatUnknown, FormatForPath("/var/log/auth.log"))
	assert.Equal(t, model.FormatUnknown, FormatForPath("messages"))
}

func TestResolve(t *testing.T) {
	syslog := "Mar 10 10:00:00 host1 sshd[123]: hello"

	assert.Equal(t, model.FormatCSV, Resolve(model.FormatCSV, "auth.log", syslog), "explicit choice wins")
	assert.Equal(t, model.FormatCSV, Resolve(model.FormatUnknown, "auth.csv", syslog), "extension beats content")
	assert.Equal(t, model.FormatSyslog, Resolve(model.FormatUnknown, "auth.log", syslog))
	assert.Equal(t, model.FormatUnknown, Resolve(model.FormatUnknown, "notes.txt", "plain prose"))
}
