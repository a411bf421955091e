package views

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestErrorAlert(t *testing.T) {
	var buf bytes.Buffer
	if err := ErrorAlert("Row <1> failed", "Fix it", "FILE001").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render error = %v", err)
	}
	html := buf.String()

	for _, want := range []string{"Row &lt;1&gt; failed", "Fix it", "FILE001", `role="alert"`} {
		if !strings.Contains(html, want) {
			t.Errorf("alert missing %q: %s", want, html)
		}
	}
}

func TestErrorAlert_NoAction(t *testing.T) {
	var buf bytes.Buffer
	_ = ErrorAlert("Busy", "", "IMP002").Render(context.Background(), &buf)
	if strings.Contains(buf.String(), "alert-action") {
		t.Errorf("empty action should be omitted: %s", buf.String())
	}
}
