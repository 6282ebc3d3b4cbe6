package email

import (
	"strings"
	"testing"
)

func TestRenderReceipt(t *testing.T) {
	html, err := RenderReceipt(60, 1900, "pi_42", "https://listify.app")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{"60 credits", "pi_42", "$19.00", "https://listify.app/create"} {
		if !strings.Contains(html, want) {
			t.Fatalf("receipt missing %q:\n%s", want, html)
		}
	}
}
