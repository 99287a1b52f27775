package htmlpolicy

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAcceptsAllowedFragment(t *testing.T) {
	input := `<h3>Terms</h3><p>Please read <em>carefully</em> and see ` +
		`<a href="https://example.edu/terms" title="full text">the full text</a>.</p>` +
		`<ul><li>One</li><li>Two</li></ul>`

	if err := Validate(input); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidatePlainText(t *testing.T) {
	if err := Validate("no markup at all"); err != nil {
		t.Errorf("Validate(plain text) = %v, want nil", err)
	}
	if err := Validate(""); err != nil {
		t.Errorf("Validate(empty) = %v, want nil", err)
	}
}

func TestValidateRejectsTag(t *testing.T) {
	err := Validate(`<p>hi</p><script>alert(1)</script>`)

	var tagErr *InvalidTagError
	if !errors.As(err, &tagErr) {
		t.Fatalf("Validate() = %v, want InvalidTagError", err)
	}
	if tagErr.Tag != "script" {
		t.Errorf("Tag = %q, want %q", tagErr.Tag, "script")
	}
}

func TestValidateRejectsAttribute(t *testing.T) {
	err := Validate(`<p class="fancy">hi</p>`)

	var attrErr *InvalidAttributeError
	if !errors.As(err, &attrErr) {
		t.Fatalf("Validate() = %v, want InvalidAttributeError", err)
	}
	if attrErr.Tag != "p" || attrErr.Attribute != "class" {
		t.Errorf("got tag %q attribute %q", attrErr.Tag, attrErr.Attribute)
	}
}

func TestValidateRejectsProtocol(t *testing.T) {
	err := Validate(`<a href="http://example.edu">plain http</a>`)

	var protoErr *InvalidProtocolError
	if !errors.As(err, &protoErr) {
		t.Fatalf("Validate() = %v, want InvalidProtocolError", err)
	}
}

func TestValidateAllowsMailto(t *testing.T) {
	if err := Validate(`<a href="mailto:desk@example.edu">contact</a>`); err != nil {
		t.Errorf("Validate(mailto link) = %v, want nil", err)
	}
}

func TestSanitizeStripsDisallowedContent(t *testing.T) {
	out := Sanitize(`<p>keep</p><!-- comment --><iframe src="https://x"></iframe>`)

	if strings.Contains(out, "iframe") {
		t.Errorf("Sanitize() kept iframe: %q", out)
	}
	if strings.Contains(out, "comment") {
		t.Errorf("Sanitize() kept comment: %q", out)
	}
	if !strings.Contains(out, "<p>keep</p>") {
		t.Errorf("Sanitize() dropped allowed content: %q", out)
	}
}

func TestSanitizeRoundTripsValidContent(t *testing.T) {
	input := `<p>See <a href="https://example.edu/terms" title="full text">terms</a></p>`
	if err := Validate(input); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
	if out := Sanitize(input); out != input {
		t.Errorf("Sanitize() = %q, want unchanged %q", out, input)
	}
}
