package releaseref

import "testing"

func TestParsePayloadRefRoundTrips(t *testing.T) {
	const ref = "quay.io/openshift-release-dev/ocp-release@sha256:" +
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

	r, err := ParsePayloadRef(ref)
	if err != nil {
		t.Fatalf("ParsePayloadRef(%q): %v", ref, err)
	}
	if r.Repository != "quay.io/openshift-release-dev/ocp-release" {
		t.Fatalf("unexpected repository: %s", r.Repository)
	}
	if r.String() != ref {
		t.Fatalf("String() = %s, want %s", r.String(), ref)
	}
}

func TestParsePayloadRefRejectsMissingDigest(t *testing.T) {
	if _, err := ParsePayloadRef("quay.io/openshift-release-dev/ocp-release"); err == nil {
		t.Fatal("expected error for missing @digest suffix")
	}
}

func TestParsePayloadRefRejectsMalformedDigest(t *testing.T) {
	if _, err := ParsePayloadRef("quay.io/openshift-release-dev/ocp-release@not-a-digest"); err == nil {
		t.Fatal("expected error for malformed digest")
	}
}
