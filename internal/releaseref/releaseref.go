// Package releaseref defines the payload-reference type a Concrete
// release's Payload field points at: a container image digest, the form
// the registry-backed scraper collaborator deals in.
package releaseref

import (
	"fmt"

	"github.com/opencontainers/go-digest"
)

// PayloadRef identifies a release payload by repository and content
// digest, e.g. "quay.io/openshift-release-dev/ocp-release@sha256:...".
type PayloadRef struct {
	Repository string
	Digest     digest.Digest
}

// ParsePayloadRef splits a "repository@digest" reference and validates
// the digest portion.
func ParsePayloadRef(ref string) (PayloadRef, error) {
	repo, dgst, err := splitRef(ref)
	if err != nil {
		return PayloadRef{}, err
	}
	parsed, err := digest.Parse(dgst)
	if err != nil {
		return PayloadRef{}, fmt.Errorf("parsing digest in %q: %w", ref, err)
	}
	return PayloadRef{Repository: repo, Digest: parsed}, nil
}

func splitRef(ref string) (repo, dgst string, err error) {
	for i := len(ref) - 1; i >= 0; i-- {
		if ref[i] == '@' {
			return ref[:i], ref[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("payload reference %q has no '@digest' suffix", ref)
}

// String renders the canonical "repository@digest" form.
func (r PayloadRef) String() string {
	return r.Repository + "@" + r.Digest.String()
}
