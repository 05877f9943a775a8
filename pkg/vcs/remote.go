package vcs

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/arthur-debert/jtd/pkg/errors"
)

// Method selects how the clone URL connects to the host.
type Method string

const (
	MethodSSH   Method = "ssh"
	MethodHTTPS Method = "https"
)

type repoHost struct {
	domain      string
	sshPrefix   string
	httpsPrefix string
}

var hosts = map[string]repoHost{
	"github": {
		domain:      "github.com",
		sshPrefix:   "git@github.com:",
		httpsPrefix: "https://github.com/",
	},
	"gitlab": {
		domain:      "gitlab.com",
		sshPrefix:   "git@gitlab.com:",
		httpsPrefix: "https://gitlab.com/",
	},
}

var repoPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+/[A-Za-z0-9._-]+$`)

// HostURL expands an "owner/repo" shorthand into a clone URL for a known
// host ("github" or "gitlab").
func HostURL(host string, method Method, repo string) (string, error) {
	h, ok := hosts[strings.ToLower(host)]
	if !ok {
		return "", errors.Newf(errors.ErrInvalidInput, "unknown repository host %q (supported: github, gitlab)", host)
	}

	if !repoPattern.MatchString(repo) {
		return "", errors.Newf(errors.ErrInvalidInput, "invalid repository %q, expected owner/repo", repo)
	}

	switch method {
	case MethodSSH:
		return h.sshPrefix + repo, nil
	case MethodHTTPS:
		return h.httpsPrefix + repo, nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "unknown connection method %q", method)
	}
}

// RepoIdentity returns the canonical identity trust decisions are keyed on.
// Full URLs are used as-is; host shorthands resolve to domain/owner/repo so
// SSH and HTTPS clones of the same repository share one decision.
func RepoIdentity(host, repo string) string {
	if h, ok := hosts[strings.ToLower(host)]; ok {
		return fmt.Sprintf("%s/%s", h.domain, repo)
	}
	return repo
}
