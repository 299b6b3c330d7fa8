package remote

import (
	"fmt"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/shipcheck/internal/config"
)

// Remote commands are assembled as shell strings, so every configured
// operand passes through shellquote. A container name or path containing
// single quotes must arrive on the remote side as the literal string.

// PatternCheckCommand returns the remote command that tests the container's
// combined log stream against a PCRE pattern. It exits zero iff a match is
// found. The working-directory change mirrors the deployment tooling, which
// expects commands to run from the application directory.
func PatternCheckCommand(workDir, container, pattern string) string {
	return fmt.Sprintf("cd %s && docker logs %s 2>&1 | grep -Pq -e %s",
		shellquote.Join(workDir),
		shellquote.Join(container),
		shellquote.Join(pattern))
}

// DumpCommand returns the remote command that fetches the container's log
// stream for diagnostics, either in full or as a tail.
func DumpCommand(workDir, container string, lines config.LogLines) string {
	if lines.IsFull() {
		return fmt.Sprintf("cd %s && docker logs %s 2>&1",
			shellquote.Join(workDir),
			shellquote.Join(container))
	}
	return fmt.Sprintf("cd %s && docker logs --tail %d %s 2>&1",
		shellquote.Join(workDir),
		lines.Tail(),
		shellquote.Join(container))
}
