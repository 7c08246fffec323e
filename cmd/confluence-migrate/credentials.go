package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/toothbrush/confluence-migrate/confluence"
)

const (
	sourceTokenEnv = "CONFLUENCE_SOURCE_TOKEN"
	destTokenEnv   = "CONFLUENCE_DEST_TOKEN"
)

// resolveToken runs tokenCmd and returns the first line of its output.  Without a command, the
// token is read from envVar instead.
func resolveToken(which string, tokenCmd []string, envVar string) (string, error) {
	if len(tokenCmd) == 0 {
		token := strings.TrimSpace(os.Getenv(envVar))
		if token == "" {
			return "", fmt.Errorf("confluence-migrate: no %s token: please provide --%s-token-cmd or set %s", which, which, envVar)
		}
		return token, nil
	}

	out, err := exec.Command(tokenCmd[0], tokenCmd[1:]...).Output()
	if err != nil {
		return "", fmt.Errorf("confluence-migrate: couldn't execute %s-token-cmd '%v': %w", which, tokenCmd, err)
	}

	return strings.TrimSpace(strings.Split(string(out), "\n")[0]), nil
}

func sourceCredentials() (confluence.Credentials, error) {
	token, err := resolveToken("source", SourceTokenCmd, sourceTokenEnv)
	if err != nil {
		return confluence.Credentials{}, err
	}
	return confluence.Credentials{
		Instance: SourceInstance,
		Username: SourceUsername,
		Token:    token,
	}, nil
}

func destinationCredentials() (confluence.Credentials, error) {
	token, err := resolveToken("dest", DestTokenCmd, destTokenEnv)
	if err != nil {
		return confluence.Credentials{}, err
	}
	return confluence.Credentials{
		Instance: DestInstance,
		Username: DestUsername,
		Token:    token,
	}, nil
}
