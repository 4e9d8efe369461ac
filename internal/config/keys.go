package config

import (
	"os"
)

// Environment variables that carry static AWS credentials.
const (
	EnvAccessKeyID     = "AWS_ACCESS_KEY_ID"
	EnvSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
)

// CredentialSource represents where AWS credentials were detected.
type CredentialSource string

const (
	CredentialSourceEnv     CredentialSource = "environment"
	CredentialSourcePartial CredentialSource = "environment (partial)"
	CredentialSourceNone    CredentialSource = "none"
)

// GetCredentialSource reports which of the AWS credential variables are set.
func GetCredentialSource() CredentialSource {
	id := os.Getenv(EnvAccessKeyID) != ""
	secret := os.Getenv(EnvSecretAccessKey) != ""
	switch {
	case id && secret:
		return CredentialSourceEnv
	case id || secret:
		return CredentialSourcePartial
	default:
		return CredentialSourceNone
	}
}

// MockMode reports whether the gateway should run without AWS. It is true
// only when neither credential variable is set; a partial pair still goes
// to Bedrock and lets the AWS chain resolve or reject it.
func MockMode() bool {
	return GetCredentialSource() == CredentialSourceNone
}

// MaskKey returns a masked version of a credential for display.
// Shows the first 4 and last 4 characters.
func MaskKey(key string) string {
	if key == "" {
		return "(not set)"
	}

	if len(key) <= 12 {
		return "***"
	}

	return key[:4] + "..." + key[len(key)-4:]
}
