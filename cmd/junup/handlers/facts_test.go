package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacts_IncompleteRequest(t *testing.T) {
	clearEnv(t)

	err := Facts(context.Background(), FactsOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "host")
}

func TestFacts_MissingConfigFile(t *testing.T) {
	clearEnv(t)

	err := Facts(context.Background(), FactsOptions{
		ConfigPath: "/does/not/exist.yaml",
	})

	require.Error(t, err)
}
