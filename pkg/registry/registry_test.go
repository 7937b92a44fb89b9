package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	reg := Default()

	require.Len(t, reg.Tasks, 4)
	for _, taskType := range []string{"locate-source", "scrape-live-data", "enrich-place", "enrich-itinerary"} {
		task := reg.FindTask(taskType)
		require.NotNil(t, task, "task %s missing from default catalog", taskType)
		assert.Equal(t, "enrichment", task.Category)
		assert.NotEmpty(t, task.InputSchema)
	}

	assert.Nil(t, reg.FindTask("no-such-task"))
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "task-registry.json")

	require.NoError(t, Default().Save(path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Version, loaded.Version)
	require.NotNil(t, loaded.FindTask("enrich-itinerary"))
	assert.Contains(t, loaded.FindTask("enrich-itinerary").ErrorCodes, "VALIDATION_FAILED")
}

func TestLoadRegistryMissingFile(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
