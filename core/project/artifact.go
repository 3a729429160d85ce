package project

import (
	"fmt"
	"strings"

	"github.com/kfeurstein/flexion/core/model"
)

// Hourly artifact prefixes for the two model variants.
const (
	ArtifactRefHourly = "ref_hourly"
	ArtifactOptHourly = "opt_hourly"
)

const artifactExt = ".csv.gz"

// HourlyArtifactName returns the file name of one scenario's hourly profile,
// e.g. "ref_hourly_S12.csv.gz".
func HourlyArtifactName(prefix string, id model.ScenarioID) string {
	return fmt.Sprintf("%s_S%d%s", prefix, id, artifactExt)
}

// IsHourlyArtifact reports whether a file name looks like an hourly artifact.
func IsHourlyArtifact(name string) bool {
	return strings.HasSuffix(name, artifactExt) && strings.Contains(name, "_S")
}
