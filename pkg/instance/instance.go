package instance

import "github.com/angelmondragon/scanpos/pkg/env"

const stationIDEnv = "SCANPOS_STATION_ID"

// GetID returns the checkout station identifier or a default value.
func GetID() string {
	return env.Get(stationIDEnv, "station-0")
}
